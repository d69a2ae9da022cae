// util/prof.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"sync"

	"github.com/neuralstage/globe/log"
)

// Profiler manages the optional CPU and heap profiles requested on the
// command line. The profiles are written when Cleanup is called or when
// the program is interrupted, whichever happens first.
type Profiler struct {
	cpu, mem *os.File
	lg       *log.Logger
	once     sync.Once
}

func CreateProfiler(cpu, mem string, lg *log.Logger) (*Profiler, error) {
	p := &Profiler{lg: lg}

	var err error
	if cpu != "" {
		if p.cpu, err = os.Create(cpu); err != nil {
			return nil, fmt.Errorf("%s: unable to create CPU profile file: %w", cpu, err)
		} else if err = pprof.StartCPUProfile(p.cpu); err != nil {
			p.cpu.Close()
			return nil, fmt.Errorf("unable to start CPU profile: %w", err)
		}
		lg.Infof("%s: writing CPU profile", cpu)
	}

	if mem != "" {
		if p.mem, err = os.Create(mem); err != nil {
			if p.cpu != nil {
				pprof.StopCPUProfile()
				p.cpu.Close()
			}
			return nil, fmt.Errorf("%s: unable to create memory profile file: %w", mem, err)
		}
	}

	if p.cpu != nil || p.mem != nil {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)

		go func() {
			<-sig
			p.Cleanup()
			os.Exit(0)
		}()
	}

	return p, nil
}

func (p *Profiler) Cleanup() {
	if p == nil {
		return
	}
	p.once.Do(func() {
		if p.cpu != nil {
			pprof.StopCPUProfile()
			p.cpu.Close()
		}
		if p.mem != nil {
			if err := pprof.WriteHeapProfile(p.mem); err != nil {
				p.lg.Errorf("unable to write memory profile file: %v", err)
			}
			p.mem.Close()
		}
	})
}
