// cmd/globe/stats.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/neuralstage/globe/flight"
	"github.com/neuralstage/globe/renderer"
)

// Stats collects a few statistics related to rendering.
type Stats struct {
	render    renderer.RendererStats
	phase     flight.Phase
	startTime time.Time
	redraws   int

	startupMallocs uint64
}

func (stats *Stats) LogValue() slog.Value {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	if stats.startupMallocs == 0 { // first call
		stats.startupMallocs = mem.Mallocs
	}

	elapsed := time.Since(stats.startTime).Seconds()

	return slog.GroupValue(
		slog.Float64("redraws_per_second", float64(stats.redraws)/elapsed),
		slog.Float64("mallocs_per_second", float64(mem.Mallocs-stats.startupMallocs)/elapsed),
		slog.Int64("active_mallocs", int64(mem.Mallocs-mem.Frees)),
		slog.Int64("memory_in_use", int64(mem.HeapAlloc)),
		slog.String("flight_phase", stats.phase.String()),
		slog.String("render", stats.render.String()))
}
