// cmd/globe/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// This file contains the implementation of the main() function, which
// initializes the system and then runs the event loop until the window
// is closed.

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/neuralstage/globe/flight"
	"github.com/neuralstage/globe/globe"
	"github.com/neuralstage/globe/log"
	"github.com/neuralstage/globe/outline"
	"github.com/neuralstage/globe/platform"
	"github.com/neuralstage/globe/renderer"
	"github.com/neuralstage/globe/util"

	"github.com/apenwarr/fixconsole"
	"github.com/ncruces/zenity"
)

var (
	cpuprofile   = flag.String("cpuprofile", "", "write CPU profile to file")
	memprofile   = flag.String("memprofile", "", "write memory profile to this file")
	logLevel     = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir       = flag.String("logdir", "", "log file directory")
	resourcesDir = flag.String("resources", "", "path to the resources directory")
	vsync        = flag.Bool("vsync", true, "synchronize redraws with the display refresh")
)

func init() {
	// OpenGL and friends require that all calls be made from the primary
	// application thread, while by default, go allows the main thread to
	// run on different hardware threads over the course of
	// execution. Therefore, we must lock the main thread at startup time.
	runtime.LockOSThread()
}

func setupSignalHandler(profiler *util.Profiler) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "Caught signal, cleaning up...")
		profiler.Cleanup()
		os.Exit(0)
	}()
}

// fatal reports an error that prevents the globe from being shown at all
// and exits.
func fatal(lg *log.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	lg.Error(msg)
	fmt.Fprintln(os.Stderr, msg)
	if err := zenity.Error(msg, zenity.Title("Globe"), zenity.ErrorIcon); err != nil {
		lg.Warnf("unable to show error dialog: %v", err)
	}
	os.Exit(1)
}

func main() {
	flag.Parse()

	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		fmt.Printf("FixConsole: %v\n", err)
	}

	// Initialize the logging system first and foremost.
	lg := log.New(*logLevel, *logDir)

	profiler, err := util.CreateProfiler(*cpuprofile, *memprofile, lg)
	if err != nil {
		lg.Errorf("%v", err)
	}
	defer profiler.Cleanup()
	if *cpuprofile != "" || *memprofile != "" {
		setupSignalHandler(profiler)
	}

	defer lg.CatchAndReportCrash()

	go func() {
		t := time.Tick(15 * time.Second)
		for {
			<-t
			// Try to more aggressively return freed memory to the OS.
			debug.FreeOSMemory()
		}
	}()

	configPath := configFilePath(lg)
	config, configErr := LoadConfig(configPath, lg)

	fsys, err := util.InitResources(*resourcesDir)
	if err != nil {
		fatal(lg, "Unable to find the globe resources: %v", err)
	}

	///////////////////////////////////////////////////////////////////////////
	// Global initialization and set up.

	plat, err := platform.New(&config.Config, lg)
	if err != nil {
		fatal(lg, "Unable to create application window: %v", err)
	}
	defer plat.Dispose()

	render, err := renderer.NewOpenGL2Renderer(lg)
	if err != nil {
		fatal(lg, "Unable to initialize OpenGL: %v", err)
	}
	defer render.Dispose()

	if configErr != nil {
		lg.Errorf("Saved configuration file is unusable; using defaults: %v", configErr)
		if err := zenity.Warning(fmt.Sprintf("Saved configuration file is unusable. Discarding. (%v)", configErr),
			zenity.Title("Globe"), zenity.WarningIcon); err != nil {
			lg.Warnf("unable to show warning dialog: %v", err)
		}
	}

	// The globe is still drawn without labels and the marker if the
	// icons can't be made.
	var icons globe.Icons
	if atlas, err := renderer.NewIconAtlas(render, lg); err != nil {
		lg.Errorf("Unable to create icons: %v", err)
	} else {
		defer atlas.Dispose()
		icons = atlas
	}

	outlines := outline.NewCache(outline.FSSource{FS: fsys, Dir: "outlines"}, lg)
	scene := globe.NewScene(config.Scene, outlines, lg)
	fc := flight.NewController(flight.CubicPathAnimator{}, scene, lg)
	driver := globe.NewDriver(scene, fc, icons, lg)

	plat.OnResize(func(size [2]float32, dpiScale float32) {
		driver.Resize(time.Now(), globe.Surface{Width: size[0], Height: size[1], DPR: dpiScale})
	})
	plat.EnableVSync(*vsync)

	///////////////////////////////////////////////////////////////////////////
	// Main event / rendering loop
	lg.Info("Starting main loop")

	var stats Stats
	stats.startTime = time.Now()

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)

	for {
		plat.ProcessEvents()

		cb.Reset()
		driver.Frame(time.Now(), cb)
		stats.render = render.RenderCommandBuffer(cb)
		stats.phase = fc.Phase()
		stats.redraws++

		// Wait for vsync
		plat.PostRender()

		// Periodically log current memory use, etc.
		if stats.redraws%18000 == 9000 { // Every 5min at 60fps, starting 2.5min after launch
			lg.Info("performance", "stats", stats.LogValue())
		}

		if plat.ShouldStop() {
			fc.Cancel()
			if _, err := config.SaveIfChanged(configPath, lg); err != nil {
				lg.Errorf("Error saving configuration file: %v", err)
			}
			break
		}
	}
}
