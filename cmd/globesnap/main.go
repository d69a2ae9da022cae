// cmd/globesnap/main.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// globesnap renders frames of the spinning globe without a window, writing
// each one to a PNG file.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/neuralstage/globe/flight"
	"github.com/neuralstage/globe/globe"
	"github.com/neuralstage/globe/log"
	"github.com/neuralstage/globe/outline"
	"github.com/neuralstage/globe/renderer"
	"github.com/neuralstage/globe/util"

	"github.com/goforj/godump"
	"golang.org/x/sync/errgroup"
)

type options struct {
	Width, Height, DPR float32
	Frames, FPS        int
	Parallel           int
	Out                string
	Resources          string
	Record             string
	Dump               bool
}

// FrameRecord is the per-frame telemetry written with -record.
type FrameRecord struct {
	Frame   int
	RotY    float32
	Spin    float32
	Phase   string
	Marker  flight.Marker
	Opacity []float32
}

// Frames are simulated starting at a fixed time so that runs are
// reproducible.
var simStart = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func main() {
	var opts options
	flag.Func("width", "surface width in display units (default 960)", parseFloat(&opts.Width))
	flag.Func("height", "surface height in display units (default 540)", parseFloat(&opts.Height))
	flag.Func("dpr", "device pixel ratio (default 1)", parseFloat(&opts.DPR))
	flag.IntVar(&opts.Frames, "frames", 60, "number of frames to render")
	flag.IntVar(&opts.FPS, "fps", 60, "simulated frames per second")
	flag.IntVar(&opts.Parallel, "parallel", runtime.NumCPU(), "number of frames to rasterize concurrently")
	flag.StringVar(&opts.Out, "out", "frames", "directory to write PNG files to")
	flag.StringVar(&opts.Resources, "resources", "", "path to the resources directory")
	flag.StringVar(&opts.Record, "record", "", "name of a cache file to write per-frame telemetry to")
	flag.BoolVar(&opts.Dump, "dump", false, "dump the scene layout and nodes")
	logLevel := flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir := flag.String("logdir", "", "log file directory")
	flag.Parse()

	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndReportCrash()

	if err := run(opts, lg); err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFloat(v *float32) func(string) error {
	return func(s string) error {
		var f float32
		if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
			return fmt.Errorf("%s: invalid number", s)
		}
		*v = f
		return nil
	}
}

func (o *options) setDefaults() {
	if o.Width == 0 {
		o.Width = 960
	}
	if o.Height == 0 {
		o.Height = 540
	}
	if o.DPR == 0 {
		o.DPR = 1
	}
	if o.FPS <= 0 {
		o.FPS = 60
	}
	if o.Parallel <= 0 {
		o.Parallel = 1
	}
}

func (o *options) validate(e *util.ErrorLogger) {
	e.Push("options")
	defer e.Pop()

	if o.Width < 1 || o.Height < 1 {
		e.ErrorString("surface size %gx%g must be at least 1x1", o.Width, o.Height)
	}
	if o.DPR < 0.5 || o.DPR > 4 {
		e.ErrorString("device pixel ratio %g must be between 0.5 and 4", o.DPR)
	}
	if o.Frames < 0 {
		e.ErrorString("frame count %d must not be negative", o.Frames)
	}
	if o.Out == "" {
		e.ErrorString("no output directory given")
	}
}

func run(opts options, lg *log.Logger) error {
	opts.setDefaults()
	var e util.ErrorLogger
	opts.validate(&e)
	if e.HaveErrors() {
		return e.Err()
	}

	fsys, err := util.InitResources(opts.Resources)
	if err != nil {
		return fmt.Errorf("resources: %w", err)
	}
	if err := os.MkdirAll(opts.Out, 0o755); err != nil {
		return err
	}

	// The scene is advanced sequentially; each frame's state is then
	// rasterized independently. Only the outline cache is shared.
	outlines := outline.NewCache(outline.FSSource{FS: fsys, Dir: "outlines"}, lg)
	scene := globe.NewScene(globe.DefaultOptions(), outlines, lg)
	fc := flight.NewController(flight.CubicPathAnimator{}, scene, lg)
	driver := globe.NewDriver(scene, fc, nil, lg)

	surface := globe.Surface{Width: opts.Width, Height: opts.Height, DPR: opts.DPR}
	driver.Resize(simStart, surface)

	frames, records := simulate(driver, fc, opts.Frames, time.Second/time.Duration(opts.FPS))

	if opts.Dump {
		godump.Dump(scene.Layout, scene.Nodes)
	}

	if opts.Record != "" {
		if err := util.CacheStoreObject(opts.Record, records); err != nil {
			return fmt.Errorf("%s: %w", opts.Record, err)
		}
		lg.Infof("%s: wrote %d frame records", opts.Record, len(records))
	}

	return rasterize(scene, frames, surface, opts.Out, opts.Parallel, lg)
}

// simulate runs the driver for n frames of duration dt, returning the
// state to draw for each frame.
func simulate(driver *globe.Driver, fc *flight.Controller, n int, dt time.Duration) ([]globe.FrameState, []FrameRecord) {
	frames := make([]globe.FrameState, 0, n)
	records := make([]FrameRecord, 0, n)

	for i := range n {
		driver.Step(simStart.Add(time.Duration(i) * dt))

		s := driver.Scene
		frames = append(frames, s.Snapshot())
		rec := FrameRecord{
			Frame:  s.Frame,
			RotY:   s.RotY,
			Spin:   s.Spin,
			Phase:  fc.Phase().String(),
			Marker: s.Marker,
		}
		for _, nd := range s.Nodes {
			rec.Opacity = append(rec.Opacity, nd.Opacity)
		}
		records = append(records, rec)

		s.FadeNodes()
	}
	return frames, records
}

type worker struct {
	sr    *renderer.SoftwareRenderer
	icons *renderer.IconAtlas
}

func rasterize(scene *globe.Scene, frames []globe.FrameState, surface globe.Surface, dir string,
	parallel int, lg *log.Logger) error {
	fb := surface.FramebufferSize()

	workers := make(chan *worker, parallel)
	for range parallel {
		sr := renderer.NewSoftwareRenderer(fb[0], fb[1], lg)
		icons, err := renderer.NewIconAtlas(sr, lg)
		if err != nil {
			return err
		}
		icons.Refresh(surface.DPR)
		workers <- &worker{sr: sr, icons: icons}
	}
	defer func() {
		close(workers)
		for w := range workers {
			w.icons.Dispose()
			w.sr.Dispose()
		}
	}()

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, fs := range frames {
		g.Go(func() error {
			w := <-workers
			defer func() { workers <- w }()

			fn := filepath.Join(dir, fmt.Sprintf("frame-%04d.png", i))
			return w.render(scene.Fork(fs), fn)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	lg.Infof("%s: wrote %d frames", dir, len(frames))
	return nil
}

func (w *worker) render(s *globe.Scene, fn string) error {
	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)

	s.Draw(w.icons, cb)
	w.sr.RenderCommandBuffer(cb)

	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := png.Encode(f, w.sr.Image()); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", fn, err)
	}
	return f.Close()
}
