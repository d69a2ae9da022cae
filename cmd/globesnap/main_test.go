// cmd/globesnap/main_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neuralstage/globe/util"
)

func TestRun(t *testing.T) {
	cacheDir := t.TempDir()
	saved := util.CacheDir
	util.CacheDir = func() (string, error) { return cacheDir, nil }
	defer func() { util.CacheDir = saved }()

	out := filepath.Join(t.TempDir(), "frames")
	opts := options{
		Width:     96,
		Height:    64,
		DPR:       2,
		Frames:    3,
		FPS:       10,
		Parallel:  2,
		Out:       out,
		Resources: "../../resources",
		Record:    "telemetry.msgpack",
	}
	if err := run(opts, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, fn := range []string{"frame-0000.png", "frame-0001.png", "frame-0002.png"} {
		f, err := os.Open(filepath.Join(out, fn))
		if err != nil {
			t.Errorf("%s: %v", fn, err)
			continue
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Errorf("%s: %v", fn, err)
		} else if b := img.Bounds(); b.Dx() != 192 || b.Dy() != 128 {
			t.Errorf("%s: image size %v, expected 192x128", fn, b)
		}
	}

	var records []FrameRecord
	if _, err := util.CacheRetrieveObject("telemetry.msgpack", &records); err != nil {
		t.Fatalf("reading records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("%d records, expected 3", len(records))
	}
	for i, rec := range records {
		if rec.Frame != i+1 {
			t.Errorf("record %d: frame %d", i, rec.Frame)
		}
		if len(rec.Opacity) != 7 {
			t.Errorf("record %d: %d node opacities", i, len(rec.Opacity))
		}
	}
	if records[0].RotY != 0 || records[1].RotY >= 0 || records[2].RotY >= records[1].RotY {
		t.Errorf("globe not spinning westward: %v %v %v", records[0].RotY, records[1].RotY, records[2].RotY)
	}
	// The flight starts once the surface has been stable for 200ms.
	if records[1].Phase != "Idle" || records[2].Phase != "FadeIn" {
		t.Errorf("phases %q %q", records[1].Phase, records[2].Phase)
	}
	if records[1].Marker.Visible || !records[2].Marker.Visible {
		t.Errorf("marker visibility %v %v", records[1].Marker.Visible, records[2].Marker.Visible)
	}
}

func TestRunErrors(t *testing.T) {
	for _, test := range []struct {
		opts options
		err  string
	}{
		{opts: options{Width: -5, Out: t.TempDir()}, err: "surface size"},
		{opts: options{DPR: 9, Out: t.TempDir()}, err: "device pixel ratio"},
		{opts: options{Frames: -1, Out: t.TempDir()}, err: "frame count"},
		{opts: options{}, err: "output directory"},
		{opts: options{Out: t.TempDir(), Resources: filepath.Join(t.TempDir(), "missing")}, err: "resources"},
	} {
		err := run(test.opts, nil)
		if err == nil || !strings.Contains(err.Error(), test.err) {
			t.Errorf("%+v: error %v, expected one mentioning %q", test.opts, err, test.err)
		}
	}
}
