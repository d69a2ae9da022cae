// globe/driver_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"slices"
	"testing"
	"time"

	"github.com/neuralstage/globe/flight"
	"github.com/neuralstage/globe/outline"
	"github.com/neuralstage/globe/renderer"
)

func testDriver(icons Icons) (*Driver, *flight.Controller) {
	s := NewScene(DefaultOptions(), outline.NewCache(outline.MapSource{}, nil), nil)
	fc := flight.NewController(flight.CubicPathAnimator{}, s, nil)
	return NewDriver(s, fc, icons, nil), fc
}

func TestDriverRotation(t *testing.T) {
	d, _ := testDriver(nil)
	t0 := time.Unix(5000, 0)
	d.Resize(t0, Surface{Width: 800, Height: 600, DPR: 1})

	d.Step(t0)
	if d.Scene.RotY != 0 {
		t.Errorf("first frame rotated the globe by %f", d.Scene.RotY)
	}

	d.Step(t0.Add(100 * time.Millisecond))
	if want := float32(-0.018); !near(d.Scene.RotY, want, 1e-6) {
		t.Errorf("rotation %f after 100ms, expected %f", d.Scene.RotY, want)
	}

	// Long stalls are clamped.
	d.Step(t0.Add(10 * time.Second))
	if want := float32(-0.018 - 0.045); !near(d.Scene.RotY, want, 1e-6) {
		t.Errorf("rotation %f after a stall, expected %f", d.Scene.RotY, want)
	}

	// As is time going backward.
	d.Step(t0.Add(5 * time.Second))
	if want := float32(-0.063); !near(d.Scene.RotY, want, 1e-6) {
		t.Errorf("rotation %f after going back in time, expected %f", d.Scene.RotY, want)
	}

	d.Scene.SetSpin(1)
	d.Step(t0.Add(5*time.Second + 50*time.Millisecond))
	if want := float32(-0.063 + 0.009); !near(d.Scene.RotY, want, 1e-6) {
		t.Errorf("rotation %f after reversing, expected %f", d.Scene.RotY, want)
	}
}

func TestDriverDebouncedRestart(t *testing.T) {
	d, fc := testDriver(nil)
	t0 := time.Unix(5000, 0)

	d.Resize(t0, Surface{Width: 800, Height: 600, DPR: 1})
	d.Step(t0.Add(100 * time.Millisecond))
	d.Resize(t0.Add(150*time.Millisecond), Surface{Width: 900, Height: 600, DPR: 1})
	d.Resize(t0.Add(180*time.Millisecond), Surface{Width: 1000, Height: 600, DPR: 1})

	d.Step(t0.Add(250 * time.Millisecond))
	if fc.Live() != 0 || !d.RestartPending() {
		t.Errorf("flight restarted before the resizes settled")
	}

	d.Step(t0.Add(380 * time.Millisecond))
	if fc.Live() != 1 || d.RestartPending() {
		t.Errorf("flight not restarted after the resizes settled")
	}
	if !d.Scene.Marker.Visible || d.Scene.Marker.Pos != d.Scene.NodePosition(NorthAmerica) {
		t.Errorf("marker %+v not at the start", d.Scene.Marker)
	}

	// Another resize restarts, still with a single timeline.
	d.Resize(t0.Add(time.Second), Surface{Width: 700, Height: 500, DPR: 2})
	d.Step(t0.Add(1300 * time.Millisecond))
	if fc.Live() != 1 {
		t.Errorf("%d live timelines after a second restart", fc.Live())
	}
	if d.Scene.Marker.Pos != d.Scene.NodePosition(NorthAmerica) {
		t.Errorf("restarted marker at %v, expected %v", d.Scene.Marker.Pos, d.Scene.NodePosition(NorthAmerica))
	}
}

func TestDriverSpinReversal(t *testing.T) {
	d, _ := testDriver(nil)
	t0 := time.Unix(5000, 0)
	d.Resize(t0, Surface{Width: 800, Height: 600, DPR: 1})

	now := t0
	step := func(until time.Duration) {
		for end := t0.Add(until); now.Before(end); {
			now = now.Add(16 * time.Millisecond)
			d.Step(now)
		}
	}

	step(time.Second)
	if d.Scene.Spin != -1 {
		t.Errorf("initial spin %f", d.Scene.Spin)
	}
	step(RestartDelay + flight.ReturnStart + 100*time.Millisecond)
	if d.Scene.Spin != 1 {
		t.Errorf("spin %f after the outbound leg", d.Scene.Spin)
	}
	rot := d.Scene.RotY
	step(RestartDelay + flight.ReturnStart + time.Second)
	if d.Scene.RotY <= rot {
		t.Errorf("globe did not reverse: %f -> %f", rot, d.Scene.RotY)
	}
	step(RestartDelay + flight.ReturnEnd + 100*time.Millisecond)
	if d.Scene.Spin != -1 {
		t.Errorf("spin %f after the return leg", d.Scene.Spin)
	}
}

func TestDriverFrame(t *testing.T) {
	sr := renderer.NewSoftwareRenderer(1, 1, nil)
	icons := newTestIcons(sr, 8)
	d, _ := testDriver(icons)
	t0 := time.Unix(5000, 0)
	d.Resize(t0, Surface{Width: 800, Height: 600, DPR: 2})
	if !slices.Equal(icons.refreshes, []float32{2}) {
		t.Errorf("icons refreshed with %v", icons.refreshes)
	}

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)
	for i := range 10 {
		cb.Reset()
		d.Frame(t0.Add(time.Duration(i)*16*time.Millisecond), cb)
	}
	if len(cb.Buf) == 0 {
		t.Errorf("no commands generated")
	}
	if d.Scene.Frame != 10 {
		t.Errorf("frame count %d", d.Scene.Frame)
	}
	for _, n := range d.Scene.Nodes {
		if !near(n.Opacity, 0.2, 1e-5) {
			t.Errorf("%s: opacity %f after 10 frames", n.Label, n.Opacity)
		}
	}
	if len(icons.labels) == 0 {
		t.Errorf("no labels requested")
	}

	d.Resize(t0.Add(time.Second), Surface{Width: 800, Height: 600, DPR: 0})
	if d.Scene.Surface.DPR != 1 {
		t.Errorf("missing pixel ratio not defaulted: %f", d.Scene.Surface.DPR)
	}
	for _, n := range d.Scene.Nodes {
		if n.Opacity != 0 {
			t.Errorf("%s: opacity %f after resize", n.Label, n.Opacity)
		}
	}
}

func TestDriverWithoutCapabilities(t *testing.T) {
	s := NewScene(DefaultOptions(), nil, nil)
	d := NewDriver(s, nil, nil, nil)
	t0 := time.Unix(5000, 0)
	d.Resize(t0, Surface{Width: 800, Height: 600, DPR: 1})

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)
	for i := range 30 {
		cb.Reset()
		d.Frame(t0.Add(time.Duration(i)*16*time.Millisecond), cb)
	}
	if s.Marker.Visible {
		t.Errorf("marker visible without a flight controller")
	}
	if len(cb.Buf) == 0 {
		t.Errorf("no commands generated")
	}

	fc := flight.NewController(nil, s, nil)
	d = NewDriver(s, fc, nil, nil)
	d.Resize(t0, Surface{Width: 800, Height: 600, DPR: 1})
	d.Step(t0.Add(time.Second))
	if fc.Live() != 0 || s.Marker.Visible {
		t.Errorf("flight started without a path animator")
	}
}
