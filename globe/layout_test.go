// globe/layout_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"testing"

	"github.com/neuralstage/globe/math"
	"github.com/neuralstage/globe/util"
)

func near(a, b, tol float32) bool {
	return math.Abs(a-b) <= tol
}

func near2(a, b [2]float32, tol float32) bool {
	return near(a[0], b[0], tol) && near(a[1], b[1], tol)
}

func TestMakeLayout(t *testing.T) {
	for _, tc := range []struct {
		s    Surface
		want Layout
	}{
		{Surface{Width: 1000, Height: 600, DPR: 1}, Layout{W: 1000, H: 600, CX: 550, CY: 240, Radius: 240}},
		{Surface{Width: 400, Height: 800, DPR: 2}, Layout{W: 400, H: 800, CX: 220, CY: 288, Radius: 176}},
		{Surface{Width: 640, Height: 640, DPR: 1}, Layout{W: 640, H: 640, CX: 352, CY: 256, Radius: 256}},
	} {
		l := MakeLayout(tc.s)
		if !near(l.CX, tc.want.CX, 1e-3) || !near(l.CY, tc.want.CY, 1e-3) || !near(l.Radius, tc.want.Radius, 1e-3) ||
			l.W != tc.want.W || l.H != tc.want.H {
			t.Errorf("%+v: got layout %+v, expected %+v", tc.s, l, tc.want)
		}
	}
}

func TestFramebufferSize(t *testing.T) {
	for _, tc := range []struct {
		s    Surface
		want [2]int
	}{
		{Surface{Width: 100.4, Height: 50, DPR: 2}, [2]int{201, 100}},
		{Surface{Width: 300, Height: 200, DPR: 1.5}, [2]int{450, 300}},
		{Surface{Width: 0, Height: 0, DPR: 2}, [2]int{1, 1}},
		{Surface{Width: 10, Height: 10}, [2]int{10, 10}},
	} {
		if fb := tc.s.FramebufferSize(); fb != tc.want {
			t.Errorf("%+v: framebuffer %v, expected %v", tc.s, fb, tc.want)
		}
	}
}

func TestMakeNodes(t *testing.T) {
	l := MakeLayout(Surface{Width: 1000, Height: 600, DPR: 1})
	nodes := MakeNodes(l)
	if len(nodes) != 7 {
		t.Fatalf("got %d nodes, expected 7", len(nodes))
	}

	pos := make(map[string][2]float32)
	for _, n := range nodes {
		if n.Opacity != 0 || n.Radius != 4 {
			t.Errorf("%s: opacity %f radius %f", n.Label, n.Opacity, n.Radius)
		}
		pos[n.Label] = n.Base
	}

	for label, want := range map[string][2]float32{
		NorthAmerica:    {439.6, 168},
		Africa:          {612.4, 292.8},
		"Europe":        {600, 90},
		"Asia":          {850, 150},
		"South America": {350, 300},
		"Australia":     {900, 330},
		"Middle East":   {700, 192},
	} {
		if p, ok := pos[label]; !ok {
			t.Errorf("%s: missing node", label)
		} else if !near2(p, want, 1e-3) {
			t.Errorf("%s: at %v, expected %v", label, p, want)
		}
	}
}

func TestFadeNodes(t *testing.T) {
	s := NewScene(DefaultOptions(), nil, nil)
	s.Relayout(Surface{Width: 800, Height: 600, DPR: 1})

	for range 10 {
		s.FadeNodes()
	}
	for _, n := range s.Nodes {
		if !near(n.Opacity, 0.2, 1e-5) {
			t.Errorf("%s: opacity %f after 10 frames", n.Label, n.Opacity)
		}
	}

	for range 39 {
		s.FadeNodes()
	}
	for _, n := range s.Nodes {
		if n.Opacity >= 1 {
			t.Errorf("%s: fully opaque after 49 frames", n.Label)
		}
	}

	s.FadeNodes()
	for _, n := range s.Nodes {
		if n.Opacity != 1 {
			t.Errorf("%s: opacity %g after 50 frames, expected exactly 1", n.Label, n.Opacity)
		}
	}

	for range 60 {
		s.FadeNodes()
	}
	for _, n := range s.Nodes {
		if n.Opacity != 1 {
			t.Errorf("%s: opacity %f after 110 frames", n.Label, n.Opacity)
		}
	}

	s.Relayout(Surface{Width: 900, Height: 600, DPR: 1})
	for _, n := range s.Nodes {
		if n.Opacity != 0 {
			t.Errorf("%s: opacity %f after relayout", n.Label, n.Opacity)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	var e util.ErrorLogger
	opts := DefaultOptions()
	opts.Validate(&e)
	if e.HaveErrors() {
		t.Errorf("default options invalid: %s", e.String())
	}

	for _, bad := range []func(*Options){
		func(o *Options) { o.SpinRate = -1 },
		func(o *Options) { o.SpinRate = 1 },
		func(o *Options) { o.StarCount = 1 },
		func(o *Options) { o.StarCount = maxStars + 1 },
		func(o *Options) { o.LabelBreakpoint = -5 },
	} {
		var e util.ErrorLogger
		opts := DefaultOptions()
		bad(&opts)
		opts.Validate(&e)
		if !e.HaveErrors() {
			t.Errorf("%+v: expected validation error", opts)
		}
		if e.CurrentDepth() != 0 {
			t.Errorf("unbalanced error context")
		}
	}
}

func TestGoldenSpiral(t *testing.T) {
	pts := goldenSpiral(1200)
	if len(pts) != 1200 {
		t.Fatalf("got %d points", len(pts))
	}
	if pts[0][1] != 1 || pts[1199][1] != -1 {
		t.Errorf("spiral should run pole to pole: %v %v", pts[0], pts[1199])
	}
	for i, p := range pts {
		if l := math.Length3f(p); !near(l, 1, 1e-4) {
			t.Errorf("point %d has length %f", i, l)
		}
	}
	if goldenSpiral(1) != nil {
		t.Errorf("expected no points for n=1")
	}
}
