// globe/state.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package globe draws a spinning wireframe globe with projected landmass
// outlines, great-circle arcs, region markers and a flight marker.
package globe

import (
	"slices"

	"github.com/neuralstage/globe/flight"
	"github.com/neuralstage/globe/log"
	"github.com/neuralstage/globe/math"
	"github.com/neuralstage/globe/outline"

	"github.com/brunoga/deep"
)

// Pitch is the fixed tilt of the globe toward the viewer, in radians.
const Pitch = -0.38

// FrameState is everything that is needed to draw a frame.
type FrameState struct {
	Options Options
	Surface Surface
	Layout  Layout

	// RotY is the accumulated spin in radians and Spin the current
	// direction of rotation, either -1 or 1.
	RotY float32
	Spin float32

	Nodes  []SurfaceNode
	Marker flight.Marker

	Frame int
}

// Scene holds the state of the globe along with the static data used to
// draw it.
type Scene struct {
	FrameState

	outlines *outline.Cache
	stars    [][3]float32
	lg       *log.Logger
}

func NewScene(opts Options, outlines *outline.Cache, lg *log.Logger) *Scene {
	return &Scene{
		FrameState: FrameState{
			Options: opts,
			Spin:    flight.SpinOutbound,
		},
		outlines: outlines,
		stars:    goldenSpiral(opts.StarCount),
		lg:       lg,
	}
}

// SetSpin sets the direction of the globe's rotation.
func (s *Scene) SetSpin(dir float32) {
	if dir < 0 {
		s.Spin = -1
	} else {
		s.Spin = 1
	}
	s.lg.Debugf("spin direction %+.0f", s.Spin)
}

// Snapshot returns a deep copy of the scene's current state.
func (s *Scene) Snapshot() FrameState {
	return deep.MustCopy(s.FrameState)
}

// Fork returns a scene that draws the given state; it shares the
// receiver's outline cache and starfield.
func (s *Scene) Fork(fs FrameState) *Scene {
	f := *s
	f.FrameState = fs
	if fs.Options.StarCount != s.Options.StarCount {
		f.stars = goldenSpiral(fs.Options.StarCount)
	}
	return &f
}

// Relayout updates the layout for a new surface and recreates the region
// nodes.
func (s *Scene) Relayout(surface Surface) {
	s.Surface = surface
	s.Layout = MakeLayout(surface)
	s.Nodes = MakeNodes(s.Layout)
}

// FadeNodes advances the fade-in of the region nodes by a frame. Nodes
// reach full opacity after exactly 1/FadeStep frames; the last step
// snaps to 1 so float32 rounding does not leave them just short of it.
func (s *Scene) FadeNodes() {
	for i := range s.Nodes {
		if op := s.Nodes[i].Opacity; op < 1 {
			if op+FadeStep >= 1-1e-4 {
				s.Nodes[i].Opacity = 1
			} else {
				s.Nodes[i].Opacity = op + FadeStep
			}
		}
	}
}

func (s *Scene) Node(label string) (SurfaceNode, bool) {
	idx := slices.IndexFunc(s.Nodes, func(n SurfaceNode) bool { return n.Label == label })
	if idx == -1 {
		return SurfaceNode{}, false
	}
	return s.Nodes[idx], true
}

// NodePosition returns the base position of the node with the given
// label or (0,0) if there is no such node.
func (s *Scene) NodePosition(label string) [2]float32 {
	n, _ := s.Node(label)
	return n.Base
}

// rotate applies the scene's current rotation to a point on the sphere.
func (s *Scene) rotate(v [3]float32) [3]float32 {
	return math.RotateSphere(v, Pitch, s.RotY)
}

func (s *Scene) project(v [3]float32) math.Projected {
	return math.ProjectToScreen(v, s.Layout.Center(), s.Layout.Radius)
}

// goldenSpiral returns n points spread evenly over the unit sphere.
func goldenSpiral(n int) [][3]float32 {
	if n < 2 {
		return nil
	}
	golden := math.Pi * (3 - math.Sqrt(5))
	pts := make([][3]float32, n)
	for i := range n {
		y := 1 - float32(i)/float32(n-1)*2
		r := math.Sqrt(max(0, 1-y*y))
		s, c := math.SinCos(golden * float32(i))
		pts[i] = [3]float32{c * r, y, s * r}
	}
	return pts
}
