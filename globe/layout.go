// globe/layout.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"github.com/neuralstage/globe/math"
)

// Surface describes the drawing surface: its size in display (CSS)
// pixels and the device pixel ratio.
type Surface struct {
	Width, Height float32
	DPR           float32
}

// FramebufferSize returns the size of the surface in device pixels.
func (s Surface) FramebufferSize() [2]int {
	dpr := s.DPR
	if dpr <= 0 {
		dpr = 1
	}
	return [2]int{
		max(1, int(math.Round(s.Width*dpr))),
		max(1, int(math.Round(s.Height*dpr))),
	}
}

// Layout gives the placement of the globe on the surface.
type Layout struct {
	W, H   float32
	CX, CY float32
	Radius float32
}

// narrowWidth is the surface width below which the globe is drawn
// larger and higher up.
const narrowWidth = 640

func MakeLayout(s Surface) Layout {
	w, h := s.Width, s.Height
	l := Layout{W: w, H: h, CX: 0.55 * w}
	if w < narrowWidth {
		l.CY = 0.36 * h
		l.Radius = min(w, h) * 0.44
	} else {
		l.CY = 0.40 * h
		l.Radius = min(w, h) * 0.40
	}
	return l
}

func (l Layout) Center() [2]float32 {
	return [2]float32{l.CX, l.CY}
}

// SurfaceNode is a labeled marker at a fixed position on the surface.
type SurfaceNode struct {
	Label   string
	Base    [2]float32
	Opacity float32
	Radius  float32
}

const (
	NorthAmerica = "North America"
	Africa       = "Africa"

	nodeRadius = 4
	// FadeStep is the per-frame increase in a node's opacity.
	FadeStep = 0.02
)

type region struct {
	Label string
	X, Y  float32
}

var regions = []region{
	{NorthAmerica, 0.2, 0.2},
	{"Europe", 0.5, 0.15},
	{"Asia", 0.75, 0.25},
	{"South America", 0.25, 0.5},
	{Africa, 0.5, 0.45},
	{"Australia", 0.8, 0.55},
	{"Middle East", 0.6, 0.32},
}

// Hand-calibrated positions of the nodes that anchor the outline
// overlays, as fractions of the globe's radius from its center.
var (
	northAmericaOffset = [2]float32{-0.46, -0.30}
	africaOffset       = [2]float32{0.26, 0.22}
)

// MakeNodes returns the region nodes for the given layout, all initially
// transparent.
func MakeNodes(l Layout) []SurfaceNode {
	offsetX := math.Round(l.W * 0.10)

	nodes := make([]SurfaceNode, 0, len(regions))
	for _, r := range regions {
		n := SurfaceNode{Label: r.Label, Radius: nodeRadius}
		switch r.Label {
		case NorthAmerica:
			n.Base = math.Add2f(l.Center(), math.Scale2f(northAmericaOffset, l.Radius))
		case Africa:
			n.Base = math.Add2f(l.Center(), math.Scale2f(africaOffset, l.Radius))
		default:
			n.Base = [2]float32{l.W*r.X + offsetX, l.H * r.Y}
		}
		nodes = append(nodes, n)
	}
	return nodes
}
