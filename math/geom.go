// math/geom.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import "sync"

///////////////////////////////////////////////////////////////////////////
// Extent2D

// Extent2D represents a 2D bounding box with the two vertices at its
// opposite minimum and maximum corners.
type Extent2D struct {
	P0, P1 [2]float32
}

// EmptyExtent2D returns an Extent2D representing an empty bounding box.
func EmptyExtent2D() Extent2D {
	return Extent2D{P0: [2]float32{1e30, 1e30}, P1: [2]float32{-1e30, -1e30}}
}

// Extent2DFromPoints returns an Extent2D that bounds all of the provided
// points.
func Extent2DFromPoints(pts ...[2]float32) Extent2D {
	e := EmptyExtent2D()
	for _, p := range pts {
		e = Union(e, p)
	}
	return e
}

func (e Extent2D) Width() float32 {
	return e.P1[0] - e.P0[0]
}

func (e Extent2D) Height() float32 {
	return e.P1[1] - e.P0[1]
}

func (e Extent2D) Empty() bool {
	return e.P1[0] < e.P0[0] || e.P1[1] < e.P0[1]
}

func (e Extent2D) Inside(p [2]float32) bool {
	return p[0] >= e.P0[0] && p[0] <= e.P1[0] && p[1] >= e.P0[1] && p[1] <= e.P1[1]
}

// Intersect returns the overlap of a and b, which may be empty.
func Intersect(a, b Extent2D) Extent2D {
	return Extent2D{
		P0: [2]float32{max(a.P0[0], b.P0[0]), max(a.P0[1], b.P0[1])},
		P1: [2]float32{min(a.P1[0], b.P1[0]), min(a.P1[1], b.P1[1])},
	}
}

func Union(e Extent2D, p [2]float32) Extent2D {
	e.P0[0] = min(e.P0[0], p[0])
	e.P0[1] = min(e.P0[1], p[1])
	e.P1[0] = max(e.P1[0], p[0])
	e.P1[1] = max(e.P1[1], p[1])
	return e
}

var (
	circlePointsMu sync.Mutex
	circlePoints   map[int][][2]float32
)

// CirclePoints returns the vertices for a unit circle at the origin
// with the given number of segments; it creates the vertex slice if this
// tessellation rate hasn't been seen before and otherwise returns a
// preexisting one. The returned slice must not be modified.
func CirclePoints(nsegs int) [][2]float32 {
	circlePointsMu.Lock()
	defer circlePointsMu.Unlock()

	if circlePoints == nil {
		circlePoints = make(map[int][][2]float32)
	}
	if pts, ok := circlePoints[nsegs]; ok {
		return pts
	}

	pts := make([][2]float32, nsegs)
	for d := range nsegs {
		angle := Radians(float32(d) / float32(nsegs) * 360)
		pts[d] = [2]float32{Sin(angle), Cos(angle)}
	}
	circlePoints[nsegs] = pts
	return pts
}
