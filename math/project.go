// math/project.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

// CameraDepth is the distance from the viewer to the sphere's center in
// units of the sphere radius.
const CameraDepth = 2.4

// The inverse projection pulls screen points that are at or beyond the
// silhouette slightly inward so that a solution always exists.
const maxInverseRadiusSq = 0.98

// Projected is a point on the sphere mapped to screen space. K is the
// perspective scale at that point, which callers use to make line widths
// shrink toward the horizon.
type Projected struct {
	P [2]float32
	K float32
}

// ProjectToScreen maps the (already rotated) unit vector v to screen
// coordinates for a sphere drawn at center with the given radius. Screen
// y grows downward.
func ProjectToScreen(v [3]float32, center [2]float32, radius float32) Projected {
	k := float32(CameraDepth / (CameraDepth - float64(v[2])))
	return Projected{
		P: [2]float32{center[0] + v[0]*radius*k, center[1] - v[1]*radius*k},
		K: k,
	}
}

// InverseProjectToSphere returns the unit vector on the front hemisphere
// that ProjectToScreen would map to p. Points outside the visible disc are
// first pulled just inside it. false is returned if there is no solution.
//
// The intersection is computed in double precision; the quadratic loses
// too many bits in float32 close to the silhouette.
func InverseProjectToSphere(p [2]float32, center [2]float32, radius float32) ([3]float32, bool) {
	if radius <= 0 {
		return [3]float32{}, false
	}
	dx := float64(p[0]-center[0]) / float64(radius)
	dy := float64(center[1]-p[1]) / float64(radius)

	a := dx*dx + dy*dy
	if a > maxInverseRadiusSq {
		s := gomath.Sqrt(maxInverseRadiusSq / a)
		dx, dy = dx*s, dy*s
		a = maxInverseRadiusSq
	}

	// The ray from the eye at (0, 0, depth) through (dx, dy, 0) is
	// (dx t, dy t, depth (1-t)); intersect it with the unit sphere and
	// take the near root.
	d2 := CameraDepth * CameraDepth
	denom := a + d2
	inner := d2*d2 - denom*(d2-1)
	if inner < 0 {
		return [3]float32{}, false
	}
	t := (d2 - gomath.Sqrt(inner)) / denom
	x, y, z := dx*t, dy*t, CameraDepth*(1-t)
	l := gomath.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return [3]float32{}, false
	}
	return [3]float32{float32(x / l), float32(y / l), float32(z / l)}, true
}
