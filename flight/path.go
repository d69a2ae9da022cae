// flight/path.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flight

import (
	"time"

	"github.com/neuralstage/globe/math"
)

// Leg is one traversal of the marker along a cubic path.
type Leg struct {
	// Path holds the start point, the two control points and the end
	// point, in display coordinates.
	Path     [4][2]float32
	Duration time.Duration
	Ease     Easing
	// AutoRotate is added, in degrees, to the direction of the path
	// tangent to give the marker's rotation.
	AutoRotate float32
}

// MakeLeg returns the leg from start to end, bowed by the control points
// from math.ControlPoints.
func MakeLeg(start, end [2]float32, d time.Duration) Leg {
	cp1, cp2 := math.ControlPoints(start, end)
	return Leg{
		Path:       [4][2]float32{start, cp1, cp2, end},
		Duration:   d,
		Ease:       Power1InOut,
		AutoRotate: AutoRotate,
	}
}

// PathAnimator moves the marker along a leg.
type PathAnimator interface {
	// Sample returns the marker's position and rotation (in degrees,
	// clockwise) after the given time along the leg.
	Sample(leg Leg, elapsed time.Duration) (pos [2]float32, rotation float32)
}

// CubicPathAnimator treats a leg's path as the control points of a cubic
// Bezier curve and rotates the marker to follow its tangent.
type CubicPathAnimator struct{}

func (CubicPathAnimator) Sample(leg Leg, elapsed time.Duration) ([2]float32, float32) {
	u := float32(1)
	if leg.Duration > 0 {
		u = math.Saturate(float32(elapsed) / float32(leg.Duration))
	}
	if leg.Ease != nil {
		u = leg.Ease(u)
	}

	pos := math.CubicBezier(leg.Path, u)
	tan := math.CubicBezierTangent(leg.Path, u)
	if tan[0] == 0 && tan[1] == 0 {
		return pos, leg.AutoRotate
	}
	return pos, math.Degrees(math.Atan2(tan[1], tan[0])) + leg.AutoRotate
}
