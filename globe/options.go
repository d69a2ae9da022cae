// globe/options.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"github.com/neuralstage/globe/math"
	"github.com/neuralstage/globe/util"
)

// Options holds the user-adjustable parameters of the scene.
type Options struct {
	// SpinRate is the globe's angular velocity in radians per millisecond.
	SpinRate float32
	// StarCount is the number of points in the surface starfield.
	StarCount int
	// Region labels are only drawn when the surface is wider than
	// LabelBreakpoint.
	LabelBreakpoint float32
	ShowLabels      bool
}

func DefaultOptions() Options {
	return Options{
		SpinRate:        0.00018,
		StarCount:       1200,
		LabelBreakpoint: 640,
		ShowLabels:      true,
	}
}

const maxStars = 100000

func (o *Options) Validate(e *util.ErrorLogger) {
	e.Push("scene")
	defer e.Pop()

	if !math.IsFinite(o.SpinRate) || o.SpinRate < 0 {
		e.ErrorString("spin rate %f must be a non-negative number", o.SpinRate)
	} else if o.SpinRate > 0.01 {
		e.ErrorString("spin rate %f is unreasonably fast", o.SpinRate)
	}
	if o.StarCount < 2 || o.StarCount > maxStars {
		e.ErrorString("star count %d must be between 2 and %d", o.StarCount, maxStars)
	}
	if !math.IsFinite(o.LabelBreakpoint) || o.LabelBreakpoint < 0 {
		e.ErrorString("label breakpoint %f must be a non-negative number", o.LabelBreakpoint)
	}
}
