// flight/easing.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flight

import "github.com/neuralstage/globe/math"

// Easing maps linear progress in [0,1] to eased progress in [0,1].
type Easing func(float32) float32

func Linear(x float32) float32 { return math.Saturate(x) }

// Power1InOut is a quadratic ease-in/ease-out.
func Power1InOut(x float32) float32 {
	x = math.Saturate(x)
	if x < 0.5 {
		return 2 * x * x
	}
	return 1 - math.Sqr(-2*x+2)/2
}

// Power2Out is a cubic ease-out.
func Power2Out(x float32) float32 {
	x = math.Saturate(x)
	return 1 - (1-x)*(1-x)*(1-x)
}
