// renderer/rgb.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"image/color"

	"github.com/neuralstage/globe/math"
)

///////////////////////////////////////////////////////////////////////////
// RGB

type RGB struct {
	R, G, B float32
}

// RGBA is a color with straight (not premultiplied) alpha.
type RGBA struct {
	R, G, B, A float32
}

// RGBFromHex converts a packed integer color value to an RGB where the low
// 8 bits give blue, the next 8 give green, and then the next 8 give red.
func RGBFromHex(c int) RGB {
	r, g, b := (c>>16)&255, (c>>8)&255, c&255
	return RGB{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255}
}

func RGBFromUInt8(r uint8, g uint8, b uint8) RGB {
	return RGB{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255}
}

// WithAlpha returns the RGBA with the color r and the given alpha.
func (r RGB) WithAlpha(a float32) RGBA {
	return RGBA{R: r.R, G: r.G, B: r.B, A: a}
}

// ScaleAlpha returns the color with its alpha multiplied by v.
func (c RGBA) ScaleAlpha(v float32) RGBA {
	c.A *= v
	return c
}

func LerpRGBA(x float32, a, b RGBA) RGBA {
	return RGBA{
		R: math.Lerp(x, a.R, b.R),
		G: math.Lerp(x, a.G, b.G),
		B: math.Lerp(x, a.B, b.B),
		A: math.Lerp(x, a.A, b.A),
	}
}

// NRGBA64 converts c to the image/color representation, clamping each
// component to [0,1].
func (c RGBA) NRGBA64() color.NRGBA64 {
	q := func(v float32) uint16 {
		return uint16(math.Saturate(v)*0xffff + 0.5)
	}
	return color.NRGBA64{R: q(c.R), G: q(c.G), B: q(c.B), A: q(c.A)}
}
