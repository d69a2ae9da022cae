// globe/primitive_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"image"
	"image/color"
	"testing"

	"github.com/neuralstage/globe/renderer"
)

// testIcons serves a single white texture for labels and the marker.
type testIcons struct {
	tex       renderer.Texture
	refreshes []float32
	labels    []string
}

func newTestIcons(r renderer.Renderer, size float32) *testIcons {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return &testIcons{tex: renderer.Texture{ID: r.CreateTextureFromImage(img, true), Size: [2]float32{size, size}}}
}

func (ti *testIcons) Refresh(dpr float32) {
	ti.refreshes = append(ti.refreshes, dpr)
}

func (ti *testIcons) Label(text string, size float32) (renderer.Texture, bool) {
	ti.labels = append(ti.labels, text)
	return ti.tex, true
}

func (ti *testIcons) Marker() (renderer.Texture, bool) {
	return ti.tex, true
}

func TestGradientAt(t *testing.T) {
	red := renderer.RGBA{R: 1, A: 1}
	blue := renderer.RGBA{B: 1, A: 0}
	g := &Gradient{
		C0:    [2]float32{10, 10},
		C1:    [2]float32{10, 10},
		R1:    10,
		Stops: []GradientStop{{T: 0, Color: red}, {T: 1, Color: blue}},
	}

	for _, tc := range []struct {
		p    [2]float32
		want renderer.RGBA
	}{
		{[2]float32{10, 10}, red},
		{[2]float32{15, 10}, renderer.RGBA{R: 0.5, B: 0.5, A: 0.5}},
		{[2]float32{10, 20}, blue},
		{[2]float32{30, 30}, blue},
	} {
		c := g.At(tc.p)
		if !near(c.R, tc.want.R, 1e-4) || !near(c.B, tc.want.B, 1e-4) || !near(c.A, tc.want.A, 1e-4) {
			t.Errorf("%v: got %+v, expected %+v", tc.p, c, tc.want)
		}
	}

	if c := (&Gradient{}).At([2]float32{}); c != (renderer.RGBA{}) {
		t.Errorf("gradient without stops gave %+v", c)
	}
}

func rasterizeToImage(t *testing.T, w, h int, prims []Primitive, icons func(renderer.Renderer) Icons) *image.RGBA {
	t.Helper()
	sr := renderer.NewSoftwareRenderer(w, h, nil)
	var ic Icons
	if icons != nil {
		ic = icons(sr)
	}

	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)
	cb.SetDrawBounds(float32(w), float32(h), 1)
	cb.ClearRGBA(renderer.RGBA{R: 1, G: 1, B: 1, A: 1})
	Rasterize(prims, ic, cb)
	sr.RenderCommandBuffer(cb)
	return sr.Image()
}

func TestRasterize(t *testing.T) {
	black := renderer.RGBA{A: 1}
	prims := []Primitive{
		{Kind: Dot, Points: [][2]float32{{8, 8}}, Radius: 5, Color: black},
		{Kind: Segment, Points: [][2]float32{{20, 2}, {20, 30}}, Width: 4, Color: black},
		{Kind: Polyline, Points: [][2]float32{{2, 24}, {12, 24}, {12, 30}}, Width: 2, Color: black},
		{Kind: GradientDisc, Points: [][2]float32{{26, 26}}, Radius: 4, Gradient: &Gradient{
			C0: [2]float32{26, 26}, C1: [2]float32{26, 26}, R1: 4,
			Stops: []GradientStop{{T: 0, Color: black}, {T: 1, Color: black}},
		}},
		// Empty primitives are ignored.
		{Kind: Dot, Radius: 5, Color: black},
	}
	img := rasterizeToImage(t, 32, 32, prims, nil)

	for _, tc := range []struct {
		x, y  int
		black bool
	}{
		{8, 8, true}, {1, 1, false}, {20, 15, true}, {24, 15, false},
		{6, 24, true}, {12, 27, true}, {6, 28, false}, {26, 26, true},
	} {
		c := img.RGBAAt(tc.x, tc.y)
		if isBlack := c.R < 64; isBlack != tc.black {
			t.Errorf("(%d,%d): got %v, expected black=%v", tc.x, tc.y, c, tc.black)
		}
	}
}

func TestRasterizeTextured(t *testing.T) {
	var icons *testIcons
	mk := func(r renderer.Renderer) Icons {
		icons = newTestIcons(r, 8)
		return icons
	}
	prims := []Primitive{
		{Kind: Dot, Points: [][2]float32{{16, 16}}, Radius: 16, Color: renderer.RGBA{A: 1}},
		{Kind: Label, Points: [][2]float32{{8, 8}}, Text: "hi", Size: 10, Color: renderer.RGBA{R: 1, A: 1}},
		{Kind: Icon, Points: [][2]float32{{24, 24}}, Rotation: 45, Scale: 0.5, Color: renderer.RGBA{G: 1, A: 1}},
	}
	img := rasterizeToImage(t, 32, 32, prims, mk)

	// The label is drawn after (and so over) the dot, centered on its
	// point less the baseline offset.
	if c := img.RGBAAt(8, 5); c != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("label pixel %v, expected red", c)
	}
	if c := img.RGBAAt(24, 24); c != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("icon pixel %v, expected green", c)
	}
	// The icon is scaled down to a 4x4 box rotated by 45 degrees.
	if c := img.RGBAAt(21, 21); c.G == 255 {
		t.Errorf("icon pixel outside its scaled size %v", c)
	}
	if len(icons.labels) != 1 || icons.labels[0] != "hi" {
		t.Errorf("labels requested: %v", icons.labels)
	}

	// Without icons, only the dot is drawn.
	img = rasterizeToImage(t, 32, 32, prims, nil)
	if c := img.RGBAAt(8, 5); c != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("pixel %v, expected black with no icons", c)
	}
}
