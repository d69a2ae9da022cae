// renderer/icons.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"github.com/neuralstage/globe/log"
	"github.com/neuralstage/globe/math"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	// MarkerSize is the size of the flight marker icon in display
	// coordinates.
	MarkerSize = 22
	// MarkerHeading is the screen-space direction, in degrees clockwise
	// from +x, that the marker artwork points along when drawn without
	// rotation.
	MarkerHeading = -65

	maxCachedLabels = 64
)

type labelKey struct {
	Text string
	Size float32
}

// IconAtlas creates and caches the textures for text labels and the
// flight marker. Label textures are rasterized at the display's device
// pixel ratio so that they stay sharp on high-DPI displays; they are kept
// in an LRU cache and destroyed in the renderer when evicted.
//
// Like the Renderer it uses, an IconAtlas is not safe for concurrent use.
type IconAtlas struct {
	r     Renderer
	lg    *log.Logger
	font  *opentype.Font
	faces map[float32]font.Face
	dpr   float32

	labels *lru.Cache[labelKey, Texture]
	marker *Texture
}

func NewIconAtlas(r Renderer, lg *log.Logger) (*IconAtlas, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing label font: %w", err)
	}

	a := &IconAtlas{
		r:     r,
		lg:    lg,
		font:  f,
		faces: make(map[float32]font.Face),
		dpr:   1,
	}
	a.labels, err = lru.NewWithEvict(maxCachedLabels, func(k labelKey, tex Texture) {
		a.lg.Debug("evicting label texture", slog.String("text", k.Text), slog.Any("id", tex.ID))
		a.r.DestroyTexture(tex.ID)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Refresh prepares the atlas for the given device pixel ratio; if it has
// changed, all existing textures are discarded and recreated on demand.
func (a *IconAtlas) Refresh(dpr float32) {
	if dpr <= 0 {
		dpr = 1
	}
	if dpr == a.dpr && a.marker != nil {
		return
	}

	a.lg.Debugf("refreshing icons for device pixel ratio %.2f", dpr)
	a.dpr = dpr
	a.labels.Purge()
	for _, face := range a.faces {
		face.Close()
	}
	clear(a.faces)
	if a.marker != nil {
		a.r.DestroyTexture(a.marker.ID)
		a.marker = nil
	}

	img := rasterizeMarker(int(math.Round(MarkerSize * dpr)))
	a.marker = &Texture{
		ID:   a.r.CreateTextureFromImage(img, false),
		Size: [2]float32{MarkerSize, MarkerSize},
	}
}

// Marker returns the flight marker texture; Refresh must have been called
// first.
func (a *IconAtlas) Marker() (Texture, bool) {
	if a.marker == nil {
		return Texture{}, false
	}
	return *a.marker, true
}

// Label returns a texture holding text rendered in white at the given
// pixel size; it is meant to be tinted when drawn.
func (a *IconAtlas) Label(text string, size float32) (Texture, bool) {
	if text == "" {
		return Texture{}, false
	}

	k := labelKey{Text: text, Size: size}
	if tex, ok := a.labels.Get(k); ok {
		return tex, true
	}

	face, err := a.face(size * a.dpr)
	if err != nil {
		a.lg.Errorf("%s: %v", text, err)
		return Texture{}, false
	}

	img := rasterizeText(face, text)
	b := img.Bounds()
	tex := Texture{
		ID:   a.r.CreateTextureFromImage(img, false),
		Size: [2]float32{float32(b.Dx()) / a.dpr, float32(b.Dy()) / a.dpr},
	}
	a.labels.Add(k, tex)
	return tex, true
}

func (a *IconAtlas) face(px float32) (font.Face, error) {
	if f, ok := a.faces[px]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(a.font, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	a.faces[px] = f
	return f, nil
}

// Dispose releases all of the atlas's textures.
func (a *IconAtlas) Dispose() {
	a.labels.Purge()
	if a.marker != nil {
		a.r.DestroyTexture(a.marker.ID)
		a.marker = nil
	}
	for _, face := range a.faces {
		face.Close()
	}
	clear(a.faces)
}

// rasterizeText draws text in white into a tightly-sized image with a
// one pixel border.
func rasterizeText(face font.Face, text string) *image.RGBA {
	const pad = 1
	m := face.Metrics()
	adv := font.MeasureString(face, text)
	w := adv.Ceil() + 2*pad
	h := (m.Ascent + m.Descent).Ceil() + 2*pad

	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(pad), Y: m.Ascent + fixed.I(pad)},
	}
	d.DrawString(text)
	return img
}

// markerOutline is a small airplane seen from above, nose toward +x, in a
// unit box centered at the origin.
var markerOutline = [][2]float32{
	{0.50, 0}, {0.40, -0.05}, {0.10, -0.06}, {-0.10, -0.45}, {-0.20, -0.45},
	{-0.08, -0.06}, {-0.32, -0.06}, {-0.42, -0.20}, {-0.48, -0.20}, {-0.42, 0},
	{-0.48, 0.20}, {-0.42, 0.20}, {-0.32, 0.06}, {-0.08, 0.06}, {-0.20, 0.45},
	{-0.10, 0.45}, {0.10, 0.06}, {0.40, 0.05},
}

// rasterizeMarker draws the airplane, pointing along MarkerHeading, into
// a size x size image.
func rasterizeMarker(size int) *image.RGBA {
	size = max(size, 4)
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	s := float32(size) * 0.92
	m := math.Identity3x3().Translate(float32(size)/2, float32(size)/2).
		Rotate(math.Radians(MarkerHeading)).Scale(s, s)

	var z vector.Rasterizer
	z.Reset(size, size)
	z.DrawOp = draw.Src
	for i, p := range markerOutline {
		q := m.TransformPoint(p)
		if i == 0 {
			z.MoveTo(q[0], q[1])
		} else {
			z.LineTo(q[0], q[1])
		}
	}
	z.ClosePath()
	z.Draw(img, img.Bounds(), image.NewUniform(RGBFromHex(0x111928).WithAlpha(1).NRGBA64()), image.Point{})
	return img
}
