// globe/primitive.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"github.com/neuralstage/globe/math"
	"github.com/neuralstage/globe/renderer"
)

type PrimitiveKind int

const (
	// Polyline strokes the connected Points with a single color.
	Polyline PrimitiveKind = iota
	// Segment strokes the line between Points[0] and Points[1].
	Segment
	// Dot is a filled circle of the given Radius around Points[0].
	Dot
	// GradientDisc is a circle of the given Radius around Points[0]
	// filled with Gradient.
	GradientDisc
	// Label draws Text at Size pixels, horizontally centered on
	// Points[0] with its baseline there.
	Label
	// Icon draws the flight marker centered at Points[0].
	Icon
)

func (k PrimitiveKind) String() string {
	return [...]string{"Polyline", "Segment", "Dot", "GradientDisc", "Label", "Icon"}[k]
}

// Primitive is a single thing to be drawn; a frame is a list of them,
// drawn in order.
type Primitive struct {
	Kind     PrimitiveKind
	Points   [][2]float32
	Color    renderer.RGBA
	Width    float32
	Radius   float32
	Gradient *Gradient
	Text     string
	Size     float32
	Rotation float32 // degrees, clockwise
	Scale    float32
}

type GradientStop struct {
	T     float32
	Color renderer.RGBA
}

// Gradient is a two-circle radial gradient.
type Gradient struct {
	C0, C1 [2]float32
	R0, R1 float32
	Stops  []GradientStop
}

// At returns the gradient's color at p.
func (g *Gradient) At(p [2]float32) renderer.RGBA {
	if len(g.Stops) == 0 {
		return renderer.RGBA{}
	}
	t := math.RadialGradientT(p, g.C0, g.R0, g.C1, g.R1)
	if t <= g.Stops[0].T {
		return g.Stops[0].Color
	}
	for i := 1; i < len(g.Stops); i++ {
		s0, s1 := g.Stops[i-1], g.Stops[i]
		if t <= s1.T {
			if s1.T == s0.T {
				return s1.Color
			}
			return renderer.LerpRGBA((t-s0.T)/(s1.T-s0.T), s0.Color, s1.Color)
		}
	}
	return g.Stops[len(g.Stops)-1].Color
}

// Icons provides the textures for labels and the flight marker.
type Icons interface {
	// Refresh is called after each layout pass with the surface's device
	// pixel ratio.
	Refresh(dpr float32)
	Label(text string, size float32) (renderer.Texture, bool)
	Marker() (renderer.Texture, bool)
}

// labelBaselineOffset is the distance from the vertical center of a
// label texture up to the text baseline, as a fraction of the font size.
const labelBaselineOffset = 0.35

// Rasterize generates the commands to draw the primitives in order,
// alpha-blended over whatever is already in the framebuffer. If icons is
// nil, labels and icons are skipped.
func Rasterize(prims []Primitive, icons Icons, cb *renderer.CommandBuffer) {
	ctd := renderer.GetColoredTrianglesDrawBuilder()
	defer renderer.ReturnColoredTrianglesDrawBuilder(ctd)
	ttd := renderer.GetTexturedTrianglesDrawBuilder()
	defer renderer.ReturnTexturedTrianglesDrawBuilder(ttd)

	cb.Blend()

	flush := func() {
		ctd.GenerateCommands(cb)
		ctd.Reset()
	}

	for _, p := range prims {
		if len(p.Points) == 0 {
			continue
		}

		switch p.Kind {
		case Polyline:
			for i := 1; i < len(p.Points); i++ {
				ctd.AddSegment(p.Points[i-1], p.Points[i], p.Width, p.Color)
			}

		case Segment:
			if len(p.Points) >= 2 {
				ctd.AddSegment(p.Points[0], p.Points[1], p.Width, p.Color)
			}

		case Dot:
			nsegs := math.Clamp(int(p.Radius*6), 8, 48)
			ctd.AddCircle(p.Points[0], p.Radius, nsegs, p.Color)

		case GradientDisc:
			if p.Gradient != nil {
				addGradientDisc(ctd, p.Points[0], p.Radius, p.Gradient)
			}

		case Label, Icon:
			if icons == nil {
				continue
			}
			var tex renderer.Texture
			var ok bool
			var m math.Matrix3
			if p.Kind == Label {
				tex, ok = icons.Label(p.Text, p.Size)
				c := math.Sub2f(p.Points[0], [2]float32{0, labelBaselineOffset * p.Size})
				m = math.Identity3x3().Translate(c[0]-tex.Size[0]/2, c[1]-tex.Size[1]/2)
			} else {
				tex, ok = icons.Marker()
				scale := p.Scale
				if scale == 0 {
					scale = 1
				}
				m = math.Identity3x3().Translate(p.Points[0][0], p.Points[0][1]).
					Rotate(math.Radians(p.Rotation)).Scale(scale, scale).
					Translate(-tex.Size[0]/2, -tex.Size[1]/2)
			}
			if !ok {
				continue
			}

			// Textured geometry is drawn separately, so everything before
			// it must go first.
			flush()
			ttd.AddTransformedQuad(m, tex.Size, p.Color)
			ttd.GenerateCommands(cb, tex.ID)
			ttd.Reset()
		}
	}
	flush()
}

// addGradientDisc tessellates the disc as rings of quads so that the
// gradient can be approximated by per-vertex colors.
func addGradientDisc(ctd *renderer.ColoredTrianglesDrawBuilder, c [2]float32, r float32, g *Gradient) {
	if r <= 0 {
		return
	}
	nrings := math.Clamp(int(r/4), 4, 24)
	nsegs := math.Clamp(int(r), 24, 96)
	circle := math.CirclePoints(nsegs)

	pt := func(ring, seg int) [2]float32 {
		rr := r * float32(ring) / float32(nrings)
		return math.Add2f(c, math.Scale2f(circle[seg%nsegs], rr))
	}

	center := g.At(c)
	for i := range nsegs {
		p1, p2 := pt(1, i), pt(1, i+1)
		ctd.AddShadedTriangle([3][2]float32{c, p1, p2}, [3]renderer.RGBA{center, g.At(p1), g.At(p2)})
	}
	for ring := 1; ring < nrings; ring++ {
		for i := range nsegs {
			p := [4][2]float32{pt(ring, i), pt(ring+1, i), pt(ring+1, i+1), pt(ring, i+1)}
			col := [4]renderer.RGBA{g.At(p[0]), g.At(p[1]), g.At(p[2]), g.At(p[3])}
			ctd.AddShadedTriangle([3][2]float32{p[0], p[1], p[2]}, [3]renderer.RGBA{col[0], col[1], col[2]})
			ctd.AddShadedTriangle([3][2]float32{p[0], p[2], p[3]}, [3]renderer.RGBA{col[0], col[2], col[3]})
		}
	}
}
