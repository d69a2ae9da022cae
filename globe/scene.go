// globe/scene.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package globe

import (
	"github.com/neuralstage/globe/math"
	"github.com/neuralstage/globe/outline"
	"github.com/neuralstage/globe/renderer"
)

var (
	sphereEdgeColor = renderer.RGBFromUInt8(17, 25, 40).WithAlpha(0.10)
	latitudeColor   = renderer.RGBFromUInt8(35, 45, 60)
	longitudeColor  = renderer.RGBFromUInt8(45, 55, 72)
	outlineColor    = renderer.RGBFromUInt8(45, 55, 72)
	arcColor        = renderer.RGBFromUInt8(28, 38, 52)
	starColor       = renderer.RGBFromUInt8(45, 55, 72)
	nodeGlowColor   = renderer.RGBFromUInt8(17, 25, 40)
	nodeColor       = renderer.RGBFromHex(0x111928)
	nodeLabelColor  = renderer.RGBFromHex(0x6B7280)
	markerTint      = renderer.RGB{R: 1, G: 1, B: 1}
	sphereGradStops = []GradientStop{
		{T: 0, Color: renderer.RGBFromUInt8(17, 25, 40).WithAlpha(0.10)},
		{T: 0.55, Color: renderer.RGBFromUInt8(11, 18, 32).WithAlpha(0.06)},
		{T: 1, Color: renderer.RGBFromUInt8(17, 25, 40).WithAlpha(0.02)},
	}
)

const (
	labelSize   = 11
	labelOffset = 20

	arcSamples = 64
	// Segments whose alpha is at or below these are not drawn.
	gridMinAlpha    = 0.001
	arcMinAlpha     = 0.001
	outlineMinAlpha = 0.002
	// Outline segments with both ends further back than this are culled.
	outlineHorizonZ = -0.02
)

// overlay describes how one landmass outline is placed on the globe.
type overlay struct {
	ID     string
	Anchor string
	Stride int
	// LatSpan and LonSpan give the extent, in degrees, that the
	// normalized outline covers on the globe.
	LatSpan, LonSpan float32
	Alpha            float32
	// Correction is added to the outline's centroid, in normalized
	// outline units.
	Correction [2]float32
}

var overlays = []overlay{
	{ID: outline.NorthAmerica, Anchor: NorthAmerica, Stride: 6, LatSpan: 30, LonSpan: 34, Alpha: 0.55},
	// The Africa outline's source geometry is lopsided; the correction
	// was found by eye.
	{ID: outline.Africa, Anchor: Africa, Stride: 7, LatSpan: 34, LonSpan: 38, Alpha: 0.50,
		Correction: [2]float32{-9.7, -0.1}},
}

// arcPairs are the endpoints (latitude, longitude in degrees) of the
// great-circle arcs.
var arcPairs = [][2][2]float32{
	{{40, -100}, {7, 0}},
	{{52, 10}, {35, 105}},
	{{25, 45}, {-25, 135}},
}

// Build returns the primitives for the current frame, back to front.
func (s *Scene) Build() []Primitive {
	var prims []Primitive
	if s.Layout.Radius <= 0 {
		return prims
	}

	prims = s.appendSphere(prims)
	prims = s.appendGraticule(prims)
	prims = s.appendOutlines(prims)
	prims = s.appendArcs(prims)
	prims = s.appendStars(prims)
	prims = s.appendNodes(prims)
	prims = s.appendMarker(prims)
	return prims
}

// Draw generates the commands to clear the surface and draw the current
// frame.
func (s *Scene) Draw(icons Icons, cb *renderer.CommandBuffer) {
	cb.SetDrawBounds(s.Surface.Width, s.Surface.Height, s.Surface.DPR)
	cb.ClearRGBA(Background)
	Rasterize(s.Build(), icons, cb)
}

func (s *Scene) appendSphere(prims []Primitive) []Primitive {
	l := s.Layout
	c, r := l.Center(), l.Radius

	prims = append(prims, Primitive{
		Kind:   GradientDisc,
		Points: [][2]float32{c},
		Radius: r,
		Gradient: &Gradient{
			C0:    math.Sub2f(c, [2]float32{0.35 * r, 0.35 * r}),
			R0:    0.1 * r,
			C1:    c,
			R1:    1.05 * r,
			Stops: sphereGradStops,
		},
	})

	circle := math.CirclePoints(128)
	edge := make([][2]float32, 0, len(circle)+1)
	for _, p := range circle {
		edge = append(edge, math.Add2f(c, math.Scale2f(p, r)))
	}
	edge = append(edge, edge[0])
	return append(prims, Primitive{Kind: Polyline, Points: edge, Color: sphereEdgeColor, Width: 1})
}

// appendRuns adds a segment for each pair of consecutive visible samples
// of a curve on the globe. alpha gives the opacity of a rotated sample;
// samples at or below minAlpha are hidden.
func (s *Scene) appendRuns(prims []Primitive, pts [][3]float32, alpha func([3]float32) float32, minAlpha float32,
	color renderer.RGB, width float32) []Primitive {
	var prev [2]float32
	prevAlpha := float32(0)
	for i, v := range pts {
		v = s.rotate(v)
		a := alpha(v)
		if a <= minAlpha {
			prevAlpha = 0
			continue
		}
		p := s.project(v).P
		if i > 0 && prevAlpha > minAlpha {
			prims = append(prims, Primitive{
				Kind:   Segment,
				Points: [][2]float32{prev, p},
				Color:  color.WithAlpha(prevAlpha),
				Width:  width,
			})
		}
		prev, prevAlpha = p, a
	}
	return prims
}

func gridAlpha(scale float32) func([3]float32) float32 {
	return func(v [3]float32) float32 {
		return math.Saturate((v[2]+0.25)/1.25) * scale
	}
}

func (s *Scene) appendGraticule(prims []Primitive) []Primitive {
	var pts [][3]float32
	for lat := -60; lat <= 60; lat += 30 {
		pts = pts[:0]
		for lon := -180; lon <= 180; lon += 4 {
			pts = append(pts, math.VecFromLatLonDegrees(float32(lat), float32(lon)))
		}
		prims = s.appendRuns(prims, pts, gridAlpha(0.12), gridMinAlpha, latitudeColor, 1)
	}
	for lon := -150; lon <= 180; lon += 30 {
		pts = pts[:0]
		for lat := -90; lat <= 90; lat += 4 {
			pts = append(pts, math.VecFromLatLonDegrees(float32(lat), float32(lon)))
		}
		prims = s.appendRuns(prims, pts, gridAlpha(0.10), gridMinAlpha, longitudeColor, 1)
	}
	return prims
}

func (s *Scene) appendOutlines(prims []Primitive) []Primitive {
	if s.outlines == nil {
		return prims
	}
	for _, ov := range overlays {
		pts := s.outlines.Points(ov.ID, ov.Stride)
		if len(pts) < 2 {
			continue
		}
		baseLat, baseLon, ok := s.ResolveAnchor(ov.Anchor)
		if !ok {
			continue
		}
		prims = s.appendOutline(prims, ov, pts, baseLat, baseLon)
	}
	return prims
}

func (s *Scene) appendOutline(prims []Primitive, ov overlay, pts [][2]float32, baseLat, baseLon float32) []Primitive {
	l := s.Layout
	center := math.Add2f(outline.Centroid(pts), ov.Correction)
	toSphere := func(p [2]float32) [3]float32 {
		o := math.Sub2f(center, p)
		return s.rotate(math.VecFromLatLonDegrees(baseLat+o[1]*ov.LatSpan, baseLon+o[0]*ov.LonSpan))
	}

	baseWidth := max(1, l.Radius*0.010)
	for i := 1; i < len(pts); i++ {
		va, vb := toSphere(pts[i-1]), toSphere(pts[i])
		if va[2] < outlineHorizonZ && vb[2] < outlineHorizonZ {
			continue
		}
		horizonFade := math.Saturate((min(va[2], vb[2]) + 0.12) / 0.24)
		front := math.Saturate((max(va[2], vb[2]) + 1) / 2)
		alpha := ov.Alpha * horizonFade * (0.35 + 0.65*front)
		if alpha <= outlineMinAlpha {
			continue
		}

		sa, sb := s.project(va), s.project(vb)
		a, b, ok := math.ClipSegmentToDisc(sa.P, sb.P, l.Center(), l.Radius)
		if !ok {
			continue
		}
		prims = append(prims, Primitive{
			Kind:   Segment,
			Points: [][2]float32{a, b},
			Color:  outlineColor.WithAlpha(alpha),
			Width:  baseWidth * (sa.K + sb.K) / 2,
		})
	}
	return prims
}

func (s *Scene) appendArcs(prims []Primitive) []Primitive {
	pts := make([][3]float32, 0, arcSamples+1)
	alpha := func(v [3]float32) float32 {
		return math.Saturate((v[2]+0.15)/1.15) * 0.35
	}
	for _, pair := range arcPairs {
		a := math.VecFromLatLonDegrees(pair[0][0], pair[0][1])
		b := math.VecFromLatLonDegrees(pair[1][0], pair[1][1])
		pts = pts[:0]
		for i := 0; i <= arcSamples; i++ {
			t := float32(i) / arcSamples
			lift := 1.02 + 0.10*math.Sin(math.Pi*t)
			pts = append(pts, math.Scale3f(math.Slerp(a, b, t), lift))
		}
		prims = s.appendRuns(prims, pts, alpha, arcMinAlpha, arcColor, 1.5)
	}
	return prims
}

func (s *Scene) appendStars(prims []Primitive) []Primitive {
	for _, v := range s.stars {
		v = s.rotate(v)
		front := math.Saturate((v[2] + 1) / 2)
		prims = append(prims, Primitive{
			Kind:   Dot,
			Points: [][2]float32{s.project(v).P},
			Radius: 0.7 + 0.9*front,
			Color:  starColor.WithAlpha(0.03 + 0.16*front),
		})
	}
	return prims
}

func (s *Scene) appendNodes(prims []Primitive) []Primitive {
	labels := s.Options.ShowLabels && s.Surface.Width > s.Options.LabelBreakpoint
	for _, n := range s.Nodes {
		op := math.Saturate(n.Opacity)
		if op <= 0 {
			continue
		}
		glow := &Gradient{
			C0: n.Base,
			C1: n.Base,
			R1: 3 * n.Radius,
			Stops: []GradientStop{
				{T: 0, Color: nodeGlowColor.WithAlpha(0.3 * op)},
				{T: 1, Color: nodeGlowColor.WithAlpha(0)},
			},
		}
		prims = append(prims,
			Primitive{Kind: GradientDisc, Points: [][2]float32{n.Base}, Radius: 3 * n.Radius, Gradient: glow},
			Primitive{Kind: Dot, Points: [][2]float32{n.Base}, Radius: n.Radius, Color: nodeColor.WithAlpha(op)})
		if labels && n.Label != "" {
			prims = append(prims, Primitive{
				Kind:   Label,
				Points: [][2]float32{math.Add2f(n.Base, [2]float32{0, labelOffset})},
				Text:   n.Label,
				Size:   labelSize,
				Color:  nodeLabelColor.WithAlpha(op),
			})
		}
	}
	return prims
}

func (s *Scene) appendMarker(prims []Primitive) []Primitive {
	m := s.Marker
	if !m.Visible || m.Opacity <= 0 {
		return prims
	}
	return append(prims, Primitive{
		Kind:     Icon,
		Points:   [][2]float32{m.Pos},
		Rotation: m.Rotation,
		Scale:    m.Scale,
		Color:    markerTint.WithAlpha(m.Opacity),
	})
}
