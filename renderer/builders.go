// renderer/builders.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"sync"

	"github.com/neuralstage/globe/math"
)

///////////////////////////////////////////////////////////////////////////
// DrawBuilders

// The various *DrawBuilder classes provide capabilities for specifying a
// number of independent things of the same type to draw and then
// generating corresponding buffer storage and draw commands in a
// CommandBuffer. This allows batching up many things to be drawn all in a
// single draw command, with corresponding GPU performance benefits.

// TrianglesDrawBuilder collects triangles to be batched up in a single
// draw call. Note that it does not allow specifying per-vertex or
// per-triangle color; rather, the current color as specified by a call to
// the CommandBuffer SetRGBA method is used for all triangles.
type TrianglesDrawBuilder struct {
	p       [][2]float32
	indices []int32
}

func (t *TrianglesDrawBuilder) Reset() {
	t.p = t.p[:0]
	t.indices = t.indices[:0]
}

// AddTriangle adds a triangle with the specified three vertices to be
// drawn.
func (t *TrianglesDrawBuilder) AddTriangle(p0, p1, p2 [2]float32) {
	idx := int32(len(t.p))
	t.p = append(t.p, p0, p1, p2)
	t.indices = append(t.indices, idx, idx+1, idx+2)
}

// AddQuad adds a quadrilateral with the specified four vertices to be
// drawn; the quad is split into two triangles for drawing.
func (t *TrianglesDrawBuilder) AddQuad(p0, p1, p2, p3 [2]float32) {
	idx := int32(len(t.p))
	t.p = append(t.p, p0, p1, p2, p3)
	t.indices = append(t.indices, idx, idx+1, idx+2, idx, idx+2, idx+3)
}

// AddCircle adds a filled circle with specified radius around the
// specified position to be drawn using triangles. The specified number of
// segments, nsegs, sets the tessellation rate for the circle.
func (t *TrianglesDrawBuilder) AddCircle(p [2]float32, radius float32, nsegs int) {
	circle := math.CirclePoints(nsegs)

	idx := int32(len(t.p))
	t.p = append(t.p, p) // center point
	for i := 0; i < nsegs; i++ {
		pi := [2]float32{p[0] + radius*circle[i][0], p[1] + radius*circle[i][1]}
		t.p = append(t.p, pi)
	}
	for i := 0; i < nsegs; i++ {
		t.indices = append(t.indices, idx, idx+1+int32(i), idx+1+int32((i+1)%nsegs))
	}
}

// AddRing adds an annulus with the given inner and outer radii; it is
// used for drawing circle outlines of a specific width.
func (t *TrianglesDrawBuilder) AddRing(p [2]float32, r0, r1 float32, nsegs int) {
	circle := math.CirclePoints(nsegs)

	idx := int32(len(t.p))
	for i := 0; i < nsegs; i++ {
		t.p = append(t.p,
			[2]float32{p[0] + r0*circle[i][0], p[1] + r0*circle[i][1]},
			[2]float32{p[0] + r1*circle[i][0], p[1] + r1*circle[i][1]})
	}
	for i := 0; i < nsegs; i++ {
		a, b := idx+2*int32(i), idx+2*int32((i+1)%nsegs)
		t.indices = append(t.indices, a, a+1, b+1, a, b+1, b)
	}
}

// NumTriangles returns the number of triangles that have been added.
func (t *TrianglesDrawBuilder) NumTriangles() int {
	return len(t.indices) / 3
}

func (t *TrianglesDrawBuilder) Bounds() math.Extent2D {
	return math.Extent2DFromPoints(t.p...)
}

func (t *TrianglesDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(t.indices) == 0 {
		return
	}

	p := cb.Float2Buffer(t.p)
	cb.VertexArray(p, 2, 2*4)

	ind := cb.IntBuffer(t.indices)
	cb.DrawTriangles(ind, len(t.indices))

	cb.DisableVertexArray()
}

// TrianglesDrawBuilders are managed using a sync.Pool so that their buf
// slice allocations persist across multiple uses.
var trianglesDrawBuilderPool = sync.Pool{New: func() any { return &TrianglesDrawBuilder{} }}

func GetTrianglesDrawBuilder() *TrianglesDrawBuilder {
	return trianglesDrawBuilderPool.Get().(*TrianglesDrawBuilder)
}

func ReturnTrianglesDrawBuilder(td *TrianglesDrawBuilder) {
	td.Reset()
	trianglesDrawBuilderPool.Put(td)
}

// ColoredTrianglesDrawBuilder is like TrianglesDrawBuilder but with
// per-vertex colors.
type ColoredTrianglesDrawBuilder struct {
	TrianglesDrawBuilder
	color []RGBA
}

func (t *ColoredTrianglesDrawBuilder) Reset() {
	t.TrianglesDrawBuilder.Reset()
	t.color = t.color[:0]
}

// AddTriangle adds a triangle with the specified three vertices to be
// drawn.
func (t *ColoredTrianglesDrawBuilder) AddTriangle(p0, p1, p2 [2]float32, c RGBA) {
	t.TrianglesDrawBuilder.AddTriangle(p0, p1, p2)
	t.color = append(t.color, c, c, c)
}

// AddShadedTriangle adds a triangle with a separate color at each vertex.
func (t *ColoredTrianglesDrawBuilder) AddShadedTriangle(p [3][2]float32, c [3]RGBA) {
	t.TrianglesDrawBuilder.AddTriangle(p[0], p[1], p[2])
	t.color = append(t.color, c[0], c[1], c[2])
}

// AddQuad adds a quadrilateral with the specified four vertices to be
// drawn; the quad is split into two triangles for drawing.
func (t *ColoredTrianglesDrawBuilder) AddQuad(p0, p1, p2, p3 [2]float32, c RGBA) {
	t.TrianglesDrawBuilder.AddQuad(p0, p1, p2, p3)
	t.color = append(t.color, c, c, c, c)
}

// AddCircle adds a filled circle with specified radius around the
// specified position to be drawn using triangles. The specified number of
// segments, nsegs, sets the tessellation rate for the circle.
func (t *ColoredTrianglesDrawBuilder) AddCircle(p [2]float32, radius float32, nsegs int, c RGBA) {
	t.TrianglesDrawBuilder.AddCircle(p, radius, nsegs)
	for i := 0; i <= nsegs; i++ {
		t.color = append(t.color, c)
	}
}

func (t *ColoredTrianglesDrawBuilder) AddRing(p [2]float32, r0, r1 float32, nsegs int, c RGBA) {
	t.TrianglesDrawBuilder.AddRing(p, r0, r1, nsegs)
	for i := 0; i < 2*nsegs; i++ {
		t.color = append(t.color, c)
	}
}

// AddSegment adds a stroked line segment from p0 to p1 with the given
// width, as a quad with butt ends. Zero-length segments are ignored.
func (t *ColoredTrianglesDrawBuilder) AddSegment(p0, p1 [2]float32, width float32, c RGBA) {
	d := math.Sub2f(p1, p0)
	if d == [2]float32{} {
		return
	}
	n := math.Scale2f(math.Normalize2f([2]float32{-d[1], d[0]}), width/2)
	t.AddQuad(math.Add2f(p0, n), math.Add2f(p1, n), math.Sub2f(p1, n), math.Sub2f(p0, n), c)
}

func (t *ColoredTrianglesDrawBuilder) GenerateCommands(cb *CommandBuffer) {
	if len(t.indices) == 0 {
		return
	}

	rgba := cb.RGBABuffer(t.color)
	cb.RGBA32Array(rgba, 4, 4*4)

	t.TrianglesDrawBuilder.GenerateCommands(cb)

	cb.DisableColorArray()
}

// ColoredTrianglesDrawBuilders are managed using a sync.Pool so that their buf
// slice allocations persist across multiple uses.
var coloredTrianglesDrawBuilderPool = sync.Pool{New: func() any { return &ColoredTrianglesDrawBuilder{} }}

func GetColoredTrianglesDrawBuilder() *ColoredTrianglesDrawBuilder {
	return coloredTrianglesDrawBuilderPool.Get().(*ColoredTrianglesDrawBuilder)
}

func ReturnColoredTrianglesDrawBuilder(td *ColoredTrianglesDrawBuilder) {
	td.Reset()
	coloredTrianglesDrawBuilderPool.Put(td)
}

// TexturedTrianglesDrawBuilder generates commands for drawing a set of
// triangles with associated uv texture coordinates using a specified
// single texture map. Each vertex also carries a color that modulates
// the texture.
type TexturedTrianglesDrawBuilder struct {
	ColoredTrianglesDrawBuilder
	uv [][2]float32
}

func (t *TexturedTrianglesDrawBuilder) Reset() {
	t.ColoredTrianglesDrawBuilder.Reset()
	t.uv = t.uv[:0]
}

// AddQuad adds a quadrilateral with the specified four vertices and
// associated texture coordinates to the list to be drawn; the quad is
// split into two triangles for drawing.
func (t *TexturedTrianglesDrawBuilder) AddQuad(p [4][2]float32, uv [4][2]float32, c RGBA) {
	t.ColoredTrianglesDrawBuilder.AddQuad(p[0], p[1], p[2], p[3], c)
	t.uv = append(t.uv, uv[0], uv[1], uv[2], uv[3])
}

// AddTransformedQuad adds the quad (0,0)-(size) transformed by m, with
// texture coordinates covering the full texture.
func (t *TexturedTrianglesDrawBuilder) AddTransformedQuad(m math.Matrix3, size [2]float32, c RGBA) {
	t.AddQuad([4][2]float32{
		m.TransformPoint([2]float32{0, 0}),
		m.TransformPoint([2]float32{size[0], 0}),
		m.TransformPoint(size),
		m.TransformPoint([2]float32{0, size[1]}),
	}, [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, c)
}

func (t *TexturedTrianglesDrawBuilder) GenerateCommands(cb *CommandBuffer, texid uint32) {
	if len(t.indices) == 0 {
		return
	}

	cb.EnableTexture(texid)
	uv := cb.Float2Buffer(t.uv)
	cb.TexCoordArray(uv, 2, 2*4)

	t.ColoredTrianglesDrawBuilder.GenerateCommands(cb)

	cb.DisableTexCoordArray()
	cb.DisableTexture()
}

// And as above, these are also managed in a pool.
var texturedTrianglesDrawBuilderPool = sync.Pool{New: func() any { return &TexturedTrianglesDrawBuilder{} }}

func GetTexturedTrianglesDrawBuilder() *TexturedTrianglesDrawBuilder {
	return texturedTrianglesDrawBuilderPool.Get().(*TexturedTrianglesDrawBuilder)
}

func ReturnTexturedTrianglesDrawBuilder(td *TexturedTrianglesDrawBuilder) {
	td.Reset()
	texturedTrianglesDrawBuilderPool.Put(td)
}
