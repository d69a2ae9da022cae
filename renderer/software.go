// renderer/software.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"image"
	"image/color"
	"image/draw"
	gomath "math"

	"github.com/neuralstage/globe/log"
	"github.com/neuralstage/globe/math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"
)

// SoftwareRenderer executes command buffers on the CPU, rasterizing into
// an RGBA image. It supports the subset of the command set that the
// globe uses: alpha-blended triangles with a single color, per-vertex
// colors or a texture modulated by the vertex color.
//
// Per-vertex colors are not interpolated; each triangle is filled with
// the average of its vertex colors, so smoothly shaded regions should be
// finely tessellated. Edges are antialiased by exact area coverage.
//
// A SoftwareRenderer is not safe for concurrent use, though separate
// renderers may be used from separate goroutines.
type SoftwareRenderer struct {
	lg       *log.Logger
	fb       *image.RGBA
	textures map[uint32]*swTexture
	nextID   uint32
	z        vector.Rasterizer
}

type swTexture struct {
	img     *image.RGBA
	nearest bool
}

// arrayBinding records a vertex attribute array set with one of the
// *Array commands.
type arrayBinding struct {
	enabled        bool
	offset, stride int
}

type swState struct {
	proj     mgl32.Mat4
	viewport image.Rectangle
	blend    bool
	color    RGBA
	vertices arrayBinding
	colors   arrayBinding
	uvs      arrayBinding
	texture  *swTexture
}

// NewSoftwareRenderer returns a renderer with a width x height
// framebuffer, which is initially transparent.
func NewSoftwareRenderer(width, height int, l *log.Logger) *SoftwareRenderer {
	return &SoftwareRenderer{
		lg:       l,
		fb:       image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1))),
		textures: make(map[uint32]*swTexture),
		nextID:   1,
	}
}

// Image returns the framebuffer. It is reused across frames; callers that
// hold on to a frame should copy it.
func (sr *SoftwareRenderer) Image() *image.RGBA {
	return sr.fb
}

// Resize reallocates the framebuffer if its size has changed.
func (sr *SoftwareRenderer) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if b := sr.fb.Bounds(); b.Dx() != width || b.Dy() != height {
		sr.fb = image.NewRGBA(image.Rect(0, 0, width, height))
	}
}

func (sr *SoftwareRenderer) CreateTextureFromImage(img image.Image, magNearest bool) uint32 {
	id := sr.nextID
	sr.nextID++
	sr.UpdateTextureFromImage(id, img, magNearest)
	return id
}

func (sr *SoftwareRenderer) UpdateTextureFromImage(id uint32, img image.Image, magNearest bool) {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	sr.textures[id] = &swTexture{img: rgba, nearest: magNearest}
}

func (sr *SoftwareRenderer) DestroyTexture(id uint32) {
	delete(sr.textures, id)
}

func (sr *SoftwareRenderer) Dispose() {
	clear(sr.textures)
}

func (sr *SoftwareRenderer) RenderCommandBuffer(cb *CommandBuffer) RendererStats {
	st := swState{
		proj:     mgl32.Ident4(),
		viewport: sr.fb.Bounds(),
		color:    RGBA{1, 1, 1, 1},
	}
	return sr.render(cb, &st)
}

func (sr *SoftwareRenderer) render(cb *CommandBuffer, st *swState) RendererStats {
	var stats RendererStats
	stats.nBuffers++
	stats.bufferBytes += 4 * len(cb.Buf)

	i := 0
	ui32 := func() uint32 {
		v := cb.Buf[i]
		i++
		return v
	}
	i32 := func() int {
		return int(int32(ui32()))
	}
	float := func() float32 {
		return gomath.Float32frombits(ui32())
	}
	binding := func() arrayBinding {
		offset := i32()
		_ = i32() // number of components is implied by the array type
		return arrayBinding{enabled: true, offset: offset, stride: i32()}
	}

	for i < len(cb.Buf) {
		cmd := cb.Buf[i]
		i++
		switch cmd {
		case RendererLoadProjectionMatrix:
			for j := range st.proj {
				st.proj[j] = float()
			}

		case RendererClearRGBA:
			c := RGBA{R: float(), G: float(), B: float(), A: float()}
			draw.Draw(sr.fb, st.viewport, image.NewUniform(c.NRGBA64()), image.Point{}, draw.Src)

		case RendererViewport:
			x, y, w, h := i32(), i32(), i32(), i32()
			// Viewports are specified with y up from the bottom, as in
			// OpenGL.
			fh := sr.fb.Bounds().Dy()
			st.viewport = image.Rect(x, fh-(y+h), x+w, fh-y)

		case RendererBlend:
			st.blend = true

		case RendererDisableBlend:
			st.blend = false

		case RendererSetRGBA:
			st.color = RGBA{R: float(), G: float(), B: float(), A: float()}
			st.colors.enabled = false

		case RendererFloatBuffer, RendererIntBuffer:
			i += int(ui32())

		case RendererEnableTexture:
			id := ui32()
			if tex, ok := sr.textures[id]; ok {
				st.texture = tex
			} else {
				sr.lg.Warnf("%d: unknown texture", id)
				st.texture = nil
			}

		case RendererDisableTexture:
			st.texture = nil

		case RendererVertexArray:
			st.vertices = binding()

		case RendererDisableVertexArray:
			st.vertices.enabled = false

		case RendererRGBA32Array:
			st.colors = binding()

		case RendererDisableColorArray:
			st.colors.enabled = false

		case RendererTexCoordArray:
			st.uvs = binding()

		case RendererDisableTexCoordArray:
			st.uvs.enabled = false

		case RendererDrawTriangles:
			offset, count := i32(), i32()
			sr.drawTriangles(cb, st, offset, count)
			stats.nDrawCalls++
			stats.nTriangles += count / 3

		case RendererResetState:
			cur := *st
			*st = swState{proj: cur.proj, viewport: cur.viewport, color: RGBA{1, 1, 1, 1}}

		case RendererCallBuffer:
			idx := ui32()
			stats.Merge(sr.render(&cb.called[idx], st))

		default:
			sr.lg.Errorf("%d: unhandled command", cmd)
			return stats
		}
	}

	return stats
}

func readFloat2(buf []uint32, b arrayBinding, idx int) [2]float32 {
	o := (b.offset + idx*b.stride) / 4
	return [2]float32{gomath.Float32frombits(buf[o]), gomath.Float32frombits(buf[o+1])}
}

func readRGBA(buf []uint32, b arrayBinding, idx int) RGBA {
	o := (b.offset + idx*b.stride) / 4
	return RGBA{
		R: gomath.Float32frombits(buf[o]),
		G: gomath.Float32frombits(buf[o+1]),
		B: gomath.Float32frombits(buf[o+2]),
		A: gomath.Float32frombits(buf[o+3]),
	}
}

// toScreen maps a vertex position through the projection matrix and the
// viewport to framebuffer pixel coordinates.
func (st *swState) toScreen(p [2]float32) [2]float32 {
	ndc := st.proj.Mul4x1(mgl32.Vec4{p[0], p[1], 0, 1})
	if ndc[3] != 0 && ndc[3] != 1 {
		ndc = ndc.Mul(1 / ndc[3])
	}
	vr := st.viewport
	return [2]float32{
		float32(vr.Min.X) + (ndc[0]+1)/2*float32(vr.Dx()),
		float32(vr.Min.Y) + (1-ndc[1])/2*float32(vr.Dy()),
	}
}

func (sr *SoftwareRenderer) drawTriangles(cb *CommandBuffer, st *swState, offset, count int) {
	if !st.vertices.enabled {
		sr.lg.Warn("DrawTriangles without a vertex array")
		return
	}
	textured := st.texture != nil && st.uvs.enabled
	indices := cb.Buf[offset/4 : offset/4+count]
	clip := st.viewport.Intersect(sr.fb.Bounds())

	// Consecutive triangles that are filled the same way are rasterized
	// together so that there are no seams along their shared edges.
	var group [][3][2]float32
	var groupColor RGBA
	var groupSrc *triangleSource
	flush := func() {
		if len(group) == 0 {
			return
		}
		var src image.Image = image.NewUniform(groupColor.NRGBA64())
		if groupSrc != nil {
			src = groupSrc
		}
		sr.fillTriangles(group, clip, src, st.blend)
		group = group[:0]
	}

	for t := 0; t+2 < len(indices); t += 3 {
		var p [3][2]float32
		var c [3]RGBA
		var uv [3][2]float32
		for k := range 3 {
			idx := int(indices[t+k])
			p[k] = st.toScreen(readFloat2(cb.Buf, st.vertices, idx))
			if st.colors.enabled {
				c[k] = readRGBA(cb.Buf, st.colors, idx)
			} else {
				c[k] = st.color
			}
			if textured {
				uv[k] = readFloat2(cb.Buf, st.uvs, idx)
			}
		}

		avg := RGBA{
			R: (c[0].R + c[1].R + c[2].R) / 3,
			G: (c[0].G + c[1].G + c[2].G) / 3,
			B: (c[0].B + c[1].B + c[2].B) / 3,
			A: (c[0].A + c[1].A + c[2].A) / 3,
		}
		if avg.A <= 0 && st.blend {
			continue
		}

		if textured {
			if groupSrc != nil && groupSrc.tint == avg && groupSrc.matches(p, uv) {
				group = append(group, p)
				continue
			}
			flush()
			if groupSrc = newTriangleSource(p, uv, avg, st.texture); groupSrc != nil {
				group = append(group, p)
			}
		} else {
			if groupSrc == nil && len(group) > 0 && groupColor == avg {
				group = append(group, p)
				continue
			}
			flush()
			groupSrc, groupColor = nil, avg
			group = append(group, p)
		}
	}
	flush()
}

// fillTriangles rasterizes the triangles (in framebuffer coordinates)
// into the part of the framebuffer given by clip.
func (sr *SoftwareRenderer) fillTriangles(tris [][3][2]float32, clip image.Rectangle, src image.Image, blend bool) {
	e := math.EmptyExtent2D()
	for _, p := range tris {
		e = math.Union(math.Union(math.Union(e, p[0]), p[1]), p[2])
	}
	r := image.Rect(int(math.Floor(e.P0[0])), int(math.Floor(e.P0[1])),
		int(math.Floor(e.P1[0]))+1, int(math.Floor(e.P1[1]))+1).Intersect(clip)
	if r.Empty() {
		return
	}

	o := [2]float32{float32(r.Min.X), float32(r.Min.Y)}
	sr.z.Reset(r.Dx(), r.Dy())
	if blend {
		sr.z.DrawOp = draw.Over
	} else {
		sr.z.DrawOp = draw.Src
	}
	for _, p := range tris {
		// All triangles must wind the same way so that the coverage
		// along shared edges cancels.
		e1, e2 := math.Sub2f(p[1], p[0]), math.Sub2f(p[2], p[0])
		if e1[0]*e2[1]-e1[1]*e2[0] < 0 {
			p[1], p[2] = p[2], p[1]
		}
		sr.z.MoveTo(p[0][0]-o[0], p[0][1]-o[1])
		sr.z.LineTo(p[1][0]-o[0], p[1][1]-o[1])
		sr.z.LineTo(p[2][0]-o[0], p[2][1]-o[1])
		sr.z.ClosePath()
	}
	sr.z.Draw(sr.fb, r, src, r.Min)
}

// triangleSource is an image.Image that returns texture samples for
// pixels covered by a textured triangle; texture coordinates are found
// from the pixel center's barycentric coordinates. Interpolation is
// affine in screen space, which is exact for the 2D quads drawn here.
type triangleSource struct {
	p0       [2]float32
	e1, e2   [2]float32
	invDet   float32
	uv0      [2]float32
	du1, du2 [2]float32
	tint     RGBA
	tex      *swTexture
}

func newTriangleSource(p [3][2]float32, uv [3][2]float32, tint RGBA, tex *swTexture) *triangleSource {
	e1, e2 := math.Sub2f(p[1], p[0]), math.Sub2f(p[2], p[0])
	det := e1[0]*e2[1] - e1[1]*e2[0]
	if math.Abs(det) < 1e-12 {
		return nil
	}
	return &triangleSource{
		p0:     p[0],
		e1:     e1,
		e2:     e2,
		invDet: 1 / det,
		uv0:    uv[0],
		du1:    math.Sub2f(uv[1], uv[0]),
		du2:    math.Sub2f(uv[2], uv[0]),
		tint:   tint,
		tex:    tex,
	}
}

func (s *triangleSource) ColorModel() color.Model { return color.RGBA64Model }

func (s *triangleSource) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

// uvAt returns the texture coordinates at the point p.
func (s *triangleSource) uvAt(p [2]float32) [2]float32 {
	q := math.Sub2f(p, s.p0)
	b1 := (q[0]*s.e2[1] - q[1]*s.e2[0]) * s.invDet
	b2 := (s.e1[0]*q[1] - s.e1[1]*q[0]) * s.invDet
	return math.Add2f(s.uv0, math.Add2f(math.Scale2f(s.du1, b1), math.Scale2f(s.du2, b2)))
}

// matches reports whether the triangle p with texture coordinates uv
// lies in the same affine texture mapping, as the two halves of a quad
// do.
func (s *triangleSource) matches(p [3][2]float32, uv [3][2]float32) bool {
	for k := range 3 {
		if math.Distance2f(s.uvAt(p[k]), uv[k]) > 1e-3 {
			return false
		}
	}
	return true
}

func (s *triangleSource) At(x, y int) color.Color {
	uv := s.uvAt([2]float32{float32(x) + 0.5, float32(y) + 0.5})

	r, g, b, a := s.tex.sample(uv)
	t := s.tint
	return color.RGBA64{
		R: uint16(math.Saturate(r*t.R*t.A) * 0xffff),
		G: uint16(math.Saturate(g*t.G*t.A) * 0xffff),
		B: uint16(math.Saturate(b*t.B*t.A) * 0xffff),
		A: uint16(math.Saturate(a*t.A) * 0xffff),
	}
}

// sample returns the premultiplied texel at uv, with coordinates clamped
// to the edge of the texture.
func (t *swTexture) sample(uv [2]float32) (r, g, b, a float32) {
	w, h := t.img.Rect.Dx(), t.img.Rect.Dy()
	texel := func(x, y int) (float32, float32, float32, float32) {
		x, y = math.Clamp(x, 0, w-1), math.Clamp(y, 0, h-1)
		o := t.img.PixOffset(x, y)
		px := t.img.Pix[o : o+4 : o+4]
		return float32(px[0]) / 255, float32(px[1]) / 255, float32(px[2]) / 255, float32(px[3]) / 255
	}

	fx, fy := math.Saturate(uv[0])*float32(w)-0.5, math.Saturate(uv[1])*float32(h)-0.5
	if t.nearest {
		return texel(int(math.Round(fx)), int(math.Round(fy)))
	}

	x0, y0 := math.Floor(fx), math.Floor(fy)
	dx, dy := fx-x0, fy-y0
	ix, iy := int(x0), int(y0)
	r00, g00, b00, a00 := texel(ix, iy)
	r10, g10, b10, a10 := texel(ix+1, iy)
	r01, g01, b01, a01 := texel(ix, iy+1)
	r11, g11, b11, a11 := texel(ix+1, iy+1)
	bilerp := func(v00, v10, v01, v11 float32) float32 {
		return math.Lerp(dy, math.Lerp(dx, v00, v10), math.Lerp(dx, v01, v11))
	}
	return bilerp(r00, r10, r01, r11), bilerp(g00, g10, g01, g11), bilerp(b00, b10, b01, b11),
		bilerp(a00, a10, a01, a11)
}
