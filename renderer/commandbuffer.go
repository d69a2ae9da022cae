// renderer/commandbuffer.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	gomath "math"
	"sync"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// The command buffer stores a series of rendering commands, represented by
// the following values. Each one is followed in the buffer by a number of
// command arguments, after which the next command follows.  Comments
// after each command briefly describe its arguments.
//
// Buffers (vertex, index, color, texcoord), are all stored directly in the
// CommandBuffer, following RendererFloatBuffer and RendererIntBuffer
// commands; the first argument after those commands is the length of the
// buffer and then its values follow directly. Rendering commands that use
// buffers (e.g., buffer binding commands like RendererVertexArray or draw
// commands like RendererDrawTriangles) are then directed to those buffers
// via integer parameters that encode the byte offset from the start of the
// command buffer where a buffer begins. (Note that this implies that one
// CommandBuffer cannot refer to a vertex/index buffer in another
// CommandBuffer.)
//
// There are no line drawing commands: strokes on the globe vary in width
// and alpha along their length, so they are emitted as triangles.

const (
	RendererLoadProjectionMatrix = iota // 16 float32: column-major matrix
	RendererClearRGBA                   // 4 float32: RGBA
	RendererViewport                    // 4 int32: x, y, width, height
	RendererBlend                       // no args: always src alpha, 1-src alpha
	RendererDisableBlend                // no args
	RendererSetRGBA                     // 4 float32: RGBA
	RendererFloatBuffer                 // int32 size, then size*float32 values
	RendererIntBuffer                   // int32: size, then size*int32 values
	RendererEnableTexture               // int32 handle
	RendererDisableTexture              // no args
	RendererVertexArray                 // byte offset to array values, n components, stride (bytes)
	RendererDisableVertexArray          // no args
	RendererRGBA32Array                 // byte offset to array values, n components, stride (bytes)
	RendererDisableColorArray           // no args
	RendererTexCoordArray               // byte offset to array values, n components, stride (bytes)
	RendererDisableTexCoordArray        // no args
	RendererDrawTriangles               // 2 int32: offset to the index buffer, count
	RendererCallBuffer                  // 1 int32: buffer index
	RendererResetState                  // no args
)

// CommandBuffer encodes a sequence of rendering commands in an
// API-agnostic manner. The same buffer can be executed by the OpenGL
// renderer in a window or by the software renderer when rendering frames
// to images.
type CommandBuffer struct {
	Buf    []uint32
	called []CommandBuffer
}

// CommandBuffers are managed using a sync.Pool so that their buf slice
// allocations persist across multiple uses.
var commandBufferPool = sync.Pool{New: func() any { return &CommandBuffer{} }}

func GetCommandBuffer() *CommandBuffer {
	return commandBufferPool.Get().(*CommandBuffer)
}

func ReturnCommandBuffer(cb *CommandBuffer) {
	cb.Reset()
	commandBufferPool.Put(cb)
}

// Reset resets the command buffer's length to zero so that it can be
// reused.
func (cb *CommandBuffer) Reset() {
	cb.Buf = cb.Buf[:0]
	cb.called = cb.called[:0]
}

// growFor ensures that at least n more values can be added to the end of
// the buffer without going past its capacity.
func (cb *CommandBuffer) growFor(n int) {
	if len(cb.Buf)+n > cap(cb.Buf) {
		sz := max(2*cap(cb.Buf), 1024, 2*(len(cb.Buf)+n))
		b := make([]uint32, len(cb.Buf), sz)
		copy(b, cb.Buf)
		cb.Buf = b
	}
}

func (cb *CommandBuffer) appendFloats(floats ...float32) {
	for _, f := range floats {
		// Convert each one to a uint32 since that's the type that is
		// actually stored...
		cb.Buf = append(cb.Buf, gomath.Float32bits(f))
	}
}

func (cb *CommandBuffer) appendInts(ints ...int) {
	for _, i := range ints {
		if i != int(uint32(i)) {
			lg.Errorf("%d: attempting to add non-32-bit value to CommandBuffer", i)
		}
		cb.Buf = append(cb.Buf, uint32(i))
	}
}

// appendSlice stores n 32-bit values starting at ptr in the buffer and
// returns their byte offset.
func (cb *CommandBuffer) appendSlice(cmd int, ptr unsafe.Pointer, n int) int {
	cb.appendInts(cmd, n)
	offset := 4 * len(cb.Buf)
	if n == 0 {
		return offset
	}

	cb.growFor(n)
	start := len(cb.Buf)
	cb.Buf = cb.Buf[:start+n]
	copy(cb.Buf[start:start+n], unsafe.Slice((*uint32)(ptr), n))
	return offset
}

// LoadProjectionMatrix adds a command that sets the projection matrix;
// vertex positions are transformed by it to normalized device
// coordinates.
func (cb *CommandBuffer) LoadProjectionMatrix(m mgl32.Mat4) {
	cb.appendInts(RendererLoadProjectionMatrix)
	cb.appendFloats(m[:]...)
}

// ClearRGBA adds a command to the command buffer to clear the framebuffer
// to the specified color.
func (cb *CommandBuffer) ClearRGBA(color RGBA) {
	cb.appendInts(RendererClearRGBA)
	cb.appendFloats(color.R, color.G, color.B, color.A)
}

// Viewport adds a command to the command buffer to set the viewport to the
// specified rectangle, given in framebuffer pixels.
func (cb *CommandBuffer) Viewport(x, y, w, h int) {
	cb.appendInts(RendererViewport, x, y, w, h)
}

// SetDrawBounds sets up the viewport and projection so that subsequent
// drawing can be specified in display coordinates from (0,0) at the
// upper left to (width,height), with y increasing downward.
//
// The viewport is specified in framebuffer coordinates, which differ from
// display coordinates on high-DPI displays; scale should be the ratio of
// framebuffer resolution to display resolution.
func (cb *CommandBuffer) SetDrawBounds(width, height, scale float32) {
	w, h := int(gomath.Round(float64(scale*width))), int(gomath.Round(float64(scale*height)))
	cb.Viewport(0, 0, max(w, 1), max(h, 1))
	cb.LoadProjectionMatrix(mgl32.Ortho2D(0, width, height, 0))
}

// SetRGBA adds a command to the command buffer to set the current RGBA
// color. Subsequent draw commands will inherit this color unless they
// specify per-vertex colors themselves.
func (cb *CommandBuffer) SetRGBA(rgba RGBA) {
	cb.appendInts(RendererSetRGBA)
	cb.appendFloats(rgba.R, rgba.G, rgba.B, rgba.A)
}

// Blend adds a command to the command buffer enable blending.  The blend
// mode cannot be specified currently, since only one mode (alpha over
// blending) is used.
func (cb *CommandBuffer) Blend() {
	cb.appendInts(RendererBlend)
}

// DisableBlend adds a command to the command buffer that disables
// blending.
func (cb *CommandBuffer) DisableBlend() {
	cb.appendInts(RendererDisableBlend)
}

// Float2Buffer stores the provided slice of [2]float32 values in the
// CommandBuffer and returns the byte offset where the first value of the
// slice is stored; this offset can then be passed to commands like
// VertexArray to specify this array.
func (cb *CommandBuffer) Float2Buffer(buf [][2]float32) int {
	if len(buf) == 0 {
		return cb.appendSlice(RendererFloatBuffer, nil, 0)
	}
	return cb.appendSlice(RendererFloatBuffer, unsafe.Pointer(&buf[0]), 2*len(buf))
}

// RGBABuffer stores the provided slice of RGBA values in the command
// buffer and returns the byte offset where the first value of the slice
// is stored.
func (cb *CommandBuffer) RGBABuffer(buf []RGBA) int {
	if len(buf) == 0 {
		return cb.appendSlice(RendererFloatBuffer, nil, 0)
	}
	return cb.appendSlice(RendererFloatBuffer, unsafe.Pointer(&buf[0]), 4*len(buf))
}

// IntBuffer stores the provided slice of int32 values in the command buffer
// and returns the byte offset where the first value of the slice is stored.
func (cb *CommandBuffer) IntBuffer(buf []int32) int {
	if len(buf) == 0 {
		return cb.appendSlice(RendererIntBuffer, nil, 0)
	}
	return cb.appendSlice(RendererIntBuffer, unsafe.Pointer(&buf[0]), len(buf))
}

// EnableTexture enables texturing from the specified texture id (as
// returned by the Renderer CreateTextureFromImage method implementation).
// Textures modulate the current color.
func (cb *CommandBuffer) EnableTexture(id uint32) {
	cb.appendInts(RendererEnableTexture, int(id))
}

// DisableTexture adds a command to the command buffer to disable
// texturing.
func (cb *CommandBuffer) DisableTexture() {
	cb.appendInts(RendererDisableTexture)
}

// VertexArray adds a command to the command buffer that specifies an array
// of vertex coordinates to use for a subsequent draw command. offset gives
// the offset into the current command buffer where the vertices begin (e.g.,
// as returned by Float2Buffer), nComps is the number of components per
// vertex (always 2 here), and stride gives the stride in bytes between
// vertices (e.g., 8 for densely packed 2D vertex coordinates.)
func (cb *CommandBuffer) VertexArray(offset, nComps, stride int) {
	cb.appendInts(RendererVertexArray, offset, nComps, stride)
}

// DisableVertexArray adds a command to the command buffer to disable the
// current vertex array.
func (cb *CommandBuffer) DisableVertexArray() {
	cb.appendInts(RendererDisableVertexArray)
}

// RGBA32Array adds a command to the command buffer that specifies an
// array of float32 RGBA colors to use for a subsequent draw command. Its
// arguments are analogous to the ones passed to VertexArray.
func (cb *CommandBuffer) RGBA32Array(offset, nComps, stride int) {
	cb.appendInts(RendererRGBA32Array, offset, nComps, stride)
}

// DisableColorArray adds a command to the command buffer that disables
// the current array of per-vertex colors.
func (cb *CommandBuffer) DisableColorArray() {
	cb.appendInts(RendererDisableColorArray)
}

// TexCoordArray adds a command to the command buffer that specifies an
// array of per-vertex texture coordinates. Its arguments are analogous
// to the ones passed to VertexArray.
func (cb *CommandBuffer) TexCoordArray(offset, nComps, stride int) {
	cb.appendInts(RendererTexCoordArray, offset, nComps, stride)
}

// DisableTexCoordArray adds a command to the command buffer that disables
// the currently-active array of texture coordinates.
func (cb *CommandBuffer) DisableTexCoordArray() {
	cb.appendInts(RendererDisableTexCoordArray)
}

// DrawTriangles adds a command to the command buffer to draw a number of
// triangles; each is specified by three vertices in the index
// buffer. offset gives the offset to the start of the index buffer in the
// current command buffer and count gives the total number of indices.
func (cb *CommandBuffer) DrawTriangles(offset, count int) {
	cb.appendInts(RendererDrawTriangles, offset, count)
}

// Call adds a command to the command buffer that causes the commands in
// the provided command buffer to be processed and executed. After the end
// of the command buffer is reached, processing of command in the current
// command buffer continues.
func (cb *CommandBuffer) Call(sub CommandBuffer) {
	if sub.Buf == nil {
		// make it a no-op
		return
	}

	cb.appendInts(RendererCallBuffer, len(cb.called))
	// Make our own copy of the slice to ensure it isn't garbage collected.
	cb.called = append(cb.called, sub)
}

// ResetState adds a command to the comment buffer that resets all of the
// assorted graphics state (blending, texturing, vertex arrays, etc.) to
// default values.
func (cb *CommandBuffer) ResetState() {
	cb.appendInts(RendererResetState)
}
