// Package gpu defines the graphics device surface the engine draws through.
//
// The engine never calls OpenGL directly. Shader, mesh, texture and renderer
// code talk to a Device, which is implemented by glcore for a live context and
// by gputest for package tests.
package gpu

import "fmt"

// Handle is an opaque GPU object name. Zero is never a valid object.
type Handle uint32

// Stage identifies a shader stage.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// PixelFormat is the texture upload format.
type PixelFormat int

const (
	// FormatAuto derives the upload format from the decoded channel count.
	FormatAuto PixelFormat = iota
	FormatRGB
	FormatRGBA
)

// Channels returns the number of 8-bit channels per pixel, or 0 for FormatAuto.
func (f PixelFormat) Channels() int {
	switch f {
	case FormatRGB:
		return 3
	case FormatRGBA:
		return 4
	default:
		return 0
	}
}

func (f PixelFormat) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatRGB:
		return "rgb"
	case FormatRGBA:
		return "rgba"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// FormatForChannels maps a decoded channel count to an upload format.
// Anything that is not 4 channels uploads as RGB.
func FormatForChannels(channels int) PixelFormat {
	if channels == 4 {
		return FormatRGBA
	}
	return FormatRGB
}

// Wrap is a texture coordinate wrap mode.
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClampToBorder
	WrapClampToEdge
)

// Filter is a texture sampling filter.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
	FilterLinearMipmapLinear
)

// TextureParams holds per-texture sampling state.
type TextureParams struct {
	WrapS     Wrap
	WrapT     Wrap
	MinFilter Filter
	MagFilter Filter
	Mipmaps   bool
}

// Attribute describes one vertex attribute read from the currently bound
// array buffer. Stride and Offset are in bytes.
type Attribute struct {
	Location   uint32
	Components int32
	Stride     int32
	Offset     int
}

// ClearMask selects which framebuffer planes Clear resets.
type ClearMask uint8

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// Device is the set of graphics calls the engine needs. All methods must be
// called from the thread that owns the context.
type Device interface {
	// CreateShader compiles source as the given stage. It always returns a
	// shader object; ok reports compile status and log holds diagnostics.
	CreateShader(stage Stage, source string) (h Handle, ok bool, log string)
	// CreateProgram links the shaders into a program. It always returns a
	// program object; ok reports link status.
	CreateProgram(shaders ...Handle) (h Handle, ok bool, log string)
	DeleteShader(h Handle)
	DeleteProgram(h Handle)
	UseProgram(h Handle)
	UniformLocation(program Handle, name string) int32
	UniformMat4(location int32, m [16]float32)
	Uniform1i(location int32, v int32)

	CreateVertexArray() Handle
	BindVertexArray(h Handle)
	DeleteVertexArray(h Handle)
	// CreateVertexBuffer uploads static float data and leaves the buffer
	// bound as the array buffer so attributes can be pointed at it.
	CreateVertexBuffer(data []float32) Handle
	// CreateIndexBuffer uploads static indices into the bound vertex array.
	CreateIndexBuffer(indices []uint32) Handle
	VertexAttrib(a Attribute)
	DeleteBuffer(h Handle)

	CreateTexture(params TextureParams, format PixelFormat, width, height int, pixels []byte) Handle
	BindTexture(unit uint32, h Handle)
	DeleteTexture(h Handle)

	SetClearColor(r, g, b, a float32)
	SetDepthTest(enabled bool)
	Clear(mask ClearMask)
	Viewport(x, y, width, height int32)
	DrawArrays(first, count int32)
	DrawElements(count int32)

	// ReadPixels reads back the default framebuffer as tightly packed RGBA,
	// bottom row first.
	ReadPixels(x, y, width, height int32) []byte
}
