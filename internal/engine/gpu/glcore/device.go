// Package glcore implements gpu.Device on an OpenGL 4.1 core context.
// IMPORTANT: New must be called AFTER the window has made a context current.
package glcore

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/glround/glround/internal/engine/gpu"
	"github.com/glround/glround/internal/logger"
)

// Device issues gpu.Device calls against the current OpenGL context.
type Device struct {
	version  string
	renderer string
}

var _ gpu.Device = (*Device)(nil)

// New loads the OpenGL function pointers for the current context.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &Device{
		version:  gl.GoStr(gl.GetString(gl.VERSION)),
		renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
	}
	logger.Info("OpenGL initialized",
		zap.String("version", d.version),
		zap.String("renderer", d.renderer),
	)

	// Tightly packed RGB rows are not 4-byte aligned for odd widths.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	return d, nil
}

// Version returns the GL_VERSION string of the context.
func (d *Device) Version() string { return d.version }

// Renderer returns the GL_RENDERER string of the context.
func (d *Device) Renderer() string { return d.renderer }

func (d *Device) CreateShader(stage gpu.Stage, source string) (gpu.Handle, bool, string) {
	shader := gl.CreateShader(shaderType(stage))

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return gpu.Handle(shader), false, trimLog(log)
	}
	return gpu.Handle(shader), true, ""
}

func (d *Device) CreateProgram(shaders ...gpu.Handle) (gpu.Handle, bool, string) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, uint32(s))
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return gpu.Handle(program), false, trimLog(log)
	}
	return gpu.Handle(program), true, ""
}

func (d *Device) DeleteShader(h gpu.Handle)  { gl.DeleteShader(uint32(h)) }
func (d *Device) DeleteProgram(h gpu.Handle) { gl.DeleteProgram(uint32(h)) }
func (d *Device) UseProgram(h gpu.Handle)    { gl.UseProgram(uint32(h)) }

func (d *Device) UniformLocation(program gpu.Handle, name string) int32 {
	return gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
}

func (d *Device) UniformMat4(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *Device) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (d *Device) CreateVertexArray() gpu.Handle {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return gpu.Handle(vao)
}

func (d *Device) BindVertexArray(h gpu.Handle) { gl.BindVertexArray(uint32(h)) }

func (d *Device) DeleteVertexArray(h gpu.Handle) {
	vao := uint32(h)
	gl.DeleteVertexArrays(1, &vao)
}

func (d *Device) CreateVertexBuffer(data []float32) gpu.Handle {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	return gpu.Handle(vbo)
}

func (d *Device) CreateIndexBuffer(indices []uint32) gpu.Handle {
	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	return gpu.Handle(ebo)
}

func (d *Device) VertexAttrib(a gpu.Attribute) {
	gl.EnableVertexAttribArray(a.Location)
	gl.VertexAttribPointer(a.Location, a.Components, gl.FLOAT, false, a.Stride, gl.PtrOffset(a.Offset))
}

func (d *Device) DeleteBuffer(h gpu.Handle) {
	buf := uint32(h)
	gl.DeleteBuffers(1, &buf)
}

func (d *Device) CreateTexture(params gpu.TextureParams, format gpu.PixelFormat, width, height int, pixels []byte) gpu.Handle {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapMode(params.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapMode(params.WrapT))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filterMode(params.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filterMode(params.MagFilter))

	glFormat := uint32(gl.RGB)
	if format == gpu.FormatRGBA {
		glFormat = gl.RGBA
	}
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(glFormat), int32(width), int32(height), 0, glFormat, gl.UNSIGNED_BYTE, ptr)
	if params.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return gpu.Handle(tex)
}

func (d *Device) BindTexture(unit uint32, h gpu.Handle) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(h))
}

func (d *Device) DeleteTexture(h gpu.Handle) {
	tex := uint32(h)
	gl.DeleteTextures(1, &tex)
}

func (d *Device) SetClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (d *Device) SetDepthTest(enabled bool) {
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
		return
	}
	gl.Disable(gl.DEPTH_TEST)
}

func (d *Device) Clear(mask gpu.ClearMask) {
	var bits uint32
	if mask&gpu.ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (d *Device) DrawArrays(first, count int32) { gl.DrawArrays(gl.TRIANGLES, first, count) }

func (d *Device) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (d *Device) ReadPixels(x, y, width, height int32) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func shaderType(stage gpu.Stage) uint32 {
	if stage == gpu.StageFragment {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

func wrapMode(w gpu.Wrap) int32 {
	switch w {
	case gpu.WrapClampToBorder:
		return gl.CLAMP_TO_BORDER
	case gpu.WrapClampToEdge:
		return gl.CLAMP_TO_EDGE
	default:
		return gl.REPEAT
	}
}

func filterMode(f gpu.Filter) int32 {
	switch f {
	case gpu.FilterNearest:
		return gl.NEAREST
	case gpu.FilterLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.LINEAR
	}
}

func trimLog(log string) string {
	return strings.TrimRight(log, "\x00\n ")
}
