// Package mesh uploads static vertex data into GPU buffers.
package mesh

import (
	"go.uber.org/zap"

	"github.com/glround/glround/internal/engine/gpu"
	"github.com/glround/glround/internal/logger"
)

// Fixed shader input locations.
const (
	LocationPosition uint32 = 0
	LocationColor    uint32 = 1
	LocationUV       uint32 = 2
)

// Semantic names one vertex attribute.
type Semantic int

const (
	Position Semantic = iota // 3 floats
	Color                    // 3 floats
	UV                       // 2 floats
)

// Components returns the float count of the attribute.
func (s Semantic) Components() int32 {
	if s == UV {
		return 2
	}
	return 3
}

// Location returns the fixed shader location of the attribute.
func (s Semantic) Location() uint32 {
	switch s {
	case Color:
		return LocationColor
	case UV:
		return LocationUV
	default:
		return LocationPosition
	}
}

// Data is CPU-side geometry. Either the separate arrays are set (one buffer
// per attribute) or Interleaved is set together with Layout, which lists the
// attributes in the order they appear inside each vertex.
type Data struct {
	Positions []float32
	Colors    []float32
	UVs       []float32

	Interleaved []float32
	Layout      []Semantic

	Indices []uint32
}

// IsInterleaved reports whether the data uses the single-buffer layout.
func (d Data) IsInterleaved() bool {
	return len(d.Interleaved) > 0
}

// Stride returns the interleaved vertex size in floats.
func (d Data) Stride() int32 {
	var n int32
	for _, s := range d.Layout {
		n += s.Components()
	}
	return n
}

// VertexCount returns the number of vertices described.
func (d Data) VertexCount() int32 {
	if d.IsInterleaved() {
		stride := d.Stride()
		if stride == 0 {
			return 0
		}
		return int32(len(d.Interleaved)) / stride
	}
	return int32(len(d.Positions) / 3)
}

// Mesh is geometry resident on the GPU: one vertex array, its attribute
// buffers and an optional index buffer.
type Mesh struct {
	dev        gpu.Device
	vao        gpu.Handle
	buffers    []gpu.Handle
	ebo        gpu.Handle
	attributes []gpu.Attribute
	vertices   int32
	indices    int32
}

// Upload creates the vertex array and static buffers for d. Driver errors
// are not detected here.
func Upload(dev gpu.Device, d Data) *Mesh {
	m := &Mesh{
		dev:      dev,
		vertices: d.VertexCount(),
		indices:  int32(len(d.Indices)),
	}

	m.vao = dev.CreateVertexArray()
	dev.BindVertexArray(m.vao)

	if d.IsInterleaved() {
		m.uploadInterleaved(d)
	} else {
		m.uploadSeparate(d)
	}

	if len(d.Indices) > 0 {
		m.ebo = dev.CreateIndexBuffer(d.Indices)
	}

	dev.BindVertexArray(0)

	logger.Debug("mesh uploaded",
		zap.Uint32("vao", uint32(m.vao)),
		zap.Int("buffers", len(m.buffers)),
		zap.Int32("vertices", m.vertices),
		zap.Int32("indices", m.indices),
	)
	return m
}

func (m *Mesh) uploadSeparate(d Data) {
	arrays := []struct {
		sem  Semantic
		data []float32
	}{
		{Position, d.Positions},
		{Color, d.Colors},
		{UV, d.UVs},
	}
	for _, a := range arrays {
		if len(a.data) == 0 {
			continue
		}
		m.buffers = append(m.buffers, m.dev.CreateVertexBuffer(a.data))
		m.attrib(gpu.Attribute{
			Location:   a.sem.Location(),
			Components: a.sem.Components(),
		})
	}
}

func (m *Mesh) uploadInterleaved(d Data) {
	m.buffers = append(m.buffers, m.dev.CreateVertexBuffer(d.Interleaved))

	stride := d.Stride() * 4
	offset := 0
	for _, sem := range d.Layout {
		m.attrib(gpu.Attribute{
			Location:   sem.Location(),
			Components: sem.Components(),
			Stride:     stride,
			Offset:     offset,
		})
		offset += int(sem.Components()) * 4
	}
}

func (m *Mesh) attrib(a gpu.Attribute) {
	m.dev.VertexAttrib(a)
	m.attributes = append(m.attributes, a)
}

// Attributes returns the recorded attribute layout.
func (m *Mesh) Attributes() []gpu.Attribute {
	return m.attributes
}

// VertexArray returns the vertex array handle, or 0 after Delete.
func (m *Mesh) VertexArray() gpu.Handle {
	return m.vao
}

// Indexed reports whether the mesh draws through an index buffer.
func (m *Mesh) Indexed() bool {
	return m.ebo != 0
}

// Bind makes the mesh's vertex array current.
func (m *Mesh) Bind() {
	if m.vao == 0 {
		return
	}
	m.dev.BindVertexArray(m.vao)
}

// Draw issues one triangle draw call for the mesh. The vertex array must be
// bound with Bind first.
func (m *Mesh) Draw() {
	if m.vao == 0 {
		return
	}
	if m.ebo != 0 {
		m.dev.DrawElements(m.indices)
		return
	}
	m.dev.DrawArrays(0, m.vertices)
}

// Delete releases the buffers and the vertex array. Further calls are no-ops.
func (m *Mesh) Delete() {
	if m.vao == 0 {
		return
	}
	for _, b := range m.buffers {
		m.dev.DeleteBuffer(b)
	}
	if m.ebo != 0 {
		m.dev.DeleteBuffer(m.ebo)
	}
	m.dev.DeleteVertexArray(m.vao)

	m.buffers = nil
	m.ebo = 0
	m.vao = 0
}
