// Package renderer owns frame-level GPU state and every resource the scene
// creates.
package renderer

import (
	"go.uber.org/zap"

	"github.com/glround/glround/internal/engine/gpu"
	"github.com/glround/glround/internal/engine/mesh"
	"github.com/glround/glround/internal/engine/shader"
	"github.com/glround/glround/internal/engine/texture"
	"github.com/glround/glround/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	// ResizeOffset is subtracted from both dimensions on Resize.
	ResizeOffset int

	ClearColor [4]float32
	DepthTest  bool
}

// Releaser is a GPU resource that can be deleted once.
type Releaser interface {
	Delete()
}

// Renderer handles all per-frame drawing state.
type Renderer struct {
	config Config
	dev    gpu.Device

	resources []Releaser
	closed    bool
}

// New creates a renderer and applies the initial GL state.
// IMPORTANT: Must be called AFTER the graphics context is created!
func New(dev gpu.Device, cfg Config) *Renderer {
	r := &Renderer{
		config: cfg,
		dev:    dev,
	}

	c := cfg.ClearColor
	dev.SetClearColor(c[0], c[1], c[2], c[3])
	dev.SetDepthTest(cfg.DepthTest)
	dev.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r
}

// Device returns the device the renderer draws with.
func (r *Renderer) Device() gpu.Device {
	return r.dev
}

// Track registers a resource to be released by Close.
func (r *Renderer) Track(res Releaser) {
	r.resources = append(r.resources, res)
}

// Program builds a shader program from files and tracks it.
func (r *Renderer) Program(src shader.Source, vertexPath, fragmentPath string) *shader.Program {
	p := shader.Build(r.dev, src, vertexPath, fragmentPath)
	r.Track(p)
	return p
}

// Mesh uploads geometry and tracks it.
func (r *Renderer) Mesh(d mesh.Data) *mesh.Mesh {
	m := mesh.Upload(r.dev, d)
	r.Track(m)
	return m
}

// Texture loads an image file and tracks the resulting texture.
func (r *Renderer) Texture(l *texture.Loader, path string, opts texture.Options) (*texture.Texture, error) {
	t, err := l.Load(r.dev, path, opts)
	if err != nil {
		return nil, err
	}
	r.Track(t)
	return t, nil
}

// Close releases every tracked resource once, newest first. Further calls
// are no-ops.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true

	logger.Info("closing renderer", zap.Int("resources", len(r.resources)))
	for i := len(r.resources) - 1; i >= 0; i-- {
		r.resources[i].Delete()
	}
	r.resources = nil
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Resize applies a new framebuffer size to the viewport, less the
// configured offset. Sizes never go below 1.
func (r *Renderer) Resize(width, height int) {
	width -= r.config.ResizeOffset
	height -= r.config.ResizeOffset
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	r.config.Width = width
	r.config.Height = height
	r.dev.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame by clearing the color buffer, and the depth
// buffer when depth testing is on.
func (r *Renderer) Begin() {
	mask := gpu.ClearColor
	if r.config.DepthTest {
		mask |= gpu.ClearDepth
	}
	r.dev.Clear(mask)
}

// End finishes the current frame.
func (r *Renderer) End() {
	// Nothing to do - presentation belongs to the window
}

// Bind makes a mesh and program current and binds textures to units in
// order.
func (r *Renderer) Bind(m *mesh.Mesh, p *shader.Program, textures ...*texture.Texture) {
	m.Bind()
	p.Use()
	for unit, t := range textures {
		t.Bind(uint32(unit))
	}
}
