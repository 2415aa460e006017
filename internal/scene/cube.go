package scene

import (
	"github.com/glround/glround/internal/assets"
	"github.com/glround/glround/internal/engine/gpu"
	"github.com/glround/glround/internal/engine/input"
	"github.com/glround/glround/internal/engine/mesh"
	"github.com/glround/glround/internal/engine/renderer"
	"github.com/glround/glround/internal/engine/shader"
	"github.com/glround/glround/internal/engine/texture"
	"github.com/glround/glround/internal/engine/transform"
)

// Default cube textures, relative to the asset root.
const (
	CubeTexture1 = "source/textures/container.jpg"
	CubeTexture2 = "source/textures/awesomeface.png"
)

// Cube draws a depth-tested textured cube with a model/view/projection
// transform driven by the keyboard.
type Cube struct {
	program  *shader.Program
	mesh     *mesh.Mesh
	textures [2]*texture.Texture
	pose     *transform.Scene3D
}

func (c *Cube) Name() string { return "cube" }

func (c *Cube) Settings() Settings {
	return Settings{
		ClearColor: [4]float32{0.2, 0.3, 0.3, 1},
		DepthTest:  true,
	}
}

func (c *Cube) Setup(r *renderer.Renderer, opts Options) error {
	vs, fs := opts.shaders(assets.CubeVertexShader, assets.CubeFragmentShader)
	c.program = r.Program(opts.assets(), vs, fs)
	c.mesh = r.Mesh(mesh.Cube())

	texOpts, err := opts.textureOptions(gpu.WrapRepeat)
	if err != nil {
		return err
	}
	loader := opts.loader()
	for unit, def := range []string{CubeTexture1, CubeTexture2} {
		c.textures[unit], err = r.Texture(loader, opts.texture(unit, def), texOpts)
		if err != nil {
			return err
		}
	}

	c.program.Use()
	c.program.SetInt("texture1", 0)
	c.program.SetInt("texture2", 1)

	w, h := r.Size()
	c.pose = transform.NewScene3D(aspect(w, h))
	return nil
}

func (c *Cube) Update(in *input.State) {
	c.pose.Apply(in)
}

func (c *Cube) Draw(r *renderer.Renderer) {
	r.Bind(c.mesh, c.program, c.textures[0], c.textures[1])

	c.program.SetMat4("model", c.pose.Model)
	c.program.SetMat4("view", c.pose.View)
	c.program.SetMat4("projection", c.pose.Projection)
	c.mesh.Draw()
}

func (c *Cube) Resize(width, height int) {
	c.pose.SetAspect(aspect(width, height))
}

// Pose returns the current model/view/projection state.
func (c *Cube) Pose() *transform.Scene3D {
	return c.pose
}

func aspect(width, height int) float32 {
	if height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
