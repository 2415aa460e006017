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

// QuadTexture is the quad's default texture, relative to the asset root.
const QuadTexture = "source/textures/warwick.jpg"

// Quad draws one textured, vertex-colored rectangle twice per frame, each
// time with its own transform.
type Quad struct {
	program  *shader.Program
	mesh     *mesh.Mesh
	texture  *texture.Texture
	instance *transform.Scene2D
}

func (q *Quad) Name() string { return "quad" }

func (q *Quad) Settings() Settings {
	return Settings{ClearColor: [4]float32{0.2, 0.7, 0.2, 1}}
}

func (q *Quad) Setup(r *renderer.Renderer, opts Options) error {
	vs, fs := opts.shaders(assets.QuadVertexShader, assets.QuadFragmentShader)
	q.program = r.Program(opts.assets(), vs, fs)
	q.mesh = r.Mesh(mesh.Quad())

	texOpts, err := opts.textureOptions(gpu.WrapClampToBorder)
	if err != nil {
		return err
	}
	q.texture, err = r.Texture(opts.loader(), opts.texture(0, QuadTexture), texOpts)
	if err != nil {
		return err
	}

	q.program.Use()
	q.program.SetInt("warwick", 0)

	q.instance = transform.NewScene2D()
	return nil
}

func (q *Quad) Update(in *input.State) {
	q.instance.Apply(in)
}

func (q *Quad) Draw(r *renderer.Renderer) {
	r.Bind(q.mesh, q.program, q.texture)

	q.program.SetMat4("transform", q.instance.First)
	q.mesh.Draw()

	q.program.SetMat4("transform", q.instance.Second)
	q.mesh.Draw()
}

func (q *Quad) Resize(int, int) {}

// Transforms returns the current instance transforms.
func (q *Quad) Transforms() *transform.Scene2D {
	return q.instance
}
