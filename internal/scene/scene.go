// Package scene contains the demo scenes: what gets uploaded at startup and
// what gets drawn each frame.
package scene

import (
	"errors"
	"fmt"

	"github.com/glround/glround/internal/assets"
	"github.com/glround/glround/internal/engine/gpu"
	"github.com/glround/glround/internal/engine/input"
	"github.com/glround/glround/internal/engine/renderer"
	"github.com/glround/glround/internal/engine/texture"
)

// ErrUnknownScene is returned by New for an unrecognized scene name.
var ErrUnknownScene = errors.New("unknown scene")

// Settings is the frame state a scene needs from the renderer.
type Settings struct {
	ClearColor [4]float32
	DepthTest  bool
}

// Options carries the resource overrides from configuration.
type Options struct {
	Assets *assets.Manager

	// Empty shader paths select the scene's embedded shaders.
	VertexShader   string
	FragmentShader string

	// Textures overrides the scene's texture files by unit. Missing entries
	// keep the default.
	Textures []string

	FlipVertically bool
	Format         gpu.PixelFormat

	// Wrap overrides the scene's wrap mode when non-empty.
	Wrap string
}

// Scene is one selectable demo.
type Scene interface {
	Name() string
	Settings() Settings

	// Setup creates every GPU resource through r, which owns them.
	Setup(r *renderer.Renderer, opts Options) error

	// Update consumes the frame's input deltas.
	Update(in *input.State)
	Draw(r *renderer.Renderer)

	// Resize is called with the new viewport size.
	Resize(width, height int)
}

// Names lists the available scenes.
var Names = []string{"quad", "cube"}

// New returns the scene with the given name.
func New(name string) (Scene, error) {
	switch name {
	case "quad":
		return &Quad{}, nil
	case "cube":
		return &Cube{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
}

func (o Options) assets() *assets.Manager {
	if o.Assets == nil {
		return assets.NewManager("")
	}
	return o.Assets
}

func (o Options) shaders(vertex, fragment string) (string, string) {
	if o.VertexShader != "" {
		vertex = o.VertexShader
	}
	if o.FragmentShader != "" {
		fragment = o.FragmentShader
	}
	return vertex, fragment
}

func (o Options) texture(unit int, def string) string {
	if unit < len(o.Textures) && o.Textures[unit] != "" {
		return o.Textures[unit]
	}
	return def
}

func (o Options) textureOptions(wrap gpu.Wrap) (texture.Options, error) {
	opts := texture.DefaultOptions()
	opts.Wrap = wrap
	opts.Format = o.Format
	if o.Wrap != "" {
		w, err := texture.ParseWrap(o.Wrap)
		if err != nil {
			return opts, err
		}
		opts.Wrap = w
	}
	return opts, nil
}

func (o Options) loader() *texture.Loader {
	return &texture.Loader{
		Source:         o.assets(),
		FlipVertically: o.FlipVertically,
	}
}
