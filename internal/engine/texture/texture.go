package texture

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/glround/glround/internal/engine/gpu"
	"github.com/glround/glround/internal/logger"
)

// Options controls how decoded pixels become a texture.
type Options struct {
	Wrap      gpu.Wrap
	MinFilter gpu.Filter
	MagFilter gpu.Filter

	// Format forces the upload format. FormatAuto derives it from the
	// decoded channel count; a forced format converts the pixels first.
	Format gpu.PixelFormat

	NoMipmaps bool
}

// DefaultOptions returns repeat wrapping, trilinear minification and
// bilinear magnification with a mipmap chain.
func DefaultOptions() Options {
	return Options{
		Wrap:      gpu.WrapRepeat,
		MinFilter: gpu.FilterLinearMipmapLinear,
		MagFilter: gpu.FilterLinear,
		Format:    gpu.FormatAuto,
	}
}

// Texture is a GPU-resident 2D image.
type Texture struct {
	dev    gpu.Device
	handle gpu.Handle
	width  int
	height int
	format gpu.PixelFormat
}

// Load decodes the file at path and uploads it.
func (l *Loader) Load(dev gpu.Device, path string, opts Options) (*Texture, error) {
	px, err := l.Decode(path)
	if err != nil {
		return nil, fmt.Errorf("loading texture: %w", err)
	}

	t := Upload(dev, px, opts)

	logger.Debug("texture loaded",
		zap.String("path", path),
		zap.Int("width", t.width),
		zap.Int("height", t.height),
		zap.Stringer("format", t.format),
		zap.Uint32("handle", uint32(t.handle)),
	)
	return t, nil
}

// Upload creates a texture from decoded pixels. The device copies the data,
// so px is not retained.
func Upload(dev gpu.Device, px *Pixels, opts Options) *Texture {
	format := opts.Format
	if format == gpu.FormatAuto {
		format = gpu.FormatForChannels(px.Channels)
	}
	if px.Channels != format.Channels() {
		px = px.Convert(format.Channels())
	}

	params := gpu.TextureParams{
		WrapS:     opts.Wrap,
		WrapT:     opts.Wrap,
		MinFilter: opts.MinFilter,
		MagFilter: opts.MagFilter,
		Mipmaps:   !opts.NoMipmaps,
	}

	return &Texture{
		dev:    dev,
		handle: dev.CreateTexture(params, format, px.Width, px.Height, px.Data),
		width:  px.Width,
		height: px.Height,
		format: format,
	}
}

// Handle returns the texture object, or 0 after Delete.
func (t *Texture) Handle() gpu.Handle { return t.handle }

// Size returns the texture dimensions.
func (t *Texture) Size() (int, int) { return t.width, t.height }

// Format returns the upload format that was used.
func (t *Texture) Format() gpu.PixelFormat { return t.format }

// Bind binds the texture to a numbered texture unit.
func (t *Texture) Bind(unit uint32) {
	if t.handle == 0 {
		return
	}
	t.dev.BindTexture(unit, t.handle)
}

// Delete releases the texture. Further calls are no-ops.
func (t *Texture) Delete() {
	if t.handle == 0 {
		return
	}
	t.dev.DeleteTexture(t.handle)
	t.handle = 0
}

// ParseWrap maps a config wrap name to a wrap mode.
func ParseWrap(name string) (gpu.Wrap, error) {
	switch name {
	case "repeat":
		return gpu.WrapRepeat, nil
	case "clamp_to_border":
		return gpu.WrapClampToBorder, nil
	case "clamp_to_edge":
		return gpu.WrapClampToEdge, nil
	default:
		return 0, fmt.Errorf("unknown wrap mode %q", name)
	}
}

// ParseFormat maps a config format name to an upload format.
func ParseFormat(name string) (gpu.PixelFormat, error) {
	switch name {
	case "", "auto":
		return gpu.FormatAuto, nil
	case "rgb":
		return gpu.FormatRGB, nil
	case "rgba":
		return gpu.FormatRGBA, nil
	default:
		return 0, fmt.Errorf("unknown texture format %q", name)
	}
}
