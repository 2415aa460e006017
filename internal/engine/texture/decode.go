// Package texture decodes image files and uploads them as 2D textures.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ErrUnsupportedFormat is returned when no decoder recognizes the data.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Pixels is decoded image data with 8 bits per channel. Rows are tightly
// packed; row 0 is the first row handed to the GPU, which samples it at v = 0.
type Pixels struct {
	Width    int
	Height   int
	Channels int // 3 (RGB) or 4 (RGBA)
	Data     []byte
}

// At returns the pixel at (x, y) as RGBA. Out of range reads return zero.
func (p *Pixels) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		return color.NRGBA{}
	}
	i := (y*p.Width + x) * p.Channels
	c := color.NRGBA{R: p.Data[i], G: p.Data[i+1], B: p.Data[i+2], A: 255}
	if p.Channels == 4 {
		c.A = p.Data[i+3]
	}
	return c
}

// FlipVertical reverses the row order in place.
func (p *Pixels) FlipVertical() {
	row := p.Width * p.Channels
	tmp := make([]byte, row)
	for top, bottom := 0, p.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := p.Data[top*row : (top+1)*row]
		b := p.Data[bottom*row : (bottom+1)*row]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// Convert returns a copy with the given channel count (3 or 4). Alpha is
// dropped going to 3 and set opaque going to 4.
func (p *Pixels) Convert(channels int) *Pixels {
	if channels == p.Channels {
		return p
	}
	out := &Pixels{
		Width:    p.Width,
		Height:   p.Height,
		Channels: channels,
		Data:     make([]byte, p.Width*p.Height*channels),
	}
	for i, j := 0, 0; i < len(p.Data); i, j = i+p.Channels, j+channels {
		out.Data[j] = p.Data[i]
		out.Data[j+1] = p.Data[i+1]
		out.Data[j+2] = p.Data[i+2]
		if channels == 4 {
			out.Data[j+3] = 255
		}
	}
	return out
}

// Channels returns the channel count the file itself declares, judged by
// the decoder's concrete image type: formats carrying an alpha channel give
// 4 even when every pixel is opaque, all others give 3. Grayscale expands
// to 3 and gray+alpha to 4.
func Channels(img image.Image) int {
	switch m := img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.NYCbCrA:
		return 4
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return 3
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4
			}
		}
		return 3
	case *image.RGBA:
		// PNG truecolor decodes to this and is always opaque; TIFF with
		// associated alpha does too, and keeps its alpha.
		if m.Opaque() {
			return 3
		}
		return 4
	case *image.RGBA64:
		if m.Opaque() {
			return 3
		}
		return 4
	}

	switch img.ColorModel() {
	case color.NRGBAModel, color.NRGBA64Model, color.RGBAModel, color.RGBA64Model, color.AlphaModel, color.Alpha16Model:
		return 4
	}
	return 3
}

// FromImage converts a decoded image to 8-bit non-premultiplied pixels with
// the channel count reported by Channels.
func FromImage(img image.Image) *Pixels {
	channels := Channels(img)

	b := img.Bounds()
	p := &Pixels{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: channels,
		Data:     make([]byte, b.Dx()*b.Dy()*channels),
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			p.Data[i] = c.R
			p.Data[i+1] = c.G
			p.Data[i+2] = c.B
			if channels == 4 {
				p.Data[i+3] = c.A
			}
			i += channels
		}
	}
	return p
}

// Source reads raw file data by path.
type Source interface {
	Load(path string) ([]byte, error)
}

// Loader decodes image files. FlipVertically applies to every decode made
// through the loader.
type Loader struct {
	Source         Source // nil reads from the filesystem
	FlipVertically bool
}

// Decode reads and decodes the image at path.
func (l *Loader) Decode(path string) (*Pixels, error) {
	var (
		data []byte
		err  error
	)
	if l.Source != nil {
		data, err = l.Source.Load(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return l.DecodeBytes(path, data)
}

// DecodeBytes decodes in-memory image data. name is used for errors and to
// recognize TGA files, which carry no magic number.
func (l *Loader) DecodeBytes(name string, data []byte) (*Pixels, error) {
	var (
		p   *Pixels
		err error
	)
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		p, err = DecodeTGA(data)
	} else {
		var img image.Image
		img, _, err = image.Decode(bytes.NewReader(data))
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("decode %s: %w", name, ErrUnsupportedFormat)
		}
		if err == nil {
			p = FromImage(img)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if p.Width == 0 || p.Height == 0 {
		return nil, fmt.Errorf("decode %s: empty image", name)
	}

	if l.FlipVertically {
		p.FlipVertical()
	}
	return p, nil
}
