package texture

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/glround/glround/internal/engine/gpu"
	"github.com/glround/glround/internal/engine/gpu/gputest"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// rgbaPNG encodes img as an 8-bit RGBA PNG (color type 6) even when it is
// fully opaque, which png.Encode would write as RGB.
func rgbaPNG(t *testing.T, img *image.NRGBA) []byte {
	t.Helper()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	var idat bytes.Buffer
	zw := zlib.NewWriter(&idat)
	for y := 0; y < h; y++ {
		_, err := zw.Write(append([]byte{0}, img.Pix[y*img.Stride:y*img.Stride+w*4]...))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	var out bytes.Buffer
	chunk := func(typ string, data []byte) {
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(data)))
		out.Write(n[:])
		out.WriteString(typ)
		out.Write(data)
		crc := crc32.NewIEEE()
		crc.Write([]byte(typ))
		crc.Write(data)
		binary.BigEndian.PutUint32(n[:], crc.Sum32())
		out.Write(n[:])
	}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], uint32(w))
	binary.BigEndian.PutUint32(ihdr[4:], uint32(h))
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // truecolor with alpha

	out.WriteString("\x89PNG\r\n\x1a\n")
	chunk("IHDR", ihdr)
	chunk("IDAT", idat.Bytes())
	chunk("IEND", nil)
	return out.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDecodeChannels(t *testing.T) {
	translucent := solid(2, 2, red)
	translucent.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(0, 0, color.Gray{Y: 200})

	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, solid(8, 8, blue), nil))

	var bmpData bytes.Buffer
	require.NoError(t, bmp.Encode(&bmpData, solid(3, 2, green)))

	opaquePalette := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{red, blue})
	alphaPalette := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{red, color.NRGBA{}})

	tests := []struct {
		name     string
		file     string
		data     func() []byte
		channels int
	}{
		{"opaque png", "a.png", func() []byte { return encodePNG(t, solid(2, 2, red)) }, 3},
		{"translucent png", "a.png", func() []byte { return encodePNG(t, translucent) }, 4},
		{"opaque rgba png", "a.png", func() []byte { return rgbaPNG(t, solid(2, 2, red)) }, 4},
		{"opaque palette png", "a.png", func() []byte { return encodePNG(t, opaquePalette) }, 3},
		{"palette png with alpha", "a.png", func() []byte { return encodePNG(t, alphaPalette) }, 4},
		{"gray png", "a.png", func() []byte { return encodePNG(t, gray) }, 3},
		{"jpeg", "a.jpg", func() []byte { return jpg.Bytes() }, 3},
		{"bmp", "a.bmp", func() []byte { return bmpData.Bytes() }, 3},
	}

	var l Loader
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := l.DecodeBytes(tt.file, tt.data())
			require.NoError(t, err)
			assert.Equal(t, tt.channels, p.Channels)
			assert.Len(t, p.Data, p.Width*p.Height*p.Channels)
		})
	}

	p, err := l.DecodeBytes("a.png", encodePNG(t, translucent))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 128}, p.At(1, 1))

	p, err = l.DecodeBytes("a.png", encodePNG(t, gray))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, p.At(0, 0))
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeFlip(t *testing.T) {
	img := solid(1, 2, red)
	img.SetNRGBA(0, 1, blue)
	data := encodePNG(t, img)

	p, err := (&Loader{}).DecodeBytes("a.png", data)
	require.NoError(t, err)
	assert.Equal(t, red, p.At(0, 0))
	assert.Equal(t, blue, p.At(0, 1))

	p, err = (&Loader{FlipVertically: true}).DecodeBytes("a.png", data)
	require.NoError(t, err)
	assert.Equal(t, blue, p.At(0, 0))
	assert.Equal(t, red, p.At(0, 1))
}

func TestDecodeErrors(t *testing.T) {
	var l Loader

	_, err := l.DecodeBytes("a.png", []byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = l.Decode(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = l.DecodeBytes("a.tga", []byte{1, 2, 3})
	assert.Error(t, err)
}

func tgaHeader(imageType byte, w, h int, bpp byte, descriptor byte) []byte {
	return []byte{
		0, 0, imageType,
		0, 0, 0, 0, 0,
		0, 0, 0, 0,
		byte(w), byte(w >> 8), byte(h), byte(h >> 8),
		bpp, descriptor,
	}
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x2, 24-bit, bottom-up: file rows are bottom (blue, green), top (red, white).
	data := tgaHeader(TGATypeUncompressed, 2, 2, 24, 0)
	data = append(data,
		255, 0, 0, 0, 255, 0, // blue, green (BGR)
		0, 0, 255, 255, 255, 255, // red, white
	)

	p, err := DecodeTGA(data)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Channels)
	assert.Equal(t, red, p.At(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, p.At(1, 0))
	assert.Equal(t, blue, p.At(0, 1))
	assert.Equal(t, green, p.At(1, 1))
}

func TestDecodeTGARLE(t *testing.T) {
	// 3x1, 32-bit, top-down: a run of two half-transparent red pixels, then one raw green.
	data := tgaHeader(TGATypeRLE, 3, 1, 32, 0x20)
	data = append(data,
		0x81, 0, 0, 255, 128,
		0x00, 0, 255, 0, 255,
	)

	p, err := (&Loader{}).DecodeBytes("x.TGA", data)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Channels)
	assert.Equal(t, color.NRGBA{R: 255, A: 128}, p.At(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, A: 128}, p.At(1, 0))
	assert.Equal(t, green, p.At(2, 0))
}

func TestDecodeTGARejects(t *testing.T) {
	_, err := DecodeTGA(tgaHeader(1, 1, 1, 8, 0))
	assert.Error(t, err)
	_, err = DecodeTGA(tgaHeader(TGATypeUncompressed, 1, 1, 16, 0))
	assert.Error(t, err)
	_, err = DecodeTGA(tgaHeader(TGATypeUncompressed, 4, 4, 24, 0))
	assert.Error(t, err, "truncated pixel data")
}

func TestUploadDerivesFormat(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		force    gpu.PixelFormat
		want     gpu.PixelFormat
	}{
		{"rgb derived", 3, gpu.FormatAuto, gpu.FormatRGB},
		{"rgba derived", 4, gpu.FormatAuto, gpu.FormatRGBA},
		{"forced rgb", 4, gpu.FormatRGB, gpu.FormatRGB},
		{"forced rgba", 3, gpu.FormatRGBA, gpu.FormatRGBA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gputest.New()
			px := &Pixels{Width: 2, Height: 2, Channels: tt.channels, Data: make([]byte, 4*tt.channels)}
			opts := DefaultOptions()
			opts.Format = tt.force

			tex := Upload(dev, px, opts)

			assert.Equal(t, tt.want, tex.Format())
			o := dev.Object(tex.Handle())
			require.NotNil(t, o)
			assert.Equal(t, tt.want, o.Format)
			assert.Len(t, o.Pixels, 4*tt.want.Channels())
			assert.Empty(t, dev.Misuse)
		})
	}
}

func TestLoadParams(t *testing.T) {
	dev := gputest.New()
	path := writePNG(t, solid(4, 4, red))

	opts := DefaultOptions()
	opts.Wrap = gpu.WrapClampToBorder
	tex, err := (&Loader{}).Load(dev, path, opts)
	require.NoError(t, err)

	o := dev.Object(tex.Handle())
	assert.Equal(t, gpu.TextureParams{
		WrapS:     gpu.WrapClampToBorder,
		WrapT:     gpu.WrapClampToBorder,
		MinFilter: gpu.FilterLinearMipmapLinear,
		MagFilter: gpu.FilterLinear,
		Mipmaps:   true,
	}, o.Params)
	w, h := tex.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 4, h)
}

func TestLoadFailureCreatesNothing(t *testing.T) {
	dev := gputest.New()
	_, err := (&Loader{}).Load(dev, filepath.Join(t.TempDir(), "warwick.jpg"), DefaultOptions())

	assert.Error(t, err)
	assert.Empty(t, dev.Objects(gputest.KindTexture))
}

func TestSampleRedTexture(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format gpu.PixelFormat
	}{
		{"rgba file", rgbaPNG(t, solid(4, 4, red)), gpu.FormatRGBA},
		{"rgb file", encodePNG(t, solid(4, 4, red)), gpu.FormatRGB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gputest.New()
			path := writeFile(t, "red.png", tt.data)

			tex, err := (&Loader{FlipVertically: true}).Load(dev, path, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.format, tex.Format())
			assert.Len(t, dev.Object(tex.Handle()).Pixels, 4*4*tt.format.Channels())

			got, err := dev.Sample(tex.Handle(), 0, 0)
			require.NoError(t, err)
			assert.Equal(t, [4]uint8{255, 0, 0, 255}, got)
		})
	}
}

func TestSampleHonorsFlip(t *testing.T) {
	img := solid(4, 4, red)
	img.SetNRGBA(0, 3, green) // bottom-left in image space
	path := writePNG(t, img)

	for _, flip := range []bool{false, true} {
		dev := gputest.New()
		tex, err := (&Loader{FlipVertically: flip}).Load(dev, path, DefaultOptions())
		require.NoError(t, err)

		got, err := dev.Sample(tex.Handle(), 0, 0)
		require.NoError(t, err)
		if flip {
			assert.Equal(t, [4]uint8{0, 255, 0, 255}, got, "flipped: v=0 is the image's bottom row")
		} else {
			assert.Equal(t, [4]uint8{255, 0, 0, 255}, got, "unflipped: v=0 is the image's top row")
		}
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	dev := gputest.New()
	tex := Upload(dev, &Pixels{Width: 1, Height: 1, Channels: 3, Data: []byte{1, 2, 3}}, DefaultOptions())
	h := tex.Handle()

	tex.Delete()
	tex.Delete()
	tex.Bind(0)

	assert.Equal(t, 1, dev.Object(h).Deletes)
	assert.Empty(t, dev.Misuse)
}

func TestParse(t *testing.T) {
	w, err := ParseWrap("clamp_to_border")
	require.NoError(t, err)
	assert.Equal(t, gpu.WrapClampToBorder, w)
	_, err = ParseWrap("mirror")
	assert.Error(t, err)

	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, gpu.FormatAuto, f)
	f, err = ParseFormat("rgba")
	require.NoError(t, err)
	assert.Equal(t, gpu.FormatRGBA, f)
	_, err = ParseFormat("bgr")
	assert.Error(t, err)
}
