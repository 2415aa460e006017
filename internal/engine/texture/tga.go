package texture

import "fmt"

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// data. 24-bit files decode to 3 channels, 32-bit files to 4. Rows come out
// top to bottom whatever the file's origin bit says.
func DecodeTGA(data []byte) (*Pixels, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	d := tgaDecoder{
		src:         data[offset:],
		srcBPP:      bpp / 8,
		topToBottom: descriptor&0x20 != 0,
		px: &Pixels{
			Width:    width,
			Height:   height,
			Channels: bpp / 8,
			Data:     make([]byte, width*height*(bpp/8)),
		},
	}

	if imageType == TGATypeUncompressed {
		if len(d.src) < width*height*d.srcBPP {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < width*height; i++ {
			d.put(i, d.src[i*d.srcBPP:])
		}
		return d.px, nil
	}

	d.decodeRLE()
	return d.px, nil
}

type tgaDecoder struct {
	src         []byte
	srcBPP      int
	topToBottom bool
	px          *Pixels
}

// put stores the BGR(A) pixel at src as the idx-th pixel in file order.
func (d *tgaDecoder) put(idx int, src []byte) {
	w, h := d.px.Width, d.px.Height
	x, y := idx%w, idx/w
	if !d.topToBottom {
		y = h - 1 - y
	}
	i := (y*w + x) * d.px.Channels
	d.px.Data[i] = src[2]
	d.px.Data[i+1] = src[1]
	d.px.Data[i+2] = src[0]
	if d.px.Channels == 4 {
		d.px.Data[i+3] = src[3]
	}
}

// decodeRLE expands run-length packets. Truncated input leaves the remaining
// pixels zeroed.
func (d *tgaDecoder) decodeRLE() {
	total := d.px.Width * d.px.Height
	pixel, pos := 0, 0

	for pixel < total && pos < len(d.src) {
		packet := d.src[pos]
		pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run packet: one pixel repeated
			if pos+d.srcBPP > len(d.src) {
				return
			}
			value := d.src[pos : pos+d.srcBPP]
			pos += d.srcBPP
			for i := 0; i < count && pixel < total; i++ {
				d.put(pixel, value)
				pixel++
			}
			continue
		}

		// Raw packet: count literal pixels
		for i := 0; i < count && pixel < total; i++ {
			if pos+d.srcBPP > len(d.src) {
				return
			}
			d.put(pixel, d.src[pos:pos+d.srcBPP])
			pos += d.srcBPP
			pixel++
		}
	}
}
