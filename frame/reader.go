package frame

import (
	"image"
	"image/color"
	"io"
	"io/ioutil"
)

type decoder struct {
	data []byte
	res  Resolution
}

// unpack expands the packed nibbles back into an RGB raster via the shared
// palette. Short buffers decode up to the available bytes; indices beyond
// the palette fall back to black like the firmware does.
func (d *decoder) unpack() *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, d.res.W, d.res.H))

	i := 0
	for y := 0; y < d.res.H; y++ {
		for x := 0; x < d.res.W; x += 2 {
			if i >= len(d.data) {
				return m
			}
			b := d.data[i]
			i++

			m.SetRGBA(x, y, paletteColor(b>>4&0x0f))
			if x+1 < d.res.W {
				m.SetRGBA(x+1, y, paletteColor(b&0x0f))
			}
		}
	}

	return m
}

func paletteColor(idx byte) color.RGBA {
	if idx >= PaletteSize {
		idx = Black
	}
	return Palette[idx].(color.RGBA)
}

// rotate270 rotates m 90 degrees counter-clockwise, restoring the original
// viewing orientation of a decoded frame.
func rotate270(m *image.RGBA) *image.RGBA {
	b := m.Bounds()
	w, h := b.Dy(), b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetRGBA(x, y, m.RGBAAt(b.Max.X-1-y, x))
		}
	}
	return dst
}

// Decode reads a packed framebuffer from r and returns it as an
// image.Image, rotated back into its original viewing orientation. The
// resolution is inferred from the buffer length; if it matches no supported
// resolution Decode fails with ErrUnknownResolution.
func Decode(r io.Reader) (image.Image, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	res, ok := inferResolution(len(data))
	if !ok {
		return nil, ErrUnknownResolution
	}

	return DecodeResolution(data, res)
}

// DecodeResolution decodes data as a frame of an explicitly supplied
// resolution, bypassing inference. A buffer shorter than res.Size() decodes
// up to the available bytes; it is up to the caller to treat the length
// mismatch as suspect.
func DecodeResolution(data []byte, res Resolution) (image.Image, error) {
	d := decoder{data: data, res: res}
	return rotate270(d.unpack()), nil
}

// DecodeConfig returns the color model and dimensions of a packed
// framebuffer without decoding the pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}

	res, ok := inferResolution(len(data))
	if !ok {
		return image.Config{}, ErrUnknownResolution
	}

	return image.Config{
		ColorModel: Palette,
		Width:      res.W,
		Height:     res.H,
	}, nil
}
