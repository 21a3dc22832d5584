package frame

import (
	"image"
	"image/draw"
	"io"
)

type encoder struct {
	w io.Writer
}

// toRGBA normalizes any source image to RGBA with the top-left corner at
// (0, 0). Non-RGB source modes are not an error, just converted.
func toRGBA(m image.Image) *image.RGBA {
	b := m.Bounds()
	if rgba, ok := m.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	return dst
}

// rotate90 rotates m 90 degrees clockwise, turning a portrait image into
// the landscape orientation the panel expects.
func rotate90(m *image.RGBA) *image.RGBA {
	b := m.Bounds()
	w, h := b.Dy(), b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetRGBA(x, y, m.RGBAAt(y, b.Max.Y-1-x))
		}
	}
	return dst
}

// crop returns the top-left res.W by res.H region of m. Cropping only ever
// shrinks, it never pads.
func crop(m *image.RGBA, res Resolution) *image.RGBA {
	b := m.Bounds()
	if b.Dx() == res.W && b.Dy() == res.H {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, res.W, res.H))
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	return dst
}

func (e *encoder) encode(m *image.RGBA) error {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()

	buf := make([]byte, 0, (w+1)>>1*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x += 2 {
			hi := nearestIndexRGBA(m.RGBAAt(x, y))
			// Duplicate the last pixel if the width is odd; all
			// supported widths are even so this is defensive only.
			lo := hi
			if x+1 < w {
				lo = nearestIndexRGBA(m.RGBAAt(x+1, y))
			}
			buf = append(buf, hi<<4|lo)
		}
	}

	_, err := e.w.Write(buf)
	return err
}

// Encode writes the image m to w as a packed 4-bit framebuffer. The image
// dimensions are negotiated against the supported resolutions; a portrait
// transpose is rotated 90 degrees clockwise and an oversized input is
// cropped to the top-left target region. The image is reduced to the 8
// palette colors with Floyd-Steinberg dithering before packing.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	neg, err := Negotiate(b.Dx(), b.Dy())
	if err != nil {
		return err
	}

	rgba := toRGBA(m)
	if neg.Rotate {
		rgba = rotate90(rgba)
	}
	rgba = crop(rgba, neg.Target)

	e := encoder{w: w}

	return e.encode(dither(rgba))
}
