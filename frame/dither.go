package frame

import (
	"image"
	"image/color"
)

// nearestIndex returns the palette index closest to the given color by
// squared Euclidean distance. Ties resolve to the lowest index as the
// palette is scanned in fixed order, keeping the result deterministic.
func nearestIndex(r, g, b float64) byte {
	best, bestDist := 0, 0.0
	for i, c := range Palette {
		p := c.(color.RGBA)
		dr := r - float64(p.R)
		dg := g - float64(p.G)
		db := b - float64(p.B)
		dist := dr*dr + dg*dg + db*db
		if i == 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return byte(best)
}

// nearestIndexRGBA is the 8-bit entry point used when packing an already
// dithered image. For an exact palette color the distance to its own entry
// is zero so this reproduces the index chosen during dithering.
func nearestIndexRGBA(c color.RGBA) byte {
	return nearestIndex(float64(c.R), float64(c.G), float64(c.B))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// dither reduces m to the 8 palette colors using Floyd-Steinberg error
// diffusion. Pixels are processed row-major, left to right; the
// quantization error of each pixel is diffused to its unprocessed
// neighbours:
//
//	          X    7/16
//	3/16    5/16   1/16
//
// The working copy uses float64 channels so diffused error is not lost to
// rounding; every accumulation is clamped back to [0, 255] so the next
// quantization stays well-defined. The returned image contains only exact
// palette colors.
func dither(m *image.RGBA) *image.RGBA {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()

	buf := make([]float64, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := m.RGBAAt(b.Min.X+x, b.Min.Y+y)
			i := (y*w + x) * 3
			buf[i+0] = float64(c.R)
			buf[i+1] = float64(c.G)
			buf[i+2] = float64(c.B)
		}
	}

	diffuse := func(x, y int, er, eg, eb, weight float64) {
		if x < 0 || x >= w || y >= h {
			return
		}
		i := (y*w + x) * 3
		buf[i+0] = clamp(buf[i+0] + er*weight)
		buf[i+1] = clamp(buf[i+1] + eg*weight)
		buf[i+2] = clamp(buf[i+2] + eb*weight)
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			idx := nearestIndex(buf[i+0], buf[i+1], buf[i+2])
			c := Palette[idx].(color.RGBA)
			out.SetRGBA(x, y, c)

			er := buf[i+0] - float64(c.R)
			eg := buf[i+1] - float64(c.G)
			eb := buf[i+2] - float64(c.B)

			diffuse(x+1, y, er, eg, eb, 7.0/16)
			diffuse(x-1, y+1, er, eg, eb, 3.0/16)
			diffuse(x, y+1, er, eg, eb, 5.0/16)
			diffuse(x+1, y+1, er, eg, eb, 1.0/16)
		}
	}

	return out
}
