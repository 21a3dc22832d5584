package frame

import (
	"fmt"
	"image/color"
	"io"
	"io/ioutil"
	"strings"
)

// Report is a color-usage summary over an encoded framebuffer. It is
// computed on demand for diagnostics and never persisted.
type Report struct {
	// Size is the buffer length in bytes.
	Size int
	// Resolution is the inferred resolution; only valid when Inferred
	// is set.
	Resolution Resolution
	Inferred   bool
	// Counts holds the number of pixels using each palette index.
	Counts [PaletteSize]int
}

// Total returns the number of decoded pixels.
func (r *Report) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// Percent returns the share of pixels using palette index i.
func (r *Report) Percent(i int) float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return float64(r.Counts[i]) / float64(total) * 100
}

func (r *Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "File size: %d bytes\n", r.Size)
	if r.Inferred {
		fmt.Fprintf(&b, "Resolution: %v\n", r.Resolution)
	} else {
		fmt.Fprintln(&b, "Resolution: unknown")
	}
	fmt.Fprintf(&b, "Total pixels: %d\n", r.Total())

	for i, n := range r.Counts {
		if n == 0 {
			continue
		}
		c := Palette[i].(color.RGBA)
		fmt.Fprintf(&b, "%-8s (%3d, %3d, %3d): %8d pixels (%5.1f%%)\n",
			ColorNames[i], c.R, c.G, c.B, n, r.Percent(i))
	}

	return b.String()
}

// Analyze reads an encoded framebuffer from r and tallies palette usage
// across both nibbles of every byte. Indices outside the palette are
// ignored, so for a well-formed buffer the counts sum to width * height
// exactly.
func Analyze(r io.Reader) (*Report, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	report := &Report{Size: len(data)}
	report.Resolution, report.Inferred = inferResolution(len(data))

	for _, b := range data {
		for _, idx := range [2]byte{b >> 4 & 0x0f, b & 0x0f} {
			if idx < PaletteSize {
				report.Counts[idx]++
			}
		}
	}

	return report, nil
}
