package epaper

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"io/ioutil"
	"os"

	"github.com/bodgit/epaper/frame"
)

// DecodeFile reads the packed framebuffer at input and writes it to output
// as a PNG in its original viewing orientation. With width and height both
// zero the resolution is inferred from the file length; otherwise the
// supplied resolution is used, decoding up to the available bytes if the
// length disagrees.
func (e *Epaper) DecodeFile(input, output string, width, height int) error {
	data, err := ioutil.ReadFile(input)
	if err != nil {
		return err
	}

	var m image.Image
	if width > 0 && height > 0 {
		res := frame.Resolution{W: width, H: height}
		if len(data) != res.Size() {
			e.logger.Printf("Warning: file size %d doesn't match expected %d for %v\n", len(data), res.Size(), res)
		}
		m, err = frame.DecodeResolution(data, res)
	} else {
		m, err = frame.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return err
	}

	return writeFile(output, func(w io.Writer) error {
		return png.Encode(w, m)
	})
}

// AnalyzeFile returns a color-usage report for the packed framebuffer at
// input.
func (e *Epaper) AnalyzeFile(input string) (*frame.Report, error) {
	f, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return frame.Analyze(f)
}
