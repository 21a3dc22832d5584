package epaper

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/bodgit/epaper/frame"
	"github.com/disintegration/gift"
	"github.com/nfnt/resize"
)

// EncodeOptions control the optional parts of the encode pipeline. The zero
// value (or nil) encodes with negotiation and cropping only.
type EncodeOptions struct {
	// Resize scales the source to the largest supported resolution with
	// Lanczos resampling, keeping its orientation, before negotiation.
	Resize bool
	// Blur applies a Gaussian pre-blur with the given sigma before
	// dithering to tame noisy sources. Zero disables it.
	Blur float64
	// CArray, when non-empty, additionally writes the encoded bytes as
	// a C byte array to the given path for embedding in firmware source.
	CArray string
}

// key derives the cache key for a source image digest. Options that change
// the encoded bytes are part of the key; CArray is just an alternate
// rendering of the same bytes so it is not.
func (o *EncodeOptions) key(sha string) string {
	if o == nil {
		return sha
	}
	return fmt.Sprintf("%s:resize=%t:blur=%g", sha, o.Resize, o.Blur)
}

func (o *EncodeOptions) preprocess(m image.Image) image.Image {
	if o == nil {
		return m
	}

	if o.Resize {
		target := frame.Supported[0]
		w, h := target.W, target.H
		if b := m.Bounds(); b.Dy() > b.Dx() {
			w, h = h, w
		}
		m = resize.Resize(uint(w), uint(h), m, resize.Lanczos3)
	}

	if o.Blur > 0 {
		g := gift.New(gift.GaussianBlur(float32(o.Blur)))
		dst := image.NewRGBA(g.Bounds(m.Bounds()))
		g.Draw(dst, m)
		m = dst
	}

	return m
}

// EncodeFile converts the image at input into a packed framebuffer written
// to output. Identical conversions are served from the frame cache instead
// of being dithered again.
func (e *Epaper) EncodeFile(input, output string, opts *EncodeOptions) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	h := sha1.New()
	m, _, err := image.Decode(io.TeeReader(f, h))
	if err != nil {
		return err
	}

	m = opts.preprocess(m)

	b := m.Bounds()
	neg, err := frame.Negotiate(b.Dx(), b.Dy())
	if err != nil {
		return err
	}
	if neg.Rotate {
		e.logger.Printf("Rotating %dx%d (portrait) to %v (landscape)\n", b.Dx(), b.Dy(), neg.Target)
	}
	if neg.Clip {
		e.logger.Printf("Warning: %dx%d exceeds %v, cropping to fit\n", b.Dx(), b.Dy(), neg.Target)
	}

	key := opts.key(fmt.Sprintf("%X", h.Sum(nil)))

	buf, err := e.db.Lookup(key)
	if err != nil {
		return err
	}
	if buf == nil {
		out := new(bytes.Buffer)
		if err := frame.Encode(out, m); err != nil {
			return err
		}
		buf = out.Bytes()

		if err := e.db.Store(key, buf); err != nil {
			return err
		}
	} else {
		e.logger.Printf("Using cached frame for \"%s\"\n", input)
	}

	if err := writeFile(output, func(w io.Writer) error {
		_, err := w.Write(buf)
		return err
	}); err != nil {
		return err
	}

	if opts != nil && opts.CArray != "" {
		return writeFile(opts.CArray, func(w io.Writer) error {
			return frame.WriteCArray(w, buf, neg.Target)
		})
	}

	return nil
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	return write(f)
}
