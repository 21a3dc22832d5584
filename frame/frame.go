/*
Package frame implements an encoder and decoder for the packed framebuffer
format used by 7-color e-paper panels.

A frame is written as one 4-bit palette index per pixel, two pixels packed
per byte in row-major order; the high nibble holds the earlier pixel. The
palette is a fixed table of 8 colors so an encoded frame is always exactly
(width * height) / 2 bytes with no header, magic bytes or length prefix; the
consuming firmware knows the resolution out of band.
*/
package frame

import (
	"errors"
	"fmt"
	"image/color"
)

// Palette indices as stored in the framebuffer.
const (
	Black = iota
	White
	Green
	Blue
	Red
	Yellow
	Orange
	LightPurple
)

// PaletteSize is the number of colors an e-paper panel can display.
const PaletteSize = 8

// Palette is the fixed color table shared by the encoder and decoder. The
// order is the wire format and must never change.
var Palette = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xff}, // Black
	color.RGBA{0xff, 0xff, 0xff, 0xff}, // White
	color.RGBA{0x43, 0x8a, 0x1c, 0xff}, // Green
	color.RGBA{0x64, 0x40, 0xff, 0xff}, // Blue
	color.RGBA{0xbf, 0x00, 0x00, 0xff}, // Red
	color.RGBA{0xff, 0xf3, 0x38, 0xff}, // Yellow
	color.RGBA{0xe8, 0x7e, 0x00, 0xff}, // Orange
	color.RGBA{0xc2, 0xa4, 0xf4, 0xff}, // Light purple, the afterimage state
}

// ColorNames maps palette indices to their conventional names.
var ColorNames = [PaletteSize]string{
	"Black",
	"White",
	"Green",
	"Blue",
	"Red",
	"Yellow",
	"Orange",
	"Purple",
}

// Resolution is a panel resolution in pixels.
type Resolution struct {
	W, H int
}

// Size returns the number of bytes an encoded frame of this resolution
// occupies.
func (r Resolution) Size() int {
	return r.W * r.H >> 1
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.W, r.H)
}

// Supported lists the panel resolutions in the order they are tried during
// negotiation and inference. All widths are even so Size is always exact.
var Supported = []Resolution{
	{800, 480},
	{640, 400},
	{600, 448},
}

// ErrUnknownResolution is returned when a buffer length matches none of the
// supported resolutions and no explicit resolution was supplied.
var ErrUnknownResolution = errors.New("frame: cannot infer resolution from buffer length")

// UnsupportedResolutionError is returned when an input image cannot be
// mapped onto any supported resolution, even after trying a 90 degree
// rotation.
type UnsupportedResolutionError struct {
	W, H int
}

func (e *UnsupportedResolutionError) Error() string {
	return fmt.Sprintf("frame: unsupported resolution %dx%d, supported: %v", e.W, e.H, Supported)
}

// Negotiation describes how an input image maps onto a supported resolution.
type Negotiation struct {
	// Target is the resolution the encoded frame will have.
	Target Resolution
	// Rotate is set when the input is the portrait transpose of a
	// supported resolution and must be rotated 90 degrees clockwise.
	Rotate bool
	// Clip is set when the input extends beyond Target and will be
	// cropped to the top-left Target region.
	Clip bool
}

// Negotiate maps the input dimensions onto a supported resolution. An input
// matching the transpose of a supported resolution is rotated; an input of a
// supported width but lesser height is encoded as-is; one of a supported
// width but greater height is clipped. Anything else fails with
// *UnsupportedResolutionError.
func Negotiate(w, h int) (Negotiation, error) {
	for _, res := range Supported {
		switch {
		case w == res.H && h == res.W:
			return Negotiation{Target: res, Rotate: true}, nil
		case w == res.W:
			if h > res.H {
				return Negotiation{Target: res, Clip: true}, nil
			}
			return Negotiation{Target: Resolution{res.W, h}}, nil
		}
	}
	return Negotiation{}, &UnsupportedResolutionError{w, h}
}

// inferResolution matches a buffer length against the supported resolutions.
// First exact match wins; the three current resolutions all pack to distinct
// sizes, and any future addition must keep it that way or inference has to
// fail closed.
func inferResolution(size int) (Resolution, bool) {
	for _, res := range Supported {
		if size == res.Size() {
			return res, true
		}
	}
	return Resolution{}, false
}
