package epaper

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/epaper/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()

	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetRGBA(x, y, c)
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, m))
}

func newTestEpaper(t *testing.T, dir string) (*Epaper, *bytes.Buffer) {
	t.Helper()

	logged := new(bytes.Buffer)
	e, err := New(filepath.Join(dir, "epaper.db"), log.New(logged, "", 0))
	require.NoError(t, err)

	return e, logged
}

func TestEncodeFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "epaper")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	e, logged := newTestEpaper(t, dir)
	defer e.Close()

	input := filepath.Join(dir, "white.png")
	output := filepath.Join(dir, "white.bin")
	writePNG(t, input, 800, 480, color.RGBA{0xff, 0xff, 0xff, 0xff})

	require.NoError(t, e.EncodeFile(input, output, nil))

	data, err := ioutil.ReadFile(output)
	require.NoError(t, err)
	require.Len(t, data, 192000)
	for _, v := range data {
		require.Equal(t, byte(0x11), v)
	}

	// A second conversion of the same source is served from the cache
	require.NoError(t, e.EncodeFile(input, output, nil))
	assert.Contains(t, logged.String(), "Using cached frame")
}

func TestEncodeFileCArray(t *testing.T) {
	dir, err := ioutil.TempDir("", "epaper")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	e, _ := newTestEpaper(t, dir)
	defer e.Close()

	input := filepath.Join(dir, "red.png")
	writePNG(t, input, 800, 480, color.RGBA{0xbf, 0x00, 0x00, 0xff})

	opts := &EncodeOptions{CArray: filepath.Join(dir, "red.c")}
	require.NoError(t, e.EncodeFile(input, filepath.Join(dir, "red.bin"), opts))

	source, err := ioutil.ReadFile(opts.CArray)
	require.NoError(t, err)
	assert.Contains(t, string(source), "// 7 Color Image Data 800*480")
	assert.Contains(t, string(source), "const unsigned char Image7color[192000] = {")
	assert.Contains(t, string(source), "0x44,")
}

func TestEncodeFilePortrait(t *testing.T) {
	dir, err := ioutil.TempDir("", "epaper")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	e, logged := newTestEpaper(t, dir)
	defer e.Close()

	input := filepath.Join(dir, "portrait.png")
	output := filepath.Join(dir, "portrait.bin")
	writePNG(t, input, 480, 800, color.RGBA{0xff, 0xff, 0xff, 0xff})

	require.NoError(t, e.EncodeFile(input, output, nil))
	assert.Contains(t, logged.String(), "Rotating 480x800")

	data, err := ioutil.ReadFile(output)
	require.NoError(t, err)
	assert.Len(t, data, 192000)
}

func TestEncodeFileUnsupported(t *testing.T) {
	dir, err := ioutil.TempDir("", "epaper")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	e, _ := newTestEpaper(t, dir)
	defer e.Close()

	input := filepath.Join(dir, "odd.png")
	writePNG(t, input, 123, 45, color.RGBA{0xff, 0xff, 0xff, 0xff})

	var unsupported *frame.UnsupportedResolutionError
	err = e.EncodeFile(input, filepath.Join(dir, "odd.bin"), nil)
	require.ErrorAs(t, err, &unsupported)
}

func TestEncodeFileResize(t *testing.T) {
	dir, err := ioutil.TempDir("", "epaper")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	e, _ := newTestEpaper(t, dir)
	defer e.Close()

	// Unsupported as-is, accepted once scaled to 800x480
	input := filepath.Join(dir, "photo.png")
	writePNG(t, input, 1024, 768, color.RGBA{0xff, 0xff, 0xff, 0xff})

	output := filepath.Join(dir, "photo.bin")
	require.NoError(t, e.EncodeFile(input, output, &EncodeOptions{Resize: true}))

	data, err := ioutil.ReadFile(output)
	require.NoError(t, err)
	assert.Len(t, data, 192000)
}

func TestDecodeFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "epaper")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	e, _ := newTestEpaper(t, dir)
	defer e.Close()

	input := filepath.Join(dir, "white.bin")
	require.NoError(t, ioutil.WriteFile(input, bytes.Repeat([]byte{0x11}, 192000), 0644))

	output := filepath.Join(dir, "white.png")
	require.NoError(t, e.DecodeFile(input, output, 0, 0))

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()

	m, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 480, 800), m.Bounds())

	r, g, b, _ := m.At(240, 400).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestDecodeFileUnknownResolution(t *testing.T) {
	dir, err := ioutil.TempDir("", "epaper")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	e, logged := newTestEpaper(t, dir)
	defer e.Close()

	input := filepath.Join(dir, "odd.bin")
	require.NoError(t, ioutil.WriteFile(input, make([]byte, 1000), 0644))

	err = e.DecodeFile(input, filepath.Join(dir, "odd.png"), 0, 0)
	assert.Equal(t, frame.ErrUnknownResolution, err)

	// An explicit resolution lets the decode proceed with a warning
	require.NoError(t, e.DecodeFile(input, filepath.Join(dir, "odd.png"), 800, 480))
	assert.Contains(t, logged.String(), "Warning: file size 1000 doesn't match expected 192000")
}

func TestAnalyzeFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "epaper")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	e, _ := newTestEpaper(t, dir)
	defer e.Close()

	input := filepath.Join(dir, "white.bin")
	require.NoError(t, ioutil.WriteFile(input, bytes.Repeat([]byte{0x11}, 192000), 0644))

	report, err := e.AnalyzeFile(input)
	require.NoError(t, err)
	assert.Equal(t, 800*480, report.Total())
	assert.Equal(t, 800*480, report.Counts[frame.White])
}

func TestScan(t *testing.T) {
	dir, err := ioutil.TempDir("", "epaper")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	e, _ := newTestEpaper(t, dir)
	defer e.Close()

	writePNG(t, filepath.Join(dir, "a.png"), 800, 480, color.RGBA{0xff, 0xff, 0xff, 0xff})
	writePNG(t, filepath.Join(dir, "b.png"), 640, 400, color.RGBA{0xbf, 0x00, 0x00, 0xff})
	// Unsupported sizes are skipped, not fatal
	writePNG(t, filepath.Join(dir, "skip.png"), 12, 34, color.RGBA{0xff, 0xff, 0xff, 0xff})

	require.NoError(t, e.Scan(dir, nil))

	data, err := ioutil.ReadFile(filepath.Join(dir, "a.bin"))
	require.NoError(t, err)
	assert.Len(t, data, 192000)

	data, err = ioutil.ReadFile(filepath.Join(dir, "b.bin"))
	require.NoError(t, err)
	assert.Len(t, data, 128000)

	_, err = os.Stat(filepath.Join(dir, "skip.bin"))
	assert.True(t, os.IsNotExist(err))
}
