// Package debug writes image captures of the display and the shadow maps.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
)

// Capture formats.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

// Capture writes image files into a directory.
type Capture struct {
	outputDir string
	format    string
	now       func() time.Time
}

// NewCapture creates a capture handler writing into outputDir. Timestamped
// names use format as their extension; an empty format means PNG.
func NewCapture(outputDir, format string) *Capture {
	if format == "" {
		format = FormatPNG
	}
	return &Capture{outputDir: outputDir, format: format, now: time.Now}
}

// OutputDir returns the directory captures are written to.
func (c *Capture) OutputDir() string {
	return c.outputDir
}

// TimestampedName returns prefix with the current time appended, e.g.
// "display_2006-01-02_15-04-05.png".
func (c *Capture) TimestampedName(prefix string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, c.now().Format("2006-01-02_15-04-05"), c.format)
}

// Name returns prefix with the capture format's extension.
func (c *Capture) Name(prefix string) string {
	return prefix + "." + c.format
}

// WriteImage encodes img into the output directory under name and returns
// the path written. A ".bmp" extension selects BMP, anything else PNG.
func (c *Capture) WriteImage(name string, img image.Image) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	path := filepath.Join(c.outputDir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(name), "."+FormatBMP) {
		err = bmp.Encode(file, img)
	} else {
		err = png.Encode(file, img)
	}
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", name, err)
	}
	return path, nil
}

// Display captures the display of dev.
func (c *Capture) Display(dev gfx.Device, name string) (string, error) {
	pix, err := dev.ReadDisplay()
	if err != nil {
		return "", fmt.Errorf("reading display: %w", err)
	}
	w, h := dev.DisplaySize()
	img, err := TexelsToImage(pix, w, h, 4, false)
	if err != nil {
		return "", err
	}
	return c.WriteImage(name, img)
}

// Texture captures a shadow map. Values are normalized to the range present
// in the map so depth and distance maps are visible; all faces of a cube map
// share one range and are written as a strip in +X, -X, +Y, -Y, +Z, -Z order.
func (c *Capture) Texture(dev gfx.Device, tex gfx.Texture, name string) (string, error) {
	desc := tex.Desc()
	faces := 1
	if desc.Cube {
		faces = gfx.CubeFaces
	}
	channels := desc.Format.Channels()

	texels := make([][]float32, faces)
	for face := range texels {
		t, err := dev.ReadTexture(tex, face)
		if err != nil {
			return "", fmt.Errorf("reading %s face %d: %w", desc.Label, face, err)
		}
		if err := checkTexels(t, desc.Width, desc.Height, channels); err != nil {
			return "", err
		}
		texels[face] = t
	}
	lo, scale := valueRange(texels, channels)

	strip := image.NewRGBA(image.Rect(0, 0, desc.Width*faces, desc.Height))
	for face, t := range texels {
		img := convertTexels(t, desc.Width, desc.Height, channels, lo, scale, true)
		off := face * desc.Width * 4
		for y := 0; y < desc.Height; y++ {
			copy(strip.Pix[y*strip.Stride+off:], img.Pix[y*img.Stride:(y+1)*img.Stride])
		}
	}
	return c.WriteImage(name, strip)
}

// TexelsToImage converts float texels stored bottom row first into an image,
// flipping it upright. Texels with fewer than three channels become gray
// from their first channel. With normalize the first channel's range is
// stretched to full intensity; otherwise values are clamped to [0, 1].
func TexelsToImage(texels []float32, width, height, channels int, normalize bool) (*image.RGBA, error) {
	if err := checkTexels(texels, width, height, channels); err != nil {
		return nil, err
	}
	lo, scale := float32(0), float32(1)
	if normalize {
		lo, scale = valueRange([][]float32{texels}, channels)
	}
	return convertTexels(texels, width, height, channels, lo, scale, normalize), nil
}

func checkTexels(texels []float32, width, height, channels int) error {
	if channels < 1 || channels > 4 {
		return fmt.Errorf("unsupported channel count %d", channels)
	}
	if len(texels) != width*height*channels {
		return fmt.Errorf("texel data size mismatch: expected %d, got %d", width*height*channels, len(texels))
	}
	return nil
}

// convertTexels maps (v - lo) * scale onto 8 bits. Alpha is kept only for
// four-channel images that are not normalized.
func convertTexels(texels []float32, width, height, channels int, lo, scale float32, normalize bool) *image.RGBA {
	conv := func(v float32) uint8 {
		v = (v - lo) * scale
		switch {
		case v <= 0:
			return 0
		case v >= 1:
			return 255
		}
		return uint8(v*255 + 0.5)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * width * channels
		for x := 0; x < width; x++ {
			t := texels[src+x*channels : src+(x+1)*channels]
			var px color.RGBA
			if channels < 3 {
				g := conv(t[0])
				px = color.RGBA{g, g, g, 255}
			} else {
				px = color.RGBA{conv(t[0]), conv(t[1]), conv(t[2]), 255}
				if channels == 4 && !normalize {
					px.A = conv(t[3])
				}
			}
			img.SetRGBA(x, y, px)
		}
	}
	return img
}

// valueRange returns the offset and scale mapping the first channel's range
// over every slice onto [0, 1].
func valueRange(faces [][]float32, channels int) (lo, scale float32) {
	lo, hi := faces[0][0], faces[0][0]
	for _, texels := range faces {
		for i := 0; i < len(texels); i += channels {
			lo = min(lo, texels[i])
			hi = max(hi, texels[i])
		}
	}
	if hi <= lo {
		return lo, 1
	}
	return lo, 1 / (hi - lo)
}
