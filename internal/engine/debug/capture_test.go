package debug

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
	"github.com/Faultbox/shadowlab/internal/engine/gfx/soft"
)

func TestTexelsToImageFlips(t *testing.T) {
	// Bottom row black, top row white.
	texels := []float32{0, 0, 1, 1}
	img, err := TexelsToImage(texels, 2, 2, 1, false)
	if err != nil {
		t.Fatalf("TexelsToImage: %v", err)
	}
	if got := img.RGBAAt(0, 0); got.R != 255 || got.G != 255 {
		t.Errorf("top-left %v, want white", got)
	}
	if got := img.RGBAAt(1, 1); got.R != 0 || got.A != 255 {
		t.Errorf("bottom-right %v, want opaque black", got)
	}
}

func TestTexelsToImageNormalize(t *testing.T) {
	tests := []struct {
		name      string
		texels    []float32
		channels  int
		normalize bool
		want      []uint8
	}{
		{"clamped", []float32{-1, 0.5, 2}, 1, false, []uint8{0, 128, 255}},
		{"stretched", []float32{2, 3, 4}, 1, true, []uint8{0, 128, 255}},
		{"constant", []float32{0.7, 0.7, 0.7}, 1, true, []uint8{0, 0, 0}},
		{"moments use first channel", []float32{0.25, 9, 0.5, 9, 0.75, 9}, 2, true, []uint8{0, 128, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := TexelsToImage(tt.texels, 3, 1, tt.channels, tt.normalize)
			if err != nil {
				t.Fatalf("TexelsToImage: %v", err)
			}
			for x, want := range tt.want {
				if got := img.RGBAAt(x, 0).R; got != want {
					t.Errorf("x=%d: %d, want %d", x, got, want)
				}
			}
		})
	}
}

func TestTexelsToImageSizeMismatch(t *testing.T) {
	if _, err := TexelsToImage(make([]float32, 5), 2, 2, 1, false); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := TexelsToImage(nil, 0, 0, 5, false); err == nil {
		t.Error("expected channel count error")
	}
}

func TestCaptureNames(t *testing.T) {
	at := func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	tests := []struct {
		format    string
		name      string
		timestamp string
	}{
		{"", "display.png", "display_2024-03-09_14-05-07.png"},
		{FormatPNG, "display.png", "display_2024-03-09_14-05-07.png"},
		{FormatBMP, "display.bmp", "display_2024-03-09_14-05-07.bmp"},
	}

	for _, tt := range tests {
		c := NewCapture("", tt.format)
		c.now = at
		if got := c.Name("display"); got != tt.name {
			t.Errorf("format %q: Name = %s, want %s", tt.format, got, tt.name)
		}
		if got := c.TimestampedName("display"); got != tt.timestamp {
			t.Errorf("format %q: TimestampedName = %s, want %s", tt.format, got, tt.timestamp)
		}
	}
}

func TestCaptureDisplay(t *testing.T) {
	dev := soft.New(4, 3, nil)
	dev.Clear(gfx.ClearColor, [4]float32{1, 0, 0, 1})

	dir := filepath.Join(t.TempDir(), "captures")
	for _, name := range []string{"display.png", "display.bmp"} {
		path, err := NewCapture(dir, "").Display(dev, name)
		if err != nil {
			t.Fatalf("Display(%s): %v", name, err)
		}

		img := decode(t, path)
		if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
			t.Fatalf("%s: image size %v, want 4x3", name, b)
		}
		r, g, _, _ := img.At(2, 1).RGBA()
		if r != 0xffff || g != 0 {
			t.Errorf("%s: pixel (2,1) = %d,%d, want red", name, r, g)
		}
	}
}

func TestCaptureCubeStrip(t *testing.T) {
	dev := soft.New(4, 4, nil)
	tex, err := dev.NewTexture(gfx.TextureDesc{Label: "cube", Format: gfx.FormatRGB32F, Width: 2, Height: 2, Cube: true})
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	// Every face is uniform; face i holds distance 2+3i, so the strip
	// brightens left to right under a range shared by all faces.
	for face := 0; face < gfx.CubeFaces; face++ {
		texels := make([]float32, 2*2*3)
		for i := 0; i < len(texels); i += 3 {
			texels[i] = float32(2 + 3*face)
		}
		if err := dev.WriteTexture(tex, face, texels); err != nil {
			t.Fatalf("WriteTexture: %v", err)
		}
	}

	path, err := NewCapture(t.TempDir(), FormatPNG).Texture(dev, tex, "shadowmap.png")
	if err != nil {
		t.Fatalf("Texture: %v", err)
	}
	img := decode(t, path)
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 2 {
		t.Fatalf("strip size %v, want 12x2", b)
	}
	var prev uint32
	for face := 0; face < gfx.CubeFaces; face++ {
		r, _, _, _ := img.At(face*2, 0).RGBA()
		if face > 0 && r <= prev {
			t.Errorf("face %d intensity %d not above face %d", face, r, face-1)
		}
		prev = r
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
		t.Errorf("nearest face intensity %d, want 0", r)
	}
	if r, _, _, _ := img.At(11, 1).RGBA(); r != 0xffff {
		t.Errorf("farthest face intensity %d, want full", r)
	}
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening capture: %v", err)
	}
	defer f.Close()
	decodeFn := png.Decode
	if strings.HasSuffix(path, ".bmp") {
		decodeFn = bmp.Decode
	}
	img, err := decodeFn(f)
	if err != nil {
		t.Fatalf("decoding capture: %v", err)
	}
	return img
}
