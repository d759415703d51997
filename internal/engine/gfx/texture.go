package gfx

import "fmt"

// Format is the internal format of a texture.
type Format uint8

const (
	FormatNone Format = iota
	// FormatDepth is a single-channel depth format.
	FormatDepth
	// FormatRG32F holds two float moments for variance shadow maps.
	FormatRG32F
	// FormatRGB32F holds three float channels, used by the cube variant.
	FormatRGB32F
	// FormatRGBA8 is the display color format.
	FormatRGBA8
)

// Channels returns the number of components stored per texel.
func (f Format) Channels() int {
	switch f {
	case FormatDepth:
		return 1
	case FormatRG32F:
		return 2
	case FormatRGB32F:
		return 3
	case FormatRGBA8:
		return 4
	default:
		return 0
	}
}

// IsDepth reports whether the format can back a depth attachment.
func (f Format) IsDepth() bool {
	return f == FormatDepth
}

func (f Format) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatDepth:
		return "depth"
	case FormatRG32F:
		return "rg32f"
	case FormatRGB32F:
		return "rgb32f"
	case FormatRGBA8:
		return "rgba8"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// Filter selects texture filtering.
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterLinear
)

// Wrap selects texture coordinate wrapping.
type Wrap uint8

const (
	WrapClampEdge Wrap = iota
	WrapClampBorder
	WrapRepeat
)

// TextureDesc describes a texture allocation.
type TextureDesc struct {
	// Label names the texture in logs and traces.
	Label  string
	Format Format
	Width  int
	Height int
	Cube   bool
	Filter Filter
	Wrap   Wrap
	// Border is the border value for all channels with WrapClampBorder.
	Border float32
}

// Validate checks that the description can be allocated.
func (d TextureDesc) Validate() error {
	if d.Format == FormatNone || d.Format.Channels() == 0 {
		return fmt.Errorf("texture format %s: %w", d.Format, ErrBadTexture)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("texture size %dx%d: %w", d.Width, d.Height, ErrBadTexture)
	}
	if d.Cube && d.Width != d.Height {
		return fmt.Errorf("cube texture %dx%d is not square: %w", d.Width, d.Height, ErrBadTexture)
	}
	return nil
}
