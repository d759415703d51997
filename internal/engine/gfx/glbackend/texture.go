package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
)

// glFormat is the GL triple used to allocate and download a format.
type glFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

func formatOf(f gfx.Format) glFormat {
	switch f {
	case gfx.FormatDepth:
		return glFormat{gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT}
	case gfx.FormatRG32F:
		return glFormat{gl.RG32F, gl.RG, gl.FLOAT}
	case gfx.FormatRGB32F:
		return glFormat{gl.RGB32F, gl.RGB, gl.FLOAT}
	default:
		return glFormat{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE}
	}
}

func filterOf(f gfx.Filter) int32 {
	if f == gfx.FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func wrapOf(w gfx.Wrap) int32 {
	switch w {
	case gfx.WrapClampBorder:
		return gl.CLAMP_TO_BORDER
	case gfx.WrapRepeat:
		return gl.REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}

type texture struct {
	id   uint32
	desc gfx.TextureDesc
}

func (t *texture) target() uint32 {
	if t.desc.Cube {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

// faceTarget returns the image target of one face: the texture itself for
// 2D textures.
func (t *texture) faceTarget(face int) uint32 {
	if t.desc.Cube {
		return gl.TEXTURE_CUBE_MAP_POSITIVE_X + uint32(face)
	}
	return gl.TEXTURE_2D
}

func (t *texture) Desc() gfx.TextureDesc { return t.desc }

func (t *texture) Destroy() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// NewTexture allocates storage for every face of desc.
func (d *Device) NewTexture(desc gfx.TextureDesc) (gfx.Texture, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	t := &texture{desc: desc}
	f := formatOf(desc.Format)

	gl.GenTextures(1, &t.id)
	target := t.target()
	gl.BindTexture(target, t.id)

	faces := 1
	if desc.Cube {
		faces = gfx.CubeFaces
	}
	for face := 0; face < faces; face++ {
		gl.TexImage2D(t.faceTarget(face), 0, f.internal, int32(desc.Width), int32(desc.Height), 0, f.format, f.xtype, nil)
	}

	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, filterOf(desc.Filter))
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, filterOf(desc.Filter))
	wrap := wrapOf(desc.Wrap)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, wrap)
	if desc.Cube {
		gl.TexParameteri(target, gl.TEXTURE_WRAP_R, wrap)
	}
	if desc.Wrap == gfx.WrapClampBorder {
		border := [4]float32{desc.Border, desc.Border, desc.Border, desc.Border}
		gl.TexParameterfv(target, gl.TEXTURE_BORDER_COLOR, &border[0])
	}
	gl.BindTexture(target, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		t.Destroy()
		return nil, fmt.Errorf("texture %s: GL error 0x%x: %w", desc.Label, code, gfx.ErrBadTexture)
	}
	return t, nil
}
