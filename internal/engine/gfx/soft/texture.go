package soft

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/engine/filter"
	"github.com/Faultbox/shadowlab/internal/engine/gfx"
	"github.com/Faultbox/shadowlab/internal/engine/shadow"
)

type texture struct {
	desc  gfx.TextureDesc
	faces []*filter.Image
}

func newTexture(desc gfx.TextureDesc) *texture {
	n := 1
	if desc.Cube {
		n = gfx.CubeFaces
	}
	t := &texture{desc: desc, faces: make([]*filter.Image, n)}
	for i := range t.faces {
		t.faces[i] = filter.NewImage(desc.Width, desc.Height, desc.Format.Channels())
	}
	return t
}

func (t *texture) Destroy()              { t.faces = nil }
func (t *texture) Desc() gfx.TextureDesc { return t.desc }

// Sampler reads a bound texture the way the corresponding GLSL sampler does.
// The zero Sampler reads (0,0,0,1).
type Sampler struct {
	tex  *texture
	mode gfx.SampleMode
}

// Valid reports whether a live texture is bound.
func (s Sampler) Valid() bool {
	return s.tex != nil && s.tex.faces != nil
}

// Mode returns the sampling mode the texture was bound with.
func (s Sampler) Mode() gfx.SampleMode {
	return s.mode
}

// Dimensions returns the size of level 0.
func (s Sampler) Dimensions() (int, int) {
	if !s.Valid() {
		return 1, 1
	}
	return s.tex.desc.Width, s.tex.desc.Height
}

// Depth returns the first channel of texel (x, y) of face 0, honoring the
// texture's wrap mode.
func (s Sampler) Depth(x, y int) float32 {
	if !s.Valid() {
		return 0
	}
	return s.texel(s.tex.faces[0], x, y).X()
}

// Sample reads a 2D texture at uv with the texture's filter.
func (s Sampler) Sample(uv mgl32.Vec2) mgl32.Vec4 {
	if !s.Valid() {
		return mgl32.Vec4{0, 0, 0, 1}
	}
	return s.sampleImage(s.tex.faces[0], uv.X(), uv.Y())
}

// SampleCube reads a cube texture in direction dir.
func (s Sampler) SampleCube(dir mgl32.Vec3) mgl32.Vec4 {
	if !s.Valid() || !s.tex.desc.Cube {
		return mgl32.Vec4{0, 0, 0, 1}
	}
	face, u, v := shadow.CubeFaceCoord(dir)
	return s.sampleImage(s.tex.faces[face], u, v)
}

// Compare performs the hardware shadow comparison of p.Z against the depth
// at p.XY, filtered linearly over four texels.
func (s Sampler) Compare(p mgl32.Vec3) float32 {
	if !s.Valid() {
		return 1
	}
	return shadow.CompareLinear(s, p.X(), p.Y(), p.Z())
}

func (s Sampler) sampleImage(img *filter.Image, u, v float32) mgl32.Vec4 {
	if s.tex.desc.Filter == gfx.FilterNearest {
		x := int(math.Floor(float64(u) * float64(img.W)))
		y := int(math.Floor(float64(v) * float64(img.H)))
		return s.texel(img, x, y)
	}

	x0, fx := shadow.TexelSplit(u, img.W)
	y0, fy := shadow.TexelSplit(v, img.H)
	if fx == 0 && fy == 0 {
		return s.texel(img, x0, y0)
	}

	var out mgl32.Vec4
	for i, w := range [4]float64{(1 - fx) * (1 - fy), fx * (1 - fy), (1 - fx) * fy, fx * fy} {
		if w == 0 {
			continue
		}
		t := s.texel(img, x0+i%2, y0+i/2)
		out = out.Add(t.Mul(float32(w)))
	}
	return out
}

// texel fetches one texel, applying the wrap mode to out-of-range coordinates.
// Missing channels read as 0 and alpha as 1.
func (s Sampler) texel(img *filter.Image, x, y int) mgl32.Vec4 {
	switch s.tex.desc.Wrap {
	case gfx.WrapClampBorder:
		if x < 0 || y < 0 || x >= img.W || y >= img.H {
			b := s.tex.desc.Border
			return mgl32.Vec4{b, b, b, b}
		}
	case gfx.WrapRepeat:
		x = ((x % img.W) + img.W) % img.W
		y = ((y % img.H) + img.H) % img.H
	}

	out := mgl32.Vec4{0, 0, 0, 1}
	for c := 0; c < img.C && c < 4; c++ {
		out[c] = img.At(x, y, c)
	}
	return out
}
