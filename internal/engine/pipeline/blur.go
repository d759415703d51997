package pipeline

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
	"github.com/Faultbox/shadowlab/internal/engine/shaders"
)

// ScratchTarget names the intermediate target of the blur stage.
const ScratchTarget = "blur.scratch"

// BlurStage applies a separable Gaussian in two passes through a scratch
// target it owns.
type BlurStage struct {
	dev     gfx.Device
	targets *TargetSet
	program gfx.Program
	quad    gfx.Mesh
	scratch gfx.Target
}

// NewBlurStage creates the scratch target in targets with the given color
// format and size. quad must be the full-screen quad.
func NewBlurStage(dev gfx.Device, targets *TargetSet, program gfx.Program, quad gfx.Mesh, format gfx.Format, size int) (*BlurStage, error) {
	scratch, err := targets.CreateTarget(ScratchTarget,
		&Surface{Format: format, Filter: gfx.FilterLinear, Wrap: gfx.WrapClampEdge},
		nil, size, size)
	if err != nil {
		return nil, fmt.Errorf("blur scratch: %w", err)
	}
	return &BlurStage{dev: dev, targets: targets, program: program, quad: quad, scratch: scratch}, nil
}

// Scratch returns the intermediate target.
func (b *BlurStage) Scratch() gfx.Target {
	return b.scratch
}

// Blur filters src horizontally into the scratch target, then vertically into
// dst. texel is the size of one source texel in texture coordinates and
// scale multiplies the tap spacing. Depth testing is off for both passes and
// restored afterwards.
func (b *BlurStage) Blur(src gfx.Texture, dst gfx.Target, texel mgl32.Vec2, scale float32) {
	prevDepth := b.dev.SetDepthTest(false)
	b.dev.SetCullFace(gfx.CullBack)
	b.program.Use()

	b.targets.Bind(b.scratch)
	b.dev.Clear(gfx.ClearColor, [4]float32{})
	b.dev.BindTexture(shaders.UnitShadow, src, gfx.SampleFiltered)
	b.program.SetVec2("ScaleU", mgl32.Vec2{texel.X() * scale, 0})
	b.dev.Draw(b.quad, 0, b.quad.VertexCount())

	b.targets.Bind(dst)
	b.dev.Clear(gfx.ClearColor|gfx.ClearDepth, [4]float32{})
	b.dev.BindTexture(shaders.UnitShadow, b.scratch.Color().Texture, gfx.SampleFiltered)
	b.program.SetVec2("ScaleU", mgl32.Vec2{0, texel.Y() * scale})
	b.dev.Draw(b.quad, 0, b.quad.VertexCount())

	b.dev.SetDepthTest(prevDepth)
}

// TexelSize returns the texel size of a target.
func TexelSize(t gfx.Target) mgl32.Vec2 {
	w, h := t.Size()
	return mgl32.Vec2{1 / float32(w), 1 / float32(h)}
}
