package pipeline

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
)

// DrawItem is one object of the scene.
type DrawItem struct {
	Name     string
	Mesh     gfx.Mesh
	Model    mgl32.Mat4
	Textured bool
	// LitOnly items, such as the light marker, are skipped by shadow passes.
	LitOnly bool
}

// GeometryPass draws the scene with whichever program is supplied.
type GeometryPass struct {
	dev gfx.Device
}

// NewGeometryPass returns a pass drawing on dev.
func NewGeometryPass(dev gfx.Device) *GeometryPass {
	return &GeometryPass{dev: dev}
}

// Draw issues items in order with prog and returns the number drawn. Shadow
// passes skip lit-only items and leave doTexture alone; lit passes set
// doTexture for every item so untextured items never inherit it.
func (g *GeometryPass) Draw(prog gfx.Program, items []DrawItem, shadowPass bool) int {
	prog.Use()
	drawn := 0
	for _, it := range items {
		if shadowPass && it.LitOnly {
			continue
		}
		if !shadowPass {
			tex := float32(0)
			if it.Textured {
				tex = 1
			}
			prog.SetFloat("doTexture", tex)
		}
		prog.SetMat4("model", it.Model)
		g.dev.Draw(it.Mesh, 0, it.Mesh.VertexCount())
		drawn++
	}
	return drawn
}
