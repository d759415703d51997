package soft

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
)

type clipVertex struct {
	pos  mgl32.Vec4
	vary Varyings
}

type screenVertex struct {
	x, y, z float64
	invW    float64
	vary    Varyings
}

// Draw runs the bound program over count vertices of m starting at first.
func (d *Device) Draw(m gfx.Mesh, first, count int) {
	d.record("draw %s %d", m.Name(), count)

	sm, ok := m.(*mesh)
	if !ok {
		d.log.Error("Draw: mesh not created by this device", zap.String("mesh", m.Name()))
		return
	}
	if d.program == nil {
		d.log.Warn("Draw without a program", zap.String("mesh", m.Name()))
		return
	}

	last := first + count
	if n := sm.VertexCount(); last > n {
		last = n
	}
	prog := d.program
	for i := first; i+2 < last; i += 3 {
		var tri [3]clipVertex
		for k := range tri {
			tri[k].pos, tri[k].vary = prog.shader.Vertex(prog.values, sm.vertex(i+k))
		}
		poly := clipNear(tri[:])
		for k := 1; k+1 < len(poly); k++ {
			d.rasterize(prog, poly[0], poly[k], poly[k+1])
		}
	}
}

func (m *mesh) vertex(i int) VertexIn {
	v := m.data[i*gfx.VertexStride : (i+1)*gfx.VertexStride]
	return VertexIn{
		Position: mgl32.Vec3{v[0], v[1], v[2]},
		Normal:   mgl32.Vec3{v[3], v[4], v[5]},
		TexCoord: mgl32.Vec2{v[6], v[7]},
	}
}

// clipNear clips a polygon against the near plane z >= -w.
func clipNear(in []clipVertex) []clipVertex {
	dist := func(v clipVertex) float32 { return v.pos.Z() + v.pos.W() }

	out := make([]clipVertex, 0, len(in)+1)
	for i := range in {
		a, b := in[i], in[(i+1)%len(in)]
		da, db := dist(a), dist(b)
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			t := da / (da - db)
			out = append(out, lerpVertex(a, b, t))
		}
	}
	return out
}

func lerpVertex(a, b clipVertex, t float32) clipVertex {
	var v clipVertex
	v.pos = a.pos.Add(b.pos.Sub(a.pos).Mul(t))
	for i := range v.vary {
		v.vary[i] = a.vary[i] + (b.vary[i]-a.vary[i])*t
	}
	return v
}

// edge is twice the signed area of (a, b, p); positive when counter-clockwise.
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (d *Device) toScreen(v clipVertex, vw, vh int) (screenVertex, bool) {
	w := float64(v.pos.W())
	if w <= 1e-9 {
		return screenVertex{}, false
	}
	inv := 1 / w
	return screenVertex{
		x:    (float64(v.pos.X())*inv + 1) / 2 * float64(vw),
		y:    (float64(v.pos.Y())*inv + 1) / 2 * float64(vh),
		z:    (float64(v.pos.Z())*inv + 1) / 2,
		invW: inv,
		vary: v.vary,
	}, true
}

func (d *Device) rasterize(prog *program, c0, c1, c2 clipVertex) {
	t := d.bound
	vw, vh := min(d.viewportW, t.w), min(d.viewportH, t.h)
	if vw <= 0 || vh <= 0 {
		return
	}

	var s [3]screenVertex
	for i, c := range [3]clipVertex{c0, c1, c2} {
		sv, ok := d.toScreen(c, vw, vh)
		if !ok {
			return
		}
		s[i] = sv
	}

	area := edge(s[0].x, s[0].y, s[1].x, s[1].y, s[2].x, s[2].y)
	if area == 0 || math.IsNaN(area) {
		return
	}
	front := area > 0
	switch d.cull {
	case gfx.CullBack:
		if !front {
			return
		}
	case gfx.CullFront:
		if front {
			return
		}
	}

	minX := max(0, int(math.Floor(min(s[0].x, s[1].x, s[2].x))))
	maxX := min(vw-1, int(math.Ceil(max(s[0].x, s[1].x, s[2].x))))
	minY := max(0, int(math.Floor(min(s[0].y, s[1].y, s[2].y))))
	maxY := min(vh-1, int(math.Ceil(max(s[0].y, s[1].y, s[2].y))))

	// Depth is affine in screen space; its gradient is constant per triangle.
	dw0dx, dw0dy := -(s[2].y-s[1].y)/area, (s[2].x-s[1].x)/area
	dw1dx, dw1dy := -(s[0].y-s[2].y)/area, (s[0].x-s[2].x)/area
	dw2dx, dw2dy := -(s[1].y-s[0].y)/area, (s[1].x-s[0].x)/area
	dzdx := s[0].z*dw0dx + s[1].z*dw1dx + s[2].z*dw2dx
	dzdy := s[0].z*dw0dy + s[1].z*dw1dy + s[2].z*dw2dy

	colorImg := t.colorImage()
	depthImg := t.depthImage()
	clampColor := false
	if colorImg != nil {
		clampColor = t.color.Texture.Desc().Format == gfx.FormatRGBA8
	}

	frag := Fragment{
		Uniforms:  prog.values,
		samplers:  &d.units,
		ViewportW: vw,
		ViewportH: vh,
		DepthDx:   float32(dzdx),
		DepthDy:   float32(dzdy),
	}

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(s[1].x, s[1].y, s[2].x, s[2].y, px, py) / area
			w1 := edge(s[2].x, s[2].y, s[0].x, s[0].y, px, py) / area
			w2 := edge(s[0].x, s[0].y, s[1].x, s[1].y, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*s[0].z + w1*s[1].z + w2*s[2].z
			if z < 0 || z > 1 {
				continue
			}
			di := 0
			if depthImg != nil {
				di = depthImg.Offset(x, y)
				if d.depthTest && !(float32(z) < depthImg.Pix[di]) {
					continue
				}
			}

			// Perspective-correct interpolation.
			p0, p1, p2 := w0*s[0].invW, w1*s[1].invW, w2*s[2].invW
			norm := 1 / (p0 + p1 + p2)
			for i := range frag.In {
				frag.In[i] = float32((p0*float64(s[0].vary[i]) + p1*float64(s[1].vary[i]) + p2*float64(s[2].vary[i])) * norm)
			}
			frag.X, frag.Y = x, y
			frag.Depth = float32(z)

			color, keep := prog.shader.Fragment(&frag)
			if !keep {
				continue
			}
			if depthImg != nil && d.depthTest {
				depthImg.Pix[di] = float32(z)
			}
			if colorImg != nil {
				o := colorImg.Offset(x, y)
				for c := 0; c < colorImg.C; c++ {
					v := color[c]
					if clampColor {
						v = mgl32.Clamp(v, 0, 1)
					}
					colorImg.Pix[o+c] = v
				}
			}
		}
	}
}
