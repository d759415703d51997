// Package mesh holds the static vertex data drawn by the demo scenes. Vertices
// are interleaved as position (3), normal (3), texcoord (2); triangles wind
// counter-clockwise seen from outside.
package mesh

import "github.com/go-gl/mathgl/mgl32"

const (
	CubeVertexCount = 36
	QuadVertexCount = 6
)

// cubeFaces lists each face normal with two in-plane axes u, v where u×v = n.
var cubeFaces = [6][3]mgl32.Vec3{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// Corner order of the two triangles of a face, in (u, v) signs.
var faceCorners = [6][2]float32{
	{-1, -1}, {1, -1}, {1, 1},
	{-1, -1}, {1, 1}, {-1, 1},
}

// Cube returns a unit cube centered on the origin.
func Cube() []float32 {
	out := make([]float32, 0, CubeVertexCount*8)
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		for _, c := range faceCorners {
			p := n.Add(u.Mul(c[0])).Add(v.Mul(c[1])).Mul(0.5)
			out = append(out,
				p.X(), p.Y(), p.Z(),
				n.X(), n.Y(), n.Z(),
				(c[0]+1)/2, (c[1]+1)/2,
			)
		}
	}
	return out
}

// Quad returns the [-1,1] square in the XY plane facing +Z. It doubles as the
// full-screen quad of the blur pass.
func Quad() []float32 {
	out := make([]float32, 0, QuadVertexCount*8)
	for _, c := range faceCorners {
		out = append(out,
			c[0], c[1], 0,
			0, 0, 1,
			(c[0]+1)/2, (c[1]+1)/2,
		)
	}
	return out
}
