package glbackend

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
)

type mesh struct {
	name  string
	vao   uint32
	vbo   uint32
	count int
}

func (m *mesh) Name() string     { return m.name }
func (m *mesh) VertexCount() int { return m.count }

func (m *mesh) Destroy() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
}

// NewMesh uploads interleaved position, normal and texcoord vertices.
func (d *Device) NewMesh(name string, vertices []float32) (gfx.Mesh, error) {
	if len(vertices) == 0 || len(vertices)%gfx.VertexStride != 0 {
		return nil, errors.New("mesh " + name + ": vertex data is not a whole number of vertices")
	}
	m := &mesh{name: name, count: len(vertices) / gfx.VertexStride}

	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(gfx.VertexStride * 4)
	gl.EnableVertexAttribArray(gfx.AttribPosition)
	gl.VertexAttribPointerWithOffset(gfx.AttribPosition, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(gfx.AttribNormal)
	gl.VertexAttribPointerWithOffset(gfx.AttribNormal, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(gfx.AttribTexCoord)
	gl.VertexAttribPointerWithOffset(gfx.AttribTexCoord, 2, gl.FLOAT, false, stride, 6*4)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m, nil
}
