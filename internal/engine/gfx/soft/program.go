package soft

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Varyings carries interpolated vertex outputs to the fragment stage.
type Varyings [16]float32

// VertexIn is one vertex of the shared layout.
type VertexIn struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// Fragment is the input of a fragment shader invocation.
type Fragment struct {
	Uniforms Uniforms
	samplers *[maxTextureUnits]Sampler

	// X and Y are the pixel indices; the fragment center is at +0.5.
	X, Y int
	// ViewportW and ViewportH are the size of the active viewport.
	ViewportW, ViewportH int
	// Depth is the window-space depth in [0,1] and DepthDx/DepthDy its
	// screen-space derivatives.
	Depth, DepthDx, DepthDy float32
	In                      Varyings
}

// Sampler returns the sampler bound to unit.
func (f *Fragment) Sampler(unit int) Sampler {
	if unit < 0 || unit >= maxTextureUnits {
		return Sampler{}
	}
	return f.samplers[unit]
}

// Shader is a Go port of a GLSL program.
type Shader interface {
	// Uniforms lists every uniform the GLSL source declares.
	Uniforms() []string
	Vertex(u Uniforms, in VertexIn) (mgl32.Vec4, Varyings)
	// Fragment returns the output color, or false to discard.
	Fragment(f *Fragment) (mgl32.Vec4, bool)
}

// Uniforms holds uniform values by name. Unset uniforms read as zero, as in GL.
type Uniforms map[string]any

func (u Uniforms) Mat4(name string) mgl32.Mat4 {
	m, _ := u[name].(mgl32.Mat4)
	return m
}

func (u Uniforms) Vec2(name string) mgl32.Vec2 {
	v, _ := u[name].(mgl32.Vec2)
	return v
}

func (u Uniforms) Vec3(name string) mgl32.Vec3 {
	v, _ := u[name].(mgl32.Vec3)
	return v
}

func (u Uniforms) Vec4(name string) mgl32.Vec4 {
	v, _ := u[name].(mgl32.Vec4)
	return v
}

func (u Uniforms) Float(name string) float32 {
	v, _ := u[name].(float32)
	return v
}

func (u Uniforms) Int(name string) int32 {
	v, _ := u[name].(int32)
	return v
}

type program struct {
	dev      *Device
	name     string
	shader   Shader
	declared map[string]bool
	values   Uniforms
}

func (p *program) Name() string { return p.name }

func (p *program) Destroy() {
	if p.dev.program == p {
		p.dev.program = nil
	}
	p.values = nil
}

func (p *program) Use() {
	p.dev.program = p
	p.dev.record("program %s", p.name)
}

func (p *program) set(name string, v any) bool {
	if !p.declared[name] {
		p.dev.misses.Report(p.name, name)
		return false
	}
	p.values[name] = v
	return true
}

func (p *program) SetInt(name string, v int32) bool       { return p.set(name, v) }
func (p *program) SetFloat(name string, v float32) bool   { return p.set(name, v) }
func (p *program) SetVec2(name string, v mgl32.Vec2) bool { return p.set(name, v) }
func (p *program) SetVec3(name string, v mgl32.Vec3) bool { return p.set(name, v) }
func (p *program) SetVec4(name string, v mgl32.Vec4) bool { return p.set(name, v) }
func (p *program) SetMat4(name string, m mgl32.Mat4) bool { return p.set(name, m) }
