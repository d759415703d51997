package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
)

// program is a linked GL program with a cache of uniform locations.
// Uniforms are written with glProgramUniform so the program need not be
// current.
type program struct {
	id     uint32
	name   string
	misses *gfx.MissReporter
	locs   map[string]int32
}

// NewProgram compiles every stage of src, with its defines applied, and links
// them.
func (d *Device) NewProgram(src gfx.ProgramSource) (gfx.Program, error) {
	stages := []struct {
		name string
		kind uint32
	}{
		{gfx.StageVertex, gl.VERTEX_SHADER},
		{gfx.StageGeometry, gl.GEOMETRY_SHADER},
		{gfx.StageFragment, gl.FRAGMENT_SHADER},
	}

	var shaders []uint32
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()
	for _, st := range stages {
		source := src.Expand(st.name)
		if source == "" {
			if st.name == gfx.StageGeometry {
				continue
			}
			return nil, fmt.Errorf("program %s: %w: missing %s stage", src.Name, gfx.ErrShaderCompile, st.name)
		}
		s, err := compileShader(source, st.kind, st.name)
		if err != nil {
			return nil, fmt.Errorf("program %s: %w", src.Name, err)
		}
		shaders = append(shaders, s)
	}

	id := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(id, s)
	}
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(id, logLen, nil, &log[0])
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("program %s: %w: %s", src.Name, gfx.ErrProgramLink, strings.TrimRight(string(log), "\x00"))
	}

	return &program{id: id, name: src.Name, misses: d.misses, locs: make(map[string]int32)}, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, stage string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %w: %s", stage, gfx.ErrShaderCompile, strings.TrimRight(string(log), "\x00"))
	}
	return shader, nil
}

func (p *program) Name() string { return p.name }
func (p *program) Use()         { gl.UseProgram(p.id) }

func (p *program) Destroy() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// location returns the cached location of name. A miss is reported once and
// cached as -1.
func (p *program) location(name string) (int32, bool) {
	loc, ok := p.locs[name]
	if !ok {
		loc = gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
		p.locs[name] = loc
	}
	if loc < 0 {
		p.misses.Report(p.name, name)
		return loc, false
	}
	return loc, true
}

func (p *program) SetInt(name string, v int32) bool {
	loc, ok := p.location(name)
	if ok {
		gl.ProgramUniform1i(p.id, loc, v)
	}
	return ok
}

func (p *program) SetFloat(name string, v float32) bool {
	loc, ok := p.location(name)
	if ok {
		gl.ProgramUniform1f(p.id, loc, v)
	}
	return ok
}

func (p *program) SetVec2(name string, v mgl32.Vec2) bool {
	loc, ok := p.location(name)
	if ok {
		gl.ProgramUniform2fv(p.id, loc, 1, &v[0])
	}
	return ok
}

func (p *program) SetVec3(name string, v mgl32.Vec3) bool {
	loc, ok := p.location(name)
	if ok {
		gl.ProgramUniform3fv(p.id, loc, 1, &v[0])
	}
	return ok
}

func (p *program) SetVec4(name string, v mgl32.Vec4) bool {
	loc, ok := p.location(name)
	if ok {
		gl.ProgramUniform4fv(p.id, loc, 1, &v[0])
	}
	return ok
}

func (p *program) SetMat4(name string, m mgl32.Mat4) bool {
	loc, ok := p.location(name)
	if ok {
		gl.ProgramUniformMatrix4fv(p.id, loc, 1, false, &m[0])
	}
	return ok
}
