package shaders

import (
	"fmt"
	"maps"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
)

// Program names.
const (
	ShadowDepth   = "shadow_depth"
	ShadowMoments = "shadow_moments"
	ShadowCube    = "shadow_cube"
	Blur          = "blur"
	LitPCF        = "lit_pcf"
	LitVSM        = "lit_vsm"
	LitCube       = "lit_cube"
)

// Texture units the programs sample from.
const (
	UnitShadow = 0
	UnitDepth  = 1
)

// DefinePCFKernel sets the tap count per axis of the N×N sampling mode.
const DefinePCFKernel = "PCF_KERNEL"

// Program pairs shader sources with the sampler uniforms they declare.
type Program struct {
	Name     string
	Vertex   string
	Fragment string
	// Samplers maps sampler uniform names to texture units.
	Samplers map[string]int
}

var programs = map[string]Program{
	ShadowDepth: {
		Name:     ShadowDepth,
		Vertex:   ShadowVertexShader,
		Fragment: ShadowDepthFragmentShader,
	},
	ShadowMoments: {
		Name:     ShadowMoments,
		Vertex:   ShadowVertexShader,
		Fragment: ShadowMomentsFragmentShader,
	},
	ShadowCube: {
		Name:     ShadowCube,
		Vertex:   ShadowCubeVertexShader,
		Fragment: ShadowCubeFragmentShader,
	},
	Blur: {
		Name:     Blur,
		Vertex:   BlurVertexShader,
		Fragment: BlurFragmentShader,
		Samplers: map[string]int{"source": UnitShadow},
	},
	LitPCF: {
		Name:     LitPCF,
		Vertex:   LitVertexShader,
		Fragment: LitPCFFragmentShader,
		Samplers: map[string]int{"shadowMap": UnitShadow, "depthMap": UnitDepth},
	},
	LitVSM: {
		Name:     LitVSM,
		Vertex:   LitVertexShader,
		Fragment: LitVSMFragmentShader,
		Samplers: map[string]int{"momentsMap": UnitShadow},
	},
	LitCube: {
		Name:     LitCube,
		Vertex:   LitCubeVertexShader,
		Fragment: LitCubeFragmentShader,
		Samplers: map[string]int{"cubeMap": UnitShadow},
	},
}

// Lookup returns the descriptor of a named program.
func Lookup(name string) (Program, error) {
	p, ok := programs[name]
	if !ok {
		return Program{}, fmt.Errorf("%w: %s", gfx.ErrUnknownProgram, name)
	}
	return p, nil
}

// Source builds the device-facing source of a program with the given defines.
func (p Program) Source(defines map[string]string) gfx.ProgramSource {
	return gfx.ProgramSource{
		Name:     p.Name,
		Vertex:   p.Vertex,
		Fragment: p.Fragment,
		Defines:  maps.Clone(defines),
	}
}

// Build compiles a named program on dev and points its samplers at their units.
func Build(dev gfx.Device, name string, defines map[string]string) (gfx.Program, error) {
	p, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	prog, err := dev.NewProgram(p.Source(defines))
	if err != nil {
		return nil, fmt.Errorf("building program %s: %w", name, err)
	}

	prog.Use()
	for sampler, unit := range p.Samplers {
		prog.SetInt(sampler, int32(unit))
	}
	return prog, nil
}

// Names returns every program name.
func Names() []string {
	return []string{ShadowDepth, ShadowMoments, ShadowCube, Blur, LitPCF, LitVSM, LitCube}
}
