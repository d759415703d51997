package pipeline

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
	"github.com/Faultbox/shadowlab/internal/engine/shaders"
	"github.com/Faultbox/shadowlab/internal/engine/shadow"
)

// Technique selects the shadow algorithm.
type Technique int

const (
	// Basic renders a depth map and filters lookups with the sampling mode.
	Basic Technique = iota
	// Blurred renders a variance shadow map and blurs it.
	Blurred
	// CubeBlurred renders an omnidirectional variance cube map, one blurred face at a time.
	CubeBlurred
)

var techniqueKeys = map[Technique]string{
	Basic:       "pcf",
	Blurred:     "vsm",
	CubeBlurred: "vsmcube",
}

func (t Technique) String() string {
	if k, ok := techniqueKeys[t]; ok {
		return k
	}
	return fmt.Sprintf("technique(%d)", int(t))
}

// ParseTechnique maps a configuration name to a technique.
func ParseTechnique(s string) (Technique, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, k := range techniqueKeys {
		if k == s {
			return t, nil
		}
	}
	return Basic, fmt.Errorf("unknown shadow technique %q", s)
}

// Layout places the scene objects of a technique.
type Layout struct {
	Cubes []mgl32.Vec3
	// TexturedCubes is how many of the leading cubes are drawn textured.
	TexturedCubes int
	GroundCenter  mgl32.Vec3
	GroundSize    float32
	// Light is the initial light position; LightTarget is where a spot light aims.
	Light       mgl32.Vec3
	LightTarget mgl32.Vec3
	// OrbitCenter is the center of the light's orbit when it animates.
	OrbitCenter mgl32.Vec3
	MarkerScale float32
	Camera      Camera
}

// TechniqueParams are the fixed settings of a technique.
type TechniqueParams struct {
	Light            shadow.Frustum
	BlurScale        float32
	ShadowCull       gfx.CullFace
	ShadowClearColor [4]float32
	LitClearColor    [4]float32
	ShadowProgram    string
	LitProgram       string
	// MomentsFormat is the color format of the shadow map, FormatNone for depth-only.
	MomentsFormat gfx.Format
	Layout        Layout
}

func defaultCamera(eye mgl32.Vec3) Camera {
	return Camera{
		Eye:    eye,
		Target: mgl32.Vec3{0, 0, -5},
		Up:     mgl32.Vec3{0, 1, 0},
		FovDeg: 45,
		Near:   0.1,
		Far:    100,
	}
}

// Params returns the settings of t.
func (t Technique) Params() TechniqueParams {
	white := [4]float32{1, 1, 1, 1}
	black := [4]float32{0, 0, 0, 1}

	planar := Layout{
		Cubes:         []mgl32.Vec3{{0, 0, -5}},
		TexturedCubes: 1,
		GroundCenter:  mgl32.Vec3{1, -0.5, -6},
		GroundSize:    7,
		Light:         mgl32.Vec3{-2, 2, -2},
		LightTarget:   mgl32.Vec3{0, 0, -5},
		MarkerScale:   0.1,
	}

	switch t {
	case Blurred:
		planar.Camera = defaultCamera(mgl32.Vec3{0, 4, 0})
		return TechniqueParams{
			Light:            shadow.Frustum{FovDeg: 45, Near: 2, Far: 100},
			BlurScale:        2,
			ShadowCull:       gfx.CullBack,
			ShadowClearColor: white,
			LitClearColor:    black,
			ShadowProgram:    shaders.ShadowMoments,
			LitProgram:       shaders.LitVSM,
			MomentsFormat:    gfx.FormatRG32F,
			Layout:           planar,
		}
	case CubeBlurred:
		return TechniqueParams{
			Light:            shadow.Frustum{FovDeg: shadow.CubeFaceFOV, Near: 0.5, Far: 100},
			BlurScale:        1,
			ShadowCull:       gfx.CullBack,
			ShadowClearColor: white,
			LitClearColor:    [4]float32{0.5, 0.5, 0.5, 1},
			ShadowProgram:    shaders.ShadowCube,
			LitProgram:       shaders.LitCube,
			MomentsFormat:    gfx.FormatRGB32F,
			Layout: Layout{
				Cubes:        []mgl32.Vec3{{0, 0, -5}, {3, -0.5, -5}, {0, 0, -8}},
				GroundCenter: mgl32.Vec3{1, -0.5, -6},
				GroundSize:   17,
				Light:        mgl32.Vec3{2, 2, -5},
				LightTarget:  mgl32.Vec3{0, 0, -5},
				OrbitCenter:  mgl32.Vec3{0, 2, -5},
				MarkerScale:  0.1,
				Camera:       defaultCamera(mgl32.Vec3{0, 4, 0}),
			},
		}
	default:
		planar.Camera = defaultCamera(mgl32.Vec3{0, 5, 0})
		return TechniqueParams{
			Light:            shadow.Frustum{FovDeg: 60, Near: 1, Far: 10},
			ShadowCull:       gfx.CullFront,
			ShadowClearColor: white,
			LitClearColor:    black,
			ShadowProgram:    shaders.ShadowDepth,
			LitProgram:       shaders.LitPCF,
			MomentsFormat:    gfx.FormatNone,
			Layout:           planar,
		}
	}
}

// Camera is the viewer of the lit pass.
type Camera struct {
	Eye, Target, Up mgl32.Vec3
	FovDeg          float32
	Near, Far       float32
}

// View returns the camera's view matrix.
func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

// Projection returns the camera's projection for the given aspect ratio.
func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovDeg), aspect, c.Near, c.Far)
}
