package soft

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/engine/filter"
	"github.com/Faultbox/shadowlab/internal/engine/shaders"
	"github.com/Faultbox/shadowlab/internal/engine/shadow"
)

type shaderFactory func(defines map[string]string) (Shader, error)

// registry maps program names to their Go ports.
var registry = map[string]shaderFactory{
	shaders.ShadowDepth:   func(map[string]string) (Shader, error) { return shadowDepthShader{}, nil },
	shaders.ShadowMoments: func(map[string]string) (Shader, error) { return shadowMomentsShader{}, nil },
	shaders.ShadowCube:    func(map[string]string) (Shader, error) { return shadowCubeShader{}, nil },
	shaders.Blur:          func(map[string]string) (Shader, error) { return newBlurShader(), nil },
	shaders.LitPCF:        newLitPCFShader,
	shaders.LitVSM:        func(map[string]string) (Shader, error) { return litVSMShader{}, nil },
	shaders.LitCube:       func(map[string]string) (Shader, error) { return litCubeShader{}, nil },
}

// Varying slots.
const (
	varyWorld  = 0 // vec3
	varyNormal = 3 // vec3
	varyUV     = 6 // vec2
	varyShadow = 8 // vec4
)

func vec3At(v *Varyings, i int) mgl32.Vec3 { return mgl32.Vec3{v[i], v[i+1], v[i+2]} }
func vec4At(v *Varyings, i int) mgl32.Vec4 { return mgl32.Vec4{v[i], v[i+1], v[i+2], v[i+3]} }

type shadowDepthShader struct{}

func (shadowDepthShader) Uniforms() []string {
	return []string{"model", "cameraToShadowProjector"}
}

func (shadowDepthShader) Vertex(u Uniforms, in VertexIn) (mgl32.Vec4, Varyings) {
	return u.Mat4("cameraToShadowProjector").Mul4(u.Mat4("model")).Mul4x1(in.Position.Vec4(1)), Varyings{}
}

func (shadowDepthShader) Fragment(*Fragment) (mgl32.Vec4, bool) {
	return mgl32.Vec4{}, true
}

type shadowMomentsShader struct {
	shadowDepthShader
}

func (shadowMomentsShader) Fragment(f *Fragment) (mgl32.Vec4, bool) {
	m := shadow.Moments(f.Depth, f.DepthDx, f.DepthDy)
	return mgl32.Vec4{m.X(), m.Y(), 0, 1}, true
}

type shadowCubeShader struct{}

func (shadowCubeShader) Uniforms() []string {
	return []string{"model", "cameraToShadowView", "cameraToShadowProjector"}
}

func (shadowCubeShader) Vertex(u Uniforms, in VertexIn) (mgl32.Vec4, Varyings) {
	world := u.Mat4("model").Mul4x1(in.Position.Vec4(1))
	ls := u.Mat4("cameraToShadowView").Mul4x1(world)

	var out Varyings
	out[0], out[1], out[2] = ls.X(), ls.Y(), ls.Z()
	return u.Mat4("cameraToShadowProjector").Mul4x1(world), out
}

func (shadowCubeShader) Fragment(f *Fragment) (mgl32.Vec4, bool) {
	dist := vec3At(&f.In, 0).Len()
	return mgl32.Vec4{dist, dist * dist, 0, 1}, true
}

type blurShader struct {
	weights filter.Kernel
}

func newBlurShader() blurShader {
	return blurShader{weights: filter.Gaussian7()}
}

func (blurShader) Uniforms() []string {
	return []string{"source", "ScaleU"}
}

func (blurShader) Vertex(_ Uniforms, in VertexIn) (mgl32.Vec4, Varyings) {
	return mgl32.Vec4{in.Position.X(), in.Position.Y(), 0, 1}, Varyings{}
}

// Fragment derives the texture coordinate from the fragment position, which
// equals the interpolated quad coordinate at pixel centers.
func (b blurShader) Fragment(f *Fragment) (mgl32.Vec4, bool) {
	uv := mgl32.Vec2{
		(float32(f.X) + 0.5) / float32(f.ViewportW),
		(float32(f.Y) + 0.5) / float32(f.ViewportH),
	}
	scale := f.Uniforms.Vec2("ScaleU")
	src := f.Sampler(shaders.UnitShadow)

	var sum mgl32.Vec4
	r := b.weights.Radius()
	for i, w := range b.weights {
		off := scale.Mul(float32(i - r))
		sum = sum.Add(src.Sample(uv.Add(off)).Mul(w))
	}
	return sum, true
}

// litShader holds the vertex stage and shading shared by the lit programs.
type litShader struct {
	shadowCoord bool
}

func (s litShader) Vertex(u Uniforms, in VertexIn) (mgl32.Vec4, Varyings) {
	model := u.Mat4("model")
	world := model.Mul4x1(in.Position.Vec4(1))
	normal := model.Mat3().Mul3x1(in.Normal)

	w3 := world.Vec3()

	var out Varyings
	copy(out[varyWorld:], w3[:])
	copy(out[varyNormal:], normal[:])
	copy(out[varyUV:], in.TexCoord[:])
	if s.shadowCoord {
		sc := u.Mat4("cameraToShadowProjector").Mul4x1(world)
		copy(out[varyShadow:], sc[:])
	}
	return u.Mat4("proj").Mul4(u.Mat4("view")).Mul4x1(world), out
}

func baseColor(u Uniforms, uv mgl32.Vec2) mgl32.Vec3 {
	if u.Float("doTexture") < 0.5 {
		return mgl32.Vec3{1, 1, 1}
	}
	c := math.Mod(math.Floor(float64(uv.X())*4)+math.Floor(float64(uv.Y())*4), 2)
	return mgl32.Vec3{0.9, 0.6, 0.2}.Mul(float32(1 - c)).Add(mgl32.Vec3{0.4, 0.2, 0.1}.Mul(float32(c)))
}

func shade(f *Fragment, visibility float32) mgl32.Vec4 {
	world := vec3At(&f.In, varyWorld)
	n := vec3At(&f.In, varyNormal).Normalize()
	l := f.Uniforms.Vec3("lightPos").Sub(world).Normalize()
	diffuse := max(n.Dot(l), 0)

	uv := mgl32.Vec2{f.In[varyUV], f.In[varyUV+1]}
	c := baseColor(f.Uniforms, uv).Mul(0.2 + 0.8*diffuse*visibility)
	return c.Vec4(1)
}

type litPCFShader struct {
	litShader
	kernel int
}

func newLitPCFShader(defines map[string]string) (Shader, error) {
	kernel := 3
	if v, ok := defines[shaders.DefinePCFKernel]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s=%q is not a positive integer", shaders.DefinePCFKernel, v)
		}
		kernel = n
	}
	return litPCFShader{litShader: litShader{shadowCoord: true}, kernel: kernel}, nil
}

func (litPCFShader) Uniforms() []string {
	return []string{"model", "view", "proj", "cameraToShadowProjector", "lightPos", "doTexture", "samplingType", "shadowMap", "depthMap"}
}

func (s litPCFShader) Fragment(f *Fragment) (mgl32.Vec4, bool) {
	sc := vec4At(&f.In, varyShadow)
	mode := shadow.SamplingMode(f.Uniforms.Int("samplingType"))

	var vis float32
	if mode == shadow.SamplingHardwarePCF {
		vis = 1
		if p, ok := shadow.ProjectShadowCoord(sc); ok {
			vis = f.Sampler(shaders.UnitShadow).Compare(p)
		}
	} else {
		vis = shadow.Visibility(mode, f.Sampler(shaders.UnitDepth), sc, s.kernel)
	}
	return shade(f, vis), true
}

type litVSMShader struct{}

func (litVSMShader) Uniforms() []string {
	return []string{"model", "view", "proj", "cameraToShadowProjector", "lightPos", "doTexture", "momentsMap"}
}

func (litVSMShader) Vertex(u Uniforms, in VertexIn) (mgl32.Vec4, Varyings) {
	return litShader{shadowCoord: true}.Vertex(u, in)
}

func (litVSMShader) Fragment(f *Fragment) (mgl32.Vec4, bool) {
	vis := float32(1)
	if p, ok := shadow.ProjectShadowCoord(vec4At(&f.In, varyShadow)); ok {
		m := f.Sampler(shaders.UnitShadow).Sample(p.Vec2())
		vis = shadow.Chebyshev(m.Vec2(), p.Z())
	}
	return shade(f, vis), true
}

type litCubeShader struct {
	litShader
}

func (litCubeShader) Uniforms() []string {
	return []string{"model", "view", "proj", "lightPos", "doTexture", "cubeMap"}
}

func (litCubeShader) Fragment(f *Fragment) (mgl32.Vec4, bool) {
	toFrag := vec3At(&f.In, varyWorld).Sub(f.Uniforms.Vec3("lightPos"))
	m := f.Sampler(shaders.UnitShadow).SampleCube(toFrag)
	return shade(f, shadow.Chebyshev(m.Vec2(), toFrag.Len())), true
}
