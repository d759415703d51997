package pipeline

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
	"github.com/Faultbox/shadowlab/internal/engine/gfx/soft"
	"github.com/Faultbox/shadowlab/internal/engine/shadow"
)

const (
	displayW = 160
	displayH = 120
)

var (
	// shadowedGround lies on the ground behind the primary cube as seen from
	// the planar light, and is visible from the camera.
	shadowedGround = mgl32.Vec3{1.2, -0.5, -6.6}
	// litGround is on the ground between the light and the cube.
	litGround = mgl32.Vec3{-0.8, -0.5, -4.2}
)

func newPipeline(t *testing.T, tech Technique, mapSize int) (*Pipeline, *soft.Device) {
	t.Helper()
	dev := soft.New(displayW, displayH, nil)
	p, err := New(dev, Settings{Technique: tech, MapSize: mapSize, PCFKernel: 3}, nil)
	if err != nil {
		t.Fatalf("New(%s): %v", tech, err)
	}
	t.Cleanup(p.Close)
	return p, dev
}

// texelMap adapts read-back depth texels to shadow.DepthMap.
type texelMap struct {
	w, h int
	pix  []float32
}

func (m texelMap) Dimensions() (int, int) { return m.w, m.h }

func (m texelMap) Depth(x, y int) float32 {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return 1
	}
	return m.pix[y*m.w+x]
}

// displayRed returns the red channel of the display pixel world point p
// projects to.
func displayRed(t *testing.T, dev *soft.Device, fc FrameContext, p mgl32.Vec3) float32 {
	t.Helper()
	clip := fc.Camera.Projection(fc.Aspect).Mul4(fc.Camera.View()).Mul4x1(p.Vec4(1))
	x := int(math.Floor(float64((clip.X()/clip.W() + 1) / 2 * displayW)))
	y := int(math.Floor(float64((clip.Y()/clip.W() + 1) / 2 * displayH)))
	if x < 0 || y < 0 || x >= displayW || y >= displayH {
		t.Fatalf("point %v projects off screen at (%d,%d)", p, x, y)
	}
	pix, err := dev.ReadDisplay()
	if err != nil {
		t.Fatalf("ReadDisplay: %v", err)
	}
	return pix[(y*displayW+x)*4]
}

func TestBuildPlan(t *testing.T) {
	kinds := func(plan []Stage) string {
		var parts []string
		for _, s := range plan {
			parts = append(parts, s.Kind.String())
		}
		return strings.Join(parts, ",")
	}

	tests := []struct {
		tech Technique
		opts PlanOptions
		want string
	}{
		{Basic, PlanOptions{}, "shadow,lit"},
		{Blurred, PlanOptions{}, "shadow,blur,lit"},
		{Basic, PlanOptions{DebugView: true}, "shadow,lit,debug_view"},
		{CubeBlurred, PlanOptions{}, strings.Repeat("shadow,blur,", 6) + "lit"},
		{Blurred, PlanOptions{NoBlur: true, DebugView: true}, "shadow,lit,debug_view"},
		{CubeBlurred, PlanOptions{NoBlur: true}, strings.Repeat("shadow,", 6) + "lit"},
		{CubeBlurred, PlanOptions{NoBlur: true, DebugView: true}, strings.Repeat("shadow,", 6) + "lit"},
		{Basic, PlanOptions{NoBlur: true}, "shadow,lit"},
	}
	for _, tt := range tests {
		if got := kinds(BuildPlan(tt.tech, tt.opts)); got != tt.want {
			t.Errorf("%s %+v: plan %s, want %s", tt.tech, tt.opts, got, tt.want)
		}
	}
}

func TestCubePlanCoversEveryFace(t *testing.T) {
	plan := BuildPlan(CubeBlurred, PlanOptions{})
	for face := 0; face < 6; face++ {
		sh, bl := plan[2*face], plan[2*face+1]
		if sh.Kind != StageShadow || sh.Face != face || sh.Target != FaceTarget {
			t.Errorf("stage %d: %v", 2*face, sh)
		}
		want := CubeTargetName(CubeTargetPrefix, face)
		if bl.Kind != StageBlur || bl.Face != face || bl.Source != FaceTarget || bl.Target != want {
			t.Errorf("stage %d: %v, want blur into %s", 2*face+1, bl, want)
		}
	}
}

func TestUnblurredCubePlanWritesFacesDirectly(t *testing.T) {
	plan := BuildPlan(CubeBlurred, PlanOptions{NoBlur: true})
	for face := 0; face < 6; face++ {
		want := CubeTargetName(CubeTargetPrefix, face)
		if sh := plan[face]; sh.Kind != StageShadow || sh.Face != face || sh.Target != want {
			t.Errorf("stage %d: %v, want shadow into %s", face, sh, want)
		}
	}
}

func TestParseTechnique(t *testing.T) {
	for _, tech := range []Technique{Basic, Blurred, CubeBlurred} {
		got, err := ParseTechnique(tech.String())
		if err != nil || got != tech {
			t.Errorf("ParseTechnique(%q) = %v, %v", tech.String(), got, err)
		}
	}
	if _, err := ParseTechnique("esm"); err == nil {
		t.Error("expected error for unknown technique")
	}
}

func TestBasicShadowsGroundBehindCube(t *testing.T) {
	p, dev := newPipeline(t, Basic, 256)
	params := Basic.Params()
	fc := p.NewFrame(0, 0, params.Layout.Light, shadow.SamplingManual, false)
	p.RenderFrame(fc)

	texels, err := dev.ReadTexture(p.ShadowMap(), 0)
	if err != nil {
		t.Fatalf("ReadTexture: %v", err)
	}
	m := texelMap{w: 256, h: 256, pix: texels}
	lt := shadow.ComputeLightViewProjection(fc.Light, fc.LightTarget, mgl32.Vec3{0, 1, 0},
		params.Light.FovDeg, params.Light.Near, params.Light.Far)

	coord := func(p mgl32.Vec3) mgl32.Vec4 { return lt.ShadowMatrix().Mul4x1(p.Vec4(1)) }
	if v := shadow.Visibility(shadow.SamplingManual, m, coord(shadowedGround), 3); v != 0 {
		t.Errorf("ground behind the cube has visibility %f, want 0", v)
	}
	if v := shadow.Visibility(shadow.SamplingManual, m, coord(litGround), 3); v != 1 {
		t.Errorf("open ground has visibility %f, want 1", v)
	}
}

func TestBasicLitPassAllSamplingModes(t *testing.T) {
	p, dev := newPipeline(t, Basic, 256)
	light := Basic.Params().Layout.Light

	sel := shadow.NewSelector(shadow.SamplingManual)
	for i := 0; i < 4; i++ {
		mode := sel.Mode()
		fc := p.NewFrame(uint64(i), 0, light, mode, false)
		p.RenderFrame(fc)

		if r := displayRed(t, dev, fc, shadowedGround); r > 0.25 {
			t.Errorf("%v: shadowed ground brightness %f, want ambient 0.2", mode, r)
		}
		if r := displayRed(t, dev, fc, litGround); r < 0.5 {
			t.Errorf("%v: lit ground brightness %f, want > 0.5", mode, r)
		}
		sel.Toggle()
	}
}

func TestBlurredShadowsGroundBehindCube(t *testing.T) {
	p, dev := newPipeline(t, Blurred, 256)
	fc := p.NewFrame(0, 0, Blurred.Params().Layout.Light, shadow.SamplingManual, false)
	p.RenderFrame(fc)

	shadowed := displayRed(t, dev, fc, shadowedGround)
	lit := displayRed(t, dev, fc, litGround)
	if shadowed > 0.3 {
		t.Errorf("shadowed ground brightness %f, want near ambient", shadowed)
	}
	if lit < 0.5 {
		t.Errorf("lit ground brightness %f, want > 0.5", lit)
	}
}

func TestBlurredWithoutBlurStage(t *testing.T) {
	dev := soft.New(displayW, displayH, nil)
	p, err := New(dev, Settings{Technique: Blurred, MapSize: 256, NoBlur: true}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	if p.Resources().Blur {
		t.Error("blur enabled with NoBlur set")
	}
	for _, name := range p.Resources().Targets.Names() {
		if name == ScratchTarget {
			t.Errorf("scratch target %s created without blur", name)
		}
	}

	dev.EnableTrace()
	fc := p.NewFrame(0, 0, Blurred.Params().Layout.Light, shadow.SamplingManual, false)
	p.RenderFrame(fc)
	for _, line := range dev.Trace() {
		if line == "target "+ScratchTarget {
			t.Fatal("blur pass ran with NoBlur set")
		}
	}

	if shadowed := displayRed(t, dev, fc, shadowedGround); shadowed > 0.3 {
		t.Errorf("shadowed ground brightness %f, want near ambient", shadowed)
	}
	if lit := displayRed(t, dev, fc, litGround); lit < 0.5 {
		t.Errorf("lit ground brightness %f, want > 0.5", lit)
	}
}

func TestCubeWithoutBlurWritesEveryFace(t *testing.T) {
	const size = 32
	dev := soft.New(displayW, displayH, nil)
	p, err := New(dev, Settings{Technique: CubeBlurred, MapSize: size, NoBlur: true}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	for _, name := range p.Resources().Targets.Names() {
		if name == FaceTarget || name == ScratchTarget {
			t.Errorf("intermediate target %s created without blur", name)
		}
	}

	p.RenderFrame(p.NewFrame(0, 0, CubeBlurred.Params().Layout.Light, shadow.SamplingManual, true))

	texels, err := dev.ReadTexture(p.ShadowMap(), int(shadow.FaceNegativeY))
	if err != nil {
		t.Fatalf("ReadTexture: %v", err)
	}
	center := texels[((size/2)*size+size/2)*3]
	if math.Abs(float64(center-2.5)) > 0.1 {
		t.Errorf("distance below the light = %f, want about 2.5", center)
	}
}

func TestCubeBlurredWritesEveryFace(t *testing.T) {
	const size = 32
	p, dev := newPipeline(t, CubeBlurred, size)
	dev.EnableTrace()

	light := CubeBlurred.Params().Layout.Light
	p.RenderFrame(p.NewFrame(0, 0, light, shadow.SamplingManual, false))

	trace := strings.Join(dev.Trace(), "\n")
	for face := 0; face < 6; face++ {
		name := CubeTargetName(CubeTargetPrefix, face)
		if !strings.Contains(trace, "target "+name) {
			t.Errorf("face target %s never bound", name)
		}

		texels, err := dev.ReadTexture(p.ShadowMap(), face)
		if err != nil {
			t.Fatalf("ReadTexture face %d: %v", face, err)
		}
		for i := 0; i < len(texels); i += 3 {
			if texels[i] <= 0 {
				t.Fatalf("face %d texel %d not written (distance %f)", face, i/3, texels[i])
			}
		}
	}

	// Straight below the light the ground is 2.5 units away.
	texels, _ := dev.ReadTexture(p.ShadowMap(), int(shadow.FaceNegativeY))
	center := texels[((size/2)*size+size/2)*3]
	if math.Abs(float64(center-2.5)) > 0.1 {
		t.Errorf("distance below the light = %f, want about 2.5", center)
	}
}

func TestRenderFrameRestoresDepthTest(t *testing.T) {
	for _, tech := range []Technique{Basic, Blurred, CubeBlurred} {
		t.Run(tech.String(), func(t *testing.T) {
			p, dev := newPipeline(t, tech, 16)
			dev.EnableTrace()
			fc := p.NewFrame(0, 0, tech.Params().Layout.Light, shadow.SamplingManual, true)
			p.RenderFrame(fc)

			var last string
			offs := 0
			for _, line := range dev.Trace() {
				if strings.HasPrefix(line, "depth_test") {
					last = line
					if line == "depth_test off" {
						offs++
					}
				}
			}
			if offs == 0 {
				t.Fatal("no stage disabled depth testing")
			}
			if last != "depth_test on" {
				t.Errorf("last depth state change %q, want depth_test on", last)
			}
			if prev := dev.SetDepthTest(true); !prev {
				t.Error("depth test left disabled after the frame")
			}
		})
	}
}

func TestNewRejectsBadMapSize(t *testing.T) {
	dev := soft.New(8, 8, nil)
	if _, err := New(dev, Settings{Technique: Basic}, nil); err == nil {
		t.Error("expected error for zero map size")
	}
	if _, err := New(dev, Settings{Technique: Basic, MapSize: 64, PCFKernel: -1}, nil); err != nil {
		t.Errorf("non-positive kernel should fall back to the shader default: %v", err)
	}
}

func TestDrawListOrder(t *testing.T) {
	p, _ := newPipeline(t, CubeBlurred, 16)
	items := p.Resources().DrawList(mgl32.Vec3{1, 2, 3})

	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	if got := strings.Join(names, ","); got != "cube0,cube1,cube2,ground,marker" {
		t.Errorf("draw order %s", got)
	}
	marker := items[len(items)-1]
	if !marker.LitOnly || marker.Model.Col(3).Vec3() != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("marker should be lit-only at the light, got %+v", marker)
	}

	// The ground quad is turned to face up.
	ground := items[len(items)-2]
	n := ground.Model.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3().Normalize()
	if n.Sub(mgl32.Vec3{0, 1, 0}).Len() > 1e-5 {
		t.Errorf("ground normal %v, want +Y", n)
	}
}

func TestTechniqueShadowCulling(t *testing.T) {
	if Basic.Params().ShadowCull != gfx.CullFront {
		t.Error("basic shadow pass should cull front faces")
	}
	if Blurred.Params().ShadowCull != gfx.CullBack || CubeBlurred.Params().ShadowCull != gfx.CullBack {
		t.Error("variance shadow passes should cull back faces")
	}
}
