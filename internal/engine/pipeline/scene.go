package pipeline

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
	"github.com/Faultbox/shadowlab/internal/engine/mesh"
	"github.com/Faultbox/shadowlab/internal/engine/shaders"
	"github.com/Faultbox/shadowlab/internal/engine/shadow"
)

// Settings configures a pipeline.
type Settings struct {
	Technique Technique
	// MapSize is the shadow map resolution per side.
	MapSize int
	// BlurScale multiplies the blur tap spacing; 0 selects the technique default.
	BlurScale float32
	// NoBlur skips the blur stages of the variance techniques.
	NoBlur bool
	// PCFKernel is the tap count per axis of the N×N sampling mode.
	PCFKernel int
}

// SceneResources holds every GPU object a technique renders with. It is
// created once and shared by reference with the stages.
type SceneResources struct {
	Technique Technique
	Params    TechniqueParams
	MapSize   int
	BlurScale float32
	// Blur is set when the technique blurs its moments.
	Blur bool

	Cube gfx.Mesh
	Quad gfx.Mesh

	ShadowProgram gfx.Program
	LitProgram    gfx.Program
	BlurProgram   gfx.Program

	Targets *TargetSet
	// ShadowMap is the texture the lit pass samples: the depth map, the
	// blurred moments, or the moments cube.
	ShadowMap gfx.Texture
}

// NewSceneResources creates meshes, programs and targets for s. Any failure
// is fatal for the pipeline; resources created so far are released.
func NewSceneResources(dev gfx.Device, s Settings, log *zap.Logger) (res *SceneResources, err error) {
	params := s.Technique.Params()
	res = &SceneResources{
		Technique: s.Technique,
		Params:    params,
		MapSize:   s.MapSize,
		BlurScale: s.BlurScale,
		Blur:      params.MomentsFormat != gfx.FormatNone && !s.NoBlur,
		Targets:   NewTargetSet(dev, log),
	}
	if res.BlurScale == 0 {
		res.BlurScale = params.BlurScale
	}
	defer func() {
		if err != nil {
			res.Destroy()
			res = nil
		}
	}()

	if res.Cube, err = dev.NewMesh("cube", mesh.Cube()); err != nil {
		return res, fmt.Errorf("cube mesh: %w", err)
	}
	if res.Quad, err = dev.NewMesh("quad", mesh.Quad()); err != nil {
		return res, fmt.Errorf("quad mesh: %w", err)
	}

	if res.ShadowProgram, err = shaders.Build(dev, params.ShadowProgram, nil); err != nil {
		return res, err
	}
	var litDefines map[string]string
	if s.Technique == Basic && s.PCFKernel > 0 {
		litDefines = map[string]string{shaders.DefinePCFKernel: fmt.Sprint(s.PCFKernel)}
	}
	if res.LitProgram, err = shaders.Build(dev, params.LitProgram, litDefines); err != nil {
		return res, err
	}
	if res.BlurProgram, err = shaders.Build(dev, shaders.Blur, nil); err != nil {
		return res, err
	}

	if err = res.createTargets(); err != nil {
		return res, err
	}
	return res, nil
}

func (r *SceneResources) createTargets() error {
	size := r.MapSize
	switch r.Technique {
	case Blurred:
		t, err := r.Targets.CreateTarget(ShadowTarget,
			&Surface{Format: gfx.FormatRG32F, Filter: gfx.FilterLinear, Wrap: gfx.WrapClampEdge},
			&Surface{Format: gfx.FormatDepth, Filter: gfx.FilterNearest, Wrap: gfx.WrapClampEdge},
			size, size)
		if err != nil {
			return err
		}
		r.ShadowMap = t.Color().Texture

	case CubeBlurred:
		cube, err := r.Targets.CreateCubeTargets(CubeTargetPrefix,
			&Surface{Format: gfx.FormatRGB32F, Filter: gfx.FilterLinear, Wrap: gfx.WrapClampEdge},
			&Surface{Format: gfx.FormatDepth, Filter: gfx.FilterNearest, Wrap: gfx.WrapClampEdge},
			size)
		if err != nil {
			return err
		}
		r.ShadowMap = cube
		if !r.Blur {
			return nil
		}
		_, err = r.Targets.CreateTarget(FaceTarget,
			&Surface{Format: gfx.FormatRGB32F, Filter: gfx.FilterLinear, Wrap: gfx.WrapClampEdge},
			&Surface{Format: gfx.FormatDepth, Filter: gfx.FilterNearest, Wrap: gfx.WrapClampEdge},
			size, size)
		if err != nil {
			return err
		}

	default:
		// Border 1.0 keeps lookups outside the map lit.
		t, err := r.Targets.CreateTarget(ShadowTarget, nil,
			&Surface{Format: gfx.FormatDepth, Filter: gfx.FilterLinear, Wrap: gfx.WrapClampBorder, Border: 1},
			size, size)
		if err != nil {
			return err
		}
		r.ShadowMap = t.Depth().Texture
	}
	return nil
}

// groundBasis turns the XY quad into the XZ plane facing +Y.
var groundBasis = mgl32.HomogRotate3DX(mgl32.DegToRad(-90))

// DrawList returns the scene objects in draw order: cubes, ground, then the
// light marker at lightPos.
func (r *SceneResources) DrawList(lightPos mgl32.Vec3) []DrawItem {
	l := r.Params.Layout
	items := make([]DrawItem, 0, len(l.Cubes)+2)

	for i, pos := range l.Cubes {
		items = append(items, DrawItem{
			Name:     fmt.Sprintf("cube%d", i),
			Mesh:     r.Cube,
			Model:    mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()),
			Textured: i < l.TexturedCubes,
		})
	}

	half := l.GroundSize / 2
	c := l.GroundCenter
	items = append(items, DrawItem{
		Name:  "ground",
		Mesh:  r.Quad,
		Model: mgl32.Translate3D(c.X(), c.Y(), c.Z()).Mul4(mgl32.Scale3D(half, 1, half)).Mul4(groundBasis),
	})

	s := l.MarkerScale
	items = append(items, DrawItem{
		Name:    "marker",
		Mesh:    r.Cube,
		Model:   mgl32.Translate3D(lightPos.X(), lightPos.Y(), lightPos.Z()).Mul4(mgl32.Scale3D(s, s, s)),
		LitOnly: true,
	})
	return items
}

// Destroy releases every resource.
func (r *SceneResources) Destroy() {
	if r.Targets != nil {
		r.Targets.Destroy()
	}
	for _, p := range []gfx.Program{r.ShadowProgram, r.LitProgram, r.BlurProgram} {
		if p != nil {
			p.Destroy()
		}
	}
	for _, m := range []gfx.Mesh{r.Cube, r.Quad} {
		if m != nil {
			m.Destroy()
		}
	}
}

// FrameContext is the per-frame input of the pipeline, rebuilt every frame.
type FrameContext struct {
	Frame uint64
	// Time is the elapsed time in seconds.
	Time        float64
	Camera      Camera
	Aspect      float32
	Light       mgl32.Vec3
	LightTarget mgl32.Vec3
	Sampling    shadow.SamplingMode
	// ShowShadowMap appends the debug view stage.
	ShowShadowMap bool
}
