// Package pipeline renders shadowed frames: a shadow pass into off-screen
// targets, optional separable blur passes, and a lit pass to the display.
package pipeline

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
	"github.com/Faultbox/shadowlab/internal/engine/shaders"
	"github.com/Faultbox/shadowlab/internal/engine/shadow"
)

// Pipeline renders frames of one technique. It is driven from the thread
// owning the graphics context.
type Pipeline struct {
	dev  gfx.Device
	log  *zap.Logger
	res  *SceneResources
	geom *GeometryPass
	blur *BlurStage
}

// frameState carries values from one stage of a frame to the next.
type frameState struct {
	fc    FrameContext
	items []DrawItem
	light shadow.LightTransform
}

// New creates all resources of s.Technique on dev.
func New(dev gfx.Device, s Settings, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if s.MapSize <= 0 {
		return nil, fmt.Errorf("shadow map size %d must be positive", s.MapSize)
	}

	res, err := NewSceneResources(dev, s, log)
	if err != nil {
		return nil, fmt.Errorf("%s resources: %w", s.Technique, err)
	}

	p := &Pipeline{
		dev:  dev,
		log:  log,
		res:  res,
		geom: NewGeometryPass(dev),
	}
	if res.Blur {
		p.blur, err = NewBlurStage(dev, res.Targets, res.BlurProgram, res.Quad, res.Params.MomentsFormat, s.MapSize)
		if err != nil {
			res.Destroy()
			return nil, err
		}
	}

	log.Info("pipeline ready",
		zap.Stringer("technique", s.Technique),
		zap.Int("map_size", s.MapSize),
		zap.Bool("blur", res.Blur),
		zap.Float32("blur_scale", res.BlurScale),
		zap.Strings("targets", res.Targets.Names()),
	)
	return p, nil
}

// Resources returns the scene resources.
func (p *Pipeline) Resources() *SceneResources {
	return p.res
}

// Technique returns the pipeline's technique.
func (p *Pipeline) Technique() Technique {
	return p.res.Technique
}

// ShadowMap returns the texture sampled by the lit pass.
func (p *Pipeline) ShadowMap() gfx.Texture {
	return p.res.ShadowMap
}

// NewFrame builds the frame context for a frame with the light at lightPos.
func (p *Pipeline) NewFrame(frame uint64, t float64, lightPos mgl32.Vec3, mode shadow.SamplingMode, showShadowMap bool) FrameContext {
	w, h := p.dev.DisplaySize()
	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}
	l := p.res.Params.Layout
	return FrameContext{
		Frame:         frame,
		Time:          t,
		Camera:        l.Camera,
		Aspect:        aspect,
		Light:         lightPos,
		LightTarget:   l.LightTarget,
		Sampling:      mode,
		ShowShadowMap: showShadowMap,
	}
}

// Plan returns the stages RenderFrame runs for fc.
func (p *Pipeline) Plan(fc FrameContext) []Stage {
	return BuildPlan(p.res.Technique, PlanOptions{DebugView: fc.ShowShadowMap, NoBlur: !p.res.Blur})
}

// RenderFrame runs every stage of the plan in order.
func (p *Pipeline) RenderFrame(fc FrameContext) {
	st := &frameState{fc: fc, items: p.res.DrawList(fc.Light)}
	for _, stage := range p.Plan(fc) {
		switch stage.Kind {
		case StageShadow:
			p.shadowStage(stage, st)
		case StageBlur:
			p.blurStage(stage)
		case StageLit:
			p.litStage(st)
		case StageDebugView:
			p.debugViewStage(stage)
		}
	}
}

func (p *Pipeline) shadowStage(stage Stage, st *frameState) {
	params := p.res.Params
	prog := p.res.ShadowProgram

	var lt shadow.LightTransform
	if stage.Face >= 0 {
		var err error
		lt, err = shadow.ComputeCubeFaceViewProjection(st.fc.Light, stage.Face, params.Light.Near, params.Light.Far)
		if err != nil {
			p.log.Error("shadow stage skipped", zap.Stringer("stage", stage), zap.Error(err))
			return
		}
	} else {
		lt = shadow.ComputeLightViewProjection(st.fc.Light, st.fc.LightTarget, mgl32.Vec3{0, 1, 0},
			params.Light.FovDeg, params.Light.Near, params.Light.Far)
	}
	st.light = lt

	p.res.Targets.Bind(p.res.Targets.Target(stage.Target))
	p.dev.SetCullFace(params.ShadowCull)
	p.dev.Clear(gfx.ClearColor|gfx.ClearDepth, params.ShadowClearColor)

	prog.Use()
	prog.SetMat4("cameraToShadowProjector", lt.ViewProjection())
	if stage.Face >= 0 {
		prog.SetMat4("cameraToShadowView", lt.View)
	}
	p.geom.Draw(prog, st.items, true)
}

func (p *Pipeline) blurStage(stage Stage) {
	if p.blur == nil {
		return
	}
	src := sourceTexture(p.res.Targets.Target(stage.Source))
	dst := p.res.Targets.Target(stage.Target)
	p.blur.Blur(src, dst, TexelSize(dst), p.res.BlurScale)
}

func (p *Pipeline) litStage(st *frameState) {
	params := p.res.Params
	prog := p.res.LitProgram
	fc := st.fc

	p.res.Targets.Unbind()
	p.dev.SetCullFace(gfx.CullBack)
	p.dev.Clear(gfx.ClearColor|gfx.ClearDepth, params.LitClearColor)

	prog.Use()
	prog.SetMat4("view", fc.Camera.View())
	prog.SetMat4("proj", fc.Camera.Projection(fc.Aspect))
	prog.SetVec3("lightPos", fc.Light)

	switch p.res.Technique {
	case Basic:
		prog.SetMat4("cameraToShadowProjector", st.light.ShadowMatrix())
		prog.SetInt("samplingType", int32(fc.Sampling))
		p.dev.BindTexture(shaders.UnitShadow, p.res.ShadowMap, gfx.SampleCompare)
		p.dev.BindTexture(shaders.UnitDepth, p.res.ShadowMap, gfx.SampleFiltered)
	case Blurred:
		prog.SetMat4("cameraToShadowProjector", st.light.ShadowMatrix())
		p.dev.BindTexture(shaders.UnitShadow, p.res.ShadowMap, gfx.SampleFiltered)
	case CubeBlurred:
		p.dev.BindTexture(shaders.UnitShadow, p.res.ShadowMap, gfx.SampleFiltered)
	}

	p.geom.Draw(prog, st.items, false)
}

// debugViewStage draws the shadow map unfiltered into a corner of the display
// through the blur program with zero tap spacing.
func (p *Pipeline) debugViewStage(stage Stage) {
	src := sourceTexture(p.res.Targets.Target(stage.Source))
	if src == nil {
		return
	}
	w, h := p.dev.DisplaySize()

	prevDepth := p.dev.SetDepthTest(false)
	p.dev.BindTarget(nil)
	p.dev.Viewport(w/3, h/3)
	p.dev.SetCullFace(gfx.CullBack)

	prog := p.res.BlurProgram
	prog.Use()
	prog.SetVec2("ScaleU", mgl32.Vec2{})
	p.dev.BindTexture(shaders.UnitShadow, src, gfx.SampleFiltered)
	p.dev.Draw(p.res.Quad, 0, p.res.Quad.VertexCount())

	p.dev.Viewport(w, h)
	p.dev.SetDepthTest(prevDepth)
}

// Close releases every resource of the pipeline.
func (p *Pipeline) Close() {
	p.res.Destroy()
}
