// Package glbackend implements gfx.Device on OpenGL 4.1 core.
package glbackend

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
)

// Options configures device creation.
type Options struct {
	Width, Height int
	// Debug installs a driver debug message callback when available.
	Debug bool
}

var _ gfx.Device = (*Device)(nil)

// Device issues OpenGL commands on the context current to the calling thread.
type Device struct {
	log    *zap.Logger
	misses *gfx.MissReporter

	width, height int
	depthTest     bool
	bound         *target

	// compareSampler overrides texture state for SampleCompare bindings.
	compareSampler uint32
}

// New initializes OpenGL. It must be called after the window has made its
// context current.
func New(opts Options, log *zap.Logger) (*Device, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	if opts.Debug {
		enableDebugOutput(log.Named("driver"))
	}

	d := &Device{
		log:       log,
		misses:    gfx.NewMissReporter(log),
		width:     opts.Width,
		height:    opts.Height,
		depthTest: true,
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	gl.Viewport(0, 0, int32(opts.Width), int32(opts.Height))

	d.compareSampler = newCompareSampler()
	return d, nil
}

// newCompareSampler returns a sampler performing hardware PCF: LEQUAL depth
// comparison with bilinear filtering of the results, and lit outside the map.
func newCompareSampler() uint32 {
	var s uint32
	gl.GenSamplers(1, &s)
	gl.SamplerParameteri(s, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.SamplerParameteri(s, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	gl.SamplerParameteri(s, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.SamplerParameteri(s, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := [4]float32{1, 1, 1, 1}
	gl.SamplerParameterfv(s, gl.TEXTURE_BORDER_COLOR, &border[0])
	return s
}

// Resize records a new display size, e.g. after the window changed.
func (d *Device) Resize(width, height int) {
	d.width, d.height = width, height
	if d.bound == nil {
		gl.Viewport(0, 0, int32(width), int32(height))
	}
	d.log.Debug("display resized", zap.Int("width", width), zap.Int("height", height))
}

// BindTarget binds the framebuffer of t, or the display for nil.
func (d *Device) BindTarget(t gfx.Target) {
	if t == nil {
		d.bound = nil
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return
	}
	gt, ok := t.(*target)
	if !ok {
		d.log.Error("BindTarget: target not created by this device", zap.String("target", t.Name()))
		return
	}
	d.bound = gt
	gl.BindFramebuffer(gl.FRAMEBUFFER, gt.fbo)
}

// Viewport sets the viewport rectangle.
func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Clear clears the selected buffers of the bound framebuffer.
func (d *Device) Clear(mask gfx.ClearMask, color [4]float32) {
	var bits uint32
	if mask&gfx.ClearColor != 0 {
		gl.ClearColor(color[0], color[1], color[2], color[3])
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gfx.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

// SetDepthTest toggles GL_DEPTH_TEST and returns the previous state.
func (d *Device) SetDepthTest(enabled bool) bool {
	prev := d.depthTest
	if enabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	d.depthTest = enabled
	return prev
}

// SetCullFace selects the culled winding.
func (d *Device) SetCullFace(face gfx.CullFace) {
	switch face {
	case gfx.CullNone:
		gl.Disable(gl.CULL_FACE)
	case gfx.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

// BindTexture binds tex to unit. Compare mode attaches the shadow sampler to
// the unit; filtered mode leaves the texture's own parameters in effect.
func (d *Device) BindTexture(unit int, tex gfx.Texture, mode gfx.SampleMode) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	if tex == nil {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.BindSampler(uint32(unit), 0)
		return
	}
	gt, ok := tex.(*texture)
	if !ok {
		d.log.Error("BindTexture: texture not created by this device", zap.Int("unit", unit))
		return
	}
	gl.BindTexture(gt.target(), gt.id)
	if mode == gfx.SampleCompare {
		gl.BindSampler(uint32(unit), d.compareSampler)
	} else {
		gl.BindSampler(uint32(unit), 0)
	}
}

// Draw draws count vertices of m as triangles with the program in use.
func (d *Device) Draw(m gfx.Mesh, first, count int) {
	gm, ok := m.(*mesh)
	if !ok {
		d.log.Error("Draw: mesh not created by this device", zap.String("mesh", m.Name()))
		return
	}
	gl.BindVertexArray(gm.vao)
	gl.DrawArrays(gl.TRIANGLES, int32(first), int32(count))
	gl.BindVertexArray(0)
}

// ReadTexture downloads one face of tex as floats.
func (d *Device) ReadTexture(tex gfx.Texture, face int) ([]float32, error) {
	gt, ok := tex.(*texture)
	if !ok {
		return nil, errors.New("texture not created by this device")
	}
	desc := gt.desc
	faces := 1
	if desc.Cube {
		faces = gfx.CubeFaces
	}
	if face < 0 || face >= faces {
		return nil, fmt.Errorf("texture %s has no face %d", desc.Label, face)
	}

	f := formatOf(desc.Format)
	out := make([]float32, desc.Width*desc.Height*desc.Format.Channels())
	gl.BindTexture(gt.target(), gt.id)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.GetTexImage(gt.faceTarget(face), 0, f.format, gl.FLOAT, gl.Ptr(out))
	gl.BindTexture(gt.target(), 0)
	return out, nil
}

// ReadDisplay reads the back buffer of the display as RGBA floats.
func (d *Device) ReadDisplay() ([]float32, error) {
	out := make([]float32, d.width*d.height*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(d.width), int32(d.height), gl.RGBA, gl.FLOAT, gl.Ptr(out))
	if d.bound != nil {
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, d.bound.fbo)
	}
	if code := gl.GetError(); code != gl.NO_ERROR {
		return nil, fmt.Errorf("reading display: GL error 0x%x", code)
	}
	return out, nil
}

// DisplaySize returns the display size.
func (d *Device) DisplaySize() (int, int) {
	return d.width, d.height
}

// Close releases device-level objects.
func (d *Device) Close() {
	d.log.Info("closing GL device")
	if d.compareSampler != 0 {
		gl.DeleteSamplers(1, &d.compareSampler)
		d.compareSampler = 0
	}
	disableDebugOutput()
}
