// Package soft is a CPU implementation of gfx.Device. It rasterizes triangles
// in float precision and runs Go ports of the shader programs, so the shadow
// pipeline can render headless and be tested without a GPU.
package soft

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/engine/filter"
	"github.com/Faultbox/shadowlab/internal/engine/gfx"
)

const maxTextureUnits = 4

// Device is a software gfx.Device. It is not safe for concurrent use.
type Device struct {
	log    *zap.Logger
	misses *gfx.MissReporter

	display   *target
	bound     *target
	viewportW int
	viewportH int
	depthTest bool
	cull      gfx.CullFace
	program   *program
	units     [maxTextureUnits]Sampler

	tracing bool
	trace   []string
}

var _ gfx.Device = (*Device)(nil)

// New creates a device whose display is width x height.
func New(width, height int, log *zap.Logger) *Device {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Device{
		log:       log,
		misses:    gfx.NewMissReporter(log),
		depthTest: true,
		cull:      gfx.CullBack,
	}

	color := newTexture(gfx.TextureDesc{Label: "display.color", Format: gfx.FormatRGBA8, Width: width, Height: height})
	depth := newTexture(gfx.TextureDesc{Label: "display.depth", Format: gfx.FormatDepth, Width: width, Height: height})
	d.display = &target{
		name:  "display",
		w:     width,
		h:     height,
		color: &gfx.Attachment{Texture: color},
		depth: &gfx.Attachment{Texture: depth},
	}
	d.bound = d.display
	d.viewportW, d.viewportH = width, height

	log.Debug("software device created", zap.Int("width", width), zap.Int("height", height))
	return d
}

// EnableTrace starts recording a line per state change and draw call.
func (d *Device) EnableTrace() {
	d.tracing = true
	d.trace = d.trace[:0]
}

// Trace returns the recorded commands.
func (d *Device) Trace() []string {
	out := make([]string, len(d.trace))
	copy(out, d.trace)
	return out
}

func (d *Device) record(format string, args ...any) {
	if d.tracing {
		d.trace = append(d.trace, fmt.Sprintf(format, args...))
	}
}

// NewTexture allocates a texture.
func (d *Device) NewTexture(desc gfx.TextureDesc) (gfx.Texture, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return newTexture(desc), nil
}

// NewTarget assembles a render target from soft textures.
func (d *Device) NewTarget(name string, color, depth *gfx.Attachment) (gfx.Target, error) {
	w, h, err := gfx.ValidateAttachments(color, depth)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", name, err)
	}
	for _, a := range []*gfx.Attachment{color, depth} {
		if a == nil || a.Texture == nil {
			continue
		}
		if _, ok := a.Texture.(*texture); !ok {
			return nil, fmt.Errorf("target %s: %w", name, errors.Join(gfx.ErrIncompleteTarget, errors.New("texture not created by this device")))
		}
	}

	t := &target{name: name, w: w, h: h}
	if color != nil && color.Texture != nil {
		c := *color
		t.color = &c
	}
	if depth != nil && depth.Texture != nil {
		dp := *depth
		t.depth = &dp
	}
	return t, nil
}

// NewProgram resolves the Go port registered under src.Name.
func (d *Device) NewProgram(src gfx.ProgramSource) (gfx.Program, error) {
	factory, ok := registry[src.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", gfx.ErrUnknownProgram, src.Name)
	}
	sh, err := factory(src.Defines)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w: %v", src.Name, gfx.ErrShaderCompile, err)
	}

	declared := make(map[string]bool)
	for _, u := range sh.Uniforms() {
		declared[u] = true
	}
	return &program{
		dev:      d,
		name:     src.Name,
		shader:   sh,
		declared: declared,
		values:   make(Uniforms),
	}, nil
}

// NewMesh copies interleaved vertex data.
func (d *Device) NewMesh(name string, vertices []float32) (gfx.Mesh, error) {
	if len(vertices) == 0 || len(vertices)%gfx.VertexStride != 0 {
		return nil, fmt.Errorf("mesh %s: %d floats is not a multiple of %d", name, len(vertices), gfx.VertexStride)
	}
	data := make([]float32, len(vertices))
	copy(data, vertices)
	return &mesh{name: name, data: data}, nil
}

// BindTarget selects the render target; nil selects the display.
func (d *Device) BindTarget(t gfx.Target) {
	if t == nil {
		d.bound = d.display
		d.record("target display")
		return
	}
	st, ok := t.(*target)
	if !ok {
		d.log.Error("BindTarget: target not created by this device", zap.String("target", t.Name()))
		return
	}
	d.bound = st
	d.record("target %s", st.name)
}

// Viewport sets the drawing rectangle.
func (d *Device) Viewport(width, height int) {
	d.viewportW, d.viewportH = width, height
	d.record("viewport %dx%d", width, height)
}

// Clear fills the selected attachments of the bound target.
func (d *Device) Clear(mask gfx.ClearMask, color [4]float32) {
	var parts []string
	if mask&gfx.ClearColor != 0 {
		parts = append(parts, "color")
		if img := d.bound.colorImage(); img != nil {
			img.Fill(color)
		}
	}
	if mask&gfx.ClearDepth != 0 {
		parts = append(parts, "depth")
		if img := d.bound.depthImage(); img != nil {
			img.Fill([4]float32{1})
		}
	}
	d.record("clear %s", strings.Join(parts, "|"))
}

// SetDepthTest toggles depth testing and returns the previous state.
func (d *Device) SetDepthTest(enabled bool) bool {
	prev := d.depthTest
	d.depthTest = enabled
	d.record("depth_test %s", onOff(enabled))
	return prev
}

// SetCullFace selects the culled winding.
func (d *Device) SetCullFace(face gfx.CullFace) {
	d.cull = face
	d.record("cull %s", cullName(face))
}

// BindTexture binds tex to unit. A nil texture unbinds.
func (d *Device) BindTexture(unit int, tex gfx.Texture, mode gfx.SampleMode) {
	if unit < 0 || unit >= maxTextureUnits {
		d.log.Error("BindTexture: unit out of range", zap.Int("unit", unit))
		return
	}
	if tex == nil {
		d.units[unit] = Sampler{}
		d.record("texture %d none", unit)
		return
	}
	st, ok := tex.(*texture)
	if !ok {
		d.log.Error("BindTexture: texture not created by this device", zap.Int("unit", unit))
		return
	}
	d.units[unit] = Sampler{tex: st, mode: mode}
	d.record("texture %d %s %s", unit, st.desc.Label, sampleModeName(mode))
}

// ReadTexture returns a copy of the texels of one face.
func (d *Device) ReadTexture(tex gfx.Texture, face int) ([]float32, error) {
	st, ok := tex.(*texture)
	if !ok {
		return nil, errors.New("texture not created by this device")
	}
	if face < 0 || face >= len(st.faces) {
		return nil, fmt.Errorf("texture %s has no face %d", st.desc.Label, face)
	}
	img := st.faces[face]
	out := make([]float32, len(img.Pix))
	copy(out, img.Pix)
	return out, nil
}

// WriteTexture replaces the texels of one face.
func (d *Device) WriteTexture(tex gfx.Texture, face int, texels []float32) error {
	st, ok := tex.(*texture)
	if !ok {
		return errors.New("texture not created by this device")
	}
	if face < 0 || face >= len(st.faces) {
		return fmt.Errorf("texture %s has no face %d", st.desc.Label, face)
	}
	img := st.faces[face]
	if len(texels) != len(img.Pix) {
		return fmt.Errorf("texture %s: got %d floats, want %d", st.desc.Label, len(texels), len(img.Pix))
	}
	copy(img.Pix, texels)
	return nil
}

// ReadDisplay returns the display color buffer.
func (d *Device) ReadDisplay() ([]float32, error) {
	return d.ReadTexture(d.display.color.Texture, 0)
}

// DisplaySize returns the display size.
func (d *Device) DisplaySize() (int, int) {
	return d.display.w, d.display.h
}

// Close releases the display buffers.
func (d *Device) Close() {
	d.display.color.Texture.Destroy()
	d.display.depth.Texture.Destroy()
	d.program = nil
	d.units = [maxTextureUnits]Sampler{}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func cullName(c gfx.CullFace) string {
	switch c {
	case gfx.CullFront:
		return "front"
	case gfx.CullNone:
		return "none"
	default:
		return "back"
	}
}

func sampleModeName(m gfx.SampleMode) string {
	if m == gfx.SampleCompare {
		return "compare"
	}
	return "filtered"
}

// target is a set of attachments.
type target struct {
	name  string
	w, h  int
	color *gfx.Attachment
	depth *gfx.Attachment
}

func (t *target) Destroy()                  { t.color, t.depth = nil, nil }
func (t *target) Name() string              { return t.name }
func (t *target) Size() (int, int)          { return t.w, t.h }
func (t *target) Color() *gfx.Attachment    { return t.color }
func (t *target) Depth() *gfx.Attachment    { return t.depth }
func (t *target) colorImage() *filter.Image { return attachmentImage(t.color) }
func (t *target) depthImage() *filter.Image { return attachmentImage(t.depth) }

func attachmentImage(a *gfx.Attachment) *filter.Image {
	if a == nil || a.Texture == nil {
		return nil
	}
	tex := a.Texture.(*texture)
	if tex.faces == nil {
		return nil
	}
	if tex.desc.Cube {
		return tex.faces[a.Face]
	}
	return tex.faces[0]
}

type mesh struct {
	name string
	data []float32
}

func (m *mesh) Destroy()         { m.data = nil }
func (m *mesh) Name() string     { return m.name }
func (m *mesh) VertexCount() int { return len(m.data) / gfx.VertexStride }
