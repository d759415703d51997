package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
	"github.com/Faultbox/shadowlab/internal/engine/shadow"
)

// Surface describes one attachment of a render target.
type Surface struct {
	Format gfx.Format
	Filter gfx.Filter
	Wrap   gfx.Wrap
	Border float32
}

func (s Surface) desc(label string, w, h int, cube bool) gfx.TextureDesc {
	return gfx.TextureDesc{
		Label:  label,
		Format: s.Format,
		Width:  w,
		Height: h,
		Cube:   cube,
		Filter: s.Filter,
		Wrap:   s.Wrap,
		Border: s.Border,
	}
}

// TargetSet creates and owns render targets and their textures. Targets are
// addressed by name.
type TargetSet struct {
	dev      gfx.Device
	log      *zap.Logger
	targets  map[string]gfx.Target
	order    []string
	textures []gfx.Texture
}

// NewTargetSet returns an empty set on dev.
func NewTargetSet(dev gfx.Device, log *zap.Logger) *TargetSet {
	return &TargetSet{dev: dev, log: log, targets: make(map[string]gfx.Target)}
}

func (s *TargetSet) newTexture(label string, surf *Surface, w, h int, cube bool) (gfx.Texture, error) {
	tex, err := s.dev.NewTexture(surf.desc(label, w, h, cube))
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", label, err)
	}
	s.textures = append(s.textures, tex)
	return tex, nil
}

func (s *TargetSet) add(name string, color, depth *gfx.Attachment) (gfx.Target, error) {
	if _, dup := s.targets[name]; dup {
		return nil, fmt.Errorf("target %s already exists", name)
	}
	t, err := s.dev.NewTarget(name, color, depth)
	if err != nil {
		return nil, err
	}
	s.targets[name] = t
	s.order = append(s.order, name)

	w, h := t.Size()
	s.log.Debug("render target created",
		zap.String("target", name),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Bool("color", color != nil),
		zap.Bool("depth", depth != nil),
	)
	return t, nil
}

// CreateTarget allocates the textures for the given surfaces and assembles a
// target from them. A nil color surface makes a depth-only target.
func (s *TargetSet) CreateTarget(name string, color, depth *Surface, width, height int) (gfx.Target, error) {
	var ca, da *gfx.Attachment
	if color != nil {
		tex, err := s.newTexture(name+".color", color, width, height, false)
		if err != nil {
			return nil, err
		}
		ca = &gfx.Attachment{Texture: tex}
	}
	if depth != nil {
		tex, err := s.newTexture(name+".depth", depth, width, height, false)
		if err != nil {
			return nil, err
		}
		da = &gfx.Attachment{Texture: tex}
	}
	return s.add(name, ca, da)
}

// CreateCubeTargets allocates cube textures and one target per face, named
// CubeTargetName(prefix, face). It returns the color cube texture.
func (s *TargetSet) CreateCubeTargets(prefix string, color, depth *Surface, size int) (gfx.Texture, error) {
	colorTex, err := s.newTexture(prefix+".color", color, size, size, true)
	if err != nil {
		return nil, err
	}
	var depthTex gfx.Texture
	if depth != nil {
		if depthTex, err = s.newTexture(prefix+".depth", depth, size, size, true); err != nil {
			return nil, err
		}
	}

	for face := 0; face < gfx.CubeFaces; face++ {
		var da *gfx.Attachment
		if depthTex != nil {
			da = &gfx.Attachment{Texture: depthTex, Face: face}
		}
		if _, err := s.add(CubeTargetName(prefix, face), &gfx.Attachment{Texture: colorTex, Face: face}, da); err != nil {
			return nil, err
		}
	}
	return colorTex, nil
}

// CubeTargetName returns the name of the target rendering one cube face.
func CubeTargetName(prefix string, face int) string {
	return prefix + shadow.CubeFace(face).String()
}

// Target returns the named target, or nil.
func (s *TargetSet) Target(name string) gfx.Target {
	return s.targets[name]
}

// Bind makes t current and sets the viewport to its size.
func (s *TargetSet) Bind(t gfx.Target) {
	s.dev.BindTarget(t)
	w, h := t.Size()
	s.dev.Viewport(w, h)
}

// Unbind returns to the display and its viewport.
func (s *TargetSet) Unbind() {
	s.dev.BindTarget(nil)
	s.dev.Viewport(s.dev.DisplaySize())
}

// Names returns target names in creation order.
func (s *TargetSet) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Destroy frees every target and texture in the set.
func (s *TargetSet) Destroy() {
	for _, name := range s.order {
		s.targets[name].Destroy()
	}
	for _, tex := range s.textures {
		tex.Destroy()
	}
	s.targets = make(map[string]gfx.Target)
	s.order = nil
	s.textures = nil
}

// sourceTexture returns the texture a later stage reads from t: its color
// attachment, or its depth attachment for depth-only targets.
func sourceTexture(t gfx.Target) gfx.Texture {
	if c := t.Color(); c != nil {
		return c.Texture
	}
	if d := t.Depth(); d != nil {
		return d.Texture
	}
	return nil
}
