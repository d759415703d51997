package glbackend

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shadowlab/internal/engine/gfx"
)

type target struct {
	name  string
	fbo   uint32
	w, h  int
	color *gfx.Attachment
	depth *gfx.Attachment
}

func (t *target) Name() string           { return t.name }
func (t *target) Size() (int, int)       { return t.w, t.h }
func (t *target) Color() *gfx.Attachment { return t.color }
func (t *target) Depth() *gfx.Attachment { return t.depth }

func (t *target) Destroy() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
}

// NewTarget creates a framebuffer over the given attachments. Without a color
// attachment the draw and read buffers are disabled.
func (d *Device) NewTarget(name string, color, depth *gfx.Attachment) (gfx.Target, error) {
	w, h, err := gfx.ValidateAttachments(color, depth)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", name, err)
	}

	t := &target{name: name, w: w, h: h}
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	attach := func(a *gfx.Attachment, point uint32) (*gfx.Attachment, error) {
		if a == nil || a.Texture == nil {
			return nil, nil
		}
		tex, ok := a.Texture.(*texture)
		if !ok {
			return nil, errors.New("texture not created by this device")
		}
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, point, tex.faceTarget(a.Face), tex.id, 0)
		c := *a
		return &c, nil
	}

	if t.color, err = attach(color, gl.COLOR_ATTACHMENT0); err == nil {
		t.depth, err = attach(depth, gl.DEPTH_ATTACHMENT)
	}
	if err == nil {
		if t.color == nil {
			gl.DrawBuffer(gl.NONE)
			gl.ReadBuffer(gl.NONE)
		}
		if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			err = fmt.Errorf("framebuffer status 0x%x", status)
		}
	}

	d.restoreFramebuffer()
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("target %s: %w", name, errors.Join(gfx.ErrIncompleteTarget, err))
	}
	return t, nil
}

func (d *Device) restoreFramebuffer() {
	if d.bound != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, d.bound.fbo)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
}
