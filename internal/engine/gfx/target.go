package gfx

import (
	"errors"
	"fmt"
)

// ValidateAttachments applies the completeness rules every backend shares:
// at least one attachment, matching sizes, a depth format only in the depth
// slot, and a cube face in range for cube attachments.
func ValidateAttachments(color, depth *Attachment) (width, height int, err error) {
	if (color == nil || color.Texture == nil) && (depth == nil || depth.Texture == nil) {
		return 0, 0, incomplete(ErrNoAttachments)
	}

	sizeSet := false
	check := func(a *Attachment, wantDepth bool) error {
		if a == nil || a.Texture == nil {
			return nil
		}
		d := a.Texture.Desc()
		if d.Format.IsDepth() != wantDepth {
			return incomplete(fmt.Errorf("%w: %s in %s slot", ErrAttachmentFormat, d.Format, slotName(wantDepth)))
		}
		if d.Cube && (a.Face < 0 || a.Face >= CubeFaces) {
			return incomplete(fmt.Errorf("%w: cube face %d", ErrAttachmentFormat, a.Face))
		}
		if !sizeSet {
			width, height, sizeSet = d.Width, d.Height, true
			return nil
		}
		if d.Width != width || d.Height != height {
			return incomplete(fmt.Errorf("%w: %dx%d vs %dx%d", ErrAttachmentSize, d.Width, d.Height, width, height))
		}
		return nil
	}

	if err := check(color, false); err != nil {
		return 0, 0, err
	}
	if err := check(depth, true); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func incomplete(cause error) error {
	return errors.Join(ErrIncompleteTarget, cause)
}

func slotName(depth bool) string {
	if depth {
		return "depth"
	}
	return "color"
}
