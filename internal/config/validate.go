package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

var (
	backends     = []string{"gl", "soft"}
	windows      = []string{"sdl", "glfw"}
	techniques   = []string{"pcf", "vsm", "vsmcube"}
	samplingKeys = []string{"manual", "hardware", "manual4x", "manualnx"}
	captureTypes = []string{"png", "bmp"}
)

// Validate checks enum strings and numeric ranges.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	}
	if !oneOf(c.Graphics.Backend, backends) {
		return fmt.Errorf("%w: graphics.backend %q, want one of %v", ErrInvalid, c.Graphics.Backend, backends)
	}
	if !oneOf(c.Graphics.Window, windows) {
		return fmt.Errorf("%w: graphics.window %q, want one of %v", ErrInvalid, c.Graphics.Window, windows)
	}
	if !oneOf(c.Shadow.Technique, techniques) {
		return fmt.Errorf("%w: shadow.technique %q, want one of %v", ErrInvalid, c.Shadow.Technique, techniques)
	}
	if !oneOf(c.Shadow.SamplingMode, samplingKeys) {
		return fmt.Errorf("%w: shadow.sampling_mode %q, want one of %v", ErrInvalid, c.Shadow.SamplingMode, samplingKeys)
	}
	if s := c.Shadow.MapSize; s < 16 || s > 4096 || s&(s-1) != 0 {
		return fmt.Errorf("%w: shadow.map_size %d must be a power of two in [16, 4096]", ErrInvalid, s)
	}
	if c.Shadow.BlurScale < 0 {
		return fmt.Errorf("%w: shadow.blur_scale %g is negative", ErrInvalid, c.Shadow.BlurScale)
	}
	if k := c.Shadow.PCFKernel; k < 1 || k > 8 {
		return fmt.Errorf("%w: shadow.pcf_kernel %d outside [1, 8]", ErrInvalid, k)
	}
	if !oneOf(c.Debug.CaptureFormat, captureTypes) {
		return fmt.Errorf("%w: debug.capture_format %q, want one of %v", ErrInvalid, c.Debug.CaptureFormat, captureTypes)
	}
	if c.Debug.HeadlessFrames < 0 {
		return fmt.Errorf("%w: debug.headless_frames %d is negative", ErrInvalid, c.Debug.HeadlessFrames)
	}
	return nil
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}
