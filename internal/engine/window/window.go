// Package window creates the OS window and its OpenGL 4.1 core context, and
// translates native events into input events.
package window

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/engine/input"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Backend names accepted by New.
const (
	BackendSDL  = "sdl"
	BackendGLFW = "glfw"
)

// Config holds window configuration.
type Config struct {
	Title   string
	Width   int
	Height  int
	VSync   bool
	Backend string
	// Debug requests a debug GL context.
	Debug bool
}

// Window is a window with a current OpenGL context.
type Window interface {
	// PollEvents pushes pending native events into in.
	PollEvents(in *input.Input)
	// SwapBuffers presents the back buffer.
	SwapBuffers()
	// DrawableSize returns the framebuffer size in pixels.
	DrawableSize() (int, int)
	SetTitle(title string)
	Close()
}

// New opens a window on the configured backend.
func New(cfg Config, log *zap.Logger) (Window, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.Backend {
	case BackendGLFW:
		return newGLFW(cfg, log)
	case BackendSDL, "":
		return newSDL(cfg, log)
	default:
		return nil, fmt.Errorf("unknown window backend %q", cfg.Backend)
	}
}
