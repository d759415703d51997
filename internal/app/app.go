// Package app runs the shadow demo: it owns the window, the graphics device
// and the pipeline, and drives frames from input.
package app

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/config"
	"github.com/Faultbox/shadowlab/internal/engine/animation"
	"github.com/Faultbox/shadowlab/internal/engine/debug"
	"github.com/Faultbox/shadowlab/internal/engine/gfx"
	"github.com/Faultbox/shadowlab/internal/engine/gfx/glbackend"
	"github.com/Faultbox/shadowlab/internal/engine/gfx/soft"
	"github.com/Faultbox/shadowlab/internal/engine/input"
	"github.com/Faultbox/shadowlab/internal/engine/pipeline"
	"github.com/Faultbox/shadowlab/internal/engine/shadow"
	"github.com/Faultbox/shadowlab/internal/engine/window"
	"github.com/Faultbox/shadowlab/internal/logger"
)

const title = "ShadowLab"

// headlessStep is the simulated frame time of headless runs.
const headlessStep = 1.0 / 60

// App is the demo instance.
type App struct {
	cfg *config.Config
	log *zap.Logger

	win   window.Window // nil when headless
	glDev *glbackend.Device
	dev   gfx.Device
	in    *input.Input

	pipe     *pipeline.Pipeline
	sampling *shadow.Selector
	orbit    *animation.Orbit // nil when the light is static
	capture  *debug.Capture

	light         mgl32.Vec3
	showShadowMap bool
	frame         uint64
	elapsed       float64
}

// New creates the window (unless running headless), the device and the
// pipeline described by cfg.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("app")

	if cfg.Graphics.Backend == "soft" {
		dev := soft.New(cfg.Graphics.Width, cfg.Graphics.Height, logger.Named("soft"))
		a, err := newApp(cfg, dev, log)
		if err != nil {
			dev.Close()
			return nil, err
		}
		return a, nil
	}

	win, err := window.New(window.Config{
		Title:   title,
		Width:   cfg.Graphics.Width,
		Height:  cfg.Graphics.Height,
		VSync:   cfg.Graphics.VSync,
		Backend: cfg.Graphics.Window,
		Debug:   cfg.Graphics.DebugContext,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The device must be created after the window: it needs a current context.
	w, h := win.DrawableSize()
	glDev, err := glbackend.New(glbackend.Options{Width: w, Height: h, Debug: cfg.Graphics.DebugContext}, logger.Named("gl"))
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("failed to create GL device: %w", err)
	}

	a, err := newApp(cfg, glDev, log)
	if err != nil {
		glDev.Close()
		win.Close()
		return nil, err
	}
	a.win = win
	a.glDev = glDev
	a.updateTitle()
	return a, nil
}

// newApp builds the pipeline and scene state on an existing device.
func newApp(cfg *config.Config, dev gfx.Device, log *zap.Logger) (*App, error) {
	tech, err := pipeline.ParseTechnique(cfg.Shadow.Technique)
	if err != nil {
		return nil, err
	}
	mode, err := shadow.ParseSamplingMode(cfg.Shadow.SamplingMode)
	if err != nil {
		return nil, err
	}

	pipe, err := pipeline.New(dev, pipeline.Settings{
		Technique: tech,
		MapSize:   cfg.Shadow.MapSize,
		BlurScale: cfg.Shadow.BlurScale,
		NoBlur:    !cfg.Shadow.Blur,
		PCFKernel: cfg.Shadow.PCFKernel,
	}, logger.Named("pipeline"))
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	a := &App{
		cfg:           cfg,
		log:           log,
		dev:           dev,
		in:            input.New(),
		pipe:          pipe,
		sampling:      shadow.NewSelector(mode),
		capture:       debug.NewCapture(cfg.Debug.CaptureDir, cfg.Debug.CaptureFormat),
		showShadowMap: cfg.Debug.ShowShadowMap,
	}

	layout := pipe.Resources().Params.Layout
	a.light = layout.Light
	if tech == pipeline.CubeBlurred {
		a.orbit = animation.NewOrbit(layout.OrbitCenter, cfg.Light.OrbitRadius, cfg.Light.OrbitSpeed)
		a.light = a.orbit.Position()
	}

	log.Info("demo initialized",
		zap.Stringer("technique", tech),
		zap.Stringer("sampling", mode),
		zap.Bool("headless", a.headless()),
	)
	return a, nil
}

func (a *App) headless() bool {
	return a.win == nil
}

// Run renders until the window closes, or renders the configured number of
// frames and captures them when headless.
func (a *App) Run() error {
	if a.headless() {
		return a.runHeadless()
	}
	return a.runWindowed()
}

func (a *App) runHeadless() error {
	frames := max(a.cfg.Debug.HeadlessFrames, 1)
	a.log.Info("rendering headless", zap.Int("frames", frames))
	for i := 0; i < frames; i++ {
		a.step(headlessStep)
	}
	return a.captureAll(a.capture.Name("display"), a.capture.Name("shadowmap"))
}

func (a *App) runWindowed() error {
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")
	for {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		a.in.Begin()
		a.win.PollEvents(a.in)
		if w, h, ok := a.in.Resized(); ok {
			a.glDev.Resize(w, h)
		}
		quit, captureRequested := a.handleInput()
		if quit {
			return nil
		}

		a.step(dt)

		// Capture reads the back buffer, so it runs before the swap.
		if captureRequested {
			if err := a.captureAll(a.capture.TimestampedName("display"), a.capture.TimestampedName("shadowmap")); err != nil {
				a.log.Error("capture failed", zap.Error(err))
			}
		}
		a.win.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
}

// handleInput applies key presses of the current frame. It reports whether
// the demo should quit and whether a capture was requested.
func (a *App) handleInput() (quit, capture bool) {
	if a.in.QuitRequested() {
		return true, false
	}
	if a.in.Pressed(input.KeySpace) && a.pipe.Technique() == pipeline.Basic {
		mode := a.sampling.Toggle()
		a.log.Info("sampling mode", zap.String("mode", mode.String()))
		a.updateTitle()
	}
	if a.in.Pressed(input.KeyV) {
		a.showShadowMap = !a.showShadowMap
		a.log.Info("shadow map view", zap.Bool("visible", a.showShadowMap))
	}
	return false, a.in.Pressed(input.KeyF12)
}

// step advances the light by dt seconds and renders one frame.
func (a *App) step(dt float64) {
	a.elapsed += dt
	if a.orbit != nil {
		a.light = a.orbit.Update(float32(dt))
	}
	fc := a.pipe.NewFrame(a.frame, a.elapsed, a.light, a.sampling.Mode(), a.showShadowMap)
	a.pipe.RenderFrame(fc)
	a.frame++
}

func (a *App) captureAll(displayName, shadowName string) error {
	display, err := a.capture.Display(a.dev, displayName)
	if err != nil {
		return fmt.Errorf("display capture: %w", err)
	}
	shadowMap, err := a.capture.Texture(a.dev, a.pipe.ShadowMap(), shadowName)
	if err != nil {
		return fmt.Errorf("shadow map capture: %w", err)
	}
	a.log.Info("captured", zap.String("display", display), zap.String("shadow_map", shadowMap))
	return nil
}

func (a *App) updateTitle() {
	if a.win == nil {
		return
	}
	t := fmt.Sprintf("%s - %s", title, a.pipe.Technique())
	if a.pipe.Technique() == pipeline.Basic {
		t += " - " + a.sampling.Mode().String()
	}
	a.win.SetTitle(t)
}

// Close releases the pipeline, the device and the window.
func (a *App) Close() {
	a.log.Info("closing demo")
	if a.pipe != nil {
		a.pipe.Close()
	}
	if a.dev != nil {
		a.dev.Close()
	}
	if a.win != nil {
		a.win.Close()
	}
}
