package app

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/shadowlab/internal/config"
	"github.com/Faultbox/shadowlab/internal/engine/gfx/soft"
	"github.com/Faultbox/shadowlab/internal/engine/input"
	"github.com/Faultbox/shadowlab/internal/engine/shadow"
)

func testConfig(t *testing.T, technique string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Graphics.Backend = "soft"
	cfg.Graphics.Width = 64
	cfg.Graphics.Height = 48
	cfg.Shadow.Technique = technique
	cfg.Shadow.MapSize = 32
	cfg.Debug.CaptureDir = t.TempDir()
	return cfg
}

func newTestApp(t *testing.T, technique string) *App {
	t.Helper()
	cfg := testConfig(t, technique)
	a, err := newApp(cfg, soft.New(cfg.Graphics.Width, cfg.Graphics.Height, nil), zap.NewNop())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func press(a *App, keys ...input.Key) {
	a.in.Begin()
	for _, k := range keys {
		a.in.Push(input.Event{Type: input.EventKeyDown, Key: k})
	}
}

func TestHandleInput(t *testing.T) {
	a := newTestApp(t, "pcf")

	press(a, input.KeySpace)
	if quit, _ := a.handleInput(); quit {
		t.Fatal("Space should not quit")
	}
	if got := a.sampling.Mode(); got != shadow.SamplingHardwarePCF {
		t.Errorf("after Space mode %v, want %v", got, shadow.SamplingHardwarePCF)
	}

	press(a, input.KeyV)
	a.handleInput()
	if !a.showShadowMap {
		t.Error("V should show the shadow map")
	}

	press(a, input.KeyF12)
	if _, capture := a.handleInput(); !capture {
		t.Error("F12 should request a capture")
	}

	press(a, input.KeyEscape)
	if quit, _ := a.handleInput(); !quit {
		t.Error("Escape should quit")
	}
}

func TestSpaceIgnoredOutsidePCF(t *testing.T) {
	a := newTestApp(t, "vsm")
	press(a, input.KeySpace)
	a.handleInput()
	if got := a.sampling.Mode(); got != shadow.SamplingManual {
		t.Errorf("mode changed to %v for vsm", got)
	}
}

func TestCubeLightOrbits(t *testing.T) {
	a := newTestApp(t, "vsmcube")
	start := a.light
	a.step(0.5)
	if a.light == start {
		t.Error("light did not move")
	}
	if a.frame != 1 {
		t.Errorf("frame counter %d, want 1", a.frame)
	}
}

func TestRunHeadlessWritesCaptures(t *testing.T) {
	tests := []struct {
		name      string
		technique string
		format    string
		blur      bool
	}{
		{"pcf", "pcf", "png", true},
		{"vsm", "vsm", "png", true},
		{"vsmcube", "vsmcube", "bmp", true},
		{"vsmcube unblurred", "vsmcube", "png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, tt.technique)
			cfg.Debug.HeadlessFrames = 2
			cfg.Debug.CaptureFormat = tt.format
			cfg.Shadow.Blur = tt.blur

			a, err := New(cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer a.Close()

			if !a.headless() {
				t.Fatal("soft backend should run headless")
			}
			if err := a.Run(); err != nil {
				t.Fatalf("Run: %v", err)
			}
			for _, name := range []string{"display." + tt.format, "shadowmap." + tt.format} {
				if _, err := os.Stat(filepath.Join(cfg.Debug.CaptureDir, name)); err != nil {
					t.Errorf("%s not written: %v", name, err)
				}
			}
			if a.frame != 2 {
				t.Errorf("rendered %d frames, want 2", a.frame)
			}
		})
	}
}
