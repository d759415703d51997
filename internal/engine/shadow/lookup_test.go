package shadow

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// splitMap is a 4x4 depth map whose left half holds an occluder at depth 0.3.
type splitMap struct{}

func (splitMap) Dimensions() (int, int) { return 4, 4 }

func (splitMap) Depth(x, y int) float32 {
	if x < 0 || y < 0 || x >= 4 || y >= 4 {
		return 1
	}
	if x < 2 {
		return 0.3
	}
	return 1
}

type flatMap float32

func (flatMap) Dimensions() (int, int)   { return 8, 8 }
func (m flatMap) Depth(x, y int) float32 { return float32(m) }

func TestSamplingModeToggle(t *testing.T) {
	s := NewSelector(SamplingManual)
	want := []SamplingMode{SamplingHardwarePCF, SamplingManual4x, SamplingManualNx, SamplingManual}
	for i, w := range want {
		if got := s.Toggle(); got != w {
			t.Fatalf("toggle %d: got %v, want %v", i+1, got, w)
		}
	}
	if s.Mode() != SamplingManual {
		t.Errorf("four toggles should return to the initial mode, got %v", s.Mode())
	}
}

func TestSamplingModeNames(t *testing.T) {
	tests := []struct {
		mode SamplingMode
		name string
		key  string
	}{
		{SamplingManual, "Manual", "manual"},
		{SamplingHardwarePCF, "Free HW PCF", "hardware"},
		{SamplingManual4x, "Manual 4x PCF", "manual4x"},
		{SamplingManualNx, "Manual NxN PCF", "manualnx"},
	}
	for _, tt := range tests {
		if tt.mode.String() != tt.name {
			t.Errorf("%d: name %q, want %q", tt.mode, tt.mode.String(), tt.name)
		}
		got, err := ParseSamplingMode(tt.key)
		if err != nil || got != tt.mode {
			t.Errorf("ParseSamplingMode(%q) = %v, %v", tt.key, got, err)
		}
	}
	if _, err := ParseSamplingMode("poisson"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestVisibilityFlat(t *testing.T) {
	modes := []SamplingMode{SamplingManual, SamplingHardwarePCF, SamplingManual4x, SamplingManualNx}
	m := flatMap(0.5)

	for _, mode := range modes {
		if got := Visibility(mode, m, mgl32.Vec4{0.5, 0.5, 0.4, 1}, 3); got != 1 {
			t.Errorf("%v: receiver in front of occluder should be lit, got %f", mode, got)
		}
		if got := Visibility(mode, m, mgl32.Vec4{0.5, 0.5, 0.6, 1}, 3); got != 0 {
			t.Errorf("%v: receiver behind occluder should be shadowed, got %f", mode, got)
		}
	}
}

func TestVisibilityOutsideIsLit(t *testing.T) {
	m := flatMap(0)
	coords := []mgl32.Vec4{
		{0.5, 0.5, 0.5, -1},
		{0.5, 0.5, 0.5, 0},
		{-0.1, 0.5, 0.5, 1},
		{0.5, 1.2, 0.5, 1},
		{0.5, 0.5, 1.5, 1},
	}
	for _, c := range coords {
		if got := Visibility(SamplingManual, m, c, 3); got != 1 {
			t.Errorf("coord %v should be lit, got %f", c, got)
		}
	}
}

func TestVisibilityManualBias(t *testing.T) {
	m := flatMap(0.5)
	if got := Visibility(SamplingManual, m, mgl32.Vec4{0.5, 0.5, 0.5 + 5e-6, 1}, 1); got != 1 {
		t.Errorf("receiver within the bias should be lit, got %f", got)
	}
}

func TestVisibilityFilteredEdge(t *testing.T) {
	tests := []struct {
		name  string
		mode  SamplingMode
		coord mgl32.Vec4
		want  float32
	}{
		{"hardware on boundary", SamplingHardwarePCF, mgl32.Vec4{0.5, 0.5, 0.5, 1}, 0.5},
		{"hardware inside occluder", SamplingHardwarePCF, mgl32.Vec4{0.125, 0.5, 0.5, 1}, 0},
		{"4x on boundary", SamplingManual4x, mgl32.Vec4{0.5, 0.5, 0.5, 1}, 0.5},
		{"3x3 next to boundary", SamplingManualNx, mgl32.Vec4{0.625, 0.625, 0.5, 1}, 2.0 / 3},
		{"homogeneous coordinate", SamplingHardwarePCF, mgl32.Vec4{1, 1, 1, 2}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visibility(tt.mode, splitMap{}, tt.coord, 3); !approx(got, tt.want) {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestTexelSplitSnapsCenters(t *testing.T) {
	x, f := TexelSplit(0.625, 4)
	if x != 2 || f != 0 {
		t.Errorf("texel center: got (%d, %f), want (2, 0)", x, f)
	}
	x, f = TexelSplit(0.5, 4)
	if x != 1 || f != 0.5 {
		t.Errorf("texel boundary: got (%d, %f), want (1, 0.5)", x, f)
	}
}

func TestChebyshev(t *testing.T) {
	if got := Chebyshev(mgl32.Vec2{0.5, 0.25}, 0.4); got != 1 {
		t.Errorf("receiver before mean should be lit, got %f", got)
	}
	if got := Chebyshev(mgl32.Vec2{0.5, 0.26}, 0.6); !approx(got, 0.5) {
		t.Errorf("got %f, want 0.5", got)
	}
	// Zero variance falls back to MinVariance and darkens quickly.
	if got := Chebyshev(mgl32.Vec2{0.5, 0.25}, 0.9); got > 0.01 {
		t.Errorf("expected near-full shadow, got %f", got)
	}
}

func TestMoments(t *testing.T) {
	m := Moments(0.5, 0.2, 0)
	if !approx(m.X(), 0.5) || !approx(m.Y(), 0.26) {
		t.Errorf("got %v, want (0.5, 0.26)", m)
	}
}
