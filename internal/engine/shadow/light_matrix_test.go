package shadow

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

func TestCubeFaceBasis(t *testing.T) {
	for face := 0; face < 6; face++ {
		f := CubeFace(face)
		t.Run(f.String(), func(t *testing.T) {
			lt, err := ComputeCubeFaceViewProjection(mgl32.Vec3{}, face, 0.5, 100)
			if err != nil {
				t.Fatalf("ComputeCubeFaceViewProjection: %v", err)
			}

			forward := lt.View.Mul4x1(f.Direction().Vec4(0))
			if !approx(forward.X(), 0) || !approx(forward.Y(), 0) || !approx(forward.Z(), -1) {
				t.Errorf("face direction maps to %v, want (0,0,-1)", forward)
			}
			up := lt.View.Mul4x1(f.Up().Vec4(0))
			if !approx(up.X(), 0) || !approx(up.Y(), 1) || !approx(up.Z(), 0) {
				t.Errorf("face up maps to %v, want (0,1,0)", up)
			}
		})
	}
}

// Rendering a direction through a face's transform must land on the same
// texel a cube map lookup of that direction reads.
func TestCubeFaceMatchesLookup(t *testing.T) {
	light := mgl32.Vec3{0, 2, -5}
	offsets := [][2]float32{{0, 0}, {0.3, 0.2}, {-0.4, 0.1}, {0.25, -0.45}}

	for face := 0; face < 6; face++ {
		f := CubeFace(face)
		lt, err := ComputeCubeFaceViewProjection(light, face, 0.5, 100)
		if err != nil {
			t.Fatalf("face %d: %v", face, err)
		}
		// Two axes perpendicular to the face direction.
		a := f.Up()
		b := f.Direction().Cross(a)

		for _, off := range offsets {
			dir := f.Direction().Add(a.Mul(off[0])).Add(b.Mul(off[1]))
			clip := lt.ViewProjection().Mul4x1(light.Add(dir.Mul(3)).Vec4(1))
			ru := (clip.X()/clip.W() + 1) / 2
			rv := (clip.Y()/clip.W() + 1) / 2

			gotFace, u, v := CubeFaceCoord(dir)
			if gotFace != f {
				t.Errorf("face %v offset %v: lookup selected %v", f, off, gotFace)
				continue
			}
			if !approx(u, ru) || !approx(v, rv) {
				t.Errorf("face %v offset %v: lookup (%f,%f), rendered (%f,%f)", f, off, u, v, ru, rv)
			}
		}
	}
}

func TestComputeCubeFaceInvalid(t *testing.T) {
	for _, face := range []int{-1, 6, 42} {
		if _, err := ComputeCubeFaceViewProjection(mgl32.Vec3{}, face, 0.5, 100); !errors.Is(err, ErrInvalidCubeFace) {
			t.Errorf("face %d: expected ErrInvalidCubeFace, got %v", face, err)
		}
	}
}

func TestShadowMatrixMapsToTextureSpace(t *testing.T) {
	lt := ComputeLightViewProjection(mgl32.Vec3{-2, 2, -2}, mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 1, 0}, 60, 1, 10)

	points := []mgl32.Vec3{
		{0, 0, -5},
		{0.5, 0.5, -4.5},
		{1, -0.5, -6},
	}
	for _, p := range points {
		clip := lt.ViewProjection().Mul4x1(p.Vec4(1))
		ndc := clip.Vec3().Mul(1 / clip.W())

		sc, ok := ProjectShadowCoord(lt.ShadowMatrix().Mul4x1(p.Vec4(1)))
		if !ok {
			t.Errorf("point %v should be inside the light frustum", p)
			continue
		}
		for i := 0; i < 3; i++ {
			if want := (ndc[i] + 1) / 2; !approx(sc[i], want) {
				t.Errorf("point %v axis %d: got %f, want %f", p, i, sc[i], want)
			}
			if sc[i] < 0 || sc[i] > 1 {
				t.Errorf("point %v axis %d outside [0,1]: %f", p, i, sc[i])
			}
		}
	}
}

func TestComputeLightViewProjectionParallelUp(t *testing.T) {
	lt := ComputeLightViewProjection(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 45, 1, 10)
	for i, v := range lt.View {
		if math.IsNaN(float64(v)) {
			t.Fatalf("view matrix element %d is NaN", i)
		}
	}
	clip := lt.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !approx(clip.X()/clip.W(), 0) || !approx(clip.Y()/clip.W(), 0) {
		t.Errorf("look target should project to the center, got %v", clip)
	}
}

func TestComputeLightViewProjectionDegenerateInputs(t *testing.T) {
	light := mgl32.Vec3{-2, 2, -2}
	tests := []struct {
		name   string
		target mgl32.Vec3
		up     mgl32.Vec3
		// center must project to the middle of the shadow map.
		center mgl32.Vec3
	}{
		{"zero up", mgl32.Vec3{0, 0, -5}, mgl32.Vec3{}, mgl32.Vec3{0, 0, -5}},
		{"target at light", light, mgl32.Vec3{0, 1, 0}, light.Sub(mgl32.Vec3{0, 3, 0})},
		{"target at light, zero up", light, mgl32.Vec3{}, light.Sub(mgl32.Vec3{0, 3, 0})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lt := ComputeLightViewProjection(light, tt.target, tt.up, 45, 1, 10)
			for i, v := range lt.ViewProjection() {
				if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
					t.Fatalf("element %d is %f", i, v)
				}
			}
			clip := lt.ViewProjection().Mul4x1(tt.center.Vec4(1))
			if clip.W() <= 0 {
				t.Fatalf("%v is behind the light", tt.center)
			}
			if !approx(clip.X()/clip.W(), 0) || !approx(clip.Y()/clip.W(), 0) {
				t.Errorf("%v should project to the center, got %v", tt.center, clip)
			}
		})
	}
}
