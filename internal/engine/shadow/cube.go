package shadow

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidCubeFace is returned for a face index outside 0..5.
var ErrInvalidCubeFace = errors.New("cube face index out of range")

// CubeFaceFOV is the field of view that makes six frusta tile a cube.
const CubeFaceFOV = 90

// CubeFace indexes the faces of a cube map in the order +X, -X, +Y, -Y, +Z, -Z.
type CubeFace int

const (
	FacePositiveX CubeFace = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
)

// cubeBasis holds the look direction and up vector of each face. These match
// the cube map addressing rules, so rendering face i with this basis fills the
// texels a direction lookup reads back.
var cubeBasis = [6]struct {
	dir, up mgl32.Vec3
}{
	FacePositiveX: {mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	FaceNegativeX: {mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	FacePositiveY: {mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	FaceNegativeY: {mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}},
	FacePositiveZ: {mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}},
	FaceNegativeZ: {mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}},
}

var faceNames = [6]string{"+x", "-x", "+y", "-y", "+z", "-z"}

// Valid reports whether f is one of the six faces.
func (f CubeFace) Valid() bool {
	return f >= FacePositiveX && f <= FaceNegativeZ
}

// Direction returns the face's look direction.
func (f CubeFace) Direction() mgl32.Vec3 {
	return cubeBasis[f].dir
}

// Up returns the face's up vector.
func (f CubeFace) Up() mgl32.Vec3 {
	return cubeBasis[f].up
}

func (f CubeFace) String() string {
	if !f.Valid() {
		return fmt.Sprintf("face(%d)", int(f))
	}
	return faceNames[f]
}

// ComputeCubeFaceViewProjection returns the transform rendering one face of an
// omnidirectional shadow map centered on lightPos.
func ComputeCubeFaceViewProjection(lightPos mgl32.Vec3, face int, near, far float32) (LightTransform, error) {
	f := CubeFace(face)
	if !f.Valid() {
		return LightTransform{}, fmt.Errorf("%w: %d", ErrInvalidCubeFace, face)
	}

	return LightTransform{
		View:       mgl32.LookAtV(lightPos, lightPos.Add(f.Direction()), f.Up()),
		Projection: Frustum{FovDeg: CubeFaceFOV, Near: near, Far: far}.Projection(),
	}, nil
}

// CubeFaceCoord returns the face and [0,1] texture coordinates a direction
// lookup addresses, following the major-axis selection of cube map sampling.
func CubeFaceCoord(dir mgl32.Vec3) (face CubeFace, u, v float32) {
	x, y, z := dir.X(), dir.Y(), dir.Z()
	ax, ay, az := abs32(x), abs32(y), abs32(z)

	var sc, tc, ma float32
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if x > 0 {
			face, sc, tc = FacePositiveX, -z, -y
		} else {
			face, sc, tc = FaceNegativeX, z, -y
		}
	case ay >= az:
		ma = ay
		if y > 0 {
			face, sc, tc = FacePositiveY, x, z
		} else {
			face, sc, tc = FaceNegativeY, x, -z
		}
	default:
		ma = az
		if z > 0 {
			face, sc, tc = FacePositiveZ, x, -y
		} else {
			face, sc, tc = FaceNegativeZ, -x, -y
		}
	}

	if ma == 0 {
		return FacePositiveX, 0.5, 0.5
	}
	return face, (sc/ma + 1) / 2, (tc/ma + 1) / 2
}
