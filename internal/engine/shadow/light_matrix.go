// Package shadow computes light-space transforms for shadow mapping and
// provides the reference shadow lookups the lit shaders implement.
package shadow

import (
	"github.com/go-gl/mathgl/mgl32"
)

// BiasMatrix maps clip space [-1,1] to texture space [0,1] on all three axes.
var BiasMatrix = mgl32.Mat4{
	0.5, 0, 0, 0,
	0, 0.5, 0, 0,
	0, 0, 0.5, 0,
	0.5, 0.5, 0.5, 1,
}

// LightTransform is the view and projection of a light's point of view.
type LightTransform struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// ViewProjection returns Projection * View, the clip transform of the shadow pass.
func (lt LightTransform) ViewProjection() mgl32.Mat4 {
	return lt.Projection.Mul4(lt.View)
}

// ShadowMatrix returns Bias * Projection * View. Multiplied by a model matrix
// it takes object space to shadow-map texture space (before the w divide).
func (lt LightTransform) ShadowMatrix() mgl32.Mat4 {
	return BiasMatrix.Mul4(lt.ViewProjection())
}

// Frustum is a symmetric perspective frustum with unit aspect ratio.
type Frustum struct {
	FovDeg float32
	Near   float32
	Far    float32
}

// Projection returns the perspective matrix of the frustum.
func (f Frustum) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(f.FovDeg), 1, f.Near, f.Far)
}

// ComputeLightViewProjection aims a spot light at lookTarget. Keeping the
// target on the tracked object keeps the caster centered in the shadow map
// wherever the light moves. A zero upHint means +Y, and a lookTarget equal
// to lightPos makes the light look straight down.
func ComputeLightViewProjection(lightPos, lookTarget, upHint mgl32.Vec3, fovDeg, near, far float32) LightTransform {
	up := upHint
	if up.Len() == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}
	if lookTarget.Sub(lightPos).Len() == 0 {
		lookTarget = lightPos.Sub(mgl32.Vec3{0, 1, 0})
	}
	dir := lookTarget.Sub(lightPos).Normalize()
	// An up vector parallel to the view direction has no defined basis.
	if abs32(dir.Dot(up.Normalize())) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
		if abs32(dir.Z()) > 0.999 {
			up = mgl32.Vec3{1, 0, 0}
		}
	}

	return LightTransform{
		View:       mgl32.LookAtV(lightPos, lookTarget, up),
		Projection: Frustum{FovDeg: fovDeg, Near: near, Far: far}.Projection(),
	}
}

// abs32 returns the absolute value of a float32.
func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
