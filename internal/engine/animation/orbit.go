// Package animation moves scene objects over time.
package animation

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Orbit circles a point around the vertical axis through Center at a constant
// angular speed. At angle 0 the point is Radius units along +X.
type Orbit struct {
	Center mgl32.Vec3
	Radius float32

	// turn tweens the angle through one revolution and loops forever.
	turn  *gween.Sequence
	angle float32
}

// NewOrbit returns an orbit turning speedDeg degrees per second. Zero speed
// keeps the point still; negative speed turns clockwise seen from above.
func NewOrbit(center mgl32.Vec3, radius, speedDeg float32) *Orbit {
	o := &Orbit{Center: center, Radius: radius}
	if speedDeg != 0 {
		end := float32(360)
		if speedDeg < 0 {
			end, speedDeg = -360, -speedDeg
		}
		o.turn = gween.NewSequence(gween.New(0, end, 360/speedDeg, ease.Linear))
		o.turn.SetLoop(-1)
	}
	return o
}

// Update advances the orbit by dt seconds and returns the new position.
func (o *Orbit) Update(dt float32) mgl32.Vec3 {
	if o.turn != nil && dt > 0 {
		o.angle, _, _ = o.turn.Update(dt)
	}
	return o.Position()
}

// Angle returns the current angle in degrees.
func (o *Orbit) Angle() float32 {
	return o.angle
}

// Position returns the current point on the orbit.
func (o *Orbit) Position() mgl32.Vec3 {
	rot := mgl32.Translate3D(o.Center.X(), o.Center.Y(), o.Center.Z()).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(o.angle)))
	return rot.Mul4x1(mgl32.Vec4{o.Radius, 0, 0, 1}).Vec3()
}
