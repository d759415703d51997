package shadow

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ManualBias is subtracted from the receiver depth in the single-tap manual
// comparison to suppress self-shadowing acne.
const ManualBias = 1e-5

// MinVariance clamps the variance in the Chebyshev bound.
const MinVariance = 2e-5

// DepthMap is a readable depth texture. Texels outside the map read as the
// border depth of 1.0.
type DepthMap interface {
	Dimensions() (w, h int)
	Depth(x, y int) float32
}

// ProjectShadowCoord divides a shadow coordinate by w. The second result is
// false when the point lies behind the light or outside the shadow map, in
// which case the point counts as lit.
func ProjectShadowCoord(coord mgl32.Vec4) (mgl32.Vec3, bool) {
	w := coord.W()
	if w <= 0 {
		return mgl32.Vec3{}, false
	}
	p := coord.Vec3().Mul(1 / w)
	if p.X() < 0 || p.X() > 1 || p.Y() < 0 || p.Y() > 1 || p.Z() > 1 {
		return p, false
	}
	return p, true
}

// Visibility returns the lit fraction in [0,1] of a point with the given
// shadow coordinate, filtered as mode prescribes. kernel is the tap count per
// axis of SamplingManualNx.
func Visibility(mode SamplingMode, m DepthMap, coord mgl32.Vec4, kernel int) float32 {
	p, ok := ProjectShadowCoord(coord)
	if !ok {
		return 1
	}
	w, h := m.Dimensions()
	tx, ty := 1/float32(w), 1/float32(h)

	switch mode {
	case SamplingHardwarePCF:
		return CompareLinear(m, p.X(), p.Y(), p.Z())
	case SamplingManual4x:
		var sum float32
		for _, off := range [4][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {-0.5, 0.5}, {0.5, 0.5}} {
			sum += compareNearest(m, p.X()+off[0]*tx, p.Y()+off[1]*ty, p.Z())
		}
		return sum / 4
	case SamplingManualNx:
		if kernel < 1 {
			kernel = 1
		}
		half := float32(kernel-1) / 2
		var sum float32
		for j := 0; j < kernel; j++ {
			for i := 0; i < kernel; i++ {
				u := p.X() + (float32(i)-half)*tx
				v := p.Y() + (float32(j)-half)*ty
				sum += compareNearest(m, u, v, p.Z())
			}
		}
		return sum / float32(kernel*kernel)
	default:
		return compareNearest(m, p.X(), p.Y(), p.Z()-ManualBias)
	}
}

// compareNearest returns 1 when ref is not farther than the texel covering
// (u, v), 0 otherwise.
func compareNearest(m DepthMap, u, v, ref float32) float32 {
	w, h := m.Dimensions()
	x := int(math.Floor(float64(u) * float64(w)))
	y := int(math.Floor(float64(v) * float64(h)))
	if ref <= m.Depth(x, y) {
		return 1
	}
	return 0
}

// CompareLinear performs a less-or-equal depth comparison against the four
// texels around (u, v) and blends the results bilinearly, the way a
// comparison sampler with linear filtering does.
func CompareLinear(m DepthMap, u, v, ref float32) float32 {
	w, h := m.Dimensions()
	x0, fx := TexelSplit(u, w)
	y0, fy := TexelSplit(v, h)

	cmp := func(x, y int) float64 {
		if ref <= m.Depth(x, y) {
			return 1
		}
		return 0
	}
	top := cmp(x0, y0)*(1-fx) + cmp(x0+1, y0)*fx
	bottom := cmp(x0, y0+1)*(1-fx) + cmp(x0+1, y0+1)*fx
	return float32(top*(1-fy) + bottom*fy)
}

// TexelSplit returns the lower texel index and blend weight for a linear
// lookup at normalized coordinate c over n texels. Weights within 1e-6 of a
// texel center snap to it.
func TexelSplit(c float32, n int) (int, float64) {
	t := float64(c)*float64(n) - 0.5
	base := math.Floor(t)
	f := t - base
	switch {
	case f < 1e-6:
		f = 0
	case f > 1-1e-6:
		base++
		f = 0
	}
	return int(base), f
}

// Chebyshev returns the upper bound on the lit fraction of a receiver at
// distance t given the first two depth moments of its filter region.
func Chebyshev(moments mgl32.Vec2, t float32) float32 {
	mean := moments.X()
	if t <= mean {
		return 1
	}
	variance := moments.Y() - mean*mean
	if variance < MinVariance {
		variance = MinVariance
	}
	d := t - mean
	return variance / (variance + d*d)
}

// Moments returns the variance shadow map moments of a fragment depth. dx and
// dy are the screen-space depth derivatives, which widen the second moment
// over the fragment's footprint.
func Moments(depth, dx, dy float32) mgl32.Vec2 {
	return mgl32.Vec2{depth, depth*depth + 0.25*(dx*dx+dy*dy)}
}
