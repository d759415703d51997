// Package filter implements separable convolution over float images. The
// software backend stores its textures as Images and the blur shaders use the
// same kernels.
package filter

// Kernel is an odd-length convolution kernel centered on its middle tap.
type Kernel []float32

// Gaussian7 returns the 7-tap binomial approximation of a Gaussian used by the
// blur pass: 1 6 15 20 15 6 1 over 64.
func Gaussian7() Kernel {
	return Kernel{1.0 / 64, 6.0 / 64, 15.0 / 64, 20.0 / 64, 15.0 / 64, 6.0 / 64, 1.0 / 64}
}

// Box returns a normalized box kernel of size n, rounded up to odd.
func Box(n int) Kernel {
	if n < 1 {
		n = 1
	}
	if n%2 == 0 {
		n++
	}
	k := make(Kernel, n)
	for i := range k {
		k[i] = 1 / float32(n)
	}
	return k
}

// Radius returns the number of taps on each side of the center.
func (k Kernel) Radius() int {
	return len(k) / 2
}

// Sum returns the total weight of the kernel.
func (k Kernel) Sum() float32 {
	var s float32
	for _, w := range k {
		s += w
	}
	return s
}

// Image is a row-major float image with C channels per pixel. Row 0 is the
// bottom row, matching texture space.
type Image struct {
	W, H, C int
	Pix     []float32
}

// NewImage allocates a zeroed image.
func NewImage(w, h, c int) *Image {
	return &Image{W: w, H: h, C: c, Pix: make([]float32, w*h*c)}
}

// Offset returns the index of the first channel of pixel (x, y).
func (im *Image) Offset(x, y int) int {
	return (y*im.W + x) * im.C
}

// At returns channel c of pixel (x, y) with coordinates clamped to the edge.
func (im *Image) At(x, y, c int) float32 {
	x = clamp(x, 0, im.W-1)
	y = clamp(y, 0, im.H-1)
	return im.Pix[im.Offset(x, y)+c]
}

// Set writes channel c of pixel (x, y).
func (im *Image) Set(x, y, c int, v float32) {
	im.Pix[im.Offset(x, y)+c] = v
}

// Fill sets every pixel to the first C values of v.
func (im *Image) Fill(v [4]float32) {
	for i := 0; i < len(im.Pix); i += im.C {
		copy(im.Pix[i:i+im.C], v[:im.C])
	}
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := &Image{W: im.W, H: im.H, C: im.C, Pix: make([]float32, len(im.Pix))}
	copy(out.Pix, im.Pix)
	return out
}

// Pass convolves src along one axis. (dx, dy) is the texel step between taps,
// so (s, 0) is a horizontal pass with spacing s. Edges clamp.
func Pass(src *Image, k Kernel, dx, dy int) *Image {
	dst := NewImage(src.W, src.H, src.C)
	r := k.Radius()
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			o := dst.Offset(x, y)
			for i, w := range k {
				sx, sy := x+(i-r)*dx, y+(i-r)*dy
				for c := 0; c < src.C; c++ {
					dst.Pix[o+c] += w * src.At(sx, sy, c)
				}
			}
		}
	}
	return dst
}

// Separable runs a horizontal then a vertical pass with the given tap spacing.
func Separable(src *Image, k Kernel, step int) *Image {
	return Pass(Pass(src, k, step, 0), k, 0, step)
}

// Direct2D convolves src with the outer product of k with itself in a single
// pass. It is the reference Separable must agree with away from the edges.
func Direct2D(src *Image, k Kernel, step int) *Image {
	dst := NewImage(src.W, src.H, src.C)
	r := k.Radius()
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			o := dst.Offset(x, y)
			for j, wy := range k {
				for i, wx := range k {
					sx, sy := x+(i-r)*step, y+(j-r)*step
					for c := 0; c < src.C; c++ {
						dst.Pix[o+c] += wx * wy * src.At(sx, sy, c)
					}
				}
			}
		}
	}
	return dst
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
