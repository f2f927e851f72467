package fx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// The functions in this file are the per-texel math of the fx kernels. The
// WGSL versions must agree with them.

// Mix is the blend kernel: t=0 keeps in, t=1 keeps out.
func Mix(in, out mgl32.Vec4, t float32) mgl32.Vec4 {
	return in.Add(out.Sub(in).Mul(t))
}

type ToneOperator string

const (
	ToneNone     ToneOperator = "none"
	ToneReinhard ToneOperator = "reinhard"
	ToneACES     ToneOperator = "aces"
)

func (op ToneOperator) code() uint32 {
	switch op {
	case ToneReinhard:
		return 1
	case ToneACES:
		return 2
	default:
		return 0
	}
}

func (op ToneOperator) valid() bool {
	switch op {
	case ToneNone, ToneReinhard, ToneACES, "":
		return true
	}
	return false
}

func ToneMap(rgb mgl32.Vec3, op ToneOperator) mgl32.Vec3 {
	switch op {
	case ToneReinhard:
		return mgl32.Vec3{rgb[0] / (1 + rgb[0]), rgb[1] / (1 + rgb[1]), rgb[2] / (1 + rgb[2])}
	case ToneACES:
		var out mgl32.Vec3
		for i, x := range rgb {
			v := (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
			out[i] = mgl32.Clamp(v, 0, 1)
		}
		return out
	default:
		return rgb
	}
}

// Apply runs the color processing kernel on one texel.
func (g Grade) Apply(c mgl32.Vec4) mgl32.Vec4 {
	rgb := c.Vec3().Mul(g.Exposure)
	half := mgl32.Vec3{0.5, 0.5, 0.5}
	rgb = rgb.Sub(half).Mul(g.Contrast).Add(half)

	luma := rgb.Dot(mgl32.Vec3{0.2126, 0.7152, 0.0722})
	grey := mgl32.Vec3{luma, luma, luma}
	rgb = grey.Add(rgb.Sub(grey).Mul(g.Saturation))
	for i := range rgb {
		rgb[i] = max(rgb[i], 0)
	}

	rgb = ToneMap(rgb, g.Operator)
	for i := range rgb {
		rgb[i] = float32(math.Pow(float64(rgb[i]), 1/float64(g.Gamma)))
	}
	return rgb.Vec4(c[3])
}

// MaxBlurRadius bounds GaussianKernel to the 16 weights the blur uniform holds.
const MaxBlurRadius = 15

// GaussianKernel returns weights w[0..radius] for a separable blur:
// w[0] + 2*sum(w[1:]) == 1.
func GaussianKernel(radius int, sigma float32) []float32 {
	if radius < 0 {
		radius = 0
	}
	weights := make([]float32, radius+1)
	if sigma <= 0 {
		weights[0] = 1
		return weights
	}
	var sum float64
	for i := range weights {
		x := float64(i)
		w := math.Exp(-(x * x) / (2 * float64(sigma) * float64(sigma)))
		weights[i] = float32(w)
		if i == 0 {
			sum += w
		} else {
			sum += 2 * w
		}
	}
	for i := range weights {
		weights[i] = float32(float64(weights[i]) / sum)
	}
	return weights
}
