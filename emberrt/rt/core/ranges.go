package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Range is a closed numeric interval with Min <= Max.
type Range struct {
	Min float32 `json:"min"`
	Max float32 `json:"max"`
}

func NewRange(min, max float32) (Range, error) {
	r := Range{Min: min, Max: max}
	return r, r.Validate()
}

func (r Range) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: min %g > max %g", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

func (r Range) Lerp(t float32) float32 {
	return Lerp(r.Min, r.Max, t)
}

func Lerp(a, b, t float32) float32 { return a + (b-a)*t }

func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func LerpVec4(a, b mgl32.Vec4, t float32) mgl32.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}
