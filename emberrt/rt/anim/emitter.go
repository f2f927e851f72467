package anim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/ember/emberrt/rt/core"
)

const (
	TagSway      = "sway"
	TagDiffusion = "diffusion"
)

// Sway lerps the emission box rotation (radians) across its window.
type Sway struct {
	FromAngles  mgl32.Vec3     `json:"from_angles"`
	UntilAngles mgl32.Vec3     `json:"until_angles"`
	LifeCycle   core.LifeCycle `json:"life_cycle"`
}

func DefaultSway() Sway {
	return Sway{
		FromAngles:  mgl32.Vec3{0, 0, mgl32.DegToRad(-20)},
		UntilAngles: mgl32.Vec3{0, 0, mgl32.DegToRad(20)},
		LifeCycle:   core.LifeCycle{FromSec: 0, UntilSec: 4, LifetimeSec: 4, Ease: "in_out_sine"},
	}
}

func (*Sway) Tag() string       { return TagSway }
func (*Sway) emitterEffect()    {}
func (s *Sway) Validate() error { return s.LifeCycle.Validate() }

func (s *Sway) Animate(em *core.EmitterUniform, clock *core.Clock) {
	cur := s.LifeCycle.CurrentSec(clock.ElapsedSec)
	if !s.LifeCycle.ShouldAnimate(cur) {
		return
	}
	em.BoxRotation = core.LerpVec3(s.FromAngles, s.UntilAngles, s.LifeCycle.Progress(cur))
}

// Diffusion lerps the emission cone width and depth (radians).
type Diffusion struct {
	FromWidth  float32        `json:"from_width"`
	UntilWidth float32        `json:"until_width"`
	FromDepth  float32        `json:"from_depth"`
	UntilDepth float32        `json:"until_depth"`
	LifeCycle  core.LifeCycle `json:"life_cycle"`
}

func DefaultDiffusion() Diffusion {
	return Diffusion{
		FromWidth:  mgl32.DegToRad(10),
		UntilWidth: mgl32.DegToRad(60),
		FromDepth:  mgl32.DegToRad(10),
		UntilDepth: mgl32.DegToRad(60),
		LifeCycle:  core.LifeCycle{FromSec: 0, UntilSec: 3, LifetimeSec: 6},
	}
}

func (*Diffusion) Tag() string    { return TagDiffusion }
func (*Diffusion) emitterEffect() {}

func (d *Diffusion) Validate() error {
	if d.FromWidth < 0 || d.UntilWidth < 0 || d.FromDepth < 0 || d.UntilDepth < 0 {
		return fmt.Errorf("%w: negative diffusion angle", core.ErrInvalidRange)
	}
	return d.LifeCycle.Validate()
}

func (d *Diffusion) Animate(em *core.EmitterUniform, clock *core.Clock) {
	cur := d.LifeCycle.CurrentSec(clock.ElapsedSec)
	if !d.LifeCycle.ShouldAnimate(cur) {
		return
	}
	t := d.LifeCycle.Progress(cur)
	em.DiffWidth = core.Lerp(d.FromWidth, d.UntilWidth, t)
	em.DiffDepth = core.Lerp(d.FromDepth, d.UntilDepth, t)
}
