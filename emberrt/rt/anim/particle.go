package anim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/shaders"
)

const (
	TagColor   = "color"
	TagForce   = "force"
	TagGravity = "gravity"
	TagStray   = "stray"
)

// Color interpolates particle RGBA across a window of particle age.
type Color struct {
	FromColor mgl32.Vec4 `json:"from_color"`
	ToColor   mgl32.Vec4 `json:"to_color"`
	FromSec   float32    `json:"from_sec"`
	UntilSec  float32    `json:"until_sec"`
}

func DefaultColor() Color {
	return Color{
		FromColor: mgl32.Vec4{1, 0.8, 0.3, 1},
		ToColor:   mgl32.Vec4{0.8, 0.1, 0.05, 0},
		FromSec:   0,
		UntilSec:  2,
	}
}

func (*Color) Tag() string         { return TagColor }
func (*Color) Shader() string      { return shaders.Particle(shaders.ColorAnimWGSL) }
func (*Color) UniformSize() uint64 { return 48 }
func (*Color) particleEffect()     {}

func (c *Color) Validate() error {
	if c.FromSec < 0 || c.FromSec >= c.UntilSec {
		return fmt.Errorf("%w: color window [%g, %g)", core.ErrInvalidLifeCycle, c.FromSec, c.UntilSec)
	}
	return nil
}

func (c *Color) Uniform(*core.Clock) []byte {
	w := core.NewUniformWriter(48)
	w.Vec(0, c.FromColor[:]...).Vec(16, c.ToColor[:]...)
	w.F32(32, c.FromSec).F32(36, c.UntilSec)
	return w.Bytes()
}

// Force adds a constant acceleration, scaled by 1/mass on the GPU, while its
// life cycle window is active.
type Force struct {
	Force     mgl32.Vec3     `json:"force"`
	LifeCycle core.LifeCycle `json:"life_cycle"`
}

func DefaultForce() Force {
	return Force{
		Force:     mgl32.Vec3{2, 0, 0},
		LifeCycle: core.LifeCycle{FromSec: 0, UntilSec: 2, LifetimeSec: 4},
	}
}

func (*Force) Tag() string         { return TagForce }
func (*Force) Shader() string      { return shaders.Particle(shaders.ForceAnimWGSL) }
func (*Force) UniformSize() uint64 { return 16 }
func (*Force) particleEffect()     {}

func (f *Force) Validate() error { return f.LifeCycle.Validate() }

// Active reports whether the force applies at the clock's elapsed time.
func (f *Force) Active(clock *core.Clock) bool {
	return f.LifeCycle.ShouldAnimate(f.LifeCycle.CurrentSec(clock.ElapsedSec))
}

func (f *Force) Uniform(clock *core.Clock) []byte {
	var active float32
	if f.Active(clock) {
		active = 1
	}
	w := core.NewUniformWriter(16)
	w.Vec(0, f.Force[:]...).F32(12, active)
	return w.Bytes()
}

// Gravity pulls particles toward a point mass whose position travels from
// FromPos to UntilPos over the life cycle window. Inside DeadZone the pull is
// suppressed.
type Gravity struct {
	FromPos            mgl32.Vec3     `json:"from_pos"`
	UntilPos           mgl32.Vec3     `json:"until_pos"`
	GravitationalForce float32        `json:"gravitational_force"`
	DeadZone           float32        `json:"dead_zone"`
	Mass               float32        `json:"mass"`
	LifeCycle          core.LifeCycle `json:"life_cycle"`
}

func DefaultGravity() Gravity {
	return Gravity{
		FromPos:            mgl32.Vec3{-3, 4, 0},
		UntilPos:           mgl32.Vec3{3, 4, 0},
		GravitationalForce: 1,
		DeadZone:           0.5,
		Mass:               50,
		LifeCycle:          core.LifeCycle{FromSec: 0, UntilSec: 5, LifetimeSec: 5, Ease: "in_out_sine"},
	}
}

func (*Gravity) Tag() string         { return TagGravity }
func (*Gravity) Shader() string      { return shaders.Particle(shaders.GravityAnimWGSL) }
func (*Gravity) UniformSize() uint64 { return 32 }
func (*Gravity) particleEffect()     {}

func (g *Gravity) Validate() error {
	if g.DeadZone < 0 {
		return fmt.Errorf("%w: negative dead_zone %g", core.ErrInvalidRange, g.DeadZone)
	}
	return g.LifeCycle.Validate()
}

// Position is the attractor position at the clock's elapsed time. Before the
// window it rests at FromPos and after it at UntilPos.
func (g *Gravity) Position(clock *core.Clock) mgl32.Vec3 {
	cur := g.LifeCycle.CurrentSec(clock.ElapsedSec)
	return core.LerpVec3(g.FromPos, g.UntilPos, g.LifeCycle.Progress(cur))
}

func (g *Gravity) Uniform(clock *core.Clock) []byte {
	pos := g.Position(clock)
	w := core.NewUniformWriter(32)
	w.Vec(0, pos[:]...).F32(12, g.GravitationalForce)
	w.F32(16, g.DeadZone).F32(20, g.Mass)
	return w.Bytes()
}

// Stray rotates particle velocity by a random angle of at most StrayRadians
// per second while the particle age lies in [FromSec, UntilSec).
type Stray struct {
	StrayRadians float32 `json:"stray_radians"`
	FromSec      float32 `json:"from_sec"`
	UntilSec     float32 `json:"until_sec"`
}

func DefaultStray() Stray {
	return Stray{StrayRadians: mgl32.DegToRad(45), FromSec: 0, UntilSec: 10}
}

func (*Stray) Tag() string         { return TagStray }
func (*Stray) Shader() string      { return shaders.Particle(shaders.StrayAnimWGSL) }
func (*Stray) UniformSize() uint64 { return 16 }
func (*Stray) particleEffect()     {}

func (s *Stray) Validate() error {
	if s.StrayRadians < 0 {
		return fmt.Errorf("%w: negative stray_radians %g", core.ErrInvalidRange, s.StrayRadians)
	}
	if s.FromSec < 0 || s.FromSec >= s.UntilSec {
		return fmt.Errorf("%w: stray window [%g, %g)", core.ErrInvalidLifeCycle, s.FromSec, s.UntilSec)
	}
	return nil
}

func (s *Stray) Uniform(clock *core.Clock) []byte {
	w := core.NewUniformWriter(16)
	w.F32(0, s.StrayRadians).F32(4, s.FromSec).F32(8, s.UntilSec)
	w.U32(12, uint32(clock.Frame))
	return w.Bytes()
}
