// Package anim holds the particle-level and emitter-level animations that can
// be attached to an emitter. Each category is a closed set of variants behind
// a sealed interface; the string-tagged registries only come into play at
// the persistence boundary.
package anim

import (
	"fmt"

	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/registry"
)

// Pass is the GPU side of one particle animation bound to one emitter.
type Pass interface {
	WriteUniform(data []byte)
	// Dispatch records a compute pass over the particle buffer that is
	// current for the given parity.
	Dispatch(parity int)
	Release()
}

// Binder creates passes against an emitter's particle buffers.
type Binder interface {
	BindAnimation(label, shader string, uniformSize uint64) (Pass, error)
}

// ParticleEffect is implemented by Color, Force, Gravity and Stray only.
type ParticleEffect interface {
	Tag() string
	Shader() string
	UniformSize() uint64
	Uniform(clock *core.Clock) []byte
	Validate() error
	particleEffect()
}

// EmitterEffect is implemented by Sway and Diffusion only.
type EmitterEffect interface {
	Tag() string
	Animate(em *core.EmitterUniform, clock *core.Clock)
	Validate() error
	emitterEffect()
}

// Particle is a particle-level animation: a variant plus its UI control and
// the GPU pass it owns.
type Particle struct {
	core.Control
	Effect ParticleEffect

	pass Pass
}

func NewParticle(effect ParticleEffect) *Particle {
	return &Particle{Control: core.NewControl(), Effect: effect}
}

func (p *Particle) Tag() string { return p.Effect.Tag() }

// Bound reports whether the animation currently owns a GPU pass.
func (p *Particle) Bound() bool { return p.pass != nil }

// Recreate releases the current pass and binds a new one against b. It must
// run for every attached animation whenever the emitter's buffers change.
func (p *Particle) Recreate(b Binder) error {
	pass, err := b.BindAnimation(p.Tag()+" animation", p.Effect.Shader(), p.Effect.UniformSize())
	if err != nil {
		return fmt.Errorf("bind %s animation: %w", p.Tag(), err)
	}
	p.Release()
	p.pass = pass
	return nil
}

// Update uploads the variant's uniform for this frame.
func (p *Particle) Update(clock *core.Clock) {
	if !p.Enabled || p.pass == nil {
		return
	}
	p.pass.WriteUniform(p.Effect.Uniform(clock))
}

// Compute dispatches the animation over the current particle buffer.
// Disabled animations are skipped.
func (p *Particle) Compute(clock *core.Clock) {
	if !p.Enabled || p.pass == nil {
		return
	}
	p.pass.Dispatch(clock.Parity())
}

func (p *Particle) Release() {
	if p.pass != nil {
		p.pass.Release()
		p.pass = nil
	}
}

func (p *Particle) Export() (registry.Record, error) {
	return registry.NewControlledRecord(p.Tag(), p.Effect, p.Control)
}

// Emitter is an emitter-level animation. It mutates the emitter uniform on
// the CPU and owns no GPU state.
type Emitter struct {
	core.Control
	Effect EmitterEffect
}

func NewEmitter(effect EmitterEffect) *Emitter {
	return &Emitter{Control: core.NewControl(), Effect: effect}
}

func (e *Emitter) Tag() string { return e.Effect.Tag() }

// Animate runs the variant. Disabled animations never run.
func (e *Emitter) Animate(em *core.EmitterUniform, clock *core.Clock) {
	if !e.Enabled {
		return
	}
	e.Effect.Animate(em, clock)
}

func (e *Emitter) Export() (registry.Record, error) {
	return registry.NewControlledRecord(e.Tag(), e.Effect, e.Control)
}
