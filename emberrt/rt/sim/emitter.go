package sim

import (
	"fmt"

	"github.com/gekko3d/ember/emberrt/rt/anim"
	"github.com/gekko3d/ember/emberrt/rt/core"
)

// Backend is the GPU state of one emitter: its uniform buffer and the two
// particle buffers it alternates between.
type Backend interface {
	anim.Binder
	Upload(em *core.EmitterUniform)
	// Dispatch records the base pass reading the previous buffer and writing
	// the current one for the given parity.
	Dispatch(parity int)
	ParticleCount() uint32
	Release()
}

// Allocator creates backends. When previous is non-nil the new backend starts
// from the overlapping byte range of previous's buffers.
type Allocator interface {
	NewBackend(em *core.EmitterUniform, isLight bool, previous Backend) (Backend, error)
}

type Emitter struct {
	Uniform            core.EmitterUniform
	IsLight            bool
	ParticleAnimations []*anim.Particle
	EmitterAnimations  []*anim.Emitter

	backend Backend
}

func (e *Emitter) ID() string { return e.Uniform.ID }

func (e *Emitter) Backend() Backend { return e.backend }

// NeedsRecreate reports whether the slot count drifted from the buffers.
func (e *Emitter) NeedsRecreate() bool {
	return e.backend == nil || e.backend.ParticleCount() != e.Uniform.ParticleCount()
}

// Recreate allocates new buffers, rebinds every particle animation against
// them and only then releases the old buffers. Emitter animations carry no
// GPU state and stay attached as they are.
func (e *Emitter) Recreate(alloc Allocator) error {
	old := e.backend
	next, err := alloc.NewBackend(&e.Uniform, e.IsLight, old)
	if err != nil {
		return fmt.Errorf("recreate emitter %q: %w", e.ID(), err)
	}
	for i, p := range e.ParticleAnimations {
		if err := p.Recreate(next); err != nil {
			e.rebind(old, e.ParticleAnimations[:i])
			next.Release()
			return fmt.Errorf("recreate emitter %q: %w", e.ID(), err)
		}
	}
	e.backend = next
	if old != nil {
		old.Release()
	}
	return nil
}

// rebind points animations back at b after a failed recreate.
func (e *Emitter) rebind(b Backend, list []*anim.Particle) {
	for _, p := range list {
		if b == nil {
			p.Release()
			continue
		}
		if err := p.Recreate(b); err != nil {
			p.Release()
		}
	}
}

// AddParticleAnimation binds p against the current buffers and appends it.
func (e *Emitter) AddParticleAnimation(p *anim.Particle) error {
	if e.backend != nil {
		if err := p.Recreate(e.backend); err != nil {
			return err
		}
	}
	e.ParticleAnimations = append(e.ParticleAnimations, p)
	return nil
}

func (e *Emitter) AddEmitterAnimation(a *anim.Emitter) {
	e.EmitterAnimations = append(e.EmitterAnimations, a)
}

// Sweep applies pending list actions to both animation lists.
func (e *Emitter) Sweep() {
	var deleted []*anim.Particle
	for _, p := range e.ParticleAnimations {
		if p.SelectedAction == core.ActionDelete {
			deleted = append(deleted, p)
		}
	}
	e.ParticleAnimations = core.UpdateList(e.ParticleAnimations)
	e.EmitterAnimations = core.UpdateList(e.EmitterAnimations)
	for _, p := range deleted {
		p.Release()
	}
}

// Update advances the spawn window, runs the enabled emitter animations and
// refreshes the particle animation uniforms.
func (e *Emitter) Update(clock *core.Clock) {
	e.Uniform.Update(clock)
	for _, a := range e.EmitterAnimations {
		a.Animate(&e.Uniform, clock)
	}
	for _, p := range e.ParticleAnimations {
		p.Update(clock)
	}
}

// Upload writes the uniform to the GPU. It is held back while the uniform's
// slot count does not match the buffers, so the shader never indexes past
// them.
func (e *Emitter) Upload() {
	if e.backend != nil && !e.NeedsRecreate() {
		e.backend.Upload(&e.Uniform)
	}
}

// Compute records the base dispatch followed by every enabled particle
// animation, all against the current buffer.
func (e *Emitter) Compute(clock *core.Clock) {
	if e.backend == nil {
		return
	}
	e.backend.Dispatch(clock.Parity())
	for _, p := range e.ParticleAnimations {
		p.Compute(clock)
	}
}

func (e *Emitter) Release() {
	for _, p := range e.ParticleAnimations {
		p.Release()
	}
	if e.backend != nil {
		e.backend.Release()
		e.backend = nil
	}
}

func (e *Emitter) Export() (EmitterRecord, error) {
	particles, err := anim.ExportParticles(e.ParticleAnimations)
	if err != nil {
		return EmitterRecord{}, err
	}
	emitters, err := anim.ExportEmitters(e.EmitterAnimations)
	if err != nil {
		return EmitterRecord{}, err
	}
	return EmitterRecord{
		Emitter:            e.Uniform,
		IsLight:            e.IsLight,
		ParticleAnimations: particles,
		EmitterAnimations:  emitters,
	}, nil
}
