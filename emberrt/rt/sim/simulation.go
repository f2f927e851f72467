// Package sim owns the emitters of a scene, their animation lists and the
// persisted emitter records.
package sim

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gekko3d/ember/emberrt/rt/anim"
	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/registry"
)

var (
	ErrDuplicateEmitter = errors.New("duplicate emitter id")
	ErrLightEmitter     = errors.New("scene needs exactly one light emitter")
	ErrUnknownEmitter   = errors.New("unknown emitter")
)

// NewEmitterID returns a fresh id for an emitter added at runtime.
func NewEmitterID() string {
	return "emitter-" + uuid.NewString()
}

type Simulation struct {
	alloc     Allocator
	emitters  []*Emitter
	particles *registry.Registry[*anim.Particle]
	effects   *registry.Registry[*anim.Emitter]
	log       core.Logger
}

func New(alloc Allocator, log core.Logger) *Simulation {
	if log == nil {
		log = core.NopLogger()
	}
	return &Simulation{
		alloc:     alloc,
		particles: anim.ParticleRegistry(),
		effects:   anim.EmitterRegistry(),
		log:       log,
	}
}

func (s *Simulation) Emitters() []*Emitter { return s.emitters }

func (s *Simulation) ParticleRegistry() *registry.Registry[*anim.Particle] { return s.particles }

func (s *Simulation) EmitterRegistry() *registry.Registry[*anim.Emitter] { return s.effects }

func (s *Simulation) Lookup(id string) (*Emitter, bool) {
	for _, e := range s.emitters {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

// Light returns the designated lights emitter, if any.
func (s *Simulation) Light() *Emitter {
	for _, e := range s.emitters {
		if e.IsLight {
			return e
		}
	}
	return nil
}

// Add validates the uniform, allocates its buffers and appends the emitter.
func (s *Simulation) Add(u core.EmitterUniform, isLight bool) (*Emitter, error) {
	em, err := s.build(u, isLight, s.emitters)
	if err != nil {
		return nil, err
	}
	if isLight && s.Light() != nil {
		em.Release()
		return nil, fmt.Errorf("%w: %q would be a second light", ErrLightEmitter, u.ID)
	}
	s.emitters = append(s.emitters, em)
	return em, nil
}

// AddDefault appends a fountain emitter under a fresh id.
func (s *Simulation) AddDefault() (*Emitter, error) {
	u := DefaultEmitterUniform(NewEmitterID())
	return s.Add(u, false)
}

func (s *Simulation) build(u core.EmitterUniform, isLight bool, siblings []*Emitter) (*Emitter, error) {
	if err := u.Normalize(); err != nil {
		return nil, err
	}
	for _, other := range siblings {
		if other.ID() == u.ID {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEmitter, u.ID)
		}
	}
	em := &Emitter{Uniform: u, IsLight: isLight}
	if err := em.Recreate(s.alloc); err != nil {
		return nil, err
	}
	return em, nil
}

// Remove deletes an emitter and releases its GPU state. The light emitter
// cannot be removed.
func (s *Simulation) Remove(id string) error {
	for i, e := range s.emitters {
		if e.ID() != id {
			continue
		}
		if e.IsLight {
			return fmt.Errorf("%w: cannot remove %q", ErrLightEmitter, id)
		}
		e.Release()
		s.emitters = append(s.emitters[:i], s.emitters[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownEmitter, id)
}

// Sweep runs list maintenance on every emitter and recreates emitters whose
// slot count changed. Emitters edited into an invalid state, or whose
// recreate failed, keep their old buffers and retry on the next sweep.
func (s *Simulation) Sweep() {
	for _, e := range s.emitters {
		e.Sweep()
		batches := e.Uniform.SpawnBatchesCount
		if err := e.Uniform.Normalize(); err != nil {
			s.log.Warnf("emitter %q not recreated: %v", e.ID(), err)
			continue
		}
		if !e.NeedsRecreate() {
			continue
		}
		if err := e.Recreate(s.alloc); err != nil {
			// Keep the slot count describing the buffers still in use.
			e.Uniform.SpawnBatchesCount = batches
			s.log.Errorf("%v", err)
			continue
		}
		s.log.Debugf("emitter %q recreated with %d slots", e.ID(), e.Uniform.ParticleCount())
	}
}

func (s *Simulation) Update(clock *core.Clock) {
	for _, e := range s.emitters {
		e.Update(clock)
	}
}

func (s *Simulation) Upload() {
	for _, e := range s.emitters {
		e.Upload()
	}
}

func (s *Simulation) Compute(clock *core.Clock) {
	for _, e := range s.emitters {
		e.Compute(clock)
	}
}

func (s *Simulation) Release() {
	for _, e := range s.emitters {
		e.Release()
	}
	s.emitters = nil
}
