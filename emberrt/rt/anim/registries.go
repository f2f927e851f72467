package anim

import (
	"encoding/json"

	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/registry"
)

func particleFactory[P any, PP interface {
	*P
	ParticleEffect
}](tag string, defaults func() P) registry.Factory[*Particle] {
	return registry.Factory[*Particle]{
		Tag: tag,
		New: func() *Particle {
			p := defaults()
			return NewParticle(PP(&p))
		},
		Import: func(data json.RawMessage) (*Particle, error) {
			p, err := registry.Decode(data, defaults(), func(p *P) error { return PP(p).Validate() })
			if err != nil {
				return nil, err
			}
			return NewParticle(PP(&p)), nil
		},
	}
}

func emitterFactory[E any, EP interface {
	*E
	EmitterEffect
}](tag string, defaults func() E) registry.Factory[*Emitter] {
	return registry.Factory[*Emitter]{
		Tag: tag,
		New: func() *Emitter {
			e := defaults()
			return NewEmitter(EP(&e))
		},
		Import: func(data json.RawMessage) (*Emitter, error) {
			e, err := registry.Decode(data, defaults(), func(e *E) error { return EP(e).Validate() })
			if err != nil {
				return nil, err
			}
			return NewEmitter(EP(&e)), nil
		},
	}
}

// ParticleRegistry returns a registry holding every particle-level variant.
func ParticleRegistry() *registry.Registry[*Particle] {
	return registry.New[*Particle]().
		Register(particleFactory[Color](TagColor, DefaultColor)).
		Register(particleFactory[Force](TagForce, DefaultForce)).
		Register(particleFactory[Gravity](TagGravity, DefaultGravity)).
		Register(particleFactory[Stray](TagStray, DefaultStray))
}

// EmitterRegistry returns a registry holding every emitter-level variant.
func EmitterRegistry() *registry.Registry[*Emitter] {
	return registry.New[*Emitter]().
		Register(emitterFactory[Sway](TagSway, DefaultSway)).
		Register(emitterFactory[Diffusion](TagDiffusion, DefaultDiffusion))
}

func ImportParticles(reg *registry.Registry[*Particle], records []registry.Record, log core.Logger) ([]*Particle, error) {
	return reg.ImportAll(records, func(tag string) {
		log.Warnf("skipping unknown particle animation %q", tag)
	})
}

func ImportEmitters(reg *registry.Registry[*Emitter], records []registry.Record, log core.Logger) ([]*Emitter, error) {
	return reg.ImportAll(records, func(tag string) {
		log.Warnf("skipping unknown emitter animation %q", tag)
	})
}

// ExportParticles converts a list into persisted records, preserving order.
func ExportParticles(list []*Particle) ([]registry.Record, error) {
	out := make([]registry.Record, 0, len(list))
	for _, p := range list {
		rec, err := p.Export()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func ExportEmitters(list []*Emitter) ([]registry.Record, error) {
	out := make([]registry.Record, 0, len(list))
	for _, e := range list {
		rec, err := e.Export()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
