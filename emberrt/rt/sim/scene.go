package sim

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/gekko3d/ember/emberrt/rt/anim"
	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/registry"
)

// EmitterRecord is the persisted form of one emitter.
type EmitterRecord struct {
	Emitter            core.EmitterUniform `json:"emitter"`
	IsLight            bool                `json:"is_light"`
	ParticleAnimations []registry.Record   `json:"particle_animations"`
	EmitterAnimations  []registry.Record   `json:"emitter_animations"`
}

// CheckLight asserts that exactly one record is the light emitter.
func CheckLight(records []EmitterRecord) error {
	n := 0
	for _, r := range records {
		if r.IsLight {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("%w: found %d", ErrLightEmitter, n)
	}
	return nil
}

func (s *Simulation) Export() ([]EmitterRecord, error) {
	out := make([]EmitterRecord, 0, len(s.emitters))
	for _, e := range s.emitters {
		rec, err := e.Export()
		if err != nil {
			return nil, fmt.Errorf("export emitter %q: %w", e.ID(), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Import replaces every emitter with the given records. On failure the
// current scene is left untouched.
func (s *Simulation) Import(records []EmitterRecord) error {
	if err := CheckLight(records); err != nil {
		return err
	}

	built := make([]*Emitter, 0, len(records))
	fail := func(err error) error {
		for _, e := range built {
			e.Release()
		}
		return err
	}

	for _, rec := range records {
		em, err := s.build(rec.Emitter, rec.IsLight, built)
		if err != nil {
			return fail(err)
		}
		built = append(built, em)

		particles, err := anim.ImportParticles(s.particles, rec.ParticleAnimations, s.log)
		if err != nil {
			return fail(fmt.Errorf("emitter %q: %w", rec.Emitter.ID, err))
		}
		for _, p := range particles {
			if err := em.AddParticleAnimation(p); err != nil {
				return fail(fmt.Errorf("emitter %q: %w", rec.Emitter.ID, err))
			}
		}

		emitters, err := anim.ImportEmitters(s.effects, rec.EmitterAnimations, s.log)
		if err != nil {
			return fail(fmt.Errorf("emitter %q: %w", rec.Emitter.ID, err))
		}
		em.EmitterAnimations = emitters
	}

	s.Release()
	s.emitters = built
	return nil
}

// MarshalScene encodes the scene as an indented JSON array.
func (s *Simulation) MarshalScene() ([]byte, error) {
	records, err := s.Export()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(records, "", "  ")
}

// UnmarshalScene imports a JSON array of emitter records read from name.
func (s *Simulation) UnmarshalScene(name string, data []byte) error {
	var records []EmitterRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("scene %s: %w", name, err)
	}
	if err := s.Import(records); err != nil {
		return fmt.Errorf("scene %s: %w", name, err)
	}
	return nil
}

// HexColor parses a #rrggbb string into linear RGBA.
func HexColor(hex string, alpha float32) (mgl32.Vec4, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return mgl32.Vec4{}, err
	}
	r, g, b := c.LinearRgb()
	return mgl32.Vec4{float32(r), float32(g), float32(b), alpha}, nil
}

func mustHex(hex string, alpha float32) mgl32.Vec4 {
	c, err := HexColor(hex, alpha)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultEmitterUniform is a small upward fountain.
func DefaultEmitterUniform(id string) core.EmitterUniform {
	return core.EmitterUniform{
		ID:                          id,
		SpawnCount:                  64,
		SpawnDelaySec:               0.1,
		BoxPosition:                 mgl32.Vec3{0, 0, 0},
		BoxDimensions:               mgl32.Vec3{0.5, 0.1, 0.5},
		DiffWidth:                   mgl32.DegToRad(25),
		DiffDepth:                   mgl32.DegToRad(25),
		ParticleColor:               mustHex("#ffb347", 1),
		ParticleSpeed:               core.Range{Min: 3, Max: 6},
		ParticleSize:                core.Range{Min: 0.04, Max: 0.1},
		ParticleFrictionCoefficient: 0.3,
		ParticleMaterialMass:        1,
		ParticleLifetimeSec:         3,
	}
}

// DefaultScene is used when no stored scene exists: a slow drifting lights
// emitter followed by one fountain with color, gravity-like force and sway.
func DefaultScene() []EmitterRecord {
	lights := DefaultEmitterUniform("lights")
	lights.SpawnCount = 8
	lights.SpawnDelaySec = 0.5
	lights.ParticleLifetimeSec = 6
	lights.BoxPosition = mgl32.Vec3{0, 3, 0}
	lights.BoxDimensions = mgl32.Vec3{8, 2, 8}
	lights.ParticleSpeed = core.Range{Min: 0.1, Max: 0.4}
	lights.ParticleSize = core.Range{Min: 0.1, Max: 0.2}
	lights.ParticleColor = mustHex("#9fd8ff", 1)
	lights.DiffWidth = mgl32.DegToRad(180)
	lights.DiffDepth = mgl32.DegToRad(180)

	fountain := DefaultEmitterUniform("fountain")

	color := anim.DefaultColor()
	color.FromColor = mustHex("#ffe08a", 1)
	color.ToColor = mustHex("#c2185b", 0)
	color.UntilSec = fountain.ParticleLifetimeSec
	fall := anim.Force{
		Force:     mgl32.Vec3{0, -9.81, 0},
		LifeCycle: core.LifeCycle{FromSec: 0, UntilSec: 1, LifetimeSec: 1},
	}
	sway := anim.DefaultSway()

	must := func(rec registry.Record, err error) registry.Record {
		if err != nil {
			panic(err)
		}
		return rec
	}

	return []EmitterRecord{
		{Emitter: lights, IsLight: true},
		{
			Emitter: fountain,
			ParticleAnimations: []registry.Record{
				must(registry.NewRecord(anim.TagColor, &color)),
				must(registry.NewRecord(anim.TagForce, &fall)),
			},
			EmitterAnimations: []registry.Record{
				must(registry.NewRecord(anim.TagSway, &sway)),
			},
		},
	}
}
