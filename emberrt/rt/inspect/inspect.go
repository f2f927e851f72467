// Package inspect exposes the editable numbers of emitters, animations and
// effects as flat field lists for the overlay.
package inspect

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/ember/emberrt/rt/anim"
	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/fx"
)

const pi = float32(math.Pi)

// Field is one editable number. Integer-backed fields round on Set.
type Field struct {
	Label string
	Step  float32
	Min   float32
	Max   float32

	Get func() float32
	Set func(float32)
}

// Nudge moves the value by steps increments, clamped to [Min, Max] when the
// range is set.
func (f Field) Nudge(steps int) {
	v := f.Get() + float32(steps)*f.Step
	if f.Max > f.Min {
		v = mgl32.Clamp(v, f.Min, f.Max)
	}
	f.Set(v)
}

func (f Field) String() string {
	return fmt.Sprintf("%s: %.3g", f.Label, f.Get())
}

func scalar(label string, p *float32, step float32) Field {
	return Field{
		Label: label,
		Step:  step,
		Get:   func() float32 { return *p },
		Set:   func(v float32) { *p = v },
	}
}

func ranged(label string, p *float32, step, lo, hi float32) Field {
	f := scalar(label, p, step)
	f.Min, f.Max = lo, hi
	return f
}

func positive(label string, p *float32, step float32) Field {
	return ranged(label, p, step, step, 1e6)
}

func unsigned(label string, p *uint32, lo, hi uint32) Field {
	return Field{
		Label: label,
		Step:  1,
		Min:   float32(lo),
		Max:   float32(hi),
		Get:   func() float32 { return float32(*p) },
		Set:   func(v float32) { *p = uint32(v + 0.5) },
	}
}

func integer(label string, p *int, lo, hi int) Field {
	return Field{
		Label: label,
		Step:  1,
		Min:   float32(lo),
		Max:   float32(hi),
		Get:   func() float32 { return float32(*p) },
		Set:   func(v float32) { *p = int(v + 0.5) },
	}
}

func vec3(label string, v *mgl32.Vec3, step float32) []Field {
	return []Field{
		scalar(label+".x", &v[0], step),
		scalar(label+".y", &v[1], step),
		scalar(label+".z", &v[2], step),
	}
}

func color(label string, c *mgl32.Vec4) []Field {
	return []Field{
		ranged(label+".r", &c[0], 0.05, 0, 16),
		ranged(label+".g", &c[1], 0.05, 0, 16),
		ranged(label+".b", &c[2], 0.05, 0, 16),
		ranged(label+".a", &c[3], 0.05, 0, 1),
	}
}

func lifeCycle(lc *core.LifeCycle) []Field {
	return []Field{
		ranged("from_sec", &lc.FromSec, 0.1, 0, 1e6),
		ranged("until_sec", &lc.UntilSec, 0.1, 0, 1e6),
		positive("lifetime_sec", &lc.LifetimeSec, 0.1),
	}
}

func join(groups ...[]Field) []Field {
	var out []Field
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func ParticleFields(e anim.ParticleEffect) []Field {
	switch v := e.(type) {
	case *anim.Color:
		return join(color("from_color", &v.FromColor), color("to_color", &v.ToColor), []Field{
			ranged("from_sec", &v.FromSec, 0.1, 0, 1e6),
			ranged("until_sec", &v.UntilSec, 0.1, 0, 1e6),
		})
	case *anim.Force:
		return join(vec3("force", &v.Force, 0.5), lifeCycle(&v.LifeCycle))
	case *anim.Gravity:
		return join(vec3("from_pos", &v.FromPos, 0.5), vec3("until_pos", &v.UntilPos, 0.5), []Field{
			scalar("gravitational_force", &v.GravitationalForce, 0.5),
			ranged("dead_zone", &v.DeadZone, 0.05, 0, 1e6),
			positive("mass", &v.Mass, 0.1),
		}, lifeCycle(&v.LifeCycle))
	case *anim.Stray:
		return []Field{
			ranged("stray_radians", &v.StrayRadians, 0.01, 0, pi),
			ranged("from_sec", &v.FromSec, 0.1, 0, 1e6),
			ranged("until_sec", &v.UntilSec, 0.1, 0, 1e6),
		}
	}
	return nil
}

func EmitterFields(e anim.EmitterEffect) []Field {
	switch v := e.(type) {
	case *anim.Sway:
		return join(vec3("from_angles", &v.FromAngles, 0.05), vec3("until_angles", &v.UntilAngles, 0.05), lifeCycle(&v.LifeCycle))
	case *anim.Diffusion:
		return join([]Field{
			ranged("from_width", &v.FromWidth, 0.05, 0, pi),
			ranged("until_width", &v.UntilWidth, 0.05, 0, pi),
			ranged("from_depth", &v.FromDepth, 0.05, 0, pi),
			ranged("until_depth", &v.UntilDepth, 0.05, 0, pi),
		}, lifeCycle(&v.LifeCycle))
	}
	return nil
}

func gradeFields(g *fx.Grade) []Field {
	return []Field{
		ranged("exposure", &g.Exposure, 0.05, 0, 16),
		ranged("contrast", &g.Contrast, 0.05, 0, 4),
		ranged("saturation", &g.Saturation, 0.05, 0, 4),
		ranged("gamma", &g.Gamma, 0.05, 0.05, 4),
	}
}

func slot(label string, p *uint32) Field {
	return unsigned(label, p, 0, fx.SlotCount-1)
}

func EffectFields(e fx.Effect) []Field {
	switch v := e.(type) {
	case *fx.Bloom:
		return join([]Field{
			slot("source_idx", &v.SourceIdx),
			slot("scratch_idx", &v.ScratchIdx),
			integer("mips", &v.Mips, 1, fx.SlotCount-1),
			ranged("threshold", &v.Threshold, 0.05, 0, 16),
			ranged("knee", &v.Knee, 0.05, 0, 4),
			ranged("io_mix", &v.IOMix, 0.05, 0, 1),
			ranged("intensity", &v.Intensity, 0.05, 0, 1),
		}, gradeFields(&v.Grade))
	case *fx.GaussianBlur:
		return []Field{
			slot("in_idx", &v.InIdx),
			slot("scratch_idx", &v.ScratchIdx),
			slot("out_idx", &v.OutIdx),
			integer("radius", &v.Radius, 1, fx.MaxBlurRadius),
			ranged("sigma", &v.Sigma, 0.1, 0.1, 32),
		}
	case *fx.ColorProcessing:
		return join([]Field{
			slot("in_idx", &v.InIdx),
			slot("out_idx", &v.OutIdx),
		}, gradeFields(&v.Grade))
	case *fx.Blend:
		return []Field{
			slot("in_idx", &v.InIdx),
			slot("out_idx", &v.OutIdx),
			ranged("io_mix", &v.IOMix, 0.05, 0, 1),
		}
	}
	return nil
}

// UniformFields exposes the emitter's own parameters. Editing spawn_count,
// spawn_delay_sec or particle_lifetime_sec changes the slot count, which the
// next sweep turns into a buffer recreate.
func UniformFields(u *core.EmitterUniform) []Field {
	return join([]Field{
		unsigned("spawn_count", &u.SpawnCount, 1, 1<<16),
		positive("spawn_delay_sec", &u.SpawnDelaySec, 0.05),
		positive("particle_lifetime_sec", &u.ParticleLifetimeSec, 0.1),
	},
		vec3("box_position", &u.BoxPosition, 0.25),
		vec3("box_dimensions", &u.BoxDimensions, 0.25),
		color("particle_color", &u.ParticleColor),
		[]Field{
			ranged("speed.min", &u.ParticleSpeed.Min, 0.1, 0, 1e3),
			ranged("speed.max", &u.ParticleSpeed.Max, 0.1, 0, 1e3),
			ranged("size.min", &u.ParticleSize.Min, 0.01, 0, 1e2),
			ranged("size.max", &u.ParticleSize.Max, 0.01, 0, 1e2),
			ranged("friction", &u.ParticleFrictionCoefficient, 0.05, 0, 1e2),
			positive("mass", &u.ParticleMaterialMass, 0.1),
			ranged("diff_width", &u.DiffWidth, 0.05, 0, pi),
			ranged("diff_depth", &u.DiffDepth, 0.05, 0, pi),
		})
}

// Format renders fields one per line under a title, marking the selected
// index with '>'.
func Format(title string, fields []Field, selected int) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteByte('\n')
	for i, f := range fields {
		if i == selected {
			sb.WriteString(" > ")
		} else {
			sb.WriteString("   ")
		}
		sb.WriteString(f.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
