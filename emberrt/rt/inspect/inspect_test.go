package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/ember/emberrt/rt/anim"
	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/fx"
)

func find(t *testing.T, fields []Field, label string) Field {
	t.Helper()
	for _, f := range fields {
		if f.Label == label {
			return f
		}
	}
	require.Failf(t, "missing field", "no field %q", label)
	return Field{}
}

func TestEveryVariantHasFields(t *testing.T) {
	particles := anim.ParticleRegistry()
	for _, tag := range particles.Tags() {
		p, ok := particles.Create(tag)
		require.True(t, ok)
		assert.NotEmpty(t, ParticleFields(p.Effect), tag)
	}
	emitters := anim.EmitterRegistry()
	for _, tag := range emitters.Tags() {
		e, ok := emitters.Create(tag)
		require.True(t, ok)
		assert.NotEmpty(t, EmitterFields(e.Effect), tag)
	}
	effects := fx.Registry()
	for _, tag := range effects.Tags() {
		e, ok := effects.Create(tag)
		require.True(t, ok)
		assert.NotEmpty(t, EffectFields(e), tag)
	}
}

func TestFieldsEditTheVariant(t *testing.T) {
	force := anim.DefaultForce()
	f := find(t, ParticleFields(&force), "force.y")
	f.Set(-3)
	assert.Equal(t, float32(-3), force.Force[1])

	find(t, ParticleFields(&force), "lifetime_sec").Nudge(2)
	assert.InDelta(t, anim.DefaultForce().LifeCycle.LifetimeSec+0.2, force.LifeCycle.LifetimeSec, 1e-5)
}

func TestNudgeClamps(t *testing.T) {
	blend := fx.DefaultBlend()
	mix := find(t, EffectFields(&blend), "io_mix")
	mix.Nudge(100)
	assert.Equal(t, float32(1), blend.IOMix)
	mix.Nudge(-100)
	assert.Equal(t, float32(0), blend.IOMix)

	in := find(t, EffectFields(&blend), "in_idx")
	in.Nudge(40)
	assert.Equal(t, uint32(fx.SlotCount-1), blend.InIdx)
}

func TestIntegerFieldsRound(t *testing.T) {
	bloom := fx.DefaultBloom()
	find(t, EffectFields(&bloom), "mips").Set(2.6)
	assert.Equal(t, 3, bloom.Mips)
}

func TestUniformFieldsDriveSlotCount(t *testing.T) {
	u := core.EmitterUniform{
		ID:                   "e",
		SpawnCount:           10,
		SpawnDelaySec:        0.5,
		ParticleLifetimeSec:  2,
		ParticleMaterialMass: 1,
	}
	require.NoError(t, u.Normalize())
	assert.Equal(t, uint32(40), u.ParticleCount())

	find(t, UniformFields(&u), "spawn_count").Nudge(2)
	require.NoError(t, u.Normalize())
	assert.Equal(t, uint32(48), u.ParticleCount())
}

func TestFormatMarksSelection(t *testing.T) {
	blend := fx.DefaultBlend()
	out := Format("blend", EffectFields(&blend), 2)
	assert.Equal(t, "blend\n   in_idx: 1\n   out_idx: 0\n > io_mix: 0.5\n", out)
}
