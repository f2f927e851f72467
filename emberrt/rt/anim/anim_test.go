package anim

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/registry"
)

type fakePass struct {
	uniforms   [][]byte
	dispatches []int
	released   bool
}

func (p *fakePass) WriteUniform(data []byte) { p.uniforms = append(p.uniforms, data) }
func (p *fakePass) Dispatch(parity int)      { p.dispatches = append(p.dispatches, parity) }
func (p *fakePass) Release()                 { p.released = true }

type fakeBinder struct {
	passes []*fakePass
	sizes  []uint64
	err    error
}

func (b *fakeBinder) BindAnimation(label, shader string, uniformSize uint64) (Pass, error) {
	if b.err != nil {
		return nil, b.err
	}
	p := &fakePass{}
	b.passes = append(b.passes, p)
	b.sizes = append(b.sizes, uniformSize)
	return p, nil
}

func TestParticle_UpdateAndComputeSkipDisabled(t *testing.T) {
	c := DefaultColor()
	p := NewParticle(&c)
	binder := &fakeBinder{}
	require.NoError(t, p.Recreate(binder))
	require.True(t, p.Bound())

	clock := &core.Clock{Frame: 3}
	p.Update(clock)
	p.Compute(clock)

	pass := binder.passes[0]
	require.Len(t, pass.uniforms, 1)
	assert.Len(t, pass.uniforms[0], 48)
	assert.Equal(t, []int{1}, pass.dispatches)
	assert.Equal(t, uint64(48), binder.sizes[0])

	p.Enabled = false
	p.Update(clock)
	p.Compute(clock)
	assert.Len(t, pass.uniforms, 1)
	assert.Len(t, pass.dispatches, 1)
}

func TestParticle_RecreateReleasesOldPass(t *testing.T) {
	g := DefaultGravity()
	p := NewParticle(&g)
	binder := &fakeBinder{}
	require.NoError(t, p.Recreate(binder))
	require.NoError(t, p.Recreate(binder))

	require.Len(t, binder.passes, 2)
	assert.True(t, binder.passes[0].released)
	assert.False(t, binder.passes[1].released)

	p.Release()
	assert.True(t, binder.passes[1].released)
	assert.False(t, p.Bound())
}

func TestParticle_RecreateFailureKeepsPass(t *testing.T) {
	s := DefaultStray()
	p := NewParticle(&s)
	binder := &fakeBinder{}
	require.NoError(t, p.Recreate(binder))

	binder.err = errors.New("device lost")
	err := p.Recreate(binder)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stray")
	assert.True(t, p.Bound())
	assert.False(t, binder.passes[0].released)
}

func TestForce_Uniform(t *testing.T) {
	f := Force{Force: mgl32.Vec3{0, 9, 0}, LifeCycle: core.LifeCycle{FromSec: 1, UntilSec: 2, LifetimeSec: 4}}
	require.NoError(t, f.Validate())

	buf := f.Uniform(&core.Clock{ElapsedSec: 5.5})
	assert.Equal(t, float32(9), core.F32At(buf, 4))
	assert.Equal(t, float32(1), core.F32At(buf, 12))

	buf = f.Uniform(&core.Clock{ElapsedSec: 6.5})
	assert.Equal(t, float32(0), core.F32At(buf, 12))
}

func TestGravity_PositionFollowsWindow(t *testing.T) {
	g := Gravity{
		FromPos:   mgl32.Vec3{0, 0, 0},
		UntilPos:  mgl32.Vec3{10, 0, 0},
		Mass:      1,
		LifeCycle: core.LifeCycle{FromSec: 1, UntilSec: 3, LifetimeSec: 4},
	}
	require.NoError(t, g.Validate())

	assert.InDelta(t, 0, g.Position(&core.Clock{ElapsedSec: 0.5})[0], 1e-6)
	assert.InDelta(t, 5, g.Position(&core.Clock{ElapsedSec: 2})[0], 1e-5)
	assert.InDelta(t, 10, g.Position(&core.Clock{ElapsedSec: 3.5})[0], 1e-6)

	buf := g.Uniform(&core.Clock{ElapsedSec: 2})
	assert.InDelta(t, 5, core.F32At(buf, 0), 1e-5)
}

func TestSway_AnimateWithinWindow(t *testing.T) {
	s := Sway{
		FromAngles:  mgl32.Vec3{0, 0, 0},
		UntilAngles: mgl32.Vec3{0, 1, 0},
		LifeCycle:   core.LifeCycle{FromSec: 0, UntilSec: 2, LifetimeSec: 4},
	}
	e := NewEmitter(&s)
	em := &core.EmitterUniform{BoxRotation: mgl32.Vec3{0, 0.3, 0}}

	e.Animate(em, &core.Clock{ElapsedSec: 1})
	assert.InDelta(t, 0.5, em.BoxRotation[1], 1e-6)

	// Outside the window the last value is kept.
	e.Animate(em, &core.Clock{ElapsedSec: 3})
	assert.InDelta(t, 0.5, em.BoxRotation[1], 1e-6)
}

func TestEmitter_DisabledNeverAnimates(t *testing.T) {
	d := DefaultDiffusion()
	e := NewEmitter(&d)
	e.Enabled = false

	em := &core.EmitterUniform{DiffWidth: 0.1, DiffDepth: 0.2}
	e.Animate(em, &core.Clock{ElapsedSec: 1})
	assert.Equal(t, float32(0.1), em.DiffWidth)
	assert.Equal(t, float32(0.2), em.DiffDepth)
}

func TestRegistries_Tags(t *testing.T) {
	assert.Equal(t, []string{TagColor, TagForce, TagGravity, TagStray}, ParticleRegistry().Tags())
	assert.Equal(t, []string{TagSway, TagDiffusion}, EmitterRegistry().Tags())

	for _, tag := range ParticleRegistry().Tags() {
		p, ok := ParticleRegistry().Create(tag)
		require.True(t, ok)
		assert.Equal(t, tag, p.Tag())
		assert.NoError(t, p.Effect.Validate(), tag)
	}
	for _, tag := range EmitterRegistry().Tags() {
		e, ok := EmitterRegistry().Create(tag)
		require.True(t, ok)
		assert.NoError(t, e.Effect.Validate(), tag)
	}
}

func TestImport_KeepsDisabledState(t *testing.T) {
	c := DefaultColor()
	f := DefaultForce()
	particles := []*Particle{NewParticle(&c), NewParticle(&f)}
	particles[1].Enabled = false
	s := DefaultSway()
	emitters := []*Emitter{NewEmitter(&s)}
	emitters[0].Enabled = false

	precs, err := ExportParticles(particles)
	require.NoError(t, err)
	erecs, err := ExportEmitters(emitters)
	require.NoError(t, err)
	assert.False(t, precs[0].Disabled)
	assert.True(t, precs[1].Disabled)
	assert.True(t, erecs[0].Disabled)

	gotP, err := ImportParticles(ParticleRegistry(), precs, core.NopLogger())
	require.NoError(t, err)
	gotE, err := ImportEmitters(EmitterRegistry(), erecs, core.NopLogger())
	require.NoError(t, err)
	require.Len(t, gotP, 2)
	assert.True(t, gotP[0].Enabled)
	assert.False(t, gotP[1].Enabled)
	require.Len(t, gotE, 1)
	assert.False(t, gotE[0].Enabled)
}

func TestImport_RoundTrip(t *testing.T) {
	c := DefaultColor()
	c.ToColor = mgl32.Vec4{0.1, 0.2, 0.3, 0.4}
	g := DefaultGravity()
	g.DeadZone = 0.125
	particles := []*Particle{NewParticle(&c), NewParticle(&g)}
	d := DefaultDiffusion()
	emitters := []*Emitter{NewEmitter(&d)}

	precs, err := ExportParticles(particles)
	require.NoError(t, err)
	erecs, err := ExportEmitters(emitters)
	require.NoError(t, err)

	raw, err := json.Marshal(precs)
	require.NoError(t, err)
	var decoded []registry.Record
	require.NoError(t, json.Unmarshal(raw, &decoded))

	gotP, err := ImportParticles(ParticleRegistry(), decoded, core.NopLogger())
	require.NoError(t, err)
	gotE, err := ImportEmitters(EmitterRegistry(), erecs, core.NopLogger())
	require.NoError(t, err)

	require.Len(t, gotP, 2)
	require.Len(t, gotE, 1)
	assert.Equal(t, &c, gotP[0].Effect)
	assert.Equal(t, &g, gotP[1].Effect)
	assert.Equal(t, &d, gotE[0].Effect)
}

type recordingLogger struct {
	core.Logger
	warnings []string
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, format)
}

func TestImport_SkipsUnknownTags(t *testing.T) {
	log := &recordingLogger{Logger: core.NopLogger()}
	records := []registry.Record{
		{Type: "vortex", Data: json.RawMessage(`{}`)},
		{Type: TagStray, Data: json.RawMessage(`{"stray_radians": 1, "from_sec": 0, "until_sec": 2}`)},
	}
	got, err := ImportParticles(ParticleRegistry(), records, log)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TagStray, got[0].Tag())
	assert.Len(t, log.warnings, 1)
}

func TestImport_MalformedPayloadFails(t *testing.T) {
	records := []registry.Record{
		{Type: TagForce, Data: json.RawMessage(`{"force": "up"}`)},
	}
	_, err := ImportParticles(ParticleRegistry(), records, core.NopLogger())
	var ie *registry.ImportError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, TagForce, ie.Tag)

	records = []registry.Record{
		{Type: TagSway, Data: json.RawMessage(`{"life_cycle": {"from_sec": 3, "until_sec": 1, "lifetime_sec": 4}}`)},
	}
	_, err = ImportEmitters(EmitterRegistry(), records, core.NopLogger())
	require.ErrorAs(t, err, &ie)
	assert.ErrorIs(t, err, core.ErrInvalidLifeCycle)
}
