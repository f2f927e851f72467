package core

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmitter(count uint32, delay, lifetime float32) *EmitterUniform {
	return &EmitterUniform{
		ID:                   "test",
		SpawnCount:           count,
		SpawnDelaySec:        delay,
		ParticleLifetimeSec:  lifetime,
		ParticleMaterialMass: 1,
		ParticleSpeed:        Range{Min: 1, Max: 2},
		ParticleSize:         Range{Min: 0.1, Max: 0.2},
	}
}

func TestEmitter_BatchCount(t *testing.T) {
	assert.Equal(t, uint32(12), BatchCount(6, 0.5))
	assert.Equal(t, uint32(5), BatchCount(10, 2))
	assert.Equal(t, uint32(4), BatchCount(3.5, 1))
	assert.Equal(t, uint32(1), BatchCount(0.1, 1))
	assert.Equal(t, uint32(1), BatchCount(1, 0))
}

func TestEmitter_Validate(t *testing.T) {
	em := testEmitter(6, 0.5, 6)
	require.NoError(t, em.Normalize())
	assert.Equal(t, uint32(12), em.SpawnBatchesCount)
	assert.Equal(t, uint32(72), em.ParticleCount())

	cases := map[string]func(e *EmitterUniform){
		"empty id":    func(e *EmitterUniform) { e.ID = "" },
		"zero count":  func(e *EmitterUniform) { e.SpawnCount = 0 },
		"zero delay":  func(e *EmitterUniform) { e.SpawnDelaySec = 0 },
		"no lifetime": func(e *EmitterUniform) { e.ParticleLifetimeSec = -1 },
		"no mass":     func(e *EmitterUniform) { e.ParticleMaterialMass = 0 },
	}
	for name, mutate := range cases {
		e := testEmitter(6, 0.5, 6)
		mutate(e)
		assert.True(t, errors.Is(e.Validate(), ErrInvalidEmitter), name)
	}

	e := testEmitter(6, 0.5, 6)
	e.ParticleSpeed = Range{Min: 3, Max: 1}
	assert.True(t, errors.Is(e.Validate(), ErrInvalidRange))
}

func TestEmitter_SpawnWindowOpensOncePerTick(t *testing.T) {
	em := testEmitter(6, 0.5, 6)
	require.NoError(t, em.Normalize())
	require.Equal(t, uint32(12), em.SpawnBatchesCount)

	clock := &Clock{}
	step := 10 * time.Millisecond
	opened := map[int64]int{}

	for i := 0; i < 690; i++ {
		clock.Advance(step)
		em.Update(clock)

		tick := int64(math.Floor(clock.ElapsedSec / 0.5))
		if em.SpawnFrom == em.SpawnUntil {
			assert.Equal(t, uint32(0), em.SpawnFrom)
			continue
		}
		opened[tick]++
		batch := uint32(tick % 12)
		assert.Equal(t, batch*6, em.SpawnFrom)
		assert.Equal(t, batch*6+6, em.SpawnUntil)
	}

	for tick, n := range opened {
		assert.Equal(t, 1, n, "tick %d opened %d times", tick, n)
	}
	assert.Len(t, opened, 14)
	assert.Equal(t, uint32(14), em.Iteration)
}

func TestEmitter_SpawnWindowAtElapsed(t *testing.T) {
	em := testEmitter(1, 2, 10)
	require.NoError(t, em.Normalize())
	require.Equal(t, uint32(5), em.SpawnBatchesCount)

	clock := &Clock{ElapsedSec: 4.3}
	em.Update(clock)
	assert.Equal(t, uint32(2), em.SpawnFrom)
	assert.Equal(t, uint32(3), em.SpawnUntil)

	em.Update(clock)
	assert.Equal(t, uint32(0), em.SpawnFrom)
	assert.Equal(t, uint32(0), em.SpawnUntil)
}

func TestEmitter_RotationDegrees(t *testing.T) {
	em := testEmitter(1, 1, 1)
	em.SetRotationDegrees(mgl32.Vec3{90, 0, 45})
	assert.InDelta(t, mgl32.DegToRad(90), em.BoxRotation[0], 1e-6)
	deg := em.RotationDegrees()
	assert.InDelta(t, 45, deg[2], 1e-4)
}

func TestEmitter_Bytes(t *testing.T) {
	em := testEmitter(6, 0.5, 6)
	require.NoError(t, em.Normalize())
	em.BoxPosition = mgl32.Vec3{1, 2, 3}
	em.DiffWidth = 0.25
	em.SpawnFrom, em.SpawnUntil = 12, 18

	buf := em.Bytes()
	require.Len(t, buf, EmitterUniformSize)
	assert.Equal(t, float32(2), F32At(buf, 4))
	assert.Equal(t, float32(0.25), F32At(buf, 12))
	assert.Equal(t, float32(1), F32At(buf, 80+4*1))
	assert.Equal(t, uint32(12), U32At(buf, 100))
	assert.Equal(t, uint32(18), U32At(buf, 104))
	assert.Equal(t, uint32(72), U32At(buf, 116))
	// Identity rotation matrix diagonal.
	assert.Equal(t, float32(1), F32At(buf, 128))
	assert.Equal(t, float32(1), F32At(buf, 128+5*4))
}

func TestParticle_OverlapBytes(t *testing.T) {
	assert.Equal(t, uint64(10*ParticleSize), OverlapBytes(10, 20))
	assert.Equal(t, uint64(4*ParticleSize), OverlapBytes(10, 4))
	assert.Equal(t, uint64(0), OverlapBytes(0, 4))
}
