package core

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// EmitterUniformSize is the byte size of the packed emitter uniform.
const EmitterUniformSize = 192

type MeshRef struct {
	Collection string `json:"collection"`
	Mesh       string `json:"mesh"`
}

type MaterialRef struct {
	Collection string `json:"collection"`
	Material   string `json:"material"`
}

// EmitterUniform holds the spawn schedule, emission volume and particle
// defaults of one emitter. It is uploaded to the GPU every frame.
type EmitterUniform struct {
	ID string `json:"id"`

	SpawnCount        uint32  `json:"spawn_count"`
	SpawnDelaySec     float32 `json:"spawn_delay_sec"`
	SpawnBatchesCount uint32  `json:"spawn_batches_count"`
	Iteration         uint32  `json:"iteration"`
	SpawnFrom         uint32  `json:"spawn_from"`
	SpawnUntil        uint32  `json:"spawn_until"`

	ElapsedSec float32 `json:"elapsed_sec"`
	DeltaSec   float32 `json:"delta_sec"`

	BoxPosition   mgl32.Vec3 `json:"box_position"`
	BoxDimensions mgl32.Vec3 `json:"box_dimensions"`
	BoxRotation   mgl32.Vec3 `json:"box_rotation"` // radians

	DiffWidth float32 `json:"diff_width"` // radians
	DiffDepth float32 `json:"diff_depth"` // radians

	ParticleColor               mgl32.Vec4 `json:"particle_color"`
	ParticleSpeed               Range      `json:"particle_speed"`
	ParticleSize                Range      `json:"particle_size"`
	ParticleFrictionCoefficient float32    `json:"particle_friction_coefficient"`
	ParticleMaterialMass        float32    `json:"particle_material_mass"`
	ParticleLifetimeSec         float32    `json:"particle_lifetime_sec"`

	Mesh     *MeshRef     `json:"mesh,omitempty"`
	Material *MaterialRef `json:"material,omitempty"`

	quotient int64
	started  bool
}

// Normalize recomputes the derived batch count and validates the emitter.
func (e *EmitterUniform) Normalize() error {
	if err := e.Validate(); err != nil {
		return err
	}
	e.SpawnBatchesCount = BatchCount(e.ParticleLifetimeSec, e.SpawnDelaySec)
	return nil
}

func (e *EmitterUniform) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidEmitter)
	}
	if e.SpawnCount == 0 {
		return fmt.Errorf("%w %q: spawn_count must be positive", ErrInvalidEmitter, e.ID)
	}
	if e.SpawnDelaySec <= 0 {
		return fmt.Errorf("%w %q: spawn_delay_sec must be positive", ErrInvalidEmitter, e.ID)
	}
	if e.ParticleLifetimeSec <= 0 {
		return fmt.Errorf("%w %q: particle_lifetime_sec must be positive", ErrInvalidEmitter, e.ID)
	}
	if e.ParticleMaterialMass <= 0 {
		return fmt.Errorf("%w %q: particle_material_mass must be positive", ErrInvalidEmitter, e.ID)
	}
	if err := e.ParticleSpeed.Validate(); err != nil {
		return fmt.Errorf("emitter %q particle_speed: %w", e.ID, err)
	}
	if err := e.ParticleSize.Validate(); err != nil {
		return fmt.Errorf("emitter %q particle_size: %w", e.ID, err)
	}
	return nil
}

// BatchCount is ceil(lifetime / delay), at least 1.
func BatchCount(lifetimeSec, delaySec float32) uint32 {
	if delaySec <= 0 {
		return 1
	}
	n := uint32(math.Ceil(float64(lifetimeSec) / float64(delaySec)))
	if n == 0 {
		n = 1
	}
	return n
}

// ParticleCount is the fixed number of particle slots: one ring of batches.
func (e *EmitterUniform) ParticleCount() uint32 {
	return e.SpawnCount * e.SpawnBatchesCount
}

// Update advances the spawn schedule. The window [SpawnFrom, SpawnUntil) is
// opened for the current batch only on the frame where
// floor(elapsed / delay) changes; every other frame it collapses to [0, 0).
func (e *EmitterUniform) Update(clock *Clock) {
	e.ElapsedSec = float32(clock.ElapsedSec)
	e.DeltaSec = clock.DeltaSec

	if e.SpawnDelaySec <= 0 || e.SpawnBatchesCount == 0 {
		e.SpawnFrom, e.SpawnUntil = 0, 0
		return
	}

	q := int64(math.Floor(clock.ElapsedSec / float64(e.SpawnDelaySec)))
	if e.started && q == e.quotient {
		e.SpawnFrom, e.SpawnUntil = 0, 0
		return
	}
	e.started = true
	e.quotient = q

	batch := uint32(q % int64(e.SpawnBatchesCount))
	e.SpawnFrom = batch * e.SpawnCount
	e.SpawnUntil = e.SpawnFrom + e.SpawnCount
	e.Iteration++
}

func (e *EmitterUniform) RotationDegrees() mgl32.Vec3 {
	return mgl32.Vec3{
		mgl32.RadToDeg(e.BoxRotation[0]),
		mgl32.RadToDeg(e.BoxRotation[1]),
		mgl32.RadToDeg(e.BoxRotation[2]),
	}
}

func (e *EmitterUniform) SetRotationDegrees(deg mgl32.Vec3) {
	e.BoxRotation = mgl32.Vec3{
		mgl32.DegToRad(deg[0]),
		mgl32.DegToRad(deg[1]),
		mgl32.DegToRad(deg[2]),
	}
}

// RotationMatrix applies roll (Z), then yaw (Y), then pitch (X) of BoxRotation.
func (e *EmitterUniform) RotationMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(e.BoxRotation[2]).
		Mul4(mgl32.HomogRotate3DY(e.BoxRotation[1])).
		Mul4(mgl32.HomogRotate3DX(e.BoxRotation[0]))
}

// Bytes packs the uniform for the emitter compute and render shaders.
//
//	struct Emitter {
//	  box_position: vec3<f32>,   diff_width: f32,            // 0
//	  box_dimensions: vec3<f32>, diff_depth: f32,            // 16
//	  box_rotation: vec3<f32>,   friction: f32,              // 32
//	  particle_color: vec4<f32>,                             // 48
//	  speed_min, speed_max, size_min, size_max: f32,         // 64
//	  lifetime_sec, mass, elapsed_sec, delta_sec: f32,       // 80
//	  spawn_count, spawn_from, spawn_until, batches: u32,    // 96
//	  iteration, particle_count, _pad0, _pad1: u32,          // 112
//	  rotation: mat4x4<f32>,                                 // 128
//	}                                                        // 192
func (e *EmitterUniform) Bytes() []byte {
	w := NewUniformWriter(EmitterUniformSize)
	w.Vec(0, e.BoxPosition[:]...).F32(12, e.DiffWidth)
	w.Vec(16, e.BoxDimensions[:]...).F32(28, e.DiffDepth)
	w.Vec(32, e.BoxRotation[:]...).F32(44, e.ParticleFrictionCoefficient)
	w.Vec(48, e.ParticleColor[:]...)
	w.Vec(64, e.ParticleSpeed.Min, e.ParticleSpeed.Max, e.ParticleSize.Min, e.ParticleSize.Max)
	w.Vec(80, e.ParticleLifetimeSec, e.ParticleMaterialMass, e.ElapsedSec, e.DeltaSec)
	w.U32(96, e.SpawnCount).U32(100, e.SpawnFrom).U32(104, e.SpawnUntil).U32(108, e.SpawnBatchesCount)
	w.U32(112, e.Iteration).U32(116, e.ParticleCount())

	rot := e.RotationMatrix()
	w.Vec(128, rot[:]...)
	return w.Bytes()
}
