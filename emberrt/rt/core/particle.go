package core

// Particle matches the WGSL record in particle_common.wgsl.
//
//	struct Particle {
//	  position: vec4<f32>,  // xyz + size
//	  color: vec4<f32>,
//	  velocity: vec4<f32>,  // xyz + unused
//	  stamps: vec4<f32>,    // spawned_sec, lifetime_sec, seed, alive
//	  model: mat4x4<f32>,
//	}
type Particle struct {
	Position [4]float32
	Color    [4]float32
	Velocity [4]float32
	Stamps   [4]float32
	Model    [16]float32
}

const ParticleSize = 128

// BufferSize is the byte size of a particle buffer holding count records.
func BufferSize(count uint32) uint64 {
	return uint64(count) * ParticleSize
}

// OverlapBytes is the byte range preserved when a particle buffer is recreated
// with a different slot count. The remainder of the new buffer stays zeroed.
func OverlapBytes(oldCount, newCount uint32) uint64 {
	return BufferSize(min(oldCount, newCount))
}
