package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/ember/emberrt/rt/anim"
	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/shaders"
	"github.com/gekko3d/ember/emberrt/rt/sim"
)

const particleWorkgroup = 64

// EmitterState holds the uniform and the two particle buffers of one
// emitter. For parity p the base pass reads Buffers[1-p] and writes
// Buffers[p]; animations and the draw read Buffers[p].
type EmitterState struct {
	ctx     *Context
	label   string
	isLight bool
	count   uint32

	Uniform *wgpu.Buffer
	Buffers [2]*wgpu.Buffer

	pipeline   *wgpu.ComputePipeline
	bindGroups [2]*wgpu.BindGroup
}

// NewEmitterState allocates buffers sized for em. When previous is set, the
// overlapping byte range of both its buffers is copied over.
func NewEmitterState(ctx *Context, em *core.EmitterUniform, isLight bool, previous *EmitterState) (*EmitterState, error) {
	count := em.ParticleCount()
	if count == 0 {
		return nil, fmt.Errorf("emitter %q has no particle slots", em.ID)
	}
	s := &EmitterState{ctx: ctx, label: em.ID, isLight: isLight, count: count}

	var err error
	s.Uniform, err = ctx.CreateUniform(s.label+" Emitter", core.EmitterUniformSize)
	if err != nil {
		return nil, err
	}
	for i := range s.Buffers {
		s.Buffers[i], err = ctx.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("%s Particles %d", s.label, i),
			Size:  core.BufferSize(count),
			Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
		})
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("failed to create particle buffer: %w", err)
		}
	}

	s.pipeline, err = ctx.ComputePipeline("Emitter", shaders.Particle(shaders.EmitterWGSL))
	if err != nil {
		s.Release()
		return nil, err
	}
	for parity := range s.bindGroups {
		s.bindGroups[parity], err = ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("%s Emitter BG %d", s.label, parity),
			Layout: s.pipeline.GetBindGroupLayout(0),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: s.Uniform, Size: wgpu.WholeSize},
				{Binding: 1, Buffer: s.Buffers[1-parity], Size: wgpu.WholeSize},
				{Binding: 2, Buffer: s.Buffers[parity], Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("failed to create emitter bind group: %w", err)
		}
	}

	if previous != nil {
		overlap := core.OverlapBytes(previous.count, count)
		for i := range s.Buffers {
			if err := ctx.CopyBuffer(previous.Buffers[i], s.Buffers[i], overlap); err != nil {
				s.Release()
				return nil, err
			}
		}
	}
	s.Upload(em)
	return s, nil
}

func (s *EmitterState) IsLight() bool { return s.isLight }

func (s *EmitterState) ParticleCount() uint32 { return s.count }

func (s *EmitterState) Upload(em *core.EmitterUniform) {
	s.ctx.Queue.WriteBuffer(s.Uniform, 0, em.Bytes())
}

func (s *EmitterState) Dispatch(parity int) {
	s.ctx.Dispatch(s.pipeline, []*wgpu.BindGroup{s.bindGroups[parity]}, Groups(s.count, particleWorkgroup), 1, 1)
}

// Current is the buffer written during a frame of the given parity.
func (s *EmitterState) Current(parity int) *wgpu.Buffer { return s.Buffers[parity] }

func (s *EmitterState) BindAnimation(label, shader string, uniformSize uint64) (anim.Pass, error) {
	return newAnimationPass(s, label, shader, uniformSize)
}

func (s *EmitterState) Release() {
	for i, bg := range s.bindGroups {
		if bg != nil {
			bg.Release()
			s.bindGroups[i] = nil
		}
	}
	for i, b := range s.Buffers {
		if b != nil {
			b.Release()
			s.Buffers[i] = nil
		}
	}
	if s.Uniform != nil {
		s.Uniform.Release()
		s.Uniform = nil
	}
}

// EmitterAllocator hands out EmitterStates to the simulation.
type EmitterAllocator struct {
	Ctx *Context
}

func (a *EmitterAllocator) NewBackend(em *core.EmitterUniform, isLight bool, previous sim.Backend) (sim.Backend, error) {
	prev, _ := previous.(*EmitterState)
	s, err := NewEmitterState(a.Ctx, em, isLight, prev)
	if err != nil {
		return nil, err
	}
	return s, nil
}
