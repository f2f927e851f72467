package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// AnimationPass runs one particle animation over the current buffer of the
// emitter it was bound to.
type AnimationPass struct {
	state      *EmitterState
	pipeline   *wgpu.ComputePipeline
	uniform    *wgpu.Buffer
	bindGroups [2]*wgpu.BindGroup
}

func newAnimationPass(s *EmitterState, label, shader string, uniformSize uint64) (*AnimationPass, error) {
	pipeline, err := s.ctx.ComputePipeline(label, shader)
	if err != nil {
		return nil, err
	}
	uniform, err := s.ctx.CreateUniform(s.label+" "+label, uniformSize)
	if err != nil {
		return nil, err
	}
	p := &AnimationPass{state: s, pipeline: pipeline, uniform: uniform}
	for parity := range p.bindGroups {
		p.bindGroups[parity], err = s.ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("%s %s BG %d", s.label, label, parity),
			Layout: pipeline.GetBindGroupLayout(0),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: s.Uniform, Size: wgpu.WholeSize},
				{Binding: 1, Buffer: s.Buffers[parity], Size: wgpu.WholeSize},
				{Binding: 2, Buffer: uniform, Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			p.Release()
			return nil, fmt.Errorf("failed to create %s bind group: %w", label, err)
		}
	}
	return p, nil
}

func (p *AnimationPass) WriteUniform(data []byte) {
	p.state.ctx.Queue.WriteBuffer(p.uniform, 0, data)
}

func (p *AnimationPass) Dispatch(parity int) {
	p.state.ctx.Dispatch(p.pipeline, []*wgpu.BindGroup{p.bindGroups[parity]}, Groups(p.state.count, particleWorkgroup), 1, 1)
}

func (p *AnimationPass) Release() {
	for i, bg := range p.bindGroups {
		if bg != nil {
			bg.Release()
			p.bindGroups[i] = nil
		}
	}
	if p.uniform != nil {
		p.uniform.Release()
		p.uniform = nil
	}
}
