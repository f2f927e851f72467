package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/ember/emberrt/rt/fx"
	"github.com/gekko3d/ember/emberrt/rt/shaders"
)

const fxWorkgroup = 8

// FxDevice binds FX kernels to the slot array of the current Targets. Besides
// the chain's kernels it owns the ingest pass, which copies the particle frame
// into slot 0, and the present pass, which resolves the viewed slot.
type FxDevice struct {
	ctx     *Context
	targets *Targets

	ingest  *fxPass
	present *fxPass
}

func NewFxDevice(ctx *Context, size fx.Resolution) (*FxDevice, error) {
	d := &FxDevice{ctx: ctx}
	if err := d.Resize(size); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *FxDevice) Targets() *Targets { return d.targets }

// Resize reallocates the targets and the device's own passes. Passes handed
// out by NewPass are left bound to the old array; the chain rebuilds them.
func (d *FxDevice) Resize(size fx.Resolution) error {
	targets, err := NewTargets(d.ctx, size)
	if err != nil {
		return err
	}
	ingest, err := d.newPass("FX Ingest", shaders.Fx(shaders.FxIngestWGSL), targets, 0,
		wgpu.BindGroupEntry{Binding: 2, TextureView: targets.FrameView})
	if err != nil {
		targets.Release()
		return err
	}
	present, err := d.newPass("FX Present", shaders.Fx(shaders.FxPresentWGSL), targets, 0,
		wgpu.BindGroupEntry{Binding: 2, TextureView: targets.PresentView})
	if err != nil {
		ingest.Release()
		targets.Release()
		return err
	}

	d.release()
	d.targets, d.ingest, d.present = targets, ingest, present
	return nil
}

// NewPass implements fx.Device.
func (d *FxDevice) NewPass(kernel fx.Kernel, label string) (fx.Pass, error) {
	p, err := d.newPass(label, kernel.Shader(), d.targets, kernel.ParamsSize())
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Ingest records the copy of the particle frame into slot 0.
func (d *FxDevice) Ingest() {
	d.ingest.Write(fx.SameIO(0, 0, d.targets.Size), nil)
	d.ingest.Dispatch()
}

// Present records the resolve of slot view into the presentable image.
func (d *FxDevice) Present(view uint32) {
	d.present.Write(fx.SameIO(view, view, d.targets.Size), nil)
	d.present.Dispatch()
}

func (d *FxDevice) release() {
	if d.ingest != nil {
		d.ingest.Release()
	}
	if d.present != nil {
		d.present.Release()
	}
	if d.targets != nil {
		d.targets.Release()
	}
}

func (d *FxDevice) Release() {
	d.release()
	d.ingest, d.present, d.targets = nil, nil, nil
}

func (d *FxDevice) newPass(label, code string, targets *Targets, paramsSize uint64, extra ...wgpu.BindGroupEntry) (*fxPass, error) {
	pipeline, err := d.ctx.ComputePipeline(label, code)
	if err != nil {
		return nil, err
	}
	p := &fxPass{ctx: d.ctx, pipeline: pipeline}
	if p.io, err = d.ctx.CreateUniform(label+" IO", fx.FxIOUniformSize); err != nil {
		return nil, err
	}

	entries := []wgpu.BindGroupEntry{
		{Binding: 0, TextureView: targets.SlotsView},
		{Binding: 1, Buffer: p.io, Size: wgpu.WholeSize},
	}
	if paramsSize > 0 {
		if p.params, err = d.ctx.CreateUniform(label+" Params", paramsSize); err != nil {
			p.Release()
			return nil, err
		}
		entries = append(entries, wgpu.BindGroupEntry{Binding: 2, Buffer: p.params, Size: wgpu.WholeSize})
	}
	entries = append(entries, extra...)

	p.bindGroup, err = d.ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label + " BG",
		Layout:  pipeline.GetBindGroupLayout(0),
		Entries: entries,
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("failed to create %s bind group: %w", label, err)
	}
	return p, nil
}

type fxPass struct {
	ctx       *Context
	pipeline  *wgpu.ComputePipeline
	io        *wgpu.Buffer
	params    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
	out       fx.Resolution
}

func (p *fxPass) Write(io fx.FxIOUniform, params []byte) {
	p.ctx.Queue.WriteBuffer(p.io, 0, io.Bytes())
	if p.params != nil && len(params) > 0 {
		p.ctx.Queue.WriteBuffer(p.params, 0, params)
	}
	p.out = io.OutSize
}

func (p *fxPass) Dispatch() {
	p.ctx.Dispatch(p.pipeline, []*wgpu.BindGroup{p.bindGroup},
		Groups(p.out.Width, fxWorkgroup), Groups(p.out.Height, fxWorkgroup), 1)
}

func (p *fxPass) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.io != nil {
		p.io.Release()
		p.io = nil
	}
	if p.params != nil {
		p.params.Release()
		p.params = nil
	}
}
