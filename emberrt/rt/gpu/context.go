package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/ember/emberrt/rt/core"
)

// Context owns the device handles plus the command encoder for the frame
// being recorded. All compute work of a frame goes into that one encoder.
type Context struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue
	Log    core.Logger

	encoder   *wgpu.CommandEncoder
	pipelines map[string]*wgpu.ComputePipeline
}

func NewContext(device *wgpu.Device, log core.Logger) *Context {
	if log == nil {
		log = core.NopLogger()
	}
	return &Context{
		Device:    device,
		Queue:     device.GetQueue(),
		Log:       log,
		pipelines: make(map[string]*wgpu.ComputePipeline),
	}
}

// ComputePipeline returns the pipeline for code, compiling it on first use.
// Pipelines are keyed by source so every emitter shares one per shader.
func (c *Context) ComputePipeline(label, code string) (*wgpu.ComputePipeline, error) {
	if p, ok := c.pipelines[code]; ok {
		return p, nil
	}
	module, err := c.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + " CS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s shader module: %w", label, err)
	}
	defer module.Release()

	p, err := c.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: label + " Pipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s pipeline: %w", label, err)
	}
	c.pipelines[code] = p
	return p, nil
}

func (c *Context) CreateUniform(label string, size uint64) (*wgpu.Buffer, error) {
	buf, err := c.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s buffer: %w", label, err)
	}
	return buf, nil
}

// BeginFrame opens the frame encoder.
func (c *Context) BeginFrame() error {
	if c.encoder != nil {
		return fmt.Errorf("frame already open")
	}
	encoder, err := c.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	c.encoder = encoder
	return nil
}

// Encoder is the open frame encoder, nil outside BeginFrame/Submit.
func (c *Context) Encoder() *wgpu.CommandEncoder { return c.encoder }

// Dispatch records one compute pass into the frame encoder.
func (c *Context) Dispatch(pipeline *wgpu.ComputePipeline, groups []*wgpu.BindGroup, x, y, z uint32) {
	if c.encoder == nil || pipeline == nil || x == 0 || y == 0 || z == 0 {
		return
	}
	pass := c.encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	for i, bg := range groups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	pass.DispatchWorkgroups(x, y, z)
	c.endPass(pass, "compute")
}

type passEnder interface {
	End() error
}

// endPass closes a recorded pass. A failed End only loses that pass, so it is
// logged and the frame goes on.
func (c *Context) endPass(pass passEnder, name string) {
	if err := pass.End(); err != nil {
		c.Log.Errorf("%s pass End failed: %v", name, err)
	}
}

// Submit finishes the frame encoder and queues it.
func (c *Context) Submit() error {
	if c.encoder == nil {
		return nil
	}
	encoder := c.encoder
	c.encoder = nil
	defer encoder.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish encoder: %w", err)
	}
	defer cmd.Release()
	c.Queue.Submit(cmd)
	return nil
}

// CopyBuffer copies size bytes from src to dst in a one-off submission, so
// the copy lands before any later frame reads dst.
func (c *Context) CopyBuffer(src, dst *wgpu.Buffer, size uint64) error {
	if size == 0 {
		return nil
	}
	encoder, err := c.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create copy encoder: %w", err)
	}
	defer encoder.Release()
	encoder.CopyBufferToBuffer(src, 0, dst, 0, size)
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish copy encoder: %w", err)
	}
	defer cmd.Release()
	c.Queue.Submit(cmd)
	return nil
}

func (c *Context) Release() {
	for _, p := range c.pipelines {
		p.Release()
	}
	c.pipelines = map[string]*wgpu.ComputePipeline{}
}

// Groups is the workgroup count covering n invocations.
func Groups(n, size uint32) uint32 {
	return (n + size - 1) / size
}
