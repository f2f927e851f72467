package gpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/ember/emberrt/rt/assets"
	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/shaders"
)

// LightEmissive scales the color of the light emitter's particles so they
// cross the bloom threshold.
const LightEmissive = 4.0

// DrawItem is one emitter to draw: its state plus asset references.
type DrawItem struct {
	State    *EmitterState
	Mesh     *core.MeshRef
	Material *core.MaterialRef
}

type meshBuffers struct {
	vertex *wgpu.Buffer
	index  *wgpu.Buffer
	count  uint32
}

type materialBinding struct {
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
}

type drawBinding struct {
	params *wgpu.Buffer
	groups [2]*wgpu.BindGroup
	mesh   *meshBuffers
	mat    *materialBinding
}

// ParticleRenderer draws every live particle as an instance of its
// emitter's mesh into the frame target.
type ParticleRenderer struct {
	ctx      *Context
	lib      assets.Library
	pipeline *wgpu.RenderPipeline
	sampler  *wgpu.Sampler
	camera   *wgpu.Buffer

	meshes    map[*assets.Mesh]*meshBuffers
	materials map[*image.RGBA]*materialBinding
	draws     map[*EmitterState]*drawBinding
}

func NewParticleRenderer(ctx *Context, lib assets.Library) (*ParticleRenderer, error) {
	module, err := ctx.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Particle VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.Particle(shaders.ParticleRenderWGSL)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create particle shader module: %w", err)
	}
	defer module.Release()

	pipeline, err := ctx.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Particle Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(assets.Vertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: FrameFormat,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create particle pipeline: %w", err)
	}

	r := &ParticleRenderer{
		ctx:       ctx,
		lib:       lib,
		pipeline:  pipeline,
		meshes:    make(map[*assets.Mesh]*meshBuffers),
		materials: make(map[*image.RGBA]*materialBinding),
		draws:     make(map[*EmitterState]*drawBinding),
	}
	r.sampler, err = ctx.Device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("failed to create particle sampler: %w", err)
	}
	if r.camera, err = ctx.CreateUniform("Camera", core.CameraUniformSize); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *ParticleRenderer) UpdateCamera(cam *core.CameraState, aspect float32) {
	r.ctx.Queue.WriteBuffer(r.camera, 0, cam.Bytes(aspect))
}

// Prepare resolves assets and bind groups for items and forgets states that
// are no longer drawn. A missing mesh or material is returned as an error.
func (r *ParticleRenderer) Prepare(items []DrawItem) error {
	live := make(map[*EmitterState]bool, len(items))
	for _, it := range items {
		live[it.State] = true
		if _, ok := r.draws[it.State]; ok {
			continue
		}
		d, err := r.newDraw(it)
		if err != nil {
			return err
		}
		r.draws[it.State] = d
	}
	for s, d := range r.draws {
		if !live[s] {
			d.release()
			delete(r.draws, s)
		}
	}
	return nil
}

func (r *ParticleRenderer) newDraw(it DrawItem) (*drawBinding, error) {
	mesh, err := r.lib.Mesh(it.Mesh)
	if err != nil {
		return nil, err
	}
	mb, err := r.meshBuffers(mesh)
	if err != nil {
		return nil, err
	}
	img, err := r.lib.Material(it.Material)
	if err != nil {
		return nil, err
	}
	mat, err := r.material(img)
	if err != nil {
		return nil, err
	}

	d := &drawBinding{mesh: mb, mat: mat}
	if d.params, err = r.ctx.CreateUniform("Draw Params", 16); err != nil {
		return nil, err
	}
	emissive := float32(0)
	if it.State.IsLight() {
		emissive = LightEmissive
	}
	r.ctx.Queue.WriteBuffer(d.params, 0, core.NewUniformWriter(16).F32(0, emissive).Bytes())

	for parity := range d.groups {
		d.groups[parity], err = r.ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("%s Draw BG %d", it.State.label, parity),
			Layout: r.pipeline.GetBindGroupLayout(0),
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: r.camera, Size: wgpu.WholeSize},
				{Binding: 1, Buffer: it.State.Current(parity), Size: wgpu.WholeSize},
				{Binding: 2, Buffer: d.params, Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			d.release()
			return nil, fmt.Errorf("failed to create draw bind group: %w", err)
		}
	}
	return d, nil
}

func (r *ParticleRenderer) meshBuffers(m *assets.Mesh) (*meshBuffers, error) {
	if mb, ok := r.meshes[m]; ok {
		return mb, nil
	}
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return nil, fmt.Errorf("mesh %s is empty", m.Name)
	}
	vSize := uint64(len(m.Vertices) * int(unsafe.Sizeof(assets.Vertex{})))
	iSize := uint64(len(m.Indices) * 4)

	vb, err := r.ctx.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: m.Name + " VB",
		Size:  vSize,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s vertex buffer: %w", m.Name, err)
	}
	ib, err := r.ctx.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: m.Name + " IB",
		Size:  iSize,
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("failed to create %s index buffer: %w", m.Name, err)
	}
	r.ctx.Queue.WriteBuffer(vb, 0, unsafe.Slice((*byte)(unsafe.Pointer(&m.Vertices[0])), vSize))
	r.ctx.Queue.WriteBuffer(ib, 0, unsafe.Slice((*byte)(unsafe.Pointer(&m.Indices[0])), iSize))

	mb := &meshBuffers{vertex: vb, index: ib, count: uint32(len(m.Indices))}
	r.meshes[m] = mb
	return mb, nil
}

func (r *ParticleRenderer) material(img *image.RGBA) (*materialBinding, error) {
	if mat, ok := r.materials[img]; ok {
		return mat, nil
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	extent := wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}
	tex, err := r.ctx.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Material",
		Size:          extent,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create material texture: %w", err)
	}
	r.ctx.Queue.WriteTexture(tex.AsImageCopy(), img.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(img.Stride),
		RowsPerImage: uint32(h),
	}, &extent)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create material view: %w", err)
	}
	bg, err := r.ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Material BG",
		Layout: r.pipeline.GetBindGroupLayout(1),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: r.sampler},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, fmt.Errorf("failed to create material bind group: %w", err)
	}
	mat := &materialBinding{texture: tex, view: view, bindGroup: bg}
	r.materials[img] = mat
	return mat, nil
}

// Draw records the particle pass into the frame encoder, clearing the frame
// target and depth first.
func (r *ParticleRenderer) Draw(targets *Targets, items []DrawItem, parity int, clear wgpu.Color) {
	encoder := r.ctx.Encoder()
	if encoder == nil {
		return
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Particles",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       targets.FrameView,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clear,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            targets.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	pass.SetPipeline(r.pipeline)
	for _, it := range items {
		d, ok := r.draws[it.State]
		if !ok {
			continue
		}
		pass.SetBindGroup(0, d.groups[parity], nil)
		pass.SetBindGroup(1, d.mat.bindGroup, nil)
		pass.SetVertexBuffer(0, d.mesh.vertex, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(d.mesh.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(d.mesh.count, it.State.ParticleCount(), 0, 0, 0)
	}
	r.ctx.endPass(pass, "particle")
}

func (d *drawBinding) release() {
	for i, bg := range d.groups {
		if bg != nil {
			bg.Release()
			d.groups[i] = nil
		}
	}
	if d.params != nil {
		d.params.Release()
		d.params = nil
	}
}

func (r *ParticleRenderer) Release() {
	for s, d := range r.draws {
		d.release()
		delete(r.draws, s)
	}
	for m, mb := range r.meshes {
		mb.vertex.Release()
		mb.index.Release()
		delete(r.meshes, m)
	}
	for img, mat := range r.materials {
		mat.bindGroup.Release()
		mat.view.Release()
		mat.texture.Release()
		delete(r.materials, img)
	}
	if r.camera != nil {
		r.camera.Release()
		r.camera = nil
	}
	if r.sampler != nil {
		r.sampler.Release()
		r.sampler = nil
	}
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
}
