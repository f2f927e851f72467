package app

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/ember/emberrt/rt/assets"
	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/fx"
	"github.com/gekko3d/ember/emberrt/rt/gpu"
	"github.com/gekko3d/ember/emberrt/rt/shaders"
	"github.com/gekko3d/ember/emberrt/rt/sim"
)

// App drives one window: it owns the device, the simulation and the FX chain
// and records a whole frame into a single command encoder.
type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Ctx       *gpu.Context
	Fx        *gpu.FxDevice
	Particles *gpu.ParticleRenderer
	Assets    assets.Library

	BlitPipeline *wgpu.RenderPipeline
	BlitBG       *wgpu.BindGroup
	Sampler      *wgpu.Sampler

	TextRenderer     *core.TextRenderer
	TextPipeline     *wgpu.RenderPipeline
	TextAtlas        *wgpu.Texture
	TextAtlasView    *wgpu.TextureView
	TextBindGroup    *wgpu.BindGroup
	TextVertexBuffer *wgpu.Buffer
	TextItems        []core.TextItem
	TextVertexCount  uint32

	Clock    *core.Clock
	Camera   *core.CameraState
	Sim      *sim.Simulation
	Chain    *fx.Chain
	Profiler *Profiler
	Log      core.Logger

	ClearColor wgpu.Color
	VSync      bool
	DebugMode  bool

	items []gpu.DrawItem

	FrameCount     int
	FPS            float64
	FPSTime        float64
	LastRenderTime float64
}

func NewApp(window *glfw.Window, lib assets.Library, log core.Logger) *App {
	if log == nil {
		log = core.NopLogger()
	}
	return &App{
		Window:     window,
		Assets:     lib,
		Log:        log,
		Clock:      core.NewClock(),
		Camera:     core.NewCameraState(),
		Profiler:   NewProfiler(),
		ClearColor: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		VSync:      true,
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return err
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	present := wgpu.PresentModeFifo
	if !a.VSync {
		present = wgpu.PresentModeImmediate
	}
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: present,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	a.Ctx = gpu.NewContext(a.Device, a.Log)
	size := a.resolution()
	if a.Fx, err = gpu.NewFxDevice(a.Ctx, size); err != nil {
		return err
	}
	if a.Particles, err = gpu.NewParticleRenderer(a.Ctx, a.Assets); err != nil {
		return err
	}
	a.Sim = sim.New(&gpu.EmitterAllocator{Ctx: a.Ctx}, a.Log)
	a.Chain = fx.NewChain(a.Fx, size, a.Log)

	a.Sampler, err = a.Device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return err
	}

	if err := a.setupBlit(); err != nil {
		return err
	}

	a.TextRenderer, err = core.NewDefaultTextRenderer(18)
	if err != nil {
		a.Log.Warnf("text overlay disabled: %v", err)
	} else {
		a.setupTextResources()
	}
	return nil
}

func (a *App) resolution() fx.Resolution {
	return fx.Resolution{Width: a.Config.Width, Height: a.Config.Height}
}

func (a *App) setupBlit() error {
	module, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Fullscreen VS/FS",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.FullscreenWGSL},
	})
	if err != nil {
		return err
	}
	defer module.Release()

	a.BlitPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Blit Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    a.Config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}
	return a.setupBlitBindGroup()
}

func (a *App) setupBlitBindGroup() error {
	bg, err := a.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: a.BlitPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: a.Fx.Targets().PresentView},
			{Binding: 1, Sampler: a.Sampler},
		},
	})
	if err != nil {
		return err
	}
	if a.BlitBG != nil {
		a.BlitBG.Release()
	}
	a.BlitBG = bg
	return nil
}

// Resize reconfigures the surface and reallocates every size-dependent
// target. The chain rebuilds its passes against the new slot array.
func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)

	size := a.resolution()
	if err := a.Fx.Resize(size); err != nil {
		a.Log.Errorf("resize targets: %v", err)
		return
	}
	if err := a.Chain.Resize(size); err != nil {
		a.Log.Errorf("resize fx chain: %v", err)
	}
	if err := a.setupBlitBindGroup(); err != nil {
		a.Log.Errorf("resize blit: %v", err)
	}
}

// Update brings emitters, animations and effects up to date with the
// already ticked clock and uploads their uniforms.
func (a *App) Update() {
	defer a.Profiler.Begin(PhaseUpdate)()

	a.Sim.Sweep()
	a.Chain.Sweep()

	a.Sim.Update(a.Clock)
	a.Sim.Upload()
	a.Chain.Update()

	aspect := float32(a.Config.Width) / float32(a.Config.Height)
	if aspect == 0 {
		aspect = 1.0
	}
	a.Particles.UpdateCamera(a.Camera, aspect)

	particles := 0
	a.items = a.items[:0]
	for _, e := range a.Sim.Emitters() {
		state, ok := e.Backend().(*gpu.EmitterState)
		if !ok || state == nil {
			continue
		}
		particles += int(state.ParticleCount())
		a.items = append(a.items, gpu.DrawItem{
			State:    state,
			Mesh:     e.Uniform.Mesh,
			Material: e.Uniform.Material,
		})
	}
	a.Profiler.Stats = FrameStats{
		Emitters:  len(a.items),
		Particles: particles,
		FxNodes:   len(a.Chain.Nodes()),
	}
}

func (a *App) uploadText() {
	if len(a.TextItems) == 0 || a.TextRenderer == nil {
		a.TextVertexCount = 0
		return
	}
	vertices := a.TextRenderer.BuildVertices(a.TextItems, int(a.Config.Width), int(a.Config.Height))
	if len(vertices) == 0 {
		a.TextVertexCount = 0
		return
	}
	vSize := uint64(len(vertices) * int(unsafe.Sizeof(core.TextVertex{})))
	if a.TextVertexBuffer == nil || a.TextVertexBuffer.GetSize() < vSize {
		if a.TextVertexBuffer != nil {
			a.TextVertexBuffer.Release()
		}
		var err error
		a.TextVertexBuffer, err = a.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Text VB",
			Size:  vSize,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			a.Log.Errorf("text vertex buffer: %v", err)
			a.TextVertexBuffer = nil
			a.TextVertexCount = 0
			return
		}
	}
	a.Queue.WriteBuffer(a.TextVertexBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), vSize))
	a.TextVertexCount = uint32(len(vertices))
}

func (a *App) ClearText() {
	a.TextItems = a.TextItems[:0]
}

func (a *App) DrawText(text string, x, y float32, scale float32, color [4]float32) {
	a.TextItems = append(a.TextItems, core.TextItem{
		Text:     text,
		Position: [2]float32{x, y},
		Scale:    scale,
		Color:    color,
	})
}

// Render records simulation, particle draw, FX chain and the final blit
// into one encoder and presents the surface.
func (a *App) Render() {
	a.uploadText()

	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	if err := a.Ctx.BeginFrame(); err != nil {
		a.Log.Errorf("%v", err)
		return
	}

	end := a.Profiler.Begin(PhaseSimulate)
	a.Sim.Compute(a.Clock)
	end()

	end = a.Profiler.Begin(PhaseDraw)
	if err := a.Particles.Prepare(a.items); err != nil {
		a.Log.Errorf("prepare particles: %v", err)
	}
	a.Particles.Draw(a.Fx.Targets(), a.items, a.Clock.Parity(), a.ClearColor)
	end()

	end = a.Profiler.Begin(PhaseFX)
	a.Fx.Ingest()
	a.Chain.Compute()
	a.Fx.Present(a.Chain.View())
	end()

	end = a.Profiler.Begin(PhasePresent)
	defer end()
	a.blit(view)

	if err := a.Ctx.Submit(); err != nil {
		a.Log.Errorf("%v", err)
		return
	}
	a.Surface.Present()
	a.updateFPS()
}

func (a *App) blit(view *wgpu.TextureView) {
	rPass := a.Ctx.Encoder().BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	rPass.SetPipeline(a.BlitPipeline)
	rPass.SetBindGroup(0, a.BlitBG, nil)
	rPass.Draw(3, 1, 0, 0)

	if a.TextVertexCount > 0 && a.TextVertexBuffer != nil && a.TextPipeline != nil {
		rPass.SetPipeline(a.TextPipeline)
		rPass.SetBindGroup(0, a.TextBindGroup, nil)
		rPass.SetVertexBuffer(0, a.TextVertexBuffer, 0, a.TextVertexBuffer.GetSize())
		rPass.Draw(a.TextVertexCount, 1, 0, 0)
	}

	if err := rPass.End(); err != nil {
		a.Log.Errorf("render pass End failed: %v", err)
	}
}

func (a *App) updateFPS() {
	now := glfw.GetTime()
	if a.LastRenderTime > 0 {
		a.FrameCount++
		a.FPSTime += now - a.LastRenderTime
		if a.FPSTime >= 1.0 {
			a.FPS = float64(a.FrameCount) / a.FPSTime
			a.FrameCount = 0
			a.FPSTime = 0
		}
	}
	a.LastRenderTime = now
}

func (a *App) setupTextResources() {
	tr := a.TextRenderer
	w, h := tr.AtlasImage.Bounds().Dx(), tr.AtlasImage.Bounds().Dy()
	tex, err := a.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Text Atlas",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		a.Log.Errorf("text atlas: %v", err)
		return
	}
	a.TextAtlas = tex
	a.Queue.WriteTexture(tex.AsImageCopy(), tr.AtlasImage.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(w),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})

	a.TextAtlasView, err = tex.CreateView(nil)
	if err != nil {
		a.Log.Errorf("text atlas view: %v", err)
		return
	}

	textMod, err := a.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Text Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TextWGSL},
	})
	if err != nil {
		a.Log.Errorf("failed to create text shader module: %v", err)
		return
	}
	defer textMod.Release()

	a.TextPipeline, err = a.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Text Pipeline",
		Vertex: wgpu.VertexState{
			Module:     textMod,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(core.TextVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     textMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: a.Config.Format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		a.Log.Errorf("failed to create text render pipeline: %v", err)
		return
	}

	a.TextBindGroup, err = a.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: a.TextPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: a.TextAtlasView},
			{Binding: 1, Sampler: a.Sampler},
		},
	})
	if err != nil {
		a.Log.Errorf("failed to create text bind group: %v", err)
		a.TextPipeline = nil
	}
}

// Release frees the scene and every GPU object the app created.
func (a *App) Release() {
	if a.Sim != nil {
		a.Sim.Release()
	}
	if a.Chain != nil {
		a.Chain.Release()
	}
	if a.Particles != nil {
		a.Particles.Release()
	}
	if a.Fx != nil {
		a.Fx.Release()
	}
	if a.BlitBG != nil {
		a.BlitBG.Release()
	}
	if a.BlitPipeline != nil {
		a.BlitPipeline.Release()
	}
	if a.TextBindGroup != nil {
		a.TextBindGroup.Release()
	}
	if a.TextPipeline != nil {
		a.TextPipeline.Release()
	}
	if a.TextAtlasView != nil {
		a.TextAtlasView.Release()
	}
	if a.TextAtlas != nil {
		a.TextAtlas.Release()
	}
	if a.TextVertexBuffer != nil {
		a.TextVertexBuffer.Release()
	}
	if a.Sampler != nil {
		a.Sampler.Release()
	}
	if a.Ctx != nil {
		a.Ctx.Release()
	}
}

// Describe is a one-line summary for logs.
func (a *App) Describe() string {
	return fmt.Sprintf("%dx%d, %d emitters, %d fx nodes", a.Config.Width, a.Config.Height, len(a.Sim.Emitters()), len(a.Chain.Nodes()))
}
