package ember

import (
	"io/fs"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"

	app_rt "github.com/gekko3d/ember/emberrt/rt/app"
	"github.com/gekko3d/ember/emberrt/rt/assets"
	"github.com/gekko3d/ember/emberrt/rt/config"
	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/fx"
	"github.com/gekko3d/ember/emberrt/rt/sim"
)

// EmberModule opens the window, brings up the GPU particle simulation and FX
// chain, and runs them once per frame. Window size, vsync, debug mode and the
// clear color come from the config resource when one is installed.
type EmberModule struct {
	// Assets holds material images as <collection>/<material>; nil allows
	// built-in meshes and the white material only.
	Assets fs.FS
}

type EmberState struct {
	RtApp *app_rt.App

	resized       bool
	width, height int
}

func (s *EmberState) WindowSize() (int, int) {
	if s == nil || s.RtApp == nil {
		return 0, 0
	}
	return int(s.RtApp.Config.Width), int(s.RtApp.Config.Height)
}

func (s *EmberState) FPS() float64 {
	if s == nil || s.RtApp == nil {
		return 0
	}
	return s.RtApp.FPS
}

func (s *EmberState) ProfilerStats() string {
	if s == nil || s.RtApp == nil {
		return ""
	}
	return s.RtApp.Profiler.String()
}

func (s *EmberState) IsDebug() bool {
	if s == nil || s.RtApp == nil {
		return false
	}
	return s.RtApp.DebugMode
}

func (s *EmberState) SetDebugMode(enabled bool) {
	if s != nil && s.RtApp != nil {
		s.RtApp.DebugMode = enabled
	}
}

func (s *EmberState) DrawText(text string, x, y float32, scale float32, color [4]float32) {
	if s != nil && s.RtApp != nil {
		s.RtApp.DrawText(text, x, y, scale, color)
	}
}

func (s *EmberState) ClearText() {
	if s != nil && s.RtApp != nil {
		s.RtApp.ClearText()
	}
}

func (s *EmberState) Sim() *sim.Simulation { return s.RtApp.Sim }

func (s *EmberState) Chain() *fx.Chain { return s.RtApp.Chain }

func (mod EmberModule) Install(app *App, cmd *Commands) {
	cfg, ok := Resource[config.Config](app)
	if !ok {
		def := config.Default()
		cfg = &def
	}

	NewPlatformWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title).Install(app, cmd)
	ClockModule{}.Install(app, cmd)
	windowState, _ := Resource[WindowState](app)
	clock, _ := Resource[core.Clock](app)

	RtApp := app_rt.NewApp(windowState.windowGlfw, assets.NewCatalog(mod.Assets), app.named("rt"))
	RtApp.Clock = clock
	RtApp.DebugMode = cfg.Debug
	RtApp.VSync = cfg.Window.VSync
	r, g, b := cfg.Clear()
	RtApp.ClearColor = wgpu.Color{R: r, G: g, B: b, A: 1}
	if err := RtApp.Init(); err != nil {
		panic(err)
	}
	if err := RtApp.Chain.SetView(cfg.FX.ViewSlot); err != nil {
		panic(err)
	}

	state := &EmberState{RtApp: RtApp}
	windowState.windowGlfw.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		state.resized = true
		state.width, state.height = width, height
	})
	cmd.AddResources(state, RtApp.Camera)
	app.Logger().Infof("renderer ready: %s", RtApp.Describe())

	app.UseSystem(
		System(emberUpdateSystem).
			InStage(PostUpdate),
	)
	app.UseSystem(
		System(emberRenderSystem).
			InStage(Render),
	)
	app.UseSystem(
		System(emberReleaseSystem).
			InStage(Exit),
	)
}

// emberUpdateSystem applies a pending resize between frames, then runs the
// CPU side of the frame.
func emberUpdateSystem(state *EmberState) {
	if state.resized {
		state.resized = false
		state.RtApp.Resize(state.width, state.height)
	}
	state.RtApp.Update()
}

func emberRenderSystem(state *EmberState) {
	state.RtApp.Render()
}

func emberReleaseSystem(state *EmberState) {
	state.RtApp.Release()
}
