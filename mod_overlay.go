package ember

import (
	"fmt"

	"github.com/gekko3d/ember/emberrt/rt/core"
)

// OverlayModule draws the status line, the inspector and, in debug mode, the
// profiler stats.
type OverlayModule struct {
	Scale float32
}

type overlaySettings struct {
	scale float32
}

var (
	overlayText  = [4]float32{0.9, 0.9, 0.9, 1}
	overlayFocus = [4]float32{1, 0.85, 0.3, 1}
	overlayDebug = [4]float32{0.5, 1, 0.6, 1}
)

func (mod OverlayModule) Install(app *App, cmd *Commands) {
	scale := mod.Scale
	if scale <= 0 {
		scale = 1
	}
	cmd.AddResources(&overlaySettings{scale: scale})
	app.UseSystem(
		System(overlaySystem).
			InStage(PreRender),
	)
}

// StatusLine summarizes the clock and the presented FX slot.
func StatusLine(clock *core.Clock, view uint32, fps float64) string {
	paused := ""
	if clock.Paused {
		paused = "  PAUSED"
	}
	return fmt.Sprintf("t=%.2fs  fps=%.0f  view=slot %d%s", clock.ElapsedSec, fps, view, paused)
}

func overlaySystem(state *EmberState, clock *core.Clock, insp *Inspector, settings *overlaySettings) {
	state.ClearText()
	s := settings.scale
	line := 20 * s

	state.DrawText(StatusLine(clock, state.Chain().View(), state.FPS()), 10, 10, s, overlayText)
	text := insp.Text(Targets(state.Sim(), state.Chain()))
	state.DrawText(text, 10, 10+line*1.5, s, overlayFocus)

	if state.IsDebug() {
		w, _ := state.WindowSize()
		state.DrawText(state.ProfilerStats(), float32(w)-320*s, 10, s, overlayDebug)
	}
}
