package ember

import (
	"github.com/gekko3d/ember/emberrt/rt/core"
)

// ControlsModule binds the global keys: Space pauses the simulation, 0-9
// pick the FX slot shown on screen, F1 toggles debug mode and Escape quits.
type ControlsModule struct{}

func (mod ControlsModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(controlsSystem).
			InStage(Update),
	)
}

func controlsSystem(input *Input, clock *core.Clock, state *EmberState, cmd *Commands) {
	if input.JustPressed[KeySpace] {
		clock.TogglePause()
	}
	if d, ok := input.Digit(); ok {
		if err := state.Chain().SetView(uint32(d)); err != nil {
			cmd.Logger().Warnf("view slot: %v", err)
		}
	}
	if input.JustPressed[KeyF1] {
		debug := !state.IsDebug()
		state.SetDebugMode(debug)
		cmd.Logger().SetDebug(debug)
	}
	if input.JustPressed[KeyEscape] {
		cmd.Exit()
	}
}
