package ember

import (
	"github.com/gekko3d/ember/emberrt/rt/core"
)

// ClockModule provides the frame clock and ticks it at the start of every
// frame. Everything else reads it.
type ClockModule struct {
	Paused bool
}

func (mod ClockModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[core.Clock](app); ok {
		return
	}
	clock := core.NewClock()
	clock.Paused = mod.Paused
	cmd.AddResources(clock)
	app.UseSystem(
		System(clockSystem).
			InStage(Prelude),
	)
}

func clockSystem(clock *core.Clock) {
	clock.Tick()
}
