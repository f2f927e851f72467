package ember

import (
	"github.com/gekko3d/ember/emberrt/rt/config"
)

// ConfigModule loads the YAML config and adds it as a resource. A missing
// file yields the defaults; an invalid one stops the app at build time.
type ConfigModule struct {
	Path string
	// Debug forces debug mode on regardless of the file.
	Debug bool
}

func (m ConfigModule) Install(app *App, cmd *Commands) {
	cfg, err := config.Load(m.Path)
	if err != nil {
		panic(err)
	}
	if m.Debug {
		cfg.Debug = true
	}
	if cfg.Debug {
		app.Logger().SetDebug(true)
	}
	app.Logger().Debugf("config %q: %+v", m.Path, cfg)
	cmd.AddResources(&cfg)
}
