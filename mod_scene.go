package ember

import (
	"errors"
	"fmt"

	"github.com/gekko3d/ember/emberrt/rt/config"
	"github.com/gekko3d/ember/emberrt/rt/fx"
	"github.com/gekko3d/ember/emberrt/rt/sim"
	"github.com/gekko3d/ember/emberrt/rt/store"
)

// SceneModule loads the emitters and the FX chain from the configured store
// at startup. F5 saves both documents, F6 reloads them.
type SceneModule struct{}

type SceneState struct {
	Store store.Store
	Names config.Scene
}

// OpenStore builds the store selected by cfg.
func OpenStore(cfg config.Storage) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendGdata:
		return store.NewGdataStore(cfg.AppName)
	case config.BackendFile:
		return store.NewFileStore(cfg.Dir)
	}
	return nil, fmt.Errorf("%w: storage.backend %q", config.ErrInvalidConfig, cfg.Backend)
}

func (mod SceneModule) Install(app *App, cmd *Commands) {
	cfg, ok := Resource[config.Config](app)
	if !ok {
		def := config.Default()
		cfg = &def
	}
	st, err := OpenStore(cfg.Storage)
	if err != nil {
		panic(err)
	}
	scene := &SceneState{Store: st, Names: cfg.Scene}
	cmd.AddResources(scene)

	if state, ok := Resource[EmberState](app); ok {
		if err := scene.Load(state.Sim(), state.Chain(), app.Logger()); err != nil {
			panic(err)
		}
	}

	app.UseSystem(
		System(sceneHotkeySystem).
			InStage(Update),
	)
}

func sceneHotkeySystem(input *Input, scene *SceneState, state *EmberState, cmd *Commands) {
	log := cmd.Logger()
	if input.JustPressed[KeyF5] {
		if err := scene.Save(state.Sim(), state.Chain()); err != nil {
			log.Errorf("save scene: %v", err)
		} else {
			log.Infof("scene saved to %s and %s", scene.Names.Emitters, scene.Names.Effects)
		}
	}
	if input.JustPressed[KeyF6] {
		if err := scene.Reload(state.Sim(), state.Chain()); err != nil {
			log.Errorf("reload scene: %v", err)
		} else {
			log.Infof("scene reloaded")
		}
	}
}

// Load fills an empty scene at startup. A document that was never saved is
// replaced by the built-in default with a warning. A stored document that
// fails to import is an error.
func (s *SceneState) Load(sm *sim.Simulation, chain *fx.Chain, log Logger) error {
	data, err := s.Store.Load(s.Names.Emitters)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Warnf("no stored emitters (%v), using the default scene", err)
		if err := sm.Import(sim.DefaultScene()); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err := sm.UnmarshalScene(s.Names.Emitters, data); err != nil {
			return err
		}
	}

	data, err = s.Store.Load(s.Names.Effects)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Warnf("no stored effects (%v), using the default chain", err)
		for _, e := range fx.DefaultEffects() {
			if _, err := chain.Add(e); err != nil {
				return err
			}
		}
	case err != nil:
		return err
	default:
		if err := chain.UnmarshalEffects(fx.Registry(), s.Names.Effects, data); err != nil {
			return err
		}
	}
	return nil
}

// Reload replaces the running scene with the stored one. Each half is left
// untouched when its document is missing or fails to import.
func (s *SceneState) Reload(sm *sim.Simulation, chain *fx.Chain) error {
	data, err := s.Store.Load(s.Names.Emitters)
	if err != nil {
		return err
	}
	if err := sm.UnmarshalScene(s.Names.Emitters, data); err != nil {
		return err
	}
	data, err = s.Store.Load(s.Names.Effects)
	if err != nil {
		return err
	}
	return chain.UnmarshalEffects(fx.Registry(), s.Names.Effects, data)
}

func (s *SceneState) Save(sm *sim.Simulation, chain *fx.Chain) error {
	emitters, err := sm.MarshalScene()
	if err != nil {
		return err
	}
	effects, err := chain.MarshalEffects()
	if err != nil {
		return err
	}
	if err := s.Store.Save(s.Names.Emitters, emitters); err != nil {
		return err
	}
	return s.Store.Save(s.Names.Effects, effects)
}
