// Package config loads the engine's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/ember/emberrt/rt/fx"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	BackendFile  = "file"
	BackendGdata = "gdata"
)

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type Storage struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	AppName string `yaml:"app_name"`
}

// Scene names the two stored documents.
type Scene struct {
	Emitters string `yaml:"emitters"`
	Effects  string `yaml:"effects"`
}

type FX struct {
	ViewSlot uint32 `yaml:"view_slot"`
}

type Config struct {
	Window     Window  `yaml:"window"`
	Debug      bool    `yaml:"debug"`
	ClearColor string  `yaml:"clear_color"`
	Storage    Storage `yaml:"storage"`
	Scene      Scene   `yaml:"scene"`
	FX         FX      `yaml:"fx"`
}

func Default() Config {
	return Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "Ember",
			VSync:  true,
		},
		ClearColor: "#05060a",
		Storage: Storage{
			Backend: BackendFile,
			Dir:     "scenes",
			AppName: "ember",
		},
		Scene: Scene{
			Emitters: "emitters",
			Effects:  "effects",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if _, err := colorful.Hex(c.ClearColor); err != nil {
		return fmt.Errorf("%w: clear_color %q", ErrInvalidConfig, c.ClearColor)
	}
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("%w: storage.dir is empty", ErrInvalidConfig)
		}
	case BackendGdata:
		if c.Storage.AppName == "" {
			return fmt.Errorf("%w: storage.app_name is empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: storage.backend %q", ErrInvalidConfig, c.Storage.Backend)
	}
	if c.Scene.Emitters == "" || c.Scene.Effects == "" || c.Scene.Emitters == c.Scene.Effects {
		return fmt.Errorf("%w: scene names %q/%q", ErrInvalidConfig, c.Scene.Emitters, c.Scene.Effects)
	}
	if c.FX.ViewSlot >= fx.SlotCount {
		return fmt.Errorf("%w: fx.view_slot %d", ErrInvalidConfig, c.FX.ViewSlot)
	}
	return nil
}

// Clear returns the clear color as linear RGB.
func (c Config) Clear() (r, g, b float64) {
	col, err := colorful.Hex(c.ClearColor)
	if err != nil {
		return 0, 0, 0
	}
	return col.LinearRgb()
}
