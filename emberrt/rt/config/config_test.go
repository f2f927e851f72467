package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ember.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  width: 800
  title: Sparks
debug: true
clear_color: "#ffffff"
storage:
  backend: gdata
  app_name: sparks
fx:
  view_slot: 3
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, "Sparks", cfg.Window.Title)
	assert.True(t, cfg.Debug)
	assert.Equal(t, BackendGdata, cfg.Storage.Backend)
	assert.Equal(t, "sparks", cfg.Storage.AppName)
	assert.Equal(t, "emitters", cfg.Scene.Emitters)
	assert.Equal(t, uint32(3), cfg.FX.ViewSlot)

	r, g, b := cfg.Clear()
	assert.InDelta(t, 1, r, 1e-9)
	assert.InDelta(t, 1, g, 1e-9)
	assert.InDelta(t, 1, b, 1e-9)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"size":       "window: {width: 0}\n",
		"color":      "clear_color: orange\n",
		"backend":    "storage: {backend: s3}\n",
		"empty dir":  "storage: {backend: file, dir: ''}\n",
		"same names": "scene: {emitters: a, effects: a}\n",
		"view slot":  "fx: {view_slot: 16}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "window: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
