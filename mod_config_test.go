package ember

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/ember/emberrt/rt/config"
	"github.com/gekko3d/ember/emberrt/rt/core"
)

func TestConfigModule_AddsResource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: {title: Test}\nfx: {view_slot: 2}\n"), 0o644))

	app := NewAppBuilder().
		UseModule(LoggingModule{}, ConfigModule{Path: path, Debug: true}).
		Build()

	cfg, ok := Resource[config.Config](app)
	require.True(t, ok)
	assert.Equal(t, "Test", cfg.Window.Title)
	assert.Equal(t, uint32(2), cfg.FX.ViewSlot)
	assert.True(t, cfg.Debug)
	assert.True(t, app.Logger().DebugEnabled())
}

func TestConfigModule_InvalidConfigPanics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clear_color: nope\n"), 0o644))
	assert.Panics(t, func() {
		NewAppBuilder().UseModule(ConfigModule{Path: path}).Build()
	})
}

func TestClockModule_TicksInPrelude(t *testing.T) {
	app := NewAppBuilder().UseModule(ClockModule{}, ClockModule{}).Build()
	clock, ok := Resource[core.Clock](app)
	require.True(t, ok)
	app.Step()
	app.Step()
	assert.Equal(t, uint64(2), clock.Frame)
}
