package ember

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_LevelsAndPrefix(t *testing.T) {
	var out, errOut bytes.Buffer
	l := newDefaultLogger("ember", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	l.Infof("hello %s", "world")
	l.Warnf("careful")
	l.Errorf("broken")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[ember] INFO: hello world")
	assert.Contains(t, errOut.String(), "[ember] WARN: careful")
	assert.Contains(t, errOut.String(), "[ember] ERROR: broken")
}

func TestDefaultLogger_NamedSharesDebugSwitch(t *testing.T) {
	var out bytes.Buffer
	root := newDefaultLogger("ember", false, &out, &out)
	sim := root.Named("sim")

	root.SetDebug(true)
	assert.True(t, sim.DebugEnabled())
	sim.Debugf("recreated")
	assert.Contains(t, out.String(), "[ember/sim] DEBUG: recreated")
}

func TestApp_LoggerNeverNil(t *testing.T) {
	var app *App
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, newApp().Logger())
	assert.NotNil(t, newApp().named("rt"))
}
