package ember

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/ember/emberrt/rt/core"
)

func TestStatusLine(t *testing.T) {
	clock := core.NewClockWithSource(func() time.Time { return time.Unix(0, 0) })
	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, "t=1.50s  fps=60  view=slot 3", StatusLine(clock, 3, 59.8))

	clock.TogglePause()
	assert.Equal(t, "t=1.50s  fps=0  view=slot 0  PAUSED", StatusLine(clock, 0, 0))
}
