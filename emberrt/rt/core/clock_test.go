package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock_TickUsesSource(t *testing.T) {
	now := time.Unix(100, 0)
	clock := NewClockWithSource(func() time.Time { return now })

	now = now.Add(250 * time.Millisecond)
	clock.Tick()
	assert.Equal(t, uint64(1), clock.Frame)
	assert.InDelta(t, 0.25, clock.DeltaSec, 1e-6)
	assert.InDelta(t, 0.25, clock.ElapsedSec, 1e-9)

	now = now.Add(500 * time.Millisecond)
	clock.Tick()
	assert.Equal(t, uint64(2), clock.Frame)
	assert.InDelta(t, 0.75, clock.ElapsedSec, 1e-9)
}

func TestClock_Parity(t *testing.T) {
	clock := &Clock{}
	for i := 0; i < 5; i++ {
		assert.NotEqual(t, clock.Parity(), clock.AltParity())
		assert.Equal(t, int(clock.Frame%2), clock.Parity())
		clock.Advance(time.Millisecond)
	}
}

func TestClock_PauseFreezesTime(t *testing.T) {
	clock := &Clock{}
	clock.Advance(time.Second)
	clock.TogglePause()

	parity := clock.Parity()
	clock.Advance(time.Second)
	assert.Equal(t, float32(0), clock.DeltaSec)
	assert.InDelta(t, 1.0, clock.ElapsedSec, 1e-9)
	assert.NotEqual(t, parity, clock.Parity())

	clock.TogglePause()
	clock.Advance(time.Second)
	assert.InDelta(t, 2.0, clock.ElapsedSec, 1e-9)
}
