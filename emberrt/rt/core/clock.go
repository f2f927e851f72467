package core

import (
	"time"
)

// Clock is the per-frame time source. It is advanced once per frame by the
// orchestrator and read everywhere else.
type Clock struct {
	ElapsedSec float64
	DeltaSec   float32
	Frame      uint64
	Paused     bool

	now  func() time.Time
	last time.Time
}

func NewClock() *Clock {
	return NewClockWithSource(time.Now)
}

// NewClockWithSource builds a clock reading wall time from now.
func NewClockWithSource(now func() time.Time) *Clock {
	return &Clock{
		now:  now,
		last: now(),
	}
}

// Tick recomputes delta from wall time and increments the frame counter.
func (c *Clock) Tick() {
	if c.now == nil {
		c.now = time.Now
		c.last = c.now()
	}
	t := c.now()
	dt := t.Sub(c.last)
	c.last = t
	c.Advance(dt)
}

// Advance steps the clock by a fixed duration. The frame counter always moves
// so parity keeps alternating while paused.
func (c *Clock) Advance(dt time.Duration) {
	c.Frame++
	if c.Paused || dt < 0 {
		c.DeltaSec = 0
		return
	}
	c.DeltaSec = float32(dt.Seconds())
	c.ElapsedSec += dt.Seconds()
}

func (c *Clock) Parity() int {
	return int(c.Frame % 2)
}

func (c *Clock) AltParity() int {
	return int((c.Frame + 1) % 2)
}

func (c *Clock) TogglePause() {
	c.Paused = !c.Paused
}
