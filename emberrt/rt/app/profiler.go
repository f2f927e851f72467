package app

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed section of a renderer frame.
type Phase int

const (
	PhaseUpdate Phase = iota
	PhaseSimulate
	PhaseDraw
	PhaseFX
	PhasePresent
	phaseCount
)

var phaseNames = [phaseCount]string{"update", "simulate", "draw", "fx", "present"}

func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// FrameStats are the scene counters shown under the timings.
type FrameStats struct {
	Emitters  int
	Particles int
	FxNodes   int
}

// Profiler keeps the last and a smoothed CPU time for every frame phase.
type Profiler struct {
	Last    [phaseCount]time.Duration
	Average [phaseCount]time.Duration
	Stats   FrameStats

	// Smoothing is the weight of the newest sample in Average.
	Smoothing float64

	now func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{Smoothing: 0.1, now: time.Now}
}

// Begin starts timing phase and returns the func that stops it:
//
//	defer p.Begin(PhaseUpdate)()
func (p *Profiler) Begin(phase Phase) func() {
	start := p.now()
	return func() { p.record(phase, p.now().Sub(start)) }
}

func (p *Profiler) record(phase Phase, d time.Duration) {
	p.Last[phase] = d
	if p.Average[phase] == 0 {
		p.Average[phase] = d
		return
	}
	avg := float64(p.Average[phase])
	p.Average[phase] = time.Duration(avg + p.Smoothing*(float64(d)-avg))
}

// Total is the CPU time of the last frame over all phases.
func (p *Profiler) Total() time.Duration {
	var total time.Duration
	for _, d := range p.Last {
		total += d
	}
	return total
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// String renders the overlay block: one line per phase with the last and
// the smoothed time in milliseconds, then the counters.
func (p *Profiler) String() string {
	var sb strings.Builder
	sb.WriteString("cpu ms       last    avg\n")
	for ph := Phase(0); ph < phaseCount; ph++ {
		fmt.Fprintf(&sb, "  %-9s %6.2f %6.2f\n", ph, ms(p.Last[ph]), ms(p.Average[ph]))
	}
	fmt.Fprintf(&sb, "  %-9s %6.2f\n", "total", ms(p.Total()))
	fmt.Fprintf(&sb, "emitters %d  particles %d  fx %d\n",
		p.Stats.Emitters, p.Stats.Particles, p.Stats.FxNodes)
	return sb.String()
}
