package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// LifeCycle is a repeating [FromSec, UntilSec) window inside a loop of
// LifetimeSec seconds.
type LifeCycle struct {
	FromSec     float32 `json:"from_sec"`
	UntilSec    float32 `json:"until_sec"`
	LifetimeSec float32 `json:"lifetime_sec"`
	Ease        string  `json:"ease,omitempty"`
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_cubic":     ease.InCubic,
	"out_cubic":    ease.OutCubic,
	"in_out_cubic": ease.InOutCubic,
	"in_sine":      ease.InSine,
	"out_sine":     ease.OutSine,
	"in_out_sine":  ease.InOutSine,
	"out_bounce":   ease.OutBounce,
}

// Easings lists the easing names accepted in LifeCycle.Ease.
func Easings() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func NewLifeCycle(fromSec, untilSec, lifetimeSec float32) (LifeCycle, error) {
	lc := LifeCycle{FromSec: fromSec, UntilSec: untilSec, LifetimeSec: lifetimeSec}
	return lc, lc.Validate()
}

// Validate enforces 0 <= from < until <= lifetime. Equal bounds are rejected.
func (lc LifeCycle) Validate() error {
	if lc.FromSec < 0 || lc.UntilSec > lc.LifetimeSec {
		return fmt.Errorf("%w: window [%g, %g) outside loop of %g sec", ErrInvalidLifeCycle, lc.FromSec, lc.UntilSec, lc.LifetimeSec)
	}
	if lc.FromSec >= lc.UntilSec {
		return fmt.Errorf("%w: from_sec %g must be below until_sec %g", ErrInvalidLifeCycle, lc.FromSec, lc.UntilSec)
	}
	if lc.Ease != "" {
		if _, ok := easings[lc.Ease]; !ok {
			return fmt.Errorf("%w: unknown ease %q", ErrInvalidLifeCycle, lc.Ease)
		}
	}
	return nil
}

// CurrentSec converts absolute elapsed time into the loop-relative phase.
func (lc LifeCycle) CurrentSec(elapsedSec float64) float32 {
	if lc.LifetimeSec <= 0 {
		return 0
	}
	return float32(math.Mod(elapsedSec, float64(lc.LifetimeSec)))
}

func (lc LifeCycle) ShouldAnimate(currentSec float32) bool {
	return lc.FromSec <= currentSec && currentSec < lc.UntilSec
}

// Fraction is the linear progress through the window, clamped to [0, 1].
// A zero-width window yields 0.
func (lc LifeCycle) Fraction(currentSec float32) float32 {
	span := lc.UntilSec - lc.FromSec
	if span <= 0 {
		return 0
	}
	f := (currentSec - lc.FromSec) / span
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Progress is Fraction shaped by the configured easing curve.
func (lc LifeCycle) Progress(currentSec float32) float32 {
	fn, ok := easings[lc.Ease]
	if !ok || lc.Ease == "linear" {
		return lc.Fraction(currentSec)
	}
	span := lc.UntilSec - lc.FromSec
	if span <= 0 {
		return 0
	}
	t := lc.Fraction(currentSec) * span
	v, _ := gween.New(0, 1, span, fn).Set(t)
	return v
}
