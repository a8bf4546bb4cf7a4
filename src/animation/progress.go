package animation

import "time"

// Progress converts elapsed time into an animation progress in [0,1].
// A non-positive duration means the animation is already complete.
func Progress(elapsed, duration time.Duration, curve string) float64 {
	if duration <= 0 {
		return 1
	}
	return Ease(curve, float64(elapsed)/float64(duration))
}

// -----------------------------------------------------------------------------

// Animator tracks one reveal animation against a wall clock.
type Animator struct {
	Start    time.Time
	Duration time.Duration
	Curve    string
}

// NewAnimator starts an animation at now.
func NewAnimator(now time.Time, duration time.Duration, curve string) *Animator {
	return &Animator{Start: now, Duration: duration, Curve: curve}
}

// Value returns the eased progress at now.
func (a *Animator) Value(now time.Time) float64 {
	if a == nil {
		return 1
	}
	return Progress(now.Sub(a.Start), a.Duration, a.Curve)
}

// Done reports whether the animation has reached its end at now.
func (a *Animator) Done(now time.Time) bool {
	if a == nil || a.Duration <= 0 {
		return true
	}
	return now.Sub(a.Start) >= a.Duration
}

// Restart rewinds the animation to now.
func (a *Animator) Restart(now time.Time) {
	a.Start = now
}
