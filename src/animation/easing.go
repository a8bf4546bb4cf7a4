package animation

import "math"

// Curve names accepted by Ease.
const (
	Linear        = "linear"
	EaseIn        = "easeIn"
	EaseOut       = "easeOut"
	EaseInOut     = "easeInOut"
	FastOutSlowIn = "fastOutSlowIn"
	Decelerate    = "decelerate"
	BounceOut     = "bounceOut"
)

type easingFunc func(t float64) float64

var curves = map[string]easingFunc{
	Linear:        func(t float64) float64 { return t },
	EaseIn:        func(t float64) float64 { return t * t * t },
	EaseOut:       easeOut,
	EaseInOut:     easeInOut,
	FastOutSlowIn: cubicBezier(0.4, 0.0, 0.2, 1.0),
	Decelerate:    decelerate,
	BounceOut:     bounceOut,
}

// -----------------------------------------------------------------------------

// Ease maps t in [0,1] through the named curve. Unknown names fall back to
// linear and t is clamped first.
func Ease(curve string, t float64) float64 {
	t = clamp01(t)
	fn, ok := curves[curve]
	if !ok {
		return t
	}
	return fn(t)
}

// Known reports whether curve names a built-in curve.
func Known(curve string) bool {
	_, ok := curves[curve]
	return ok
}

// -----------------------------------------------------------------------------

func easeOut(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

func decelerate(t float64) float64 {
	u := 1 - t
	return 1 - u*u
}

func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

func bounceOut(t float64) float64 {
	const n1, d1 = 7.5625, 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// cubicBezier builds a CSS-style timing function through (0,0), (x1,y1),
// (x2,y2), (1,1). x is inverted by bisection.
func cubicBezier(x1, y1, x2, y2 float64) easingFunc {
	sample := func(a, b, s float64) float64 {
		u := 1 - s
		return 3*u*u*s*a + 3*u*s*s*b + s*s*s
	}
	return func(t float64) float64 {
		if t <= 0 || t >= 1 {
			return t
		}
		lo, hi := 0.0, 1.0
		s := t
		for i := 0; i < 40; i++ {
			x := sample(x1, x2, s)
			if math.Abs(x-t) < 1e-7 {
				break
			}
			if x < t {
				lo = s
			} else {
				hi = s
			}
			s = (lo + hi) / 2
		}
		return sample(y1, y2, s)
	}
}

func clamp01(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
