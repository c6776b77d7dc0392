package animation

import gomath "math"

// Easing maps linear progress in [0,1] to eased progress in [0,1].
type Easing func(t float64) float64

// EaseInOutCubic accelerates through the first half and decelerates through
// the second.
func EaseInOutCubic(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return (t-1)*(2*t-2)*(2*t-2) + 1
}

// EaseOutQuint starts fast and settles slowly near completion.
func EaseOutQuint(t float64) float64 {
	t = clamp01(t)
	return 1 - gomath.Pow(1-t, 5)
}

// Linear is the identity curve.
func Linear(t float64) float64 {
	return clamp01(t)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
