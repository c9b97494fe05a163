package arixtree

import "math"

// Smoothstep is the cubic Hermite ease t²(3-2t). Inputs outside [0, 1] are
// clamped, so the result always lies in [0, 1] with zero slope at both ends.
func Smoothstep(t float64) float64 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}

// Damp moves current toward target by the frame-rate independent factor
// min(1, dt*speed). It never overshoots target.
func Damp(current, target, dt, speed float64) float64 {
	k := math.Min(1, math.Max(0, dt*speed))
	return current + (target-current)*k
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
