package vmath

import "math"

// Tau is one full rotation in radians
const Tau = 2 * math.Pi

// NormalizeAngle wraps a radian angle into [0, 2π)
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, Tau)
	if a < 0 {
		a += Tau
	}
	// Mod of a tiny negative value can round up to exactly Tau
	if a >= Tau {
		a = 0
	}
	return a
}

// AngleDelta returns the signed shortest rotation from `from` to `to`, in (−π, π]
func AngleDelta(from, to float64) float64 {
	d := math.Mod(to-from, Tau)
	if d <= -math.Pi {
		d += Tau
	} else if d > math.Pi {
		d -= Tau
	}
	return d
}

// RotateToward turns heading toward target by at most maxStep radians
// Returns the new heading normalized into [0, 2π)
func RotateToward(heading, target, maxStep float64) float64 {
	d := AngleDelta(heading, target)
	if math.Abs(d) <= maxStep {
		return NormalizeAngle(target)
	}
	if d > 0 {
		return NormalizeAngle(heading + maxStep)
	}
	return NormalizeAngle(heading - maxStep)
}

// Lerp linearly interpolates between a and b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Frac returns the fractional part of v in [0, 1)
func Frac(v float64) float64 {
	return v - math.Floor(v)
}

// DistSq returns squared Euclidean distance
func DistSq(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}
