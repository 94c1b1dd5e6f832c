package ratio

import "math"

// AtLeast scores a ratio where more is better up to target t:
// 100 * min(1, r/t).
func AtLeast(r, t float64) float64 {
	if t <= 0 {
		return 100
	}
	return 100 * math.Min(1, math.Max(r, 0)/t)
}

// Ideal scores a ratio with an ideal value t. Below t it behaves like
// AtLeast; above t it decays as 100 * exp(-(r-t)/t).
func Ideal(r, t float64) float64 {
	if r <= t {
		return AtLeast(r, t)
	}
	return 100 * math.Exp(-(r-t)/t)
}

// AtMost scores a ratio where less is better: 100 up to m, then falling
// linearly to 0 at r = 1.
func AtMost(r, m float64) float64 {
	switch {
	case r <= m:
		return 100
	case m >= 1 || r >= 1:
		return 0
	}
	return 100 * (1 - r) / (1 - m)
}
