// Package stats provides statistical utility functions for analyzers.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Percentile calculates the p-th percentile of a sorted slice.
// The slice must already be sorted in ascending order.
// Returns 0 if the slice is empty.
func Percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(float64(p)/100, stat.Empirical, sorted, nil)
}

// PercentileOfInts sorts a copy of values and returns its p-th percentile.
func PercentileOfInts(values []int, p int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	for i, v := range values {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)
	return Percentile(sorted, p)
}

// WeightedStdDev returns the population standard deviation of xs weighted by
// ws. Returns 0 for fewer than two values or a zero total weight.
func WeightedStdDev(xs, ws []float64) float64 {
	if len(xs) < 2 || len(xs) != len(ws) {
		return 0
	}
	total := 0.0
	for _, w := range ws {
		total += w
	}
	if total <= 0 {
		return 0
	}
	_, sd := stat.PopMeanStdDev(xs, ws)
	if math.IsNaN(sd) {
		return 0
	}
	return sd
}

// SafeDiv returns num/den, or 0 when den is 0.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
