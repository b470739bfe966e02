// Package stats provides the numeric primitives shared by the analysis
// packages: descriptive statistics, rank and product-moment correlations,
// vector similarity, and one-way ANOVA.
package stats

import (
	"math"
	"sort"
)

// Mean calculates the arithmetic mean. Returns NaN for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// SampleStddev calculates sample standard deviation (n-1 denominator).
// Returns 0 when fewer than 2 samples.
func SampleStddev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	mean := Mean(xs)
	sumSq := 0.0
	for _, x := range xs {
		diff := x - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// PopulationStddev calculates population standard deviation (n denominator).
func PopulationStddev(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	mean := Mean(xs)
	sumSq := 0.0
	for _, x := range xs {
		diff := x - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n))
}

// Percentile uses linear interpolation.
// sorted must be pre-sorted ASC. p in [0, 1].
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// Median returns the 50th percentile of xs (input order preserved).
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return Percentile(sorted, 0.50)
}

// IQR returns the interquartile range (P75 - P25) of xs.
func IQR(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return Percentile(sorted, 0.75) - Percentile(sorted, 0.25)
}

// Finite returns the values of xs that are neither NaN nor Inf.
func Finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}
