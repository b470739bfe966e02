// Package indicators computes the technical indicators attached to
// pre-dividend feature sets: RSI and the stochastic oscillator.
package indicators

import (
	"math"

	"dividend-recovery-lab/internal/domain"
)

// DefaultRSIPeriod and friends match the dashboard parameterization.
const (
	DefaultRSIPeriod   = 14
	DefaultStochPeriod = 14
	DefaultStochSmooth = 3
)

// RSI calculates the Relative Strength Index over closes using simple moving
// averages of gains and losses:
//
//	RSI = 100 - 100 / (1 + avgGain/avgLoss)
//
// The result is aligned with closes; entries before the warmup window are NaN.
// When avgLoss is zero the value saturates at 100 (NaN when avgGain is also zero).
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || n <= period {
		return out
	}

	for i := period; i < n; i++ {
		var gains, losses float64
		for j := i - period + 1; j <= i; j++ {
			delta := closes[j] - closes[j-1]
			if delta > 0 {
				gains += delta
			} else {
				losses -= delta
			}
		}
		avgGain := gains / float64(period)
		avgLoss := losses / float64(period)

		switch {
		case avgLoss == 0 && avgGain == 0:
			// flat window, undefined
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// StochasticK calculates the raw stochastic oscillator:
//
//	%K = 100 * (close - lowestLow(period)) / (highestHigh(period) - lowestLow(period))
//
// Entries before the warmup window, or where the range is zero, are NaN.
func StochasticK(bars []*domain.PricePoint, period int) []float64 {
	n := len(bars)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || n < period {
		return out
	}

	for i := period - 1; i < n; i++ {
		lowest := bars[i].Low
		highest := bars[i].High
		for j := i - period + 1; j <= i; j++ {
			if bars[j].Low < lowest {
				lowest = bars[j].Low
			}
			if bars[j].High > highest {
				highest = bars[j].High
			}
		}
		if highest == lowest {
			continue
		}
		out[i] = 100 * (bars[i].Close - lowest) / (highest - lowest)
	}
	return out
}

// StochasticD smooths %K with a simple moving average. Entries whose window
// contains any NaN are NaN.
func StochasticD(k []float64, smooth int) []float64 {
	n := len(k)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if smooth <= 0 || n < smooth {
		return out
	}

	for i := smooth - 1; i < n; i++ {
		sum := 0.0
		valid := true
		for j := i - smooth + 1; j <= i; j++ {
			if math.IsNaN(k[j]) {
				valid = false
				break
			}
			sum += k[j]
		}
		if valid {
			out[i] = sum / float64(smooth)
		}
	}
	return out
}

// LastRSI returns the RSI of the final bar, false when undefined.
func LastRSI(bars []*domain.PricePoint, period int) (float64, bool) {
	if len(bars) == 0 {
		return 0, false
	}
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	v := RSI(closes, period)[len(bars)-1]
	return v, !math.IsNaN(v)
}

// LastStochasticK returns the %K of the final bar, false when undefined.
func LastStochasticK(bars []*domain.PricePoint, period int) (float64, bool) {
	if len(bars) == 0 {
		return 0, false
	}
	v := StochasticK(bars, period)[len(bars)-1]
	return v, !math.IsNaN(v)
}
