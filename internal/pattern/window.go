// Package pattern extracts pre-dividend features and post-dividend recovery
// metrics from bar series and mines the resulting dataset for correlations
// and similar historical patterns.
package pattern

import (
	"time"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/lookup"
	"dividend-recovery-lab/internal/stats"
)

// CalculateWindowFeatures computes trend, volatility and volume statistics
// over the inclusive calendar window [exDate+startOffset, exDate+endOffset].
// Offsets are negative for pre-dividend windows. Returns nil when fewer than
// two bars fall inside the window.
//
// Formulas, with returns[i] = close[i]/close[i-1] - 1:
//
//	trend_pct        = (close[last]/close[first] - 1) * 100
//	volatility       = sampleStddev(returns) * 100
//	volume_trend_pct = (volume[last]/volume[first] - 1) * 100, 0 when volume[first] == 0
//	max_drawdown_pct = (min(close)/max(close) - 1) * 100
func CalculateWindowFeatures(bars []*domain.PricePoint, startOffset, endOffset int, exDate time.Time) *domain.WindowFeatureSet {
	start := exDate.AddDate(0, 0, startOffset)
	end := exDate.AddDate(0, 0, endOffset)
	window := lookup.Window(bars, start, end)
	if len(window) < 2 {
		return nil
	}

	first := window[0]
	last := window[len(window)-1]

	returns := make([]float64, 0, len(window)-1)
	volumes := make([]float64, 0, len(window))
	minClose := first.Close
	maxClose := first.Close
	upDays := 0
	downDays := 0

	volumes = append(volumes, first.Volume)
	for i := 1; i < len(window); i++ {
		b := window[i]
		r := b.Close/window[i-1].Close - 1
		returns = append(returns, r)
		volumes = append(volumes, b.Volume)
		if r > 0 {
			upDays++
		} else if r < 0 {
			downDays++
		}
		if b.Close < minClose {
			minClose = b.Close
		}
		if b.Close > maxClose {
			maxClose = b.Close
		}
	}

	volumeTrendPct := 0.0
	if first.Volume != 0 {
		volumeTrendPct = (last.Volume/first.Volume - 1) * 100
	}

	return &domain.WindowFeatureSet{
		TrendPct:       (last.Close/first.Close - 1) * 100,
		Volatility:     stats.SampleStddev(returns) * 100,
		AvgVolume:      stats.Mean(volumes),
		VolumeTrendPct: volumeTrendPct,
		MaxDrawdownPct: (minClose/maxClose - 1) * 100,
		NumUpDays:      upDays,
		NumDownDays:    downDays,
	}
}
