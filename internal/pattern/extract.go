package pattern

import (
	"fmt"
	"time"

	"dividend-recovery-lab/internal/config"
	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/lookup"
)

// ExtractPreDividendFeatures applies the window extractor over the configured
// named windows and flattens the results into one feature map, keys prefixed
// by window name (e.g. "D-5_D-3_trend_pct"). Windows with fewer than two bars
// are skipped. Also attaches "D-1_close" and "D-1_volume" from the last bar
// strictly before exDate when one exists.
func ExtractPreDividendFeatures(bars []*domain.PricePoint, exDate time.Time, windows []config.Window) map[string]float64 {
	features := make(map[string]float64)

	for _, w := range windows {
		f := CalculateWindowFeatures(bars, w.Start, w.End, exDate)
		if f == nil {
			continue
		}
		features[fmt.Sprintf("%s_trend_pct", w.Name)] = f.TrendPct
		features[fmt.Sprintf("%s_volatility", w.Name)] = f.Volatility
		features[fmt.Sprintf("%s_avg_volume", w.Name)] = f.AvgVolume
		features[fmt.Sprintf("%s_volume_trend_pct", w.Name)] = f.VolumeTrendPct
		features[fmt.Sprintf("%s_max_drawdown_pct", w.Name)] = f.MaxDrawdownPct
		features[fmt.Sprintf("%s_num_up_days", w.Name)] = float64(f.NumUpDays)
		features[fmt.Sprintf("%s_num_down_days", w.Name)] = float64(f.NumDownDays)
	}

	if i := lookup.LastBefore(bars, exDate); i >= 0 {
		features["D-1_close"] = bars[i].Close
		features["D-1_volume"] = bars[i].Volume
	}

	return features
}
