package pattern

import (
	"log"
	"time"

	"dividend-recovery-lab/internal/config"
	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/indicators"
	"dividend-recovery-lab/internal/lookup"
	"dividend-recovery-lab/internal/recovery"
	"dividend-recovery-lab/internal/stats"
)

// Analyzer combines feature extraction, recovery metrics and the recovery
// scan into per-event analysis records.
type Analyzer struct {
	cfg    *config.Config
	logger *log.Logger
}

// NewAnalyzer creates an Analyzer. logger may be nil for silent operation.
func NewAnalyzer(cfg *config.Config, logger *log.Logger) *Analyzer {
	return &Analyzer{cfg: cfg, logger: logger}
}

func (a *Analyzer) logf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}

// AnalyzeDividend analyzes a single dividend event. Returns nil (a logged
// skip, not an error) when the series has less than lookbackDays bars before
// the ex-date, or when the gap anchors are missing.
func (a *Analyzer) AnalyzeDividend(bars []*domain.PricePoint, exDate time.Time, amount float64) *domain.DividendAnalysisRecord {
	preCount := lookup.CountBefore(bars, exDate)
	if preCount < a.cfg.LookbackDays {
		a.logf("analyze %s: %d pre-ex-date bars, need %d, skipping", exDate.Format("2006-01-02"), preCount, a.cfg.LookbackDays)
		return nil
	}

	features := ExtractPreDividendFeatures(bars, exDate, a.cfg.Windows)
	if len(features) == 0 {
		a.logf("analyze %s: no extractable features, skipping", exDate.Format("2006-01-02"))
		return nil
	}

	metrics := CalculateRecoveryMetrics(bars, exDate, amount, a.cfg.RecoveryHorizonDays)
	if metrics == nil {
		a.logf("analyze %s: missing gap anchors, skipping", exDate.Format("2006-01-02"))
		return nil
	}

	a.attachIndicatorFeatures(features, bars[:preCount])

	outcome, err := recovery.FindRecovery(bars, exDate, metrics.DMinus1Close, a.cfg.MaxRecoveryDays)
	if err != nil {
		a.logf("analyze %s: recovery scan: %v, skipping", exDate.Format("2006-01-02"), err)
		return nil
	}

	symbol := ""
	if len(bars) > 0 {
		symbol = bars[0].Symbol
	}

	return &domain.DividendAnalysisRecord{
		Symbol:            symbol,
		ExDate:            exDate,
		Dividend:          amount,
		Features:          features,
		DMinus1Close:      metrics.DMinus1Close,
		D0Open:            metrics.D0Open,
		GapPct:            metrics.GapPct,
		ExpectedGapPct:    metrics.ExpectedGapPct,
		RecoveryD5Pct:     metrics.RecoveryD5Pct,
		RecoveryD10Pct:    metrics.RecoveryD10Pct,
		RecoveryD15Pct:    metrics.RecoveryD15Pct,
		GapRecoveryD5Pct:  metrics.GapRecoveryD5Pct,
		GapRecoveryD10Pct: metrics.GapRecoveryD10Pct,
		GapRecoveryD15Pct: metrics.GapRecoveryD15Pct,
		DaysTo50PctGap:    metrics.DaysTo50PctGap,
		DaysTo100PctGap:   metrics.DaysTo100PctGap,
		Outcome:           outcome,
	}
}

// attachIndicatorFeatures adds the lookback aggregates and last-bar
// indicators used by clustering. preBars holds every bar strictly before the
// ex-date; aggregates cover its trailing lookbackDays rows.
func (a *Analyzer) attachIndicatorFeatures(features map[string]float64, preBars []*domain.PricePoint) {
	window := preBars
	if len(window) > a.cfg.LookbackDays {
		window = window[len(window)-a.cfg.LookbackDays:]
	}
	if len(window) >= 2 {
		first := window[0]
		last := window[len(window)-1]
		if first.Close > 0 {
			features["trend_pre"] = last.Close/first.Close - 1
		}

		returns := make([]float64, 0, len(window)-1)
		volumes := make([]float64, 0, len(window))
		volumes = append(volumes, first.Volume)
		for i := 1; i < len(window); i++ {
			returns = append(returns, window[i].Close/window[i-1].Close-1)
			volumes = append(volumes, window[i].Volume)
		}
		features["vol_pre"] = stats.SampleStddev(returns)
		features["volume_mean_pre"] = stats.Mean(volumes)
	}

	if rsi, ok := indicators.LastRSI(preBars, indicators.DefaultRSIPeriod); ok {
		features["rsi_d1"] = rsi
	}
	if k, ok := indicators.LastStochasticK(preBars, indicators.DefaultStochPeriod); ok {
		features["stoch_k_d1"] = k
	}
}

// AnalyzeAllDividends analyzes a batch of events against one shared series.
// Returns an empty dataset when fewer than minPatterns events are supplied.
// Individual event failures are skipped, never aborting the batch.
func (a *Analyzer) AnalyzeAllDividends(bars []*domain.PricePoint, events []*domain.DividendEvent) *Dataset {
	ds := &Dataset{}
	if len(events) < a.cfg.MinPatterns {
		a.logf("analyze batch: %d events, need %d for pattern analysis", len(events), a.cfg.MinPatterns)
		return ds
	}

	skipped := 0
	for _, ev := range events {
		rec := a.AnalyzeDividend(bars, ev.ExDate, ev.Amount)
		if rec == nil {
			skipped++
			continue
		}
		ds.Records = append(ds.Records, rec)
	}

	a.logf("analyze batch: %d/%d events analyzed, %d skipped", len(ds.Records), len(events), skipped)
	return ds
}
