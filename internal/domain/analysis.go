package domain

import "time"

// DividendAnalysisRecord represents one fully analyzed dividend event: flattened
// pre-ex-date features plus post-ex-date gap and recovery metrics. Records are
// ephemeral analysis output, never persisted.
//
// Every value in Features is computed exclusively from bars dated strictly before
// ExDate; every recovery metric exclusively from bars on or after ExDate.
type DividendAnalysisRecord struct {
	Symbol   string
	ExDate   time.Time
	Dividend float64 // cash amount per share

	// Features holds window-prefixed pre-dividend features (e.g. "D-5_D-3_trend_pct"),
	// the anchors "D-1_close" and "D-1_volume", and the indicator features
	// trend_pre, vol_pre, rsi_d1, stoch_k_d1, volume_mean_pre.
	Features map[string]float64

	// Gap metrics, always present on an analyzable record.
	DMinus1Close   float64
	D0Open         float64
	GapPct         float64 // (D0Open/DMinus1Close - 1) * 100
	ExpectedGapPct float64 // Dividend / DMinus1Close * 100

	// Recovery checkpoints: close of the first bar on/after exDate+N vs the
	// D0 open. Nil when the series ends before the checkpoint day.
	RecoveryD5Pct     *float64 // (close - D0Open) / D0Open * 100
	RecoveryD10Pct    *float64
	RecoveryD15Pct    *float64
	GapRecoveryD5Pct  *float64 // pct of the gap recovered, capped at 100; nil when GapPct == 0
	GapRecoveryD10Pct *float64
	GapRecoveryD15Pct *float64

	DaysTo50PctGap  *int // first post-ex-date row index with gap recovery >= 50%
	DaysTo100PctGap *int // first post-ex-date row index with gap recovery >= 100%

	Outcome RecoveryOutcome
}
