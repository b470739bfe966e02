package pattern

import (
	"time"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/lookup"
)

// RecoveryMetrics represents the post-ex-date gap and recovery measurements
// of one dividend event.
type RecoveryMetrics struct {
	DMinus1Close   float64
	D0Open         float64
	GapPct         float64
	ExpectedGapPct float64

	RecoveryD5Pct     *float64
	RecoveryD10Pct    *float64
	RecoveryD15Pct    *float64
	GapRecoveryD5Pct  *float64
	GapRecoveryD10Pct *float64
	GapRecoveryD15Pct *float64

	DaysTo50PctGap  *int
	DaysTo100PctGap *int
}

var recoveryCheckpoints = []int{5, 10, 15}

// CalculateRecoveryMetrics measures the ex-dividend gap and subsequent
// recovery. Requires a bar strictly before exDate (D-1 close) and one on or
// after it (D0 open); returns nil when either is missing.
//
// Checkpoint recovery uses the close of the first bar dated on or after
// exDate+N, measured against the D0 open. Gap recovery is the checkpoint
// recovery as a percentage of |gap_pct|, capped at 100 and undefined when the
// gap is zero. The days-to counters scan at most horizonDays+5 rows from the
// ex-date.
func CalculateRecoveryMetrics(bars []*domain.PricePoint, exDate time.Time, dividendAmount float64, horizonDays int) *RecoveryMetrics {
	prev := lookup.LastBefore(bars, exDate)
	if prev < 0 {
		return nil
	}
	d0 := lookup.FirstAtOrAfter(bars, exDate)
	if d0 >= len(bars) {
		return nil
	}

	dMinus1Close := bars[prev].Close
	d0Open := bars[d0].Open

	m := &RecoveryMetrics{
		DMinus1Close:   dMinus1Close,
		D0Open:         d0Open,
		GapPct:         (d0Open - dMinus1Close) / dMinus1Close * 100,
		ExpectedGapPct: dividendAmount / dMinus1Close * 100,
	}

	absGap := m.GapPct
	if absGap < 0 {
		absGap = -absGap
	}

	for _, days := range recoveryCheckpoints {
		if days > horizonDays {
			continue
		}
		i := lookup.FirstAtOrAfter(bars, exDate.AddDate(0, 0, days))
		if i >= len(bars) {
			continue
		}
		recoveryPct := (bars[i].Close - d0Open) / d0Open * 100

		var gapRecovery *float64
		if m.GapPct != 0 {
			g := recoveryPct / absGap * 100
			if g > 100 {
				g = 100
			}
			gapRecovery = &g
		}

		switch days {
		case 5:
			m.RecoveryD5Pct = &recoveryPct
			m.GapRecoveryD5Pct = gapRecovery
		case 10:
			m.RecoveryD10Pct = &recoveryPct
			m.GapRecoveryD10Pct = gapRecovery
		case 15:
			m.RecoveryD15Pct = &recoveryPct
			m.GapRecoveryD15Pct = gapRecovery
		}
	}

	if m.GapPct != 0 {
		future := bars[d0:]
		if len(future) > horizonDays+5 {
			future = future[:horizonDays+5]
		}
		for idx, b := range future {
			recoveryPct := (b.Close - d0Open) / d0Open * 100
			gapRecovered := recoveryPct / absGap * 100

			if m.DaysTo50PctGap == nil && gapRecovered >= 50 {
				d := idx
				m.DaysTo50PctGap = &d
			}
			if m.DaysTo100PctGap == nil && gapRecovered >= 100 {
				d := idx
				m.DaysTo100PctGap = &d
			}
			if m.DaysTo50PctGap != nil && m.DaysTo100PctGap != nil {
				break
			}
		}
	}

	return m
}
