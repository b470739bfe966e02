package recovery

import (
	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/stats"
)

// Recovery speed buckets, in trading days.
const (
	fastRecoveryMaxDays   = 3
	normalRecoveryMaxDays = 7
)

// Statistics represents aggregate recovery behavior over a batch of events.
type Statistics struct {
	TotalEvents    int
	RecoveredCount int
	WinRate        float64 // RecoveredCount / TotalEvents, 0 when empty

	// Over recovered events only; nil when none recovered.
	AvgRecoveryDays    *float64
	MedianRecoveryDays *float64

	// Over every outcome that observed at least one bar.
	MaxRecoveryDays *int

	FastRecoveries   int // <= 3 days
	NormalRecoveries int // 4..7 days
	SlowRecoveries   int // > 7 days
}

// ComputeStatistics aggregates a batch of recovery outcomes.
func ComputeStatistics(outcomes []domain.RecoveryOutcome) Statistics {
	s := Statistics{TotalEvents: len(outcomes)}
	if len(outcomes) == 0 {
		return s
	}

	var recoveredDays []float64
	var maxDays *int
	for _, o := range outcomes {
		if o.RecoveryDays != nil {
			if maxDays == nil || *o.RecoveryDays > *maxDays {
				d := *o.RecoveryDays
				maxDays = &d
			}
		}
		if !o.Recovered {
			continue
		}
		s.RecoveredCount++
		d := *o.RecoveryDays
		recoveredDays = append(recoveredDays, float64(d))
		switch {
		case d <= fastRecoveryMaxDays:
			s.FastRecoveries++
		case d <= normalRecoveryMaxDays:
			s.NormalRecoveries++
		default:
			s.SlowRecoveries++
		}
	}

	s.WinRate = float64(s.RecoveredCount) / float64(s.TotalEvents)
	s.MaxRecoveryDays = maxDays
	if len(recoveredDays) > 0 {
		avg := stats.Mean(recoveredDays)
		med := stats.Median(recoveredDays)
		s.AvgRecoveryDays = &avg
		s.MedianRecoveryDays = &med
	}
	return s
}
