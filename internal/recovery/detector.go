// Package recovery detects post-dividend price recovery and aggregates
// recovery behavior across events.
package recovery

import (
	"errors"
	"time"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/lookup"
)

// Errors returned by FindRecovery.
var (
	ErrInvalidTargetPrice = errors.New("target price must be positive")
	ErrInvalidMaxDays     = errors.New("max days must be positive")
)

// FindRecovery scans the first maxDays bars dated on or after startDate for
// the first close at or above targetPrice. maxDays bounds the row count, not
// the calendar span.
//
// RecoveryDays counts rows from the first scanned bar (0 = recovery on the
// start date itself). When no row qualifies the outcome carries the calendar
// days between startDate and the last scanned bar; the reason is
// not_recovered when the full maxDays rows were available and
// insufficient_data when the series ended early. An empty scan range yields
// no_data.
//
// bars must be sorted by Date ASC. Only closes are read.
func FindRecovery(bars []*domain.PricePoint, startDate time.Time, targetPrice float64, maxDays int) (domain.RecoveryOutcome, error) {
	if targetPrice <= 0 {
		return domain.RecoveryOutcome{}, ErrInvalidTargetPrice
	}
	if maxDays <= 0 {
		return domain.RecoveryOutcome{}, ErrInvalidMaxDays
	}

	start := lookup.FirstAtOrAfter(bars, startDate)
	post := bars[start:]
	if len(post) == 0 {
		return domain.RecoveryOutcome{
			Recovered: false,
			Reason:    domain.ReasonNoData,
		}, nil
	}

	window := post
	if len(window) > maxDays {
		window = window[:maxDays]
	}

	for i, b := range window {
		if b.Close >= targetPrice {
			days := i
			date := b.Date
			price := b.Close
			return domain.RecoveryOutcome{
				Recovered:     true,
				Reason:        domain.ReasonRecovered,
				RecoveryDate:  &date,
				RecoveryPrice: &price,
				RecoveryDays:  &days,
			}, nil
		}
	}

	elapsed := int(window[len(window)-1].Date.Sub(startDate).Hours() / 24)
	reason := domain.ReasonInsufficientData
	if len(window) == maxDays {
		reason = domain.ReasonNotRecovered
	}
	return domain.RecoveryOutcome{
		Recovered:    false,
		Reason:       reason,
		RecoveryDays: &elapsed,
	}, nil
}
