package domain

import "time"

// RecoveryReason classifies the outcome of a post-dividend recovery scan.
type RecoveryReason string

const (
	ReasonRecovered        RecoveryReason = "recovered"
	ReasonNotRecovered     RecoveryReason = "not_recovered"
	ReasonInsufficientData RecoveryReason = "insufficient_data"
	ReasonNoData           RecoveryReason = "no_data"
)

// RecoveryOutcome is the result of scanning a bar series for the first close
// at or above a target price within a bounded horizon after the ex-date.
type RecoveryOutcome struct {
	Recovered     bool
	Reason        RecoveryReason
	RecoveryDate  *time.Time // nil unless Recovered
	RecoveryPrice *float64   // close on RecoveryDate, nil unless Recovered
	// RecoveryDays counts trading days from scan start when Recovered (0 = same day).
	// When not recovered it holds the calendar days actually observed; nil when no
	// scan took place (no data).
	RecoveryDays *int
}
