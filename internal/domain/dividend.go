package domain

import "time"

// DividendEvent represents a single cash dividend with its ex-date.
// Corresponds to dividend_events table in PostgreSQL.
type DividendEvent struct {
	Symbol string    // instrument identifier
	ExDate time.Time // first trading day without dividend entitlement, UTC midnight
	Amount float64   // cash amount per share, must be > 0
}
