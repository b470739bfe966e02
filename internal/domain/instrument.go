package domain

import "time"

// Instrument represents a tracked dividend-paying security.
// Corresponds to instruments table in PostgreSQL.
type Instrument struct {
	Symbol    string // PRIMARY KEY, e.g. "ALV.DE"
	Name      string
	Currency  string
	CreatedAt time.Time
}
