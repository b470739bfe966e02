package domain

import "time"

// PricePoint represents one daily OHLCV bar for an instrument.
// Corresponds to daily_bars table in ClickHouse.
type PricePoint struct {
	Symbol string    // instrument identifier
	Date   time.Time // trading day, UTC midnight
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Day truncates a timestamp to UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
