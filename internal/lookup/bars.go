// Package lookup provides date-based positioning in daily bar series.
// All functions require bars sorted by Date ASC with unique dates.
package lookup

import (
	"errors"
	"sort"
	"time"

	"dividend-recovery-lab/internal/domain"
)

// ErrNoPriceData is returned when a lookup runs against an empty series.
var ErrNoPriceData = errors.New("no price data available")

// FirstAtOrAfter returns the index of the first bar dated on or after target.
// Returns len(bars) when every bar is earlier.
func FirstAtOrAfter(bars []*domain.PricePoint, target time.Time) int {
	return sort.Search(len(bars), func(i int) bool {
		return !bars[i].Date.Before(target)
	})
}

// LastBefore returns the index of the last bar dated strictly before target.
// Returns -1 when no bar is earlier.
func LastBefore(bars []*domain.PricePoint, target time.Time) int {
	return FirstAtOrAfter(bars, target) - 1
}

// Window returns the sub-slice of bars dated within [start, end] inclusive.
func Window(bars []*domain.PricePoint, start, end time.Time) []*domain.PricePoint {
	lo := FirstAtOrAfter(bars, start)
	hi := FirstAtOrAfter(bars, end.Add(24*time.Hour))
	return bars[lo:hi]
}

// CountBefore returns the number of bars dated strictly before target.
func CountBefore(bars []*domain.PricePoint, target time.Time) int {
	return FirstAtOrAfter(bars, target)
}

// CloseAt returns the close of the bar dated exactly target.
// Returns ErrNoPriceData when the series has no bar on that date.
func CloseAt(bars []*domain.PricePoint, target time.Time) (float64, error) {
	i := FirstAtOrAfter(bars, target)
	if i >= len(bars) || !bars[i].Date.Equal(target) {
		return 0, ErrNoPriceData
	}
	return bars[i].Close, nil
}
