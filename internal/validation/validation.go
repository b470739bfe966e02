// Package validation checks price series quality once at the ingestion
// boundary. The analysis packages assume validated input and do not re-check.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"dividend-recovery-lab/internal/domain"
)

// ErrInvalidSeries is returned by Require when a series fails validation.
var ErrInvalidSeries = errors.New("invalid price series")

// Result collects validation findings. Errors make the series unusable;
// warnings flag suspicious but tolerable bars.
type Result struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether the series passed with no hard errors.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// CheckSeries validates a daily bar series: non-empty, strictly ascending
// unique dates, positive prices, coherent OHLC relationships, and
// non-negative volume.
func CheckSeries(bars []*domain.PricePoint) Result {
	var r Result

	if len(bars) == 0 {
		r.errorf("series is empty")
		return r
	}

	for i, b := range bars {
		d := b.Date.Format("2006-01-02")

		if i > 0 {
			prev := bars[i-1]
			if b.Date.Equal(prev.Date) {
				r.errorf("%s: duplicate date", d)
			} else if b.Date.Before(prev.Date) {
				r.errorf("%s: dates not in ascending order", d)
			}
		}

		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			r.errorf("%s: non-positive price", d)
			continue
		}
		if b.High < b.Low {
			r.errorf("%s: high %.4f below low %.4f", d, b.High, b.Low)
		}
		if b.Close > b.High || b.Open > b.High {
			r.warnf("%s: open/close above high", d)
		}
		if b.Close < b.Low || b.Open < b.Low {
			r.warnf("%s: open/close below low", d)
		}
		if b.Volume < 0 {
			r.errorf("%s: negative volume", d)
		}
	}

	return r
}

// Require validates bars and returns an ErrInvalidSeries-wrapped error
// listing every hard failure, or nil when the series is usable.
func Require(bars []*domain.PricePoint) error {
	r := CheckSeries(bars)
	if r.Valid() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidSeries, strings.Join(r.Errors, "; "))
}
