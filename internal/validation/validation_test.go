package validation

import (
	"errors"
	"testing"
	"time"

	"dividend-recovery-lab/internal/domain"
)

func bar(day int, open, high, low, close, volume float64) *domain.PricePoint {
	return &domain.PricePoint{
		Symbol: "TEST",
		Date:   time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	}
}

func TestCheckSeries_CleanSeries(t *testing.T) {
	bars := []*domain.PricePoint{
		bar(1, 10, 10.5, 9.5, 10.2, 1000),
		bar(2, 10.2, 10.8, 10.0, 10.6, 1200),
	}

	r := CheckSeries(bars)
	if !r.Valid() {
		t.Fatalf("expected valid series, errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", r.Warnings)
	}
}

func TestCheckSeries_EmptySeries(t *testing.T) {
	if CheckSeries(nil).Valid() {
		t.Error("expected empty series to fail")
	}
}

func TestCheckSeries_NonPositivePrice(t *testing.T) {
	bars := []*domain.PricePoint{bar(1, 10, 10.5, 0, 10.2, 1000)}
	if CheckSeries(bars).Valid() {
		t.Error("expected non-positive price to fail")
	}
}

func TestCheckSeries_HighBelowLow(t *testing.T) {
	bars := []*domain.PricePoint{bar(1, 10, 9.0, 9.5, 9.2, 1000)}
	r := CheckSeries(bars)
	if r.Valid() {
		t.Error("expected high<low to fail")
	}
}

func TestCheckSeries_CloseOutsideRangeWarns(t *testing.T) {
	bars := []*domain.PricePoint{bar(1, 10, 10.5, 9.5, 10.7, 1000)}
	r := CheckSeries(bars)
	if !r.Valid() {
		t.Fatalf("close above high should only warn, errors: %v", r.Errors)
	}
	if len(r.Warnings) == 0 {
		t.Error("expected a warning for close above high")
	}
}

func TestCheckSeries_DuplicateAndUnsortedDates(t *testing.T) {
	dup := []*domain.PricePoint{
		bar(1, 10, 10.5, 9.5, 10.2, 1000),
		bar(1, 10, 10.5, 9.5, 10.2, 1000),
	}
	if CheckSeries(dup).Valid() {
		t.Error("expected duplicate dates to fail")
	}

	unsorted := []*domain.PricePoint{
		bar(2, 10, 10.5, 9.5, 10.2, 1000),
		bar(1, 10, 10.5, 9.5, 10.2, 1000),
	}
	if CheckSeries(unsorted).Valid() {
		t.Error("expected unsorted dates to fail")
	}
}

func TestCheckSeries_NegativeVolume(t *testing.T) {
	bars := []*domain.PricePoint{bar(1, 10, 10.5, 9.5, 10.2, -5)}
	if CheckSeries(bars).Valid() {
		t.Error("expected negative volume to fail")
	}
}

func TestRequire_WrapsSentinel(t *testing.T) {
	err := Require(nil)
	if !errors.Is(err, ErrInvalidSeries) {
		t.Errorf("expected ErrInvalidSeries, got %v", err)
	}
	if Require([]*domain.PricePoint{bar(1, 10, 10.5, 9.5, 10.2, 1000)}) != nil {
		t.Error("expected nil for a valid series")
	}
}
