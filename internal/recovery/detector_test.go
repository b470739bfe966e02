package recovery

import (
	"errors"
	"testing"
	"time"

	"dividend-recovery-lab/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func seriesFromCloses(startDay int, closes ...float64) []*domain.PricePoint {
	bars := make([]*domain.PricePoint, len(closes))
	for i, c := range closes {
		bars[i] = &domain.PricePoint{
			Symbol: "TEST",
			Date:   day(startDay + i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestFindRecovery_SameDay(t *testing.T) {
	bars := seriesFromCloses(10, 10.0, 9.0, 9.1)

	out, err := FindRecovery(bars, day(10), 10.0, 30)
	if err != nil {
		t.Fatalf("FindRecovery failed: %v", err)
	}
	if !out.Recovered || out.Reason != domain.ReasonRecovered {
		t.Fatalf("expected same-day recovery, got %+v", out)
	}
	if out.RecoveryDays == nil || *out.RecoveryDays != 0 {
		t.Errorf("expected 0 recovery days, got %v", out.RecoveryDays)
	}
	if out.RecoveryPrice == nil || *out.RecoveryPrice != 10.0 {
		t.Errorf("expected recovery price 10.0, got %v", out.RecoveryPrice)
	}
}

func TestFindRecovery_LaterDay(t *testing.T) {
	bars := seriesFromCloses(10, 9.5, 9.6, 9.8, 10.2)

	out, err := FindRecovery(bars, day(10), 10.0, 30)
	if err != nil {
		t.Fatalf("FindRecovery failed: %v", err)
	}
	if !out.Recovered {
		t.Fatal("expected recovery")
	}
	if *out.RecoveryDays != 3 {
		t.Errorf("expected 3 trading days, got %d", *out.RecoveryDays)
	}
	if !out.RecoveryDate.Equal(day(13)) {
		t.Errorf("expected recovery on day 13, got %v", out.RecoveryDate)
	}
}

func TestFindRecovery_NotRecovered(t *testing.T) {
	// 5 strictly decreasing closes fill the 5-row window exactly
	closes := make([]float64, 5)
	for i := range closes {
		closes[i] = 10.0 - 0.1*float64(i)
	}
	bars := seriesFromCloses(10, closes...)

	out, err := FindRecovery(bars, day(10), 11.0, 5)
	if err != nil {
		t.Fatalf("FindRecovery failed: %v", err)
	}
	if out.Recovered || out.Reason != domain.ReasonNotRecovered {
		t.Fatalf("expected not_recovered, got %+v", out)
	}
	// last scanned bar is day 14, elapsed calendar days from day 10
	if out.RecoveryDays == nil || *out.RecoveryDays != 4 {
		t.Errorf("expected 4 observed calendar days, got %v", out.RecoveryDays)
	}
	if out.RecoveryDate != nil || out.RecoveryPrice != nil {
		t.Error("expected nil recovery date and price")
	}
}

func TestFindRecovery_TruncatedSeriesIsInsufficient(t *testing.T) {
	// the same decreasing series cut to 3 rows can no longer fill the window
	closes := []float64{10.0, 9.9, 9.8}
	bars := seriesFromCloses(10, closes...)

	out, err := FindRecovery(bars, day(10), 11.0, 5)
	if err != nil {
		t.Fatalf("FindRecovery failed: %v", err)
	}
	if out.Reason != domain.ReasonInsufficientData {
		t.Fatalf("expected insufficient_data, got %s", out.Reason)
	}
}

func TestFindRecovery_InsufficientData(t *testing.T) {
	// series ends 2 days in, horizon is 30
	bars := seriesFromCloses(10, 9.5, 9.4, 9.3)

	out, err := FindRecovery(bars, day(10), 10.0, 30)
	if err != nil {
		t.Fatalf("FindRecovery failed: %v", err)
	}
	if out.Reason != domain.ReasonInsufficientData {
		t.Fatalf("expected insufficient_data, got %s", out.Reason)
	}
	if out.RecoveryDays == nil || *out.RecoveryDays != 2 {
		t.Errorf("expected 2 observed days, got %v", out.RecoveryDays)
	}
}

func TestFindRecovery_NoData(t *testing.T) {
	bars := seriesFromCloses(1, 10.0, 10.1)

	out, err := FindRecovery(bars, day(20), 10.0, 30)
	if err != nil {
		t.Fatalf("FindRecovery failed: %v", err)
	}
	if out.Reason != domain.ReasonNoData {
		t.Fatalf("expected no_data, got %s", out.Reason)
	}
	if out.RecoveryDays != nil {
		t.Errorf("expected nil days, got %v", out.RecoveryDays)
	}
}

func TestFindRecovery_InvalidArguments(t *testing.T) {
	bars := seriesFromCloses(10, 10.0)

	if _, err := FindRecovery(bars, day(10), 0, 30); !errors.Is(err, ErrInvalidTargetPrice) {
		t.Errorf("expected ErrInvalidTargetPrice, got %v", err)
	}
	if _, err := FindRecovery(bars, day(10), 10.0, 0); !errors.Is(err, ErrInvalidMaxDays) {
		t.Errorf("expected ErrInvalidMaxDays, got %v", err)
	}
}

func TestFindRecovery_Deterministic(t *testing.T) {
	bars := seriesFromCloses(10, 9.5, 9.8, 10.0, 9.9)

	first, err := FindRecovery(bars, day(10), 10.0, 30)
	if err != nil {
		t.Fatalf("FindRecovery failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := FindRecovery(bars, day(10), 10.0, 30)
		if err != nil {
			t.Fatalf("FindRecovery failed: %v", err)
		}
		if again.Reason != first.Reason || *again.RecoveryDays != *first.RecoveryDays {
			t.Fatal("expected identical outcomes on repeated runs")
		}
	}
}
