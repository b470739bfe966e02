package indicators

import (
	"math"
	"testing"
	"time"

	"dividend-recovery-lab/internal/domain"
)

func barsFromCloses(closes []float64) []*domain.PricePoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]*domain.PricePoint, len(closes))
	for i, c := range closes {
		bars[i] = &domain.PricePoint{
			Symbol: "TEST",
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
		}
	}
	return bars
}

func TestRSI_Warmup(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	rsi := RSI(closes, 14)
	for i := 0; i < 14; i++ {
		if !math.IsNaN(rsi[i]) {
			t.Errorf("expected NaN during warmup at %d, got %f", i, rsi[i])
		}
	}
	if math.IsNaN(rsi[14]) {
		t.Error("expected defined RSI after warmup")
	}
}

func TestRSI_AllGainsSaturates(t *testing.T) {
	closes := make([]float64, 16)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	rsi := RSI(closes, 14)
	if rsi[15] != 100 {
		t.Errorf("expected RSI 100 for monotonic gains, got %f", rsi[15])
	}
}

func TestRSI_AllLossesIsZero(t *testing.T) {
	closes := make([]float64, 16)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}

	rsi := RSI(closes, 14)
	if rsi[15] != 0 {
		t.Errorf("expected RSI 0 for monotonic losses, got %f", rsi[15])
	}
}

func TestRSI_BalancedMoves(t *testing.T) {
	// Alternating +1/-1 keeps avg gain == avg loss, RSI = 50.
	closes := make([]float64, 17)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] + 1
		} else {
			closes[i] = closes[i-1] - 1
		}
	}

	rsi := RSI(closes, 14)
	if math.Abs(rsi[16]-50) > 1e-9 {
		t.Errorf("expected RSI 50 for balanced moves, got %f", rsi[16])
	}
}

func TestStochasticK_Position(t *testing.T) {
	bars := barsFromCloses([]float64{10, 11, 12, 13, 14})
	bars[4].Low = 10
	bars[4].High = 14
	bars[4].Close = 14

	k := StochasticK(bars, 5)
	if k[4] != 100 {
		t.Errorf("expected 100 at the range high, got %f", k[4])
	}

	bars[4].Close = 12
	k = StochasticK(bars, 5)
	if math.Abs(k[4]-50) > 1e-9 {
		t.Errorf("expected 50 mid-range, got %f", k[4])
	}
}

func TestStochasticK_FlatRangeUndefined(t *testing.T) {
	bars := barsFromCloses([]float64{10, 10, 10})
	k := StochasticK(bars, 3)
	if !math.IsNaN(k[2]) {
		t.Errorf("expected NaN for zero range, got %f", k[2])
	}
}

func TestStochasticD_Smoothing(t *testing.T) {
	k := []float64{math.NaN(), 30, 60, 90}
	d := StochasticD(k, 3)

	if !math.IsNaN(d[2]) {
		t.Errorf("expected NaN when window touches warmup, got %f", d[2])
	}
	if math.Abs(d[3]-60) > 1e-9 {
		t.Errorf("expected 60, got %f", d[3])
	}
}

func TestLastHelpers(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i%3)
	}
	bars := barsFromCloses(closes)

	if _, ok := LastRSI(bars, 14); !ok {
		t.Error("expected defined last RSI")
	}
	if _, ok := LastRSI(bars[:5], 14); ok {
		t.Error("expected undefined RSI for short series")
	}
	if _, ok := LastStochasticK(nil, 14); ok {
		t.Error("expected undefined stochastic for empty series")
	}
}
