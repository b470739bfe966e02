package recovery

import (
	"time"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/lookup"
)

// EvolutionPoint is the price level at one post-ex-date day mark.
type EvolutionPoint struct {
	Days      int        // calendar days after the ex-date
	Date      *time.Time // actual bar date used, nil when the series ends earlier
	Price     *float64   // close on Date
	PctChange *float64   // vs the D-1 close, nil when baseline is not positive
}

// PriceEvolution samples the close at the first bar on or after exDate+N for
// each configured day mark, with the change vs the pre-dividend close.
func PriceEvolution(bars []*domain.PricePoint, exDate time.Time, dMinus1Close float64, dayMarks []int) []EvolutionPoint {
	out := make([]EvolutionPoint, 0, len(dayMarks))
	for _, n := range dayMarks {
		p := EvolutionPoint{Days: n}
		i := lookup.FirstAtOrAfter(bars, exDate.AddDate(0, 0, n))
		if i < len(bars) {
			date := bars[i].Date
			price := bars[i].Close
			p.Date = &date
			p.Price = &price
			if dMinus1Close > 0 {
				chg := (price/dMinus1Close - 1) * 100
				p.PctChange = &chg
			}
		}
		out = append(out, p)
	}
	return out
}
