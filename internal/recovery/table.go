package recovery

import (
	"log"
	"time"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/lookup"
)

// TableRow is one dividend event in the per-event recovery table.
type TableRow struct {
	ExDate       time.Time
	Dividend     float64
	DivYieldPct  float64 // dividend / D-1 close * 100
	DMinus1Close float64
	D0Open       float64
	D0Close      float64
	Gap          float64 // D0 open - D-1 close
	GapPct       float64
	Outcome      domain.RecoveryOutcome
}

// BuildTable produces the recovery table for every dividend event that has a
// bar exactly on its ex-date and at least one bar before it. Events without
// either are skipped.
func BuildTable(bars []*domain.PricePoint, events []*domain.DividendEvent, maxDays int, logger *log.Logger) []TableRow {
	rows := make([]TableRow, 0, len(events))
	for _, ev := range events {
		i := lookup.FirstAtOrAfter(bars, ev.ExDate)
		if i >= len(bars) || !bars[i].Date.Equal(ev.ExDate) {
			if logger != nil {
				logger.Printf("recovery table: no bar on ex-date %s, skipping", ev.ExDate.Format("2006-01-02"))
			}
			continue
		}
		if i == 0 {
			continue // no pre-dividend close to anchor on
		}
		d0 := bars[i]
		prevClose := bars[i-1].Close

		outcome, err := FindRecovery(bars, ev.ExDate, prevClose, maxDays)
		if err != nil {
			if logger != nil {
				logger.Printf("recovery table: ex-date %s: %v", ev.ExDate.Format("2006-01-02"), err)
			}
			continue
		}

		gap := d0.Open - prevClose
		rows = append(rows, TableRow{
			ExDate:       ev.ExDate,
			Dividend:     ev.Amount,
			DivYieldPct:  ev.Amount / prevClose * 100,
			DMinus1Close: prevClose,
			D0Open:       d0.Open,
			D0Close:      d0.Close,
			Gap:          gap,
			GapPct:       gap / prevClose * 100,
			Outcome:      outcome,
		})
	}
	return rows
}
