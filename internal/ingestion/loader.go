package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/observability"
	"dividend-recovery-lab/internal/storage"
	"dividend-recovery-lab/internal/validation"
)

// Loader ingests parsed bar and dividend series for one instrument.
// Bars are validated once here; downstream analysis trusts the stores.
type Loader struct {
	instruments storage.InstrumentStore
	bars        storage.DailyBarStore
	dividends   storage.DividendStore
	logger      *log.Logger
}

// LoaderOptions contains configuration for creating a Loader.
type LoaderOptions struct {
	InstrumentStore storage.InstrumentStore
	DailyBarStore   storage.DailyBarStore
	DividendStore   storage.DividendStore
	Logger          *log.Logger
}

// NewLoader creates a new loader.
func NewLoader(opts LoaderOptions) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Loader{
		instruments: opts.InstrumentStore,
		bars:        opts.DailyBarStore,
		dividends:   opts.DividendStore,
		logger:      logger,
	}
}

// Result summarizes one ingestion run.
type Result struct {
	Symbol            string
	BarsInserted      int
	DividendsInserted int
	Warnings          []string
}

// IngestInstrument validates and stores one instrument's series. The
// instrument row is created if missing. Bars and dividends are sorted by
// date before bulk insert; re-ingesting the same rows surfaces the
// store's duplicate-key error.
func (l *Loader) IngestInstrument(ctx context.Context, instrument *domain.Instrument, bars []*domain.PricePoint, events []*domain.DividendEvent) (*Result, error) {
	symbol := instrument.Symbol

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	sort.Slice(events, func(i, j int) bool { return events[i].ExDate.Before(events[j].ExDate) })

	checked := validation.CheckSeries(bars)
	if !checked.Valid() {
		observability.RecordIngestionError("bars", "validation")
		return nil, fmt.Errorf("validate %s: %w", symbol, validation.Require(bars))
	}
	for _, w := range checked.Warnings {
		l.logger.Printf("ingest %s: %s", symbol, w)
	}

	if err := l.instruments.Insert(ctx, instrument); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		observability.RecordIngestionError("instruments", "insert")
		return nil, fmt.Errorf("insert instrument %s: %w", symbol, err)
	}

	if len(bars) > 0 {
		if err := l.bars.InsertBulk(ctx, bars); err != nil {
			observability.RecordIngestionError("bars", "insert")
			return nil, fmt.Errorf("insert bars for %s: %w", symbol, err)
		}
		observability.RecordBarsIngested(len(bars))
	}

	if len(events) > 0 {
		if err := l.dividends.InsertBulk(ctx, events); err != nil {
			observability.RecordIngestionError("dividends", "insert")
			return nil, fmt.Errorf("insert dividends for %s: %w", symbol, err)
		}
		observability.RecordDividendsIngested(len(events))
	}

	observability.DefaultMetrics.LastSuccessfulIngestion.Set(float64(time.Now().Unix()))
	l.logger.Printf("ingest %s: %d bars, %d dividends", symbol, len(bars), len(events))

	return &Result{
		Symbol:            symbol,
		BarsInserted:      len(bars),
		DividendsInserted: len(events),
		Warnings:          checked.Warnings,
	}, nil
}

// IngestFiles reads both CSV files for an instrument and stores them.
// dividendsPath may be empty when the instrument has no dividend data.
func (l *Loader) IngestFiles(ctx context.Context, instrument *domain.Instrument, barsPath, dividendsPath string) (*Result, error) {
	bars, err := LoadBarsFile(barsPath, instrument.Symbol)
	if err != nil {
		observability.RecordIngestionError("bars", "parse")
		return nil, err
	}

	var events []*domain.DividendEvent
	if dividendsPath != "" {
		events, err = LoadDividendsFile(dividendsPath, instrument.Symbol)
		if err != nil {
			observability.RecordIngestionError("dividends", "parse")
			return nil, err
		}
	}

	return l.IngestInstrument(ctx, instrument, bars, events)
}
