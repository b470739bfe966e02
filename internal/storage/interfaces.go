package storage

import (
	"context"
	"time"

	"dividend-recovery-lab/internal/domain"
)

// InstrumentStore provides access to instruments storage.
type InstrumentStore interface {
	// Insert adds a new instrument. Returns ErrDuplicateKey if symbol exists.
	Insert(ctx context.Context, ins *domain.Instrument) error

	// GetBySymbol retrieves an instrument by symbol. Returns ErrNotFound if not exists.
	GetBySymbol(ctx context.Context, symbol string) (*domain.Instrument, error)

	// GetAll retrieves all instruments, ordered by symbol ASC.
	GetAll(ctx context.Context) ([]*domain.Instrument, error)
}

// DividendStore provides access to dividend_events storage.
type DividendStore interface {
	// Insert adds a new dividend event. Returns ErrDuplicateKey if (symbol, ex_date) exists.
	Insert(ctx context.Context, e *domain.DividendEvent) error

	// InsertBulk adds multiple events atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, events []*domain.DividendEvent) error

	// GetBySymbol retrieves all events for a symbol, ordered by ex_date ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.DividendEvent, error)

	// GetByDateRange retrieves events for a symbol with ex_date within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, symbol string, start, end time.Time) ([]*domain.DividendEvent, error)
}

// DailyBarStore provides access to daily_bars storage.
type DailyBarStore interface {
	// InsertBulk adds multiple bars. Fails entire batch on duplicate (symbol, date).
	InsertBulk(ctx context.Context, bars []*domain.PricePoint) error

	// GetBySymbol retrieves all bars for a symbol, ordered by date ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.PricePoint, error)

	// GetByDateRange retrieves bars for a symbol within [start, end] (inclusive).
	GetByDateRange(ctx context.Context, symbol string, start, end time.Time) ([]*domain.PricePoint, error)
}
