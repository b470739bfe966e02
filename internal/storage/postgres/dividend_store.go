package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/storage"
)

// DividendStore implements storage.DividendStore using PostgreSQL.
type DividendStore struct {
	pool *Pool
}

// NewDividendStore creates a new DividendStore.
func NewDividendStore(pool *Pool) *DividendStore {
	return &DividendStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DividendStore = (*DividendStore)(nil)

// Insert adds a new dividend event. Returns ErrDuplicateKey if (symbol, ex_date) exists.
func (s *DividendStore) Insert(ctx context.Context, e *domain.DividendEvent) error {
	if e == nil || e.Symbol == "" || e.Amount <= 0 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO dividend_events (symbol, ex_date, amount)
		VALUES ($1, $2, $3)
	`

	_, err := s.pool.Exec(ctx, query, e.Symbol, domain.Day(e.ExDate), e.Amount)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert dividend event: %w", err)
	}
	return nil
}

// InsertBulk adds multiple events atomically. Fails entire batch on any duplicate.
func (s *DividendStore) InsertBulk(ctx context.Context, events []*domain.DividendEvent) error {
	if len(events) == 0 {
		return nil
	}

	for _, e := range events {
		if e == nil || e.Symbol == "" || e.Amount <= 0 {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO dividend_events (symbol, ex_date, amount)
		VALUES ($1, $2, $3)
	`

	for _, e := range events {
		_, err := tx.Exec(ctx, query, e.Symbol, domain.Day(e.ExDate), e.Amount)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert dividend event: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetBySymbol retrieves all events for a symbol, ordered by ex_date ASC.
func (s *DividendStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.DividendEvent, error) {
	query := `
		SELECT symbol, ex_date, amount
		FROM dividend_events
		WHERE symbol = $1
		ORDER BY ex_date ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get dividend events by symbol: %w", err)
	}
	defer rows.Close()

	return scanDividendEvents(rows)
}

// GetByDateRange retrieves events for a symbol with ex_date within [start, end] (inclusive).
func (s *DividendStore) GetByDateRange(ctx context.Context, symbol string, start, end time.Time) ([]*domain.DividendEvent, error) {
	query := `
		SELECT symbol, ex_date, amount
		FROM dividend_events
		WHERE symbol = $1 AND ex_date >= $2 AND ex_date <= $3
		ORDER BY ex_date ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, domain.Day(start), domain.Day(end))
	if err != nil {
		return nil, fmt.Errorf("get dividend events by date range: %w", err)
	}
	defer rows.Close()

	return scanDividendEvents(rows)
}

// scanDividendEvents scans multiple rows into a slice of DividendEvent.
func scanDividendEvents(rows pgx.Rows) ([]*domain.DividendEvent, error) {
	var events []*domain.DividendEvent

	for rows.Next() {
		var e domain.DividendEvent
		err := rows.Scan(&e.Symbol, &e.ExDate, &e.Amount)
		if err != nil {
			return nil, fmt.Errorf("scan dividend event row: %w", err)
		}

		e.ExDate = domain.Day(e.ExDate)
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dividend event rows: %w", err)
	}

	return events, nil
}
