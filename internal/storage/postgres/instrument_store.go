package postgres

import (
	"context"
	"fmt"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/storage"
)

// InstrumentStore implements storage.InstrumentStore using PostgreSQL.
type InstrumentStore struct {
	pool *Pool
}

// NewInstrumentStore creates a new InstrumentStore.
func NewInstrumentStore(pool *Pool) *InstrumentStore {
	return &InstrumentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.InstrumentStore = (*InstrumentStore)(nil)

// Insert adds a new instrument. Returns ErrDuplicateKey if symbol exists.
func (s *InstrumentStore) Insert(ctx context.Context, ins *domain.Instrument) error {
	if ins == nil || ins.Symbol == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO instruments (symbol, name, currency)
		VALUES ($1, $2, $3)
	`

	_, err := s.pool.Exec(ctx, query, ins.Symbol, ins.Name, ins.Currency)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert instrument: %w", err)
	}
	return nil
}

// GetBySymbol retrieves an instrument by symbol. Returns ErrNotFound if not exists.
func (s *InstrumentStore) GetBySymbol(ctx context.Context, symbol string) (*domain.Instrument, error) {
	query := `
		SELECT symbol, name, currency, created_at
		FROM instruments
		WHERE symbol = $1
	`

	var ins domain.Instrument
	err := s.pool.QueryRow(ctx, query, symbol).Scan(
		&ins.Symbol,
		&ins.Name,
		&ins.Currency,
		&ins.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get instrument by symbol: %w", err)
	}
	return &ins, nil
}

// GetAll retrieves all instruments, ordered by symbol ASC.
func (s *InstrumentStore) GetAll(ctx context.Context) ([]*domain.Instrument, error) {
	query := `
		SELECT symbol, name, currency, created_at
		FROM instruments
		ORDER BY symbol ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all instruments: %w", err)
	}
	defer rows.Close()

	var instruments []*domain.Instrument
	for rows.Next() {
		var ins domain.Instrument
		err := rows.Scan(&ins.Symbol, &ins.Name, &ins.Currency, &ins.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan instrument row: %w", err)
		}
		instruments = append(instruments, &ins)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instrument rows: %w", err)
	}

	return instruments, nil
}
