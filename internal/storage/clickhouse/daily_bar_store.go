package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/storage"
)

// DailyBarStore implements storage.DailyBarStore using ClickHouse.
type DailyBarStore struct {
	conn *Conn
}

// NewDailyBarStore creates a new DailyBarStore.
func NewDailyBarStore(conn *Conn) *DailyBarStore {
	return &DailyBarStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DailyBarStore = (*DailyBarStore)(nil)

// InsertBulk adds multiple bars. Fails entire batch on duplicate (symbol, date).
func (s *DailyBarStore) InsertBulk(ctx context.Context, bars []*domain.PricePoint) error {
	if len(bars) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		symbol string
		date   int64
	}
	seen := make(map[key]struct{})
	for _, b := range bars {
		if b == nil || b.Symbol == "" {
			return storage.ErrInvalidInput
		}
		k := key{b.Symbol, domain.Day(b.Date).Unix()}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows.
	// MergeTree doesn't enforce uniqueness, so the check happens up front.
	for _, b := range bars {
		exists, err := s.exists(ctx, b.Symbol, b.Date)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_bars (
			symbol, date, open, high, low, close, volume
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			b.Symbol, domain.Day(b.Date),
			b.Open, b.High, b.Low, b.Close, b.Volume,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySymbol retrieves all bars for a symbol, ordered by date ASC.
func (s *DailyBarStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.PricePoint, error) {
	query := `
		SELECT symbol, date, open, high, low, close, volume
		FROM daily_bars
		WHERE symbol = ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("query by symbol: %w", err)
	}
	defer rows.Close()

	return scanDailyBars(rows)
}

// GetByDateRange retrieves bars for a symbol within [start, end] (inclusive).
func (s *DailyBarStore) GetByDateRange(ctx context.Context, symbol string, start, end time.Time) ([]*domain.PricePoint, error) {
	query := `
		SELECT symbol, date, open, high, low, close, volume
		FROM daily_bars
		WHERE symbol = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, domain.Day(start), domain.Day(end))
	if err != nil {
		return nil, fmt.Errorf("query by date range: %w", err)
	}
	defer rows.Close()

	return scanDailyBars(rows)
}

// exists checks if a bar with the given key exists.
func (s *DailyBarStore) exists(ctx context.Context, symbol string, date time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM daily_bars
		WHERE symbol = ? AND date = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, symbol, domain.Day(date)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanDailyBars scans multiple rows.
func scanDailyBars(rows driver.Rows) ([]*domain.PricePoint, error) {
	var bars []*domain.PricePoint

	for rows.Next() {
		var b domain.PricePoint
		err := rows.Scan(
			&b.Symbol, &b.Date,
			&b.Open, &b.High, &b.Low, &b.Close, &b.Volume,
		)
		if err != nil {
			return nil, fmt.Errorf("scan daily bar row: %w", err)
		}

		b.Date = domain.Day(b.Date)
		bars = append(bars, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily bar rows: %w", err)
	}

	return bars, nil
}
