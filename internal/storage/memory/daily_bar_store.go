package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/storage"
)

// DailyBarStore is an in-memory implementation of storage.DailyBarStore.
type DailyBarStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PricePoint // keyed by (symbol, date)
}

// NewDailyBarStore creates a new in-memory daily bar store.
func NewDailyBarStore() *DailyBarStore {
	return &DailyBarStore{
		data: make(map[string]*domain.PricePoint),
	}
}

// barKey generates a unique key for a daily bar.
func barKey(symbol string, date time.Time) string {
	return fmt.Sprintf("%s|%d", symbol, domain.Day(date).Unix())
}

// InsertBulk adds multiple bars. Fails entire batch on duplicate (symbol, date).
func (s *DailyBarStore) InsertBulk(_ context.Context, bars []*domain.PricePoint) error {
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(bars))

	// First pass: check for duplicates (existing + intra-batch)
	for _, b := range bars {
		if b == nil || b.Symbol == "" {
			return storage.ErrInvalidInput
		}
		key := barKey(b.Symbol, b.Date)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, b := range bars {
		key := barKey(b.Symbol, b.Date)
		barCopy := *b
		s.data[key] = &barCopy
	}

	return nil
}

// GetBySymbol retrieves all bars for a symbol, ordered by date ASC.
func (s *DailyBarStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PricePoint
	for _, b := range s.data {
		if b.Symbol == symbol {
			barCopy := *b
			result = append(result, &barCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

// GetByDateRange retrieves bars for a symbol within [start, end] (inclusive).
func (s *DailyBarStore) GetByDateRange(_ context.Context, symbol string, start, end time.Time) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PricePoint
	for _, b := range s.data {
		if b.Symbol == symbol && !b.Date.Before(start) && !b.Date.After(end) {
			barCopy := *b
			result = append(result, &barCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

var _ storage.DailyBarStore = (*DailyBarStore)(nil)
