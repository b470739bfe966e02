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

// DividendStore is an in-memory implementation of storage.DividendStore.
type DividendStore struct {
	mu   sync.RWMutex
	data map[string]*domain.DividendEvent // keyed by (symbol, ex_date)
}

// NewDividendStore creates a new in-memory dividend store.
func NewDividendStore() *DividendStore {
	return &DividendStore{
		data: make(map[string]*domain.DividendEvent),
	}
}

// dividendKey generates a unique key for a dividend event.
func dividendKey(symbol string, exDate time.Time) string {
	return fmt.Sprintf("%s|%d", symbol, domain.Day(exDate).Unix())
}

// Insert adds a new dividend event. Returns ErrDuplicateKey if (symbol, ex_date) exists.
func (s *DividendStore) Insert(_ context.Context, e *domain.DividendEvent) error {
	if e == nil || e.Symbol == "" || e.Amount <= 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := dividendKey(e.Symbol, e.ExDate)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	eventCopy := *e
	s.data[key] = &eventCopy
	return nil
}

// InsertBulk adds multiple events atomically. Fails entire batch on any duplicate.
func (s *DividendStore) InsertBulk(_ context.Context, events []*domain.DividendEvent) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(events))

	// First pass: check for duplicates (existing + intra-batch)
	for _, e := range events {
		if e == nil || e.Symbol == "" || e.Amount <= 0 {
			return storage.ErrInvalidInput
		}
		key := dividendKey(e.Symbol, e.ExDate)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, e := range events {
		key := dividendKey(e.Symbol, e.ExDate)
		eventCopy := *e
		s.data[key] = &eventCopy
	}

	return nil
}

// GetBySymbol retrieves all events for a symbol, ordered by ex_date ASC.
func (s *DividendStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.DividendEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DividendEvent
	for _, e := range s.data {
		if e.Symbol == symbol {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ExDate.Before(result[j].ExDate)
	})

	return result, nil
}

// GetByDateRange retrieves events for a symbol with ex_date within [start, end] (inclusive).
func (s *DividendStore) GetByDateRange(_ context.Context, symbol string, start, end time.Time) ([]*domain.DividendEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DividendEvent
	for _, e := range s.data {
		if e.Symbol == symbol && !e.ExDate.Before(start) && !e.ExDate.After(end) {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ExDate.Before(result[j].ExDate)
	})

	return result, nil
}

var _ storage.DividendStore = (*DividendStore)(nil)
