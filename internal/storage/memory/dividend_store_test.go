package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/storage"
)

func exDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestDividendStore_InsertAndGet(t *testing.T) {
	store := NewDividendStore()
	ctx := context.Background()

	e := &domain.DividendEvent{Symbol: "ALV.DE", ExDate: exDate(2024, 5, 9), Amount: 13.80}

	if err := store.Insert(ctx, e); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := store.GetBySymbol(ctx, "ALV.DE")
	if err != nil {
		t.Fatalf("GetBySymbol failed: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(result))
	}
	if result[0].Amount != 13.80 {
		t.Errorf("Expected amount 13.80, got %f", result[0].Amount)
	}
}

func TestDividendStore_DuplicateKey(t *testing.T) {
	store := NewDividendStore()
	ctx := context.Background()

	e := &domain.DividendEvent{Symbol: "ALV.DE", ExDate: exDate(2024, 5, 9), Amount: 13.80}

	if err := store.Insert(ctx, e); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, e)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestDividendStore_IntraBatchDuplicate(t *testing.T) {
	store := NewDividendStore()
	ctx := context.Background()

	events := []*domain.DividendEvent{
		{Symbol: "ALV.DE", ExDate: exDate(2024, 5, 9), Amount: 13.80},
		{Symbol: "ALV.DE", ExDate: exDate(2024, 5, 9), Amount: 14.00}, // duplicate key
	}

	err := store.InsertBulk(ctx, events)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for intra-batch duplicate, got %v", err)
	}

	// Verify nothing was inserted
	result, _ := store.GetBySymbol(ctx, "ALV.DE")
	if len(result) != 0 {
		t.Errorf("Expected 0 events (rollback), got %d", len(result))
	}
}

func TestDividendStore_OrderByExDate(t *testing.T) {
	store := NewDividendStore()
	ctx := context.Background()

	events := []*domain.DividendEvent{
		{Symbol: "ALV.DE", ExDate: exDate(2024, 5, 9), Amount: 13.80},
		{Symbol: "ALV.DE", ExDate: exDate(2022, 5, 12), Amount: 10.80},
		{Symbol: "ALV.DE", ExDate: exDate(2023, 5, 5), Amount: 11.40},
	}

	if err := store.InsertBulk(ctx, events); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, _ := store.GetBySymbol(ctx, "ALV.DE")

	for i := 1; i < len(result); i++ {
		if result[i].ExDate.Before(result[i-1].ExDate) {
			t.Errorf("Results not ordered: %v < %v", result[i].ExDate, result[i-1].ExDate)
		}
	}
}

func TestDividendStore_GetByDateRange(t *testing.T) {
	store := NewDividendStore()
	ctx := context.Background()

	events := []*domain.DividendEvent{
		{Symbol: "ALV.DE", ExDate: exDate(2022, 5, 12), Amount: 10.80},
		{Symbol: "ALV.DE", ExDate: exDate(2023, 5, 5), Amount: 11.40},
		{Symbol: "ALV.DE", ExDate: exDate(2024, 5, 9), Amount: 13.80},
		{Symbol: "BAS.DE", ExDate: exDate(2023, 5, 2), Amount: 3.40}, // different symbol
	}

	if err := store.InsertBulk(ctx, events); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByDateRange(ctx, "ALV.DE", exDate(2023, 1, 1), exDate(2023, 12, 31))
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("Expected 1 event in range, got %d", len(result))
	}
	if !result[0].ExDate.Equal(exDate(2023, 5, 5)) {
		t.Errorf("Expected ex-date 2023-05-05, got %v", result[0].ExDate)
	}
}

func TestDividendStore_InvalidInput(t *testing.T) {
	store := NewDividendStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.DividendEvent{nil})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil event, got %v", err)
	}

	err = store.Insert(ctx, &domain.DividendEvent{Symbol: "ALV.DE", ExDate: exDate(2024, 5, 9), Amount: 0})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for non-positive amount, got %v", err)
	}
}

func TestDividendStore_EmptyBulk(t *testing.T) {
	store := NewDividendStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.DividendEvent{}); err != nil {
		t.Errorf("Empty bulk should succeed, got %v", err)
	}
}
