package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/storage"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestDividendStore_InsertAndGetBySymbol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDividendStore(pool)
	ctx := context.Background()

	e := &domain.DividendEvent{
		Symbol: "ALV.DE",
		ExDate: day(2024, 5, 9),
		Amount: 13.80,
	}

	// Insert
	err := store.Insert(ctx, e)
	require.NoError(t, err)

	// GetBySymbol
	result, err := store.GetBySymbol(ctx, "ALV.DE")
	require.NoError(t, err)

	require.Len(t, result, 1)
	assert.Equal(t, e.Symbol, result[0].Symbol)
	assert.True(t, result[0].ExDate.Equal(e.ExDate), "ex-date mismatch: %v", result[0].ExDate)
	assert.InDelta(t, e.Amount, result[0].Amount, 1e-9)
}

func TestDividendStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDividendStore(pool)
	ctx := context.Background()

	e := &domain.DividendEvent{Symbol: "ALV.DE", ExDate: day(2024, 5, 9), Amount: 13.80}

	// First insert should succeed
	err := store.Insert(ctx, e)
	require.NoError(t, err)

	// Second insert should return ErrDuplicateKey
	err = store.Insert(ctx, e)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestDividendStore_InsertBulkRollsBackOnDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDividendStore(pool)
	ctx := context.Background()

	err := store.Insert(ctx, &domain.DividendEvent{Symbol: "ALV.DE", ExDate: day(2023, 5, 5), Amount: 11.40})
	require.NoError(t, err)

	// Batch with one fresh event and one duplicate must fail entirely
	events := []*domain.DividendEvent{
		{Symbol: "ALV.DE", ExDate: day(2024, 5, 9), Amount: 13.80},
		{Symbol: "ALV.DE", ExDate: day(2023, 5, 5), Amount: 11.40}, // duplicate
	}

	err = store.InsertBulk(ctx, events)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Only the pre-existing event should remain
	result, err := store.GetBySymbol(ctx, "ALV.DE")
	require.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestDividendStore_GetByDateRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDividendStore(pool)
	ctx := context.Background()

	events := []*domain.DividendEvent{
		{Symbol: "ALV.DE", ExDate: day(2022, 5, 12), Amount: 10.80},
		{Symbol: "ALV.DE", ExDate: day(2023, 5, 5), Amount: 11.40},
		{Symbol: "ALV.DE", ExDate: day(2024, 5, 9), Amount: 13.80},
		{Symbol: "BAS.DE", ExDate: day(2023, 5, 2), Amount: 3.40},
	}

	err := store.InsertBulk(ctx, events)
	require.NoError(t, err)

	// Range [2023-01-01, 2024-12-31] excludes 2022 and the other symbol
	result, err := store.GetByDateRange(ctx, "ALV.DE", day(2023, 1, 1), day(2024, 12, 31))
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.True(t, result[0].ExDate.Equal(day(2023, 5, 5)))
	assert.True(t, result[1].ExDate.Equal(day(2024, 5, 9)))

	// Exact boundaries are inclusive
	result, err = store.GetByDateRange(ctx, "ALV.DE", day(2022, 5, 12), day(2024, 5, 9))
	require.NoError(t, err)
	assert.Len(t, result, 3)
}

func TestDividendStore_Ordering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDividendStore(pool)
	ctx := context.Background()

	// Insert out of order
	events := []*domain.DividendEvent{
		{Symbol: "ALV.DE", ExDate: day(2024, 5, 9), Amount: 13.80},
		{Symbol: "ALV.DE", ExDate: day(2022, 5, 12), Amount: 10.80},
		{Symbol: "ALV.DE", ExDate: day(2023, 5, 5), Amount: 11.40},
	}
	err := store.InsertBulk(ctx, events)
	require.NoError(t, err)

	result, err := store.GetBySymbol(ctx, "ALV.DE")
	require.NoError(t, err)

	require.Len(t, result, 3)
	assert.True(t, result[0].ExDate.Equal(day(2022, 5, 12)))
	assert.True(t, result[1].ExDate.Equal(day(2023, 5, 5)))
	assert.True(t, result[2].ExDate.Equal(day(2024, 5, 9)))
}

func TestDividendStore_EmptyResult(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDividendStore(pool)
	ctx := context.Background()

	result, err := store.GetBySymbol(ctx, "NONEXISTENT")
	require.NoError(t, err)
	assert.Empty(t, result)

	result, err = store.GetByDateRange(ctx, "NONEXISTENT", day(2020, 1, 1), day(2030, 1, 1))
	require.NoError(t, err)
	assert.Empty(t, result)
}
