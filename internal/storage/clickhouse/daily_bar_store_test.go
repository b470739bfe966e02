package clickhouse

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

func TestDailyBarStore_InsertBulkAndGetBySymbol(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyBarStore(conn)
	ctx := context.Background()

	bars := []*domain.PricePoint{
		{Symbol: "ALV.DE", Date: day(2024, 1, 2), Open: 240, High: 242, Low: 239, Close: 241, Volume: 100000},
		{Symbol: "ALV.DE", Date: day(2024, 1, 3), Open: 241, High: 244, Low: 240, Close: 243, Volume: 120000},
		{Symbol: "BAS.DE", Date: day(2024, 1, 2), Open: 44, High: 45, Low: 43.5, Close: 44.2, Volume: 500000},
	}

	err := store.InsertBulk(ctx, bars)
	require.NoError(t, err)

	result, err := store.GetBySymbol(ctx, "ALV.DE")
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.True(t, result[0].Date.Equal(day(2024, 1, 2)))
	assert.True(t, result[1].Date.Equal(day(2024, 1, 3)))
	assert.InDelta(t, 241.0, result[0].Close, 1e-9)
}

func TestDailyBarStore_DuplicateKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyBarStore(conn)
	ctx := context.Background()

	bars := []*domain.PricePoint{
		{Symbol: "ALV.DE", Date: day(2024, 1, 2), Close: 241},
	}

	err := store.InsertBulk(ctx, bars)
	require.NoError(t, err)

	err = store.InsertBulk(ctx, bars)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestDailyBarStore_IntraBatchDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyBarStore(conn)
	ctx := context.Background()

	bars := []*domain.PricePoint{
		{Symbol: "ALV.DE", Date: day(2024, 1, 2), Close: 241},
		{Symbol: "ALV.DE", Date: day(2024, 1, 2), Close: 242}, // duplicate key
	}

	err := store.InsertBulk(ctx, bars)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Nothing should have been written
	result, err := store.GetBySymbol(ctx, "ALV.DE")
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestDailyBarStore_GetByDateRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyBarStore(conn)
	ctx := context.Background()

	bars := []*domain.PricePoint{
		{Symbol: "ALV.DE", Date: day(2024, 1, 2), Close: 241},
		{Symbol: "ALV.DE", Date: day(2024, 1, 3), Close: 243},
		{Symbol: "ALV.DE", Date: day(2024, 1, 4), Close: 240},
	}

	err := store.InsertBulk(ctx, bars)
	require.NoError(t, err)

	// Inclusive on both ends
	result, err := store.GetByDateRange(ctx, "ALV.DE", day(2024, 1, 3), day(2024, 1, 4))
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.True(t, result[0].Date.Equal(day(2024, 1, 3)))
	assert.True(t, result[1].Date.Equal(day(2024, 1, 4)))
}

func TestDailyBarStore_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyBarStore(conn)
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.PricePoint{nil})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.InsertBulk(ctx, []*domain.PricePoint{{Symbol: ""}})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestDailyBarStore_EmptyResult(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewDailyBarStore(conn)
	ctx := context.Background()

	result, err := store.GetBySymbol(ctx, "NONEXISTENT")
	require.NoError(t, err)
	assert.Empty(t, result)
}
