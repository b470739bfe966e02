package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dividend-recovery-lab/internal/domain"
	"dividend-recovery-lab/internal/storage"
)

func TestInstrumentStore_InsertAndGetBySymbol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewInstrumentStore(pool)
	ctx := context.Background()

	ins := &domain.Instrument{
		Symbol:   "ALV.DE",
		Name:     "Allianz SE",
		Currency: "EUR",
	}

	// Insert
	err := store.Insert(ctx, ins)
	require.NoError(t, err)

	// GetBySymbol
	retrieved, err := store.GetBySymbol(ctx, "ALV.DE")
	require.NoError(t, err)

	assert.Equal(t, ins.Symbol, retrieved.Symbol)
	assert.Equal(t, ins.Name, retrieved.Name)
	assert.Equal(t, ins.Currency, retrieved.Currency)
	assert.NotZero(t, retrieved.CreatedAt)
}

func TestInstrumentStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewInstrumentStore(pool)
	ctx := context.Background()

	ins := &domain.Instrument{Symbol: "ALV.DE", Name: "Allianz SE", Currency: "EUR"}

	// First insert should succeed
	err := store.Insert(ctx, ins)
	require.NoError(t, err)

	// Second insert should return ErrDuplicateKey
	err = store.Insert(ctx, ins)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestInstrumentStore_GetBySymbolNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewInstrumentStore(pool)
	ctx := context.Background()

	_, err := store.GetBySymbol(ctx, "NONEXISTENT")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestInstrumentStore_GetAllOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewInstrumentStore(pool)
	ctx := context.Background()

	// Insert in reverse alphabetical order
	for _, symbol := range []string{"SIE.DE", "BAS.DE", "ALV.DE"} {
		err := store.Insert(ctx, &domain.Instrument{Symbol: symbol, Currency: "EUR"})
		require.NoError(t, err)
	}

	// Results should be ordered by symbol ASC
	result, err := store.GetAll(ctx)
	require.NoError(t, err)

	assert.Len(t, result, 3)
	assert.Equal(t, "ALV.DE", result[0].Symbol)
	assert.Equal(t, "BAS.DE", result[1].Symbol)
	assert.Equal(t, "SIE.DE", result[2].Symbol)
}

func TestInstrumentStore_EmptyResult(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewInstrumentStore(pool)
	ctx := context.Background()

	result, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, result)
}
