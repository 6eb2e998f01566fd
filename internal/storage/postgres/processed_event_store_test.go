package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessedEventStore_ClaimOnce(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProcessedEventStore(pool)
	ctx := context.Background()

	claimed, err := store.Claim(ctx, "mainnet", "tx-abc", 0)
	require.NoError(t, err)
	assert.True(t, claimed, "first claim must win")

	claimed, err = store.Claim(ctx, "mainnet", "tx-abc", 0)
	require.NoError(t, err)
	assert.False(t, claimed, "second claim of the same id must lose")
}

func TestProcessedEventStore_DistinctIDsAreIndependent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProcessedEventStore(pool)
	ctx := context.Background()

	claimed, err := store.Claim(ctx, "mainnet", "tx-abc", 0)
	require.NoError(t, err)
	assert.True(t, claimed)

	// Different event index within the same tx
	claimed, err = store.Claim(ctx, "mainnet", "tx-abc", 1)
	require.NoError(t, err)
	assert.True(t, claimed)

	// Same tx id on a different network
	claimed, err = store.Claim(ctx, "testnet", "tx-abc", 0)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestMigrations_ApplyIdempotently(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	// setupTestDB already applied the migrations once; a second pass over
	// the same schema must succeed.
	runMigrations(t, context.Background(), pool)
}
