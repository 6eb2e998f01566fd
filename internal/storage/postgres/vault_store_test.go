package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

func TestVaultStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewVaultStore(pool)
	ctx := context.Background()

	vault := &domain.Vault{
		Network:     "mainnet",
		VaultID:     "v1",
		Collection:  "moments",
		TokenID:     "42",
		ShareSymbol: "SHARE-V1",
		Creator:     "0xabc",
		State:       domain.VaultStateOpen,
		UpdatedAt:   1700000000000,
	}
	require.NoError(t, store.Upsert(ctx, vault))

	got, err := store.Get(ctx, "mainnet", "v1")
	require.NoError(t, err)
	assert.Equal(t, "moments", got.Collection)
	assert.Equal(t, domain.VaultStateOpen, got.State)

	// Upsert with same key replaces
	vault.Collection = "editions"
	require.NoError(t, store.Upsert(ctx, vault))

	got, err = store.Get(ctx, "mainnet", "v1")
	require.NoError(t, err)
	assert.Equal(t, "editions", got.Collection)
}

func TestVaultStore_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewVaultStore(pool)

	_, err := store.Get(context.Background(), "mainnet", "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestVaultStore_PartialUpdates(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewVaultStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, &domain.Vault{
		Network: "mainnet",
		VaultID: "v1",
		State:   domain.VaultStateOpen,
	}))

	require.NoError(t, store.SetMaxSupply(ctx, "mainnet", "v1", "1000", 1))
	require.NoError(t, store.SetState(ctx, "mainnet", "v1", domain.VaultStateRedeemed, 2))

	got, err := store.Get(ctx, "mainnet", "v1")
	require.NoError(t, err)
	assert.Equal(t, "1000", got.MaxSupply)
	assert.Equal(t, domain.VaultStateRedeemed, got.State)

	// Partial update against a missing vault affects no rows and is not
	// an error.
	require.NoError(t, store.SetState(ctx, "mainnet", "ghost", domain.VaultStateInvalid, 3))
}
