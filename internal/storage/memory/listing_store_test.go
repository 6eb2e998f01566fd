package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

func TestListingStore_PrimaryAndMirror(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()

	l := &domain.Listing{
		Network:   "mainnet",
		VaultID:   "v1",
		ListingID: "L1",
		Seller:    "0xseller",
		Price:     "10.5",
		Status:    domain.ListingStatusOpen,
	}

	require.NoError(t, store.Upsert(ctx, l))
	require.NoError(t, store.UpsertBySeller(ctx, l))

	got, err := store.Get(ctx, "mainnet", "v1", "L1")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusOpen, got.Status)

	mirror, err := store.ListBySeller(ctx, "mainnet", "0xseller")
	require.NoError(t, err)
	require.Len(t, mirror, 1)
	assert.Equal(t, "L1", mirror[0].ListingID)
}

func TestListingStore_StatusUpdatesAreIndependent(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()

	l := &domain.Listing{Network: "mainnet", VaultID: "v1", ListingID: "L1", Seller: "s", Status: domain.ListingStatusOpen}
	require.NoError(t, store.Upsert(ctx, l))
	require.NoError(t, store.UpsertBySeller(ctx, l))

	// Updating only the primary row must not touch the mirror.
	require.NoError(t, store.SetStatus(ctx, "mainnet", "v1", "L1", domain.ListingStatusFilled, 1))

	got, _ := store.Get(ctx, "mainnet", "v1", "L1")
	assert.Equal(t, domain.ListingStatusFilled, got.Status)

	mirror, _ := store.ListBySeller(ctx, "mainnet", "s")
	require.Len(t, mirror, 1)
	assert.Equal(t, domain.ListingStatusOpen, mirror[0].Status)

	require.NoError(t, store.SetStatusBySeller(ctx, "mainnet", "s", "L1", domain.ListingStatusFilled, 1))
	mirror, _ = store.ListBySeller(ctx, "mainnet", "s")
	assert.Equal(t, domain.ListingStatusFilled, mirror[0].Status)
}

func TestListingStore_NotFound(t *testing.T) {
	store := NewListingStore()

	_, err := store.Get(context.Background(), "mainnet", "v1", "missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestListingStore_StatusNoopOnMissing(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()

	// A status update for a listing never created is silently ignored.
	assert.NoError(t, store.SetStatus(ctx, "mainnet", "v1", "ghost", domain.ListingStatusExpired, 1))
	assert.NoError(t, store.SetStatusBySeller(ctx, "mainnet", "s", "ghost", domain.ListingStatusExpired, 1))
}
