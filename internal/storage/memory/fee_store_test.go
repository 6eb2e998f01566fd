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

func TestFeeStore_TotalsRoundTrip(t *testing.T) {
	store := NewFeeStore()
	ctx := context.Background()

	_, err := store.GetTotals(ctx, "mainnet", "FLOW")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	totals := &domain.FeeTotals{Network: "mainnet", Token: "FLOW", Total: "1.5", VaultTotal: "1", ProtocolTotal: "0.5"}
	require.NoError(t, store.UpsertTotals(ctx, totals))

	got, err := store.GetTotals(ctx, "mainnet", "FLOW")
	require.NoError(t, err)
	assert.Equal(t, "1.5", got.Total)

	totals.Total = "3"
	require.NoError(t, store.UpsertTotals(ctx, totals))
	got, _ = store.GetTotals(ctx, "mainnet", "FLOW")
	assert.Equal(t, "3", got.Total)
}

func TestFeeStore_VaultFeeState(t *testing.T) {
	store := NewFeeStore()
	ctx := context.Background()

	pending := 250
	state := &domain.VaultFeeState{
		Network:       "mainnet",
		VaultID:       "v1",
		FeeBps:        100,
		VaultSplitBps: 7000,
		PendingFeeBps: &pending,
	}
	require.NoError(t, store.UpsertVaultFeeState(ctx, state))

	got, err := store.GetVaultFeeState(ctx, "mainnet", "v1")
	require.NoError(t, err)
	assert.Equal(t, 100, got.FeeBps)
	require.NotNil(t, got.PendingFeeBps)
	assert.Equal(t, 250, *got.PendingFeeBps)
	assert.Nil(t, got.PendingVaultSplitBps)
}

func TestFeeStore_FeeEventOverwriteOnRedelivery(t *testing.T) {
	store := NewFeeStore()
	ctx := context.Background()

	e := &domain.FeeEvent{Network: "mainnet", VaultID: "v1", Token: "FLOW", Amount: "1", TxID: "tx1", EvIndex: 0}
	require.NoError(t, store.InsertFeeEvent(ctx, e))
	require.NoError(t, store.InsertFeeEvent(ctx, e)) // same key, no duplicate error
}
