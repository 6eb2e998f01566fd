package projection

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
	"github.com/10thfloor/NFractional-sub000/internal/storage/memory"
)

func newTestProjectors(t *testing.T) (*Projectors, *storage.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewProjectors(store, nil), store
}

func envelope(eventType, vaultID string, payload any) *domain.Envelope {
	raw, _ := json.Marshal(payload)
	return &domain.Envelope{
		Network:     "mainnet",
		Type:        eventType,
		VaultID:     vaultID,
		BlockHeight: 100,
		TxIndex:     0,
		EvIndex:     0,
		TxID:        "tx-1",
		Payload:     raw,
		Timestamp:   1700000000000,
	}
}

func TestVaultCreated_RegistersVaultAndToken(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	env := envelope(domain.EventVaultCreated, "v1", map[string]any{
		"collection":  "moments",
		"tokenId":     "42",
		"shareSymbol": "SHARE-V1",
		"creator":     "0xabc",
	})
	require.NoError(t, p.VaultCreated(ctx, env))

	vault, err := store.Vaults.Get(ctx, "mainnet", "v1")
	require.NoError(t, err)
	assert.Equal(t, domain.VaultStateOpen, vault.State)
	assert.Equal(t, "moments", vault.Collection)

	token, err := store.ShareTokens.Get(ctx, "mainnet", "SHARE-V1")
	require.NoError(t, err)
	assert.Equal(t, "0", token.TotalSupply)
	assert.Equal(t, 8, token.Decimals)
	assert.Equal(t, "v1", token.VaultID)
}

func TestVaultCreated_MissingVaultID(t *testing.T) {
	p, _ := newTestProjectors(t)

	env := envelope(domain.EventVaultCreated, "", map[string]any{"shareSymbol": "S"})
	err := p.VaultCreated(context.Background(), env)
	assert.ErrorIs(t, err, errMissingField)
}

func TestVaultCreated_NoSymbolSkipsToken(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	env := envelope(domain.EventVaultCreated, "v1", map[string]any{"collection": "c"})
	require.NoError(t, p.VaultCreated(ctx, env))

	_, err := store.Vaults.Get(ctx, "mainnet", "v1")
	require.NoError(t, err)
}

func TestSharesMinted_SingleRecipient(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	require.NoError(t, p.VaultCreated(ctx, envelope(domain.EventVaultCreated, "v1",
		map[string]any{"shareSymbol": "S"})))

	env := envelope(domain.EventSharesMinted, "v1", map[string]any{
		"symbol": "S", "account": "alice", "amount": "150",
	})
	require.NoError(t, p.SharesMinted(ctx, env))

	bal, err := store.Balances.Get(ctx, "mainnet", "S", "alice")
	require.NoError(t, err)
	assert.Equal(t, "150", bal.Amount)

	token, err := store.ShareTokens.Get(ctx, "mainnet", "S")
	require.NoError(t, err)
	assert.Equal(t, "150", token.TotalSupply)
}

func TestSharesMinted_Batch(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	require.NoError(t, p.VaultCreated(ctx, envelope(domain.EventVaultCreated, "v1",
		map[string]any{"shareSymbol": "S"})))

	env := envelope(domain.EventSharesMinted, "v1", map[string]any{
		"symbol": "S",
		"mints": []map[string]any{
			{"account": "alice", "amount": "10.5"},
			{"account": "bob", "amount": "4.5"},
		},
	})
	require.NoError(t, p.SharesMinted(ctx, env))

	token, err := store.ShareTokens.Get(ctx, "mainnet", "S")
	require.NoError(t, err)
	assert.Equal(t, "15", token.TotalSupply)

	bob, err := store.Balances.Get(ctx, "mainnet", "S", "bob")
	require.NoError(t, err)
	assert.Equal(t, "4.5", bob.Amount)
}

func TestTransfer_MovesBalanceWithoutSupplyChange(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	require.NoError(t, p.VaultCreated(ctx, envelope(domain.EventVaultCreated, "v1",
		map[string]any{"shareSymbol": "S"})))
	require.NoError(t, p.SharesMinted(ctx, envelope(domain.EventSharesMinted, "v1",
		map[string]any{"symbol": "S", "account": "alice", "amount": "100"})))

	env := envelope(domain.EventTransfer, "v1", map[string]any{
		"symbol": "S", "from": "alice", "to": "bob", "amount": "30.25",
	})
	require.NoError(t, p.Transfer(ctx, env))

	alice, err := store.Balances.Get(ctx, "mainnet", "S", "alice")
	require.NoError(t, err)
	assert.Equal(t, "69.75", alice.Amount)

	bob, err := store.Balances.Get(ctx, "mainnet", "S", "bob")
	require.NoError(t, err)
	assert.Equal(t, "30.25", bob.Amount)

	token, err := store.ShareTokens.Get(ctx, "mainnet", "S")
	require.NoError(t, err)
	assert.Equal(t, "100", token.TotalSupply)
}

func TestTransfer_SelfTransferIsNoop(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	require.NoError(t, p.SharesMinted(ctx, envelope(domain.EventSharesMinted, "v1",
		map[string]any{"symbol": "S", "account": "alice", "amount": "100"})))

	env := envelope(domain.EventTransfer, "v1", map[string]any{
		"symbol": "S", "from": "alice", "to": "alice", "amount": "40",
	})
	require.NoError(t, p.Transfer(ctx, env))

	alice, err := store.Balances.Get(ctx, "mainnet", "S", "alice")
	require.NoError(t, err)
	assert.Equal(t, "100", alice.Amount)
}

func TestTransfer_MissingPartiesIsNoop(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	env := envelope(domain.EventTransfer, "v1", map[string]any{
		"symbol": "S", "from": "", "to": "bob", "amount": "40",
	})
	require.NoError(t, p.Transfer(ctx, env))

	_, err := store.Balances.Get(ctx, "mainnet", "S", "bob")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListingLifecycle_MirrorFollowsPrimary(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	created := envelope(domain.EventListingCreated, "v1", map[string]any{
		"listingId": "L1", "seller": "carol", "amount": "5", "price": "9.99",
	})
	require.NoError(t, p.ListingCreated(ctx, created))

	mirror, err := store.Listings.ListBySeller(ctx, "mainnet", "carol")
	require.NoError(t, err)
	require.Len(t, mirror, 1)
	assert.Equal(t, domain.ListingStatusOpen, mirror[0].Status)

	filled := envelope(domain.EventListingFilled, "v1", map[string]any{"listingId": "L1"})
	require.NoError(t, p.ListingFilled(ctx, filled))

	primary, err := store.Listings.Get(ctx, "mainnet", "v1", "L1")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusFilled, primary.Status)

	mirror, err = store.Listings.ListBySeller(ctx, "mainnet", "carol")
	require.NoError(t, err)
	require.Len(t, mirror, 1)
	assert.Equal(t, domain.ListingStatusFilled, mirror[0].Status)
}

func TestListingClose_UnknownListingIsNoop(t *testing.T) {
	p, _ := newTestProjectors(t)

	env := envelope(domain.EventListingCancelled, "v1", map[string]any{"listingId": "ghost"})
	assert.NoError(t, p.ListingCancelled(context.Background(), env))
}

func TestPoolCreated_WritesBothMirrors(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	env := envelope(domain.EventPoolCreated, "v1", map[string]any{
		"poolId": "P1", "assetA": "SHARE-V1", "assetB": "USDC",
		"reserveA": "1000", "reserveB": "250", "feeBps": 30,
	})
	require.NoError(t, p.PoolCreated(ctx, env))

	byA, err := store.Pools.ListByAsset(ctx, "mainnet", "SHARE-V1")
	require.NoError(t, err)
	require.Len(t, byA, 1)
	assert.Equal(t, "USDC", byA[0].OtherAsset)
	assert.Equal(t, "1000", byA[0].Reserve)
	assert.Equal(t, "250", byA[0].OtherReserve)

	byB, err := store.Pools.ListByAsset(ctx, "mainnet", "USDC")
	require.NoError(t, err)
	require.Len(t, byB, 1)
	assert.Equal(t, "250", byB[0].Reserve)
}

func TestSwap_UpdatesReservesAndMirrors(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	require.NoError(t, p.PoolCreated(ctx, envelope(domain.EventPoolCreated, "v1", map[string]any{
		"poolId": "P1", "assetA": "S", "assetB": "USDC", "reserveA": "1000", "reserveB": "250",
	})))

	swap := envelope(domain.EventSwap, "v1", map[string]any{
		"poolId": "P1", "reserveA": "1100", "reserveB": "228",
	})
	require.NoError(t, p.Swap(ctx, swap))

	pool, err := store.Pools.Get(ctx, "mainnet", "v1", "P1")
	require.NoError(t, err)
	assert.Equal(t, "1100", pool.ReserveA)
	assert.Equal(t, "228", pool.ReserveB)

	byA, err := store.Pools.ListByAsset(ctx, "mainnet", "S")
	require.NoError(t, err)
	require.Len(t, byA, 1)
	assert.Equal(t, "1100", byA[0].Reserve)
}

func TestSwap_WithoutReservesIsNoop(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	require.NoError(t, p.PoolCreated(ctx, envelope(domain.EventPoolCreated, "v1", map[string]any{
		"poolId": "P1", "assetA": "S", "assetB": "USDC", "reserveA": "1000", "reserveB": "250",
	})))

	swap := envelope(domain.EventSwap, "v1", map[string]any{"poolId": "P1"})
	require.NoError(t, p.Swap(ctx, swap))

	pool, err := store.Pools.Get(ctx, "mainnet", "v1", "P1")
	require.NoError(t, err)
	assert.Equal(t, "1000", pool.ReserveA)
}

func TestBuyout_VoteTalliesAccumulate(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	require.NoError(t, p.BuyoutProposed(ctx, envelope(domain.EventBuyoutProposed, "v1",
		map[string]any{"proposalId": "B1", "proposer": "dave", "price": "5000"})))

	require.NoError(t, p.BuyoutVoted(ctx, envelope(domain.EventBuyoutVoted, "v1",
		map[string]any{"proposalId": "B1", "support": true, "votes": "10"})))
	require.NoError(t, p.BuyoutVoted(ctx, envelope(domain.EventBuyoutVoted, "v1",
		map[string]any{"proposalId": "B1", "support": true, "votes": "2.5"})))
	require.NoError(t, p.BuyoutVoted(ctx, envelope(domain.EventBuyoutVoted, "v1",
		map[string]any{"proposalId": "B1", "support": false, "votes": "3"})))

	b, err := store.Buyouts.Get(ctx, "mainnet", "v1", "B1")
	require.NoError(t, err)
	assert.Equal(t, "12.5", b.ForVotes)
	assert.Equal(t, "3", b.AgainstVotes)
	assert.Equal(t, domain.BuyoutStateVoting, b.State)
}

func TestBuyoutFinalized_SuccessRedeemsVault(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	require.NoError(t, p.VaultCreated(ctx, envelope(domain.EventVaultCreated, "v1",
		map[string]any{"shareSymbol": "S"})))
	require.NoError(t, p.BuyoutProposed(ctx, envelope(domain.EventBuyoutProposed, "v1",
		map[string]any{"proposalId": "B1"})))

	require.NoError(t, p.BuyoutFinalized(ctx, envelope(domain.EventBuyoutFinalized, "v1",
		map[string]any{"proposalId": "B1", "result": "success"})))

	b, err := store.Buyouts.Get(ctx, "mainnet", "v1", "B1")
	require.NoError(t, err)
	assert.Equal(t, domain.BuyoutStateFinalized, b.State)
	assert.Equal(t, domain.BuyoutResultSuccess, b.Result)

	vault, err := store.Vaults.Get(ctx, "mainnet", "v1")
	require.NoError(t, err)
	assert.Equal(t, domain.VaultStateRedeemed, vault.State)
}

func TestBuyoutFinalized_FailureLeavesVaultOpen(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	require.NoError(t, p.VaultCreated(ctx, envelope(domain.EventVaultCreated, "v1",
		map[string]any{"shareSymbol": "S"})))

	require.NoError(t, p.BuyoutFinalized(ctx, envelope(domain.EventBuyoutFinalized, "v1",
		map[string]any{"proposalId": "B1", "result": "failure"})))

	vault, err := store.Vaults.Get(ctx, "mainnet", "v1")
	require.NoError(t, err)
	assert.Equal(t, domain.VaultStateOpen, vault.State)
}

func TestFeeAccrued_RunningTotals(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	first := envelope(domain.EventFeeAccrued, "v1", map[string]any{
		"token": "USDC", "amount": "1.5", "vaultShare": "1", "protocolShare": "0.5",
	})
	require.NoError(t, p.FeeAccrued(ctx, first))

	second := envelope(domain.EventFeeAccrued, "v1", map[string]any{
		"token": "USDC", "amount": "0.5", "vaultShare": "0.25", "protocolShare": "0.25",
	})
	second.TxID = "tx-2"
	require.NoError(t, p.FeeAccrued(ctx, second))

	totals, err := store.Fees.GetTotals(ctx, "mainnet", "USDC")
	require.NoError(t, err)
	assert.Equal(t, "2", totals.Total)
	assert.Equal(t, "1.25", totals.VaultTotal)
	assert.Equal(t, "0.75", totals.ProtocolTotal)
}

func TestFeeParams_ProposeThenActivate(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	require.NoError(t, p.FeeParamsSet(ctx, envelope(domain.EventFeeParamsSet, "v1",
		map[string]any{"feeBps": 100, "vaultSplitBps": 7000, "protocolSplitBps": 3000})))

	require.NoError(t, p.FeeParamsProposed(ctx, envelope(domain.EventFeeParamsProposed, "v1",
		map[string]any{"feeBps": 50, "vaultSplitBps": 8000, "protocolSplitBps": 2000})))

	state, err := store.Fees.GetVaultFeeState(ctx, "mainnet", "v1")
	require.NoError(t, err)
	assert.Equal(t, 100, state.FeeBps)
	require.NotNil(t, state.PendingFeeBps)
	assert.Equal(t, 50, *state.PendingFeeBps)

	require.NoError(t, p.FeeParamsActivated(ctx, envelope(domain.EventFeeParamsActivated, "v1",
		map[string]any{"feeBps": 50, "vaultSplitBps": 8000, "protocolSplitBps": 2000})))

	state, err = store.Fees.GetVaultFeeState(ctx, "mainnet", "v1")
	require.NoError(t, err)
	assert.Equal(t, 50, state.FeeBps)
	assert.Nil(t, state.PendingFeeBps)
	assert.Nil(t, state.PendingEffectiveAt)
}

func TestDistributionAndClaim(t *testing.T) {
	p, store := newTestProjectors(t)
	ctx := context.Background()

	require.NoError(t, p.DistributionScheduled(ctx, envelope(domain.EventDistributionScheduled, "v1",
		map[string]any{"programId": "D1", "asset": "USDC", "totalAmount": "1000"})))

	require.NoError(t, p.PayoutClaimed(ctx, envelope(domain.EventPayoutClaimed, "v1",
		map[string]any{"programId": "D1", "account": "alice", "amount": "12.5"})))

	claim, err := store.Distributions.GetClaim(ctx, "mainnet", "D1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "12.5", claim.Amount)
}
