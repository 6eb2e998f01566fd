package projection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage/memory"
)

func TestPipeline_RedeliveryIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	pipe := NewPipeline(store, nil)
	ctx := context.Background()

	msg := []byte(`{
		"network": "mainnet", "type": "SharesMinted", "vaultId": "v1",
		"blockHeight": 100, "txIndex": 0, "evIndex": 0, "txId": "tx-1",
		"payload": {"symbol": "S", "account": "alice", "amount": "100"}
	}`)

	require.NoError(t, pipe.Handle(ctx, msg))
	require.NoError(t, pipe.Handle(ctx, msg))

	bal, err := store.Balances.Get(ctx, "mainnet", "S", "alice")
	require.NoError(t, err)
	assert.Equal(t, "100", bal.Amount, "redelivered mint must not double the balance")
}

func TestPipeline_DistinctEventsBothApply(t *testing.T) {
	store := memory.NewStore()
	pipe := NewPipeline(store, nil)
	ctx := context.Background()

	first := []byte(`{"network":"mainnet","type":"SharesMinted","vaultId":"v1","txId":"tx-1","evIndex":0,"payload":{"symbol":"S","account":"alice","amount":"100"}}`)
	second := []byte(`{"network":"mainnet","type":"SharesMinted","vaultId":"v1","txId":"tx-1","evIndex":1,"payload":{"symbol":"S","account":"alice","amount":"50"}}`)

	require.NoError(t, pipe.Handle(ctx, first))
	require.NoError(t, pipe.Handle(ctx, second))

	bal, err := store.Balances.Get(ctx, "mainnet", "S", "alice")
	require.NoError(t, err)
	assert.Equal(t, "150", bal.Amount)
}

func TestPipeline_UnknownTypeGetsAuditOnly(t *testing.T) {
	store := memory.NewStore()
	pipe := NewPipeline(store, nil)
	ctx := context.Background()

	msg := []byte(`{"network":"mainnet","type":"SomethingNew","vaultId":"v1","txId":"tx-9","evIndex":0,"payload":{"k":"v"}}`)
	require.NoError(t, pipe.Handle(ctx, msg))

	rows, err := store.EventAudit.GetByVault(ctx, "mainnet", "v1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SomethingNew", rows[0].Type)
}

func TestPipeline_AuditPlaceholderForVaultlessEvents(t *testing.T) {
	store := memory.NewStore()
	pipe := NewPipeline(store, nil)
	ctx := context.Background()

	msg := []byte(`{"network":"mainnet","type":"SomethingNew","txId":"tx-9","evIndex":0}`)
	require.NoError(t, pipe.Handle(ctx, msg))

	rows, err := store.EventAudit.GetByVault(ctx, "mainnet", domain.AuditVaultPlaceholder)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestPipeline_MalformedMessageReturnsError(t *testing.T) {
	store := memory.NewStore()
	pipe := NewPipeline(store, nil)

	err := pipe.Handle(context.Background(), []byte("not json at all"))
	assert.Error(t, err)
}

func TestPipeline_IncompleteEnvelopeReturnsError(t *testing.T) {
	store := memory.NewStore()
	pipe := NewPipeline(store, nil)

	// Valid JSON but no txId, so no stable event id exists.
	err := pipe.Handle(context.Background(), []byte(`{"network":"mainnet","type":"Transfer"}`))
	assert.ErrorIs(t, err, domain.ErrIncompleteEnvelope)
}

func TestPipeline_AuditOrderedByChainPosition(t *testing.T) {
	store := memory.NewStore()
	pipe := NewPipeline(store, nil)
	ctx := context.Background()

	later := []byte(`{"network":"mainnet","type":"X","vaultId":"v1","blockHeight":200,"txIndex":0,"evIndex":0,"txId":"tx-b"}`)
	earlier := []byte(`{"network":"mainnet","type":"X","vaultId":"v1","blockHeight":100,"txIndex":0,"evIndex":0,"txId":"tx-a"}`)

	require.NoError(t, pipe.Handle(ctx, later))
	require.NoError(t, pipe.Handle(ctx, earlier))

	rows, err := store.EventAudit.GetByVault(ctx, "mainnet", "v1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "tx-a", rows[0].TxID)
	assert.Equal(t, "tx-b", rows[1].TxID)
}
