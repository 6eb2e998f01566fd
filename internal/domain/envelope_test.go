package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	data := []byte(`{"network":"mainnet","type":"Transfer","vaultId":"v1","blockHeight":42,"txIndex":1,"evIndex":2,"txId":"0xabc","payload":{"amount":"1.5"},"ts":1700000000000}`)

	env, err := DecodeEnvelope(data)
	require.NoError(t, err)

	assert.Equal(t, "mainnet", env.Network)
	assert.Equal(t, "Transfer", env.Type)
	assert.Equal(t, "v1", env.VaultID)
	assert.Equal(t, int64(42), env.BlockHeight)
	assert.Equal(t, 1, env.TxIndex)
	assert.Equal(t, 2, env.EvIndex)
	assert.Equal(t, "0xabc", env.TxID)
	assert.JSONEq(t, `{"amount":"1.5"}`, string(env.Payload))
	assert.Equal(t, int64(1700000000000), env.Timestamp)
}

func TestDecodeEnvelope_StripsControlChars(t *testing.T) {
	data := []byte("{\"network\":\"mainnet\",\x00\x01\"type\":\"Transfer\",\"txId\":\"t1\",\"payload\":{}}")

	env, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, "Transfer", env.Type)
}

func TestDecodeEnvelope_BraceRecovery(t *testing.T) {
	// Envelope wrapped in log noise recovers by slicing first '{' to last '}'.
	data := []byte(`2024-01-01 event: {"network":"mainnet","type":"Redeemed","txId":"t2","payload":{}} trailing`)

	env, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, "Redeemed", env.Type)
	assert.Equal(t, "t2", env.TxID)
}

func TestDecodeEnvelope_Malformed(t *testing.T) {
	_, err := DecodeEnvelope([]byte("not json at all"))
	assert.True(t, errors.Is(err, ErrMalformedEnvelope))

	_, err = DecodeEnvelope([]byte("{ still { not } json"))
	assert.True(t, errors.Is(err, ErrMalformedEnvelope))
}

func TestDecodeEnvelope_MissingIdentity(t *testing.T) {
	// network, type and txId are required; everything else is optional.
	_, err := DecodeEnvelope([]byte(`{"network":"mainnet","type":"Transfer"}`))
	assert.True(t, errors.Is(err, ErrIncompleteEnvelope))

	_, err = DecodeEnvelope([]byte(`{"type":"Transfer","txId":"t1"}`))
	assert.True(t, errors.Is(err, ErrIncompleteEnvelope))
}
