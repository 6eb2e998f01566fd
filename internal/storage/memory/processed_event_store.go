package memory

import (
	"context"
	"sync"

	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// processedKey is the uniqueness key across redeliveries.
type processedKey struct {
	Network string
	TxID    string
	EvIndex int
}

// ProcessedEventStore is an in-memory implementation of
// storage.ProcessedEventStore.
type ProcessedEventStore struct {
	mu   sync.Mutex
	keys map[processedKey]bool
}

// NewProcessedEventStore creates a new in-memory processed event store.
func NewProcessedEventStore() *ProcessedEventStore {
	return &ProcessedEventStore{keys: make(map[processedKey]bool)}
}

// Claim records (network, txId, evIndex) as processed. Returns true only
// the first time the id is seen.
func (s *ProcessedEventStore) Claim(_ context.Context, network, txID string, evIndex int) (bool, error) {
	if network == "" || txID == "" {
		return false, storage.ErrInvalidInput
	}

	key := processedKey{Network: network, TxID: txID, EvIndex: evIndex}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

// Verify interface compliance at compile time.
var _ storage.ProcessedEventStore = (*ProcessedEventStore)(nil)
