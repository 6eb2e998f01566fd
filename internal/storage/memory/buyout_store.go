package memory

import (
	"context"
	"sync"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

type buyoutKey struct {
	Network    string
	VaultID    string
	ProposalID string
}

// BuyoutStore is an in-memory implementation of storage.BuyoutStore.
type BuyoutStore struct {
	mu   sync.RWMutex
	rows map[buyoutKey]*domain.Buyout
}

// NewBuyoutStore creates a new in-memory buyout store.
func NewBuyoutStore() *BuyoutStore {
	return &BuyoutStore{rows: make(map[buyoutKey]*domain.Buyout)}
}

// Upsert inserts or replaces a buyout proposal.
func (s *BuyoutStore) Upsert(_ context.Context, b *domain.Buyout) error {
	if b == nil || b.ProposalID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *b
	s.rows[buyoutKey{Network: b.Network, VaultID: b.VaultID, ProposalID: b.ProposalID}] = &cp
	return nil
}

// Get retrieves a proposal. Returns ErrNotFound if not exists.
func (s *BuyoutStore) Get(_ context.Context, network, vaultID, proposalID string) (*domain.Buyout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.rows[buyoutKey{Network: network, VaultID: vaultID, ProposalID: proposalID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// Verify interface compliance at compile time.
var _ storage.BuyoutStore = (*BuyoutStore)(nil)
