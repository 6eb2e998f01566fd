package memory

import (
	"context"
	"sync"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

type distributionKey struct {
	Network   string
	VaultID   string
	ProgramID string
}

type claimKey struct {
	Network   string
	ProgramID string
	Account   string
}

// DistributionStore is an in-memory implementation of
// storage.DistributionStore.
type DistributionStore struct {
	mu     sync.RWMutex
	rows   map[distributionKey]*domain.Distribution
	claims map[claimKey]*domain.Claim
}

// NewDistributionStore creates a new in-memory distribution store.
func NewDistributionStore() *DistributionStore {
	return &DistributionStore{
		rows:   make(map[distributionKey]*domain.Distribution),
		claims: make(map[claimKey]*domain.Claim),
	}
}

// Upsert inserts or replaces a distribution program.
func (s *DistributionStore) Upsert(_ context.Context, d *domain.Distribution) error {
	if d == nil || d.ProgramID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *d
	s.rows[distributionKey{Network: d.Network, VaultID: d.VaultID, ProgramID: d.ProgramID}] = &cp
	return nil
}

// Get retrieves a distribution. Returns ErrNotFound if not exists.
func (s *DistributionStore) Get(_ context.Context, network, vaultID, programID string) (*domain.Distribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.rows[distributionKey{Network: network, VaultID: vaultID, ProgramID: programID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// UpsertClaim inserts or replaces one account's claim record.
func (s *DistributionStore) UpsertClaim(_ context.Context, c *domain.Claim) error {
	if c == nil || c.ProgramID == "" || c.Account == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.claims[claimKey{Network: c.Network, ProgramID: c.ProgramID, Account: c.Account}] = &cp
	return nil
}

// GetClaim retrieves a claim. Returns ErrNotFound if not exists.
func (s *DistributionStore) GetClaim(_ context.Context, network, programID, account string) (*domain.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.claims[claimKey{Network: network, ProgramID: programID, Account: account}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// Verify interface compliance at compile time.
var _ storage.DistributionStore = (*DistributionStore)(nil)
