package memory

import (
	"context"
	"sync"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

type vaultKey struct {
	Network string
	VaultID string
}

// VaultStore is an in-memory implementation of storage.VaultStore.
type VaultStore struct {
	mu   sync.RWMutex
	rows map[vaultKey]*domain.Vault
}

// NewVaultStore creates a new in-memory vault store.
func NewVaultStore() *VaultStore {
	return &VaultStore{rows: make(map[vaultKey]*domain.Vault)}
}

// Upsert inserts or replaces a vault row.
func (s *VaultStore) Upsert(_ context.Context, v *domain.Vault) error {
	if v == nil || v.VaultID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *v
	s.rows[vaultKey{Network: v.Network, VaultID: v.VaultID}] = &cp
	return nil
}

// Get retrieves a vault. Returns ErrNotFound if not exists.
func (s *VaultStore) Get(_ context.Context, network, vaultID string) (*domain.Vault, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.rows[vaultKey{Network: network, VaultID: vaultID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

// SetMaxSupply updates the max supply field only. Updating a vault that
// was never created is a no-op, matching an UPDATE that affects no rows.
func (s *VaultStore) SetMaxSupply(_ context.Context, network, vaultID, maxSupply string, updatedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.rows[vaultKey{Network: network, VaultID: vaultID}]
	if !ok {
		return nil
	}
	v.MaxSupply = maxSupply
	v.UpdatedAt = updatedAt
	return nil
}

// SetState updates the lifecycle state field only.
func (s *VaultStore) SetState(_ context.Context, network, vaultID, state string, updatedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.rows[vaultKey{Network: network, VaultID: vaultID}]
	if !ok {
		return nil
	}
	v.State = state
	v.UpdatedAt = updatedAt
	return nil
}

// Verify interface compliance at compile time.
var _ storage.VaultStore = (*VaultStore)(nil)
