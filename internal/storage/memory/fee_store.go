package memory

import (
	"context"
	"sync"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

type feeEventKey struct {
	Network string
	TxID    string
	EvIndex int
}

type feeTotalsKey struct {
	Network string
	Token   string
}

type vaultFeeKey struct {
	Network string
	VaultID string
}

// FeeStore is an in-memory implementation of storage.FeeStore.
type FeeStore struct {
	mu     sync.RWMutex
	events map[feeEventKey]*domain.FeeEvent
	totals map[feeTotalsKey]*domain.FeeTotals
	vaults map[vaultFeeKey]*domain.VaultFeeState
}

// NewFeeStore creates a new in-memory fee store.
func NewFeeStore() *FeeStore {
	return &FeeStore{
		events: make(map[feeEventKey]*domain.FeeEvent),
		totals: make(map[feeTotalsKey]*domain.FeeTotals),
		vaults: make(map[vaultFeeKey]*domain.VaultFeeState),
	}
}

// InsertFeeEvent appends one fee accrual audit row, overwriting any
// redelivered copy.
func (s *FeeStore) InsertFeeEvent(_ context.Context, e *domain.FeeEvent) error {
	if e == nil || e.TxID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *e
	s.events[feeEventKey{Network: e.Network, TxID: e.TxID, EvIndex: e.EvIndex}] = &cp
	return nil
}

// GetTotals retrieves running totals for (network, token).
func (s *FeeStore) GetTotals(_ context.Context, network, token string) (*domain.FeeTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.totals[feeTotalsKey{Network: network, Token: token}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// UpsertTotals inserts or replaces running totals.
func (s *FeeStore) UpsertTotals(_ context.Context, t *domain.FeeTotals) error {
	if t == nil || t.Token == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	s.totals[feeTotalsKey{Network: t.Network, Token: t.Token}] = &cp
	return nil
}

// GetVaultFeeState retrieves a vault's fee schedule.
func (s *FeeStore) GetVaultFeeState(_ context.Context, network, vaultID string) (*domain.VaultFeeState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vaults[vaultFeeKey{Network: network, VaultID: vaultID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

// UpsertVaultFeeState inserts or replaces a vault's fee schedule.
func (s *FeeStore) UpsertVaultFeeState(_ context.Context, v *domain.VaultFeeState) error {
	if v == nil || v.VaultID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *v
	s.vaults[vaultFeeKey{Network: v.Network, VaultID: v.VaultID}] = &cp
	return nil
}

// Verify interface compliance at compile time.
var _ storage.FeeStore = (*FeeStore)(nil)
