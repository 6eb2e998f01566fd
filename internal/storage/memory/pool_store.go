package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

type poolKey struct {
	Network string
	VaultID string
	PoolID  string
}

type poolAssetKey struct {
	Network string
	Asset   string
	PoolID  string
}

// PoolStore is an in-memory implementation of storage.PoolStore.
type PoolStore struct {
	mu      sync.RWMutex
	rows    map[poolKey]*domain.Pool
	byAsset map[poolAssetKey]*domain.PoolByAsset
}

// NewPoolStore creates a new in-memory pool store.
func NewPoolStore() *PoolStore {
	return &PoolStore{
		rows:    make(map[poolKey]*domain.Pool),
		byAsset: make(map[poolAssetKey]*domain.PoolByAsset),
	}
}

// Upsert inserts or replaces the primary pool row.
func (s *PoolStore) Upsert(_ context.Context, p *domain.Pool) error {
	if p == nil || p.PoolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.rows[poolKey{Network: p.Network, VaultID: p.VaultID, PoolID: p.PoolID}] = &cp
	return nil
}

// Get retrieves a pool. Returns ErrNotFound if not exists.
func (s *PoolStore) Get(_ context.Context, network, vaultID, poolID string) (*domain.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.rows[poolKey{Network: network, VaultID: vaultID, PoolID: poolID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// SetReserves updates the primary row's reserves; no-op on missing rows.
func (s *PoolStore) SetReserves(_ context.Context, network, vaultID, poolID, reserveA, reserveB string, updatedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.rows[poolKey{Network: network, VaultID: vaultID, PoolID: poolID}]
	if !ok {
		return nil
	}
	p.ReserveA = reserveA
	p.ReserveB = reserveB
	p.UpdatedAt = updatedAt
	return nil
}

// UpsertByAsset inserts or replaces one asset-keyed mirror row.
func (s *PoolStore) UpsertByAsset(_ context.Context, p *domain.PoolByAsset) error {
	if p == nil || p.PoolID == "" || p.Asset == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.byAsset[poolAssetKey{Network: p.Network, Asset: p.Asset, PoolID: p.PoolID}] = &cp
	return nil
}

// ListByAsset retrieves mirror rows for an asset ordered by pool id ASC.
func (s *PoolStore) ListByAsset(_ context.Context, network, asset string) ([]*domain.PoolByAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PoolByAsset
	for _, p := range s.byAsset {
		if p.Network == network && p.Asset == asset {
			cp := *p
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PoolID < result[j].PoolID
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.PoolStore = (*PoolStore)(nil)
