package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

type balanceKey struct {
	Network     string
	AssetSymbol string
	Account     string
}

// BalanceStore is an in-memory implementation of storage.BalanceStore.
type BalanceStore struct {
	mu   sync.RWMutex
	rows map[balanceKey]*domain.Balance
}

// NewBalanceStore creates a new in-memory balance store.
func NewBalanceStore() *BalanceStore {
	return &BalanceStore{rows: make(map[balanceKey]*domain.Balance)}
}

// Get retrieves one account balance. Returns ErrNotFound if no row exists.
func (s *BalanceStore) Get(_ context.Context, network, assetSymbol, account string) (*domain.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.rows[balanceKey{Network: network, AssetSymbol: assetSymbol, Account: account}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// Set inserts or replaces one account balance.
func (s *BalanceStore) Set(_ context.Context, b *domain.Balance) error {
	if b == nil || b.AssetSymbol == "" || b.Account == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *b
	s.rows[balanceKey{Network: b.Network, AssetSymbol: b.AssetSymbol, Account: b.Account}] = &cp
	return nil
}

// ListByAsset retrieves all balances of an asset ordered by account ASC.
func (s *BalanceStore) ListByAsset(_ context.Context, network, assetSymbol string) ([]*domain.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Balance
	for _, b := range s.rows {
		if b.Network == network && b.AssetSymbol == assetSymbol {
			cp := *b
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Account < result[j].Account
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.BalanceStore = (*BalanceStore)(nil)
