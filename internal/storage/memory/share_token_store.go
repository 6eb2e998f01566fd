package memory

import (
	"context"
	"sync"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

type tokenKey struct {
	Network string
	Symbol  string
}

// ShareTokenStore is an in-memory implementation of storage.ShareTokenStore.
type ShareTokenStore struct {
	mu   sync.RWMutex
	rows map[tokenKey]*domain.ShareToken
}

// NewShareTokenStore creates a new in-memory share token store.
func NewShareTokenStore() *ShareTokenStore {
	return &ShareTokenStore{rows: make(map[tokenKey]*domain.ShareToken)}
}

// Upsert inserts or replaces a share token row.
func (s *ShareTokenStore) Upsert(_ context.Context, tok *domain.ShareToken) error {
	if tok == nil || tok.Symbol == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *tok
	s.rows[tokenKey{Network: tok.Network, Symbol: tok.Symbol}] = &cp
	return nil
}

// Get retrieves a share token by symbol. Returns ErrNotFound if not exists.
func (s *ShareTokenStore) Get(_ context.Context, network, symbol string) (*domain.ShareToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tok, ok := s.rows[tokenKey{Network: network, Symbol: symbol}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *tok
	return &cp, nil
}

// SetTotalSupply updates the total supply field only; no-op on missing rows.
func (s *ShareTokenStore) SetTotalSupply(_ context.Context, network, symbol, totalSupply string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.rows[tokenKey{Network: network, Symbol: symbol}]
	if !ok {
		return nil
	}
	tok.TotalSupply = totalSupply
	return nil
}

// SetMode updates the transfer mode field only; no-op on missing rows.
func (s *ShareTokenStore) SetMode(_ context.Context, network, symbol, mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.rows[tokenKey{Network: network, Symbol: symbol}]
	if !ok {
		return nil
	}
	tok.Mode = mode
	return nil
}

// Verify interface compliance at compile time.
var _ storage.ShareTokenStore = (*ShareTokenStore)(nil)
