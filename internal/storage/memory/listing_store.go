package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

type listingKey struct {
	Network   string
	VaultID   string
	ListingID string
}

type listingSellerKey struct {
	Network   string
	Seller    string
	ListingID string
}

// ListingStore is an in-memory implementation of storage.ListingStore.
// Primary rows and seller-mirror rows are held separately, as in the
// database, so tests observe mirror drift if a projector forgets one side.
type ListingStore struct {
	mu       sync.RWMutex
	rows     map[listingKey]*domain.Listing
	bySeller map[listingSellerKey]*domain.Listing
}

// NewListingStore creates a new in-memory listing store.
func NewListingStore() *ListingStore {
	return &ListingStore{
		rows:     make(map[listingKey]*domain.Listing),
		bySeller: make(map[listingSellerKey]*domain.Listing),
	}
}

// Upsert inserts or replaces the primary listing row.
func (s *ListingStore) Upsert(_ context.Context, l *domain.Listing) error {
	if l == nil || l.ListingID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *l
	s.rows[listingKey{Network: l.Network, VaultID: l.VaultID, ListingID: l.ListingID}] = &cp
	return nil
}

// Get retrieves a listing. Returns ErrNotFound if not exists.
func (s *ListingStore) Get(_ context.Context, network, vaultID, listingID string) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.rows[listingKey{Network: network, VaultID: vaultID, ListingID: listingID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

// SetStatus updates the primary row's status; no-op on missing rows.
func (s *ListingStore) SetStatus(_ context.Context, network, vaultID, listingID, status string, updatedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.rows[listingKey{Network: network, VaultID: vaultID, ListingID: listingID}]
	if !ok {
		return nil
	}
	l.Status = status
	l.UpdatedAt = updatedAt
	return nil
}

// UpsertBySeller inserts or replaces the seller-keyed mirror row.
func (s *ListingStore) UpsertBySeller(_ context.Context, l *domain.Listing) error {
	if l == nil || l.ListingID == "" || l.Seller == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *l
	s.bySeller[listingSellerKey{Network: l.Network, Seller: l.Seller, ListingID: l.ListingID}] = &cp
	return nil
}

// SetStatusBySeller updates the mirror row's status; no-op on missing rows.
func (s *ListingStore) SetStatusBySeller(_ context.Context, network, seller, listingID, status string, updatedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.bySeller[listingSellerKey{Network: network, Seller: seller, ListingID: listingID}]
	if !ok {
		return nil
	}
	l.Status = status
	l.UpdatedAt = updatedAt
	return nil
}

// ListBySeller retrieves a seller's mirror rows ordered by listing id ASC.
func (s *ListingStore) ListBySeller(_ context.Context, network, seller string) ([]*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Listing
	for _, l := range s.bySeller {
		if l.Network == network && l.Seller == seller {
			cp := *l
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ListingID < result[j].ListingID
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.ListingStore = (*ListingStore)(nil)
