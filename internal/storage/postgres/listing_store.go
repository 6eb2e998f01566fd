package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// ListingStore implements storage.ListingStore using PostgreSQL. The
// listings table and its listings_by_seller mirror are written separately;
// the projector keeps them in lockstep.
type ListingStore struct {
	pool *Pool
}

// NewListingStore creates a new ListingStore.
func NewListingStore(pool *Pool) *ListingStore {
	return &ListingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ListingStore = (*ListingStore)(nil)

// Upsert inserts or replaces the primary listing row.
func (s *ListingStore) Upsert(ctx context.Context, l *domain.Listing) error {
	if l == nil || l.ListingID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO listings (
			network, vault_id, listing_id, seller, amount, price, payment_token, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (network, vault_id, listing_id) DO UPDATE SET
			seller = EXCLUDED.seller,
			amount = EXCLUDED.amount,
			price = EXCLUDED.price,
			payment_token = EXCLUDED.payment_token,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		l.Network, l.VaultID, l.ListingID, l.Seller, l.Amount, l.Price, l.PaymentToken, l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert listing: %w", err)
	}
	return nil
}

// Get retrieves a listing. Returns ErrNotFound if not exists.
func (s *ListingStore) Get(ctx context.Context, network, vaultID, listingID string) (*domain.Listing, error) {
	query := `
		SELECT network, vault_id, listing_id, seller, amount, price, payment_token, status, created_at, updated_at
		FROM listings
		WHERE network = $1 AND vault_id = $2 AND listing_id = $3
	`

	var l domain.Listing
	err := s.pool.QueryRow(ctx, query, network, vaultID, listingID).Scan(
		&l.Network, &l.VaultID, &l.ListingID, &l.Seller, &l.Amount, &l.Price, &l.PaymentToken, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return &l, nil
}

// SetStatus updates the primary row's status; no-op on missing rows.
func (s *ListingStore) SetStatus(ctx context.Context, network, vaultID, listingID, status string, updatedAt int64) error {
	query := `UPDATE listings SET status = $4, updated_at = $5 WHERE network = $1 AND vault_id = $2 AND listing_id = $3`

	if _, err := s.pool.Exec(ctx, query, network, vaultID, listingID, status, updatedAt); err != nil {
		return fmt.Errorf("set listing status: %w", err)
	}
	return nil
}

// UpsertBySeller inserts or replaces the seller-keyed mirror row.
func (s *ListingStore) UpsertBySeller(ctx context.Context, l *domain.Listing) error {
	if l == nil || l.ListingID == "" || l.Seller == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO listings_by_seller (
			network, seller, listing_id, vault_id, amount, price, payment_token, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (network, seller, listing_id) DO UPDATE SET
			vault_id = EXCLUDED.vault_id,
			amount = EXCLUDED.amount,
			price = EXCLUDED.price,
			payment_token = EXCLUDED.payment_token,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		l.Network, l.Seller, l.ListingID, l.VaultID, l.Amount, l.Price, l.PaymentToken, l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert listing by seller: %w", err)
	}
	return nil
}

// SetStatusBySeller updates the mirror row's status; no-op on missing rows.
func (s *ListingStore) SetStatusBySeller(ctx context.Context, network, seller, listingID, status string, updatedAt int64) error {
	query := `UPDATE listings_by_seller SET status = $4, updated_at = $5 WHERE network = $1 AND seller = $2 AND listing_id = $3`

	if _, err := s.pool.Exec(ctx, query, network, seller, listingID, status, updatedAt); err != nil {
		return fmt.Errorf("set listing status by seller: %w", err)
	}
	return nil
}

// ListBySeller retrieves a seller's mirror rows ordered by listing id ASC.
func (s *ListingStore) ListBySeller(ctx context.Context, network, seller string) ([]*domain.Listing, error) {
	query := `
		SELECT network, vault_id, listing_id, seller, amount, price, payment_token, status, created_at, updated_at
		FROM listings_by_seller
		WHERE network = $1 AND seller = $2
		ORDER BY listing_id ASC
	`

	rows, err := s.pool.Query(ctx, query, network, seller)
	if err != nil {
		return nil, fmt.Errorf("list listings by seller: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// scanListings scans multiple rows into a slice of Listing.
func scanListings(rows pgx.Rows) ([]*domain.Listing, error) {
	var listings []*domain.Listing

	for rows.Next() {
		var l domain.Listing

		err := rows.Scan(
			&l.Network, &l.VaultID, &l.ListingID, &l.Seller, &l.Amount, &l.Price, &l.PaymentToken, &l.Status, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan listing row: %w", err)
		}

		listings = append(listings, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listing rows: %w", err)
	}

	return listings, nil
}
