// Package storage defines the store interfaces the projectors write
// through. Implementations live in the postgres and memory subpackages.
package storage

import (
	"context"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
)

// ProcessedEventStore tracks which event ids have been claimed for
// projection.
type ProcessedEventStore interface {
	// Claim atomically records (network, txId, evIndex) as processed.
	// Returns true only for the first claim of a given id; false for every
	// subsequent claim. Must be a single conditional insert, not a
	// read-then-write.
	Claim(ctx context.Context, network, txID string, evIndex int) (bool, error)
}

// EventAuditStore provides access to the generic event_audit table.
type EventAuditStore interface {
	// Insert writes one audit row. Redelivered rows overwrite in place.
	Insert(ctx context.Context, a *domain.EventAudit) error

	// GetByVault retrieves audit rows for a vault ordered by
	// (block_height, tx_index, ev_index) ASC.
	GetByVault(ctx context.Context, network, vaultID string) ([]*domain.EventAudit, error)
}

// VaultStore provides access to the vaults table.
type VaultStore interface {
	// Upsert inserts or replaces a vault row.
	Upsert(ctx context.Context, v *domain.Vault) error

	// Get retrieves a vault. Returns ErrNotFound if not exists.
	Get(ctx context.Context, network, vaultID string) (*domain.Vault, error)

	// SetMaxSupply updates the max supply field only.
	SetMaxSupply(ctx context.Context, network, vaultID, maxSupply string, updatedAt int64) error

	// SetState updates the lifecycle state only.
	SetState(ctx context.Context, network, vaultID, state string, updatedAt int64) error
}

// ShareTokenStore provides access to the share_tokens table.
type ShareTokenStore interface {
	// Upsert inserts or replaces a share token row.
	Upsert(ctx context.Context, tok *domain.ShareToken) error

	// Get retrieves a share token by symbol. Returns ErrNotFound if not exists.
	Get(ctx context.Context, network, symbol string) (*domain.ShareToken, error)

	// SetTotalSupply updates the total supply field only.
	SetTotalSupply(ctx context.Context, network, symbol, totalSupply string) error

	// SetMode updates the transfer mode field only.
	SetMode(ctx context.Context, network, symbol, mode string) error
}

// BalanceStore provides access to the balances table.
type BalanceStore interface {
	// Get retrieves one account balance. Returns ErrNotFound if no row
	// exists yet.
	Get(ctx context.Context, network, assetSymbol, account string) (*domain.Balance, error)

	// Set inserts or replaces one account balance.
	Set(ctx context.Context, b *domain.Balance) error

	// ListByAsset retrieves all balances of an asset ordered by account ASC.
	ListByAsset(ctx context.Context, network, assetSymbol string) ([]*domain.Balance, error)
}

// ListingStore provides access to the listings table and its seller-keyed
// mirror. The projector, not the store, keeps the two in lockstep.
type ListingStore interface {
	// Upsert inserts or replaces the primary listing row.
	Upsert(ctx context.Context, l *domain.Listing) error

	// Get retrieves a listing. Returns ErrNotFound if not exists.
	Get(ctx context.Context, network, vaultID, listingID string) (*domain.Listing, error)

	// SetStatus updates the primary row's status.
	SetStatus(ctx context.Context, network, vaultID, listingID, status string, updatedAt int64) error

	// UpsertBySeller inserts or replaces the seller-keyed mirror row.
	UpsertBySeller(ctx context.Context, l *domain.Listing) error

	// SetStatusBySeller updates the mirror row's status.
	SetStatusBySeller(ctx context.Context, network, seller, listingID, status string, updatedAt int64) error

	// ListBySeller retrieves a seller's listings ordered by listing id ASC.
	ListBySeller(ctx context.Context, network, seller string) ([]*domain.Listing, error)
}

// PoolStore provides access to the pools table and its asset-keyed mirror.
type PoolStore interface {
	// Upsert inserts or replaces the primary pool row.
	Upsert(ctx context.Context, p *domain.Pool) error

	// Get retrieves a pool. Returns ErrNotFound if not exists.
	Get(ctx context.Context, network, vaultID, poolID string) (*domain.Pool, error)

	// SetReserves updates the primary row's reserves.
	SetReserves(ctx context.Context, network, vaultID, poolID, reserveA, reserveB string, updatedAt int64) error

	// UpsertByAsset inserts or replaces one asset-keyed mirror row.
	UpsertByAsset(ctx context.Context, p *domain.PoolByAsset) error

	// ListByAsset retrieves mirror rows for an asset ordered by pool id ASC.
	ListByAsset(ctx context.Context, network, asset string) ([]*domain.PoolByAsset, error)
}

// DistributionStore provides access to distributions and their claims.
type DistributionStore interface {
	// Upsert inserts or replaces a distribution program.
	Upsert(ctx context.Context, d *domain.Distribution) error

	// Get retrieves a distribution. Returns ErrNotFound if not exists.
	Get(ctx context.Context, network, vaultID, programID string) (*domain.Distribution, error)

	// UpsertClaim inserts or replaces one account's claim record.
	UpsertClaim(ctx context.Context, c *domain.Claim) error

	// GetClaim retrieves a claim. Returns ErrNotFound if not exists.
	GetClaim(ctx context.Context, network, programID, account string) (*domain.Claim, error)
}

// BuyoutStore provides access to the buyouts table.
type BuyoutStore interface {
	// Upsert inserts or replaces a buyout proposal.
	Upsert(ctx context.Context, b *domain.Buyout) error

	// Get retrieves a proposal. Returns ErrNotFound if not exists.
	Get(ctx context.Context, network, vaultID, proposalID string) (*domain.Buyout, error)
}

// FeeStore provides access to fee accrual audit rows, running totals, and
// per-vault fee parameter schedules.
type FeeStore interface {
	// InsertFeeEvent appends one fee accrual audit row. Redelivered rows
	// overwrite in place.
	InsertFeeEvent(ctx context.Context, e *domain.FeeEvent) error

	// GetTotals retrieves running totals for (network, token). Returns
	// ErrNotFound if no fee has accrued yet.
	GetTotals(ctx context.Context, network, token string) (*domain.FeeTotals, error)

	// UpsertTotals inserts or replaces running totals.
	UpsertTotals(ctx context.Context, t *domain.FeeTotals) error

	// GetVaultFeeState retrieves a vault's fee schedule. Returns
	// ErrNotFound if not exists.
	GetVaultFeeState(ctx context.Context, network, vaultID string) (*domain.VaultFeeState, error)

	// UpsertVaultFeeState inserts or replaces a vault's fee schedule.
	UpsertVaultFeeState(ctx context.Context, s *domain.VaultFeeState) error
}

// Store bundles every store the projection pipeline needs.
type Store struct {
	ProcessedEvents ProcessedEventStore
	EventAudit      EventAuditStore
	Vaults          VaultStore
	ShareTokens     ShareTokenStore
	Balances        BalanceStore
	Listings        ListingStore
	Pools           PoolStore
	Distributions   DistributionStore
	Buyouts         BuyoutStore
	Fees            FeeStore
}
