package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// PoolStore implements storage.PoolStore using PostgreSQL.
type PoolStore struct {
	pool *Pool
}

// NewPoolStore creates a new PoolStore.
func NewPoolStore(pool *Pool) *PoolStore {
	return &PoolStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PoolStore = (*PoolStore)(nil)

// Upsert inserts or replaces the primary pool row.
func (s *PoolStore) Upsert(ctx context.Context, p *domain.Pool) error {
	if p == nil || p.PoolID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO pools (
			network, vault_id, pool_id, asset_a, asset_b, reserve_a, reserve_b, fee_bps, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (network, vault_id, pool_id) DO UPDATE SET
			asset_a = EXCLUDED.asset_a,
			asset_b = EXCLUDED.asset_b,
			reserve_a = EXCLUDED.reserve_a,
			reserve_b = EXCLUDED.reserve_b,
			fee_bps = EXCLUDED.fee_bps,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		p.Network, p.VaultID, p.PoolID, p.AssetA, p.AssetB, p.ReserveA, p.ReserveB, p.FeeBps, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert pool: %w", err)
	}
	return nil
}

// Get retrieves a pool. Returns ErrNotFound if not exists.
func (s *PoolStore) Get(ctx context.Context, network, vaultID, poolID string) (*domain.Pool, error) {
	query := `
		SELECT network, vault_id, pool_id, asset_a, asset_b, reserve_a, reserve_b, fee_bps, created_at, updated_at
		FROM pools
		WHERE network = $1 AND vault_id = $2 AND pool_id = $3
	`

	var p domain.Pool
	err := s.pool.QueryRow(ctx, query, network, vaultID, poolID).Scan(
		&p.Network, &p.VaultID, &p.PoolID, &p.AssetA, &p.AssetB, &p.ReserveA, &p.ReserveB, &p.FeeBps, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pool: %w", err)
	}
	return &p, nil
}

// SetReserves updates the primary row's reserves; no-op on missing rows.
func (s *PoolStore) SetReserves(ctx context.Context, network, vaultID, poolID, reserveA, reserveB string, updatedAt int64) error {
	query := `UPDATE pools SET reserve_a = $4, reserve_b = $5, updated_at = $6 WHERE network = $1 AND vault_id = $2 AND pool_id = $3`

	if _, err := s.pool.Exec(ctx, query, network, vaultID, poolID, reserveA, reserveB, updatedAt); err != nil {
		return fmt.Errorf("set pool reserves: %w", err)
	}
	return nil
}

// UpsertByAsset inserts or replaces one asset-keyed mirror row.
func (s *PoolStore) UpsertByAsset(ctx context.Context, p *domain.PoolByAsset) error {
	if p == nil || p.PoolID == "" || p.Asset == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO pools_by_asset (
			network, asset, pool_id, vault_id, other_asset, reserve, other_reserve, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (network, asset, pool_id) DO UPDATE SET
			vault_id = EXCLUDED.vault_id,
			other_asset = EXCLUDED.other_asset,
			reserve = EXCLUDED.reserve,
			other_reserve = EXCLUDED.other_reserve,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		p.Network, p.Asset, p.PoolID, p.VaultID, p.OtherAsset, p.Reserve, p.OtherReserve, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert pool by asset: %w", err)
	}
	return nil
}

// ListByAsset retrieves mirror rows for an asset ordered by pool id ASC.
func (s *PoolStore) ListByAsset(ctx context.Context, network, asset string) ([]*domain.PoolByAsset, error) {
	query := `
		SELECT network, asset, pool_id, vault_id, other_asset, reserve, other_reserve, updated_at
		FROM pools_by_asset
		WHERE network = $1 AND asset = $2
		ORDER BY pool_id ASC
	`

	rows, err := s.pool.Query(ctx, query, network, asset)
	if err != nil {
		return nil, fmt.Errorf("list pools by asset: %w", err)
	}
	defer rows.Close()

	return scanPoolsByAsset(rows)
}

// scanPoolsByAsset scans multiple rows into a slice of PoolByAsset.
func scanPoolsByAsset(rows pgx.Rows) ([]*domain.PoolByAsset, error) {
	var pools []*domain.PoolByAsset

	for rows.Next() {
		var p domain.PoolByAsset

		err := rows.Scan(
			&p.Network, &p.Asset, &p.PoolID, &p.VaultID, &p.OtherAsset, &p.Reserve, &p.OtherReserve, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan pool by asset row: %w", err)
		}

		pools = append(pools, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pool by asset rows: %w", err)
	}

	return pools, nil
}
