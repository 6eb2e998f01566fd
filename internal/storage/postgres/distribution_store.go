package postgres

import (
	"context"
	"fmt"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// DistributionStore implements storage.DistributionStore using PostgreSQL.
type DistributionStore struct {
	pool *Pool
}

// NewDistributionStore creates a new DistributionStore.
func NewDistributionStore(pool *Pool) *DistributionStore {
	return &DistributionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DistributionStore = (*DistributionStore)(nil)

// Upsert inserts or replaces a distribution program.
func (s *DistributionStore) Upsert(ctx context.Context, d *domain.Distribution) error {
	if d == nil || d.ProgramID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO distributions (
			network, vault_id, program_id, asset, total_amount, schedule, start_at, end_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (network, vault_id, program_id) DO UPDATE SET
			asset = EXCLUDED.asset,
			total_amount = EXCLUDED.total_amount,
			schedule = EXCLUDED.schedule,
			start_at = EXCLUDED.start_at,
			end_at = EXCLUDED.end_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		d.Network, d.VaultID, d.ProgramID, d.Asset, d.TotalAmount, d.Schedule, d.StartAt, d.EndAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert distribution: %w", err)
	}
	return nil
}

// Get retrieves a distribution. Returns ErrNotFound if not exists.
func (s *DistributionStore) Get(ctx context.Context, network, vaultID, programID string) (*domain.Distribution, error) {
	query := `
		SELECT network, vault_id, program_id, asset, total_amount, schedule, start_at, end_at, updated_at
		FROM distributions
		WHERE network = $1 AND vault_id = $2 AND program_id = $3
	`

	var d domain.Distribution
	err := s.pool.QueryRow(ctx, query, network, vaultID, programID).Scan(
		&d.Network, &d.VaultID, &d.ProgramID, &d.Asset, &d.TotalAmount, &d.Schedule, &d.StartAt, &d.EndAt, &d.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get distribution: %w", err)
	}
	return &d, nil
}

// UpsertClaim inserts or replaces one account's claim record.
func (s *DistributionStore) UpsertClaim(ctx context.Context, c *domain.Claim) error {
	if c == nil || c.ProgramID == "" || c.Account == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO claims (network, program_id, account, amount, claimed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (network, program_id, account) DO UPDATE SET
			amount = EXCLUDED.amount,
			claimed_at = EXCLUDED.claimed_at
	`

	_, err := s.pool.Exec(ctx, query, c.Network, c.ProgramID, c.Account, c.Amount, c.ClaimedAt)
	if err != nil {
		return fmt.Errorf("upsert claim: %w", err)
	}
	return nil
}

// GetClaim retrieves a claim. Returns ErrNotFound if not exists.
func (s *DistributionStore) GetClaim(ctx context.Context, network, programID, account string) (*domain.Claim, error) {
	query := `
		SELECT network, program_id, account, amount, claimed_at
		FROM claims
		WHERE network = $1 AND program_id = $2 AND account = $3
	`

	var c domain.Claim
	err := s.pool.QueryRow(ctx, query, network, programID, account).Scan(
		&c.Network, &c.ProgramID, &c.Account, &c.Amount, &c.ClaimedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get claim: %w", err)
	}
	return &c, nil
}
