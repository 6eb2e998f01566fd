package postgres

import (
	"context"
	"fmt"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// VaultStore implements storage.VaultStore using PostgreSQL.
type VaultStore struct {
	pool *Pool
}

// NewVaultStore creates a new VaultStore.
func NewVaultStore(pool *Pool) *VaultStore {
	return &VaultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.VaultStore = (*VaultStore)(nil)

// Upsert inserts or replaces a vault row.
func (s *VaultStore) Upsert(ctx context.Context, v *domain.Vault) error {
	if v == nil || v.VaultID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO vaults (
			network, vault_id, collection, token_id, share_symbol, policy, creator, state, max_supply, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (network, vault_id) DO UPDATE SET
			collection = EXCLUDED.collection,
			token_id = EXCLUDED.token_id,
			share_symbol = EXCLUDED.share_symbol,
			policy = EXCLUDED.policy,
			creator = EXCLUDED.creator,
			state = EXCLUDED.state,
			max_supply = EXCLUDED.max_supply,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		v.Network,
		v.VaultID,
		v.Collection,
		v.TokenID,
		v.ShareSymbol,
		v.Policy,
		v.Creator,
		v.State,
		v.MaxSupply,
		v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert vault: %w", err)
	}
	return nil
}

// Get retrieves a vault. Returns ErrNotFound if not exists.
func (s *VaultStore) Get(ctx context.Context, network, vaultID string) (*domain.Vault, error) {
	query := `
		SELECT network, vault_id, collection, token_id, share_symbol, policy, creator, state, max_supply, updated_at
		FROM vaults
		WHERE network = $1 AND vault_id = $2
	`

	var v domain.Vault
	err := s.pool.QueryRow(ctx, query, network, vaultID).Scan(
		&v.Network,
		&v.VaultID,
		&v.Collection,
		&v.TokenID,
		&v.ShareSymbol,
		&v.Policy,
		&v.Creator,
		&v.State,
		&v.MaxSupply,
		&v.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get vault: %w", err)
	}
	return &v, nil
}

// SetMaxSupply updates the max supply field only; no-op on missing rows.
func (s *VaultStore) SetMaxSupply(ctx context.Context, network, vaultID, maxSupply string, updatedAt int64) error {
	query := `UPDATE vaults SET max_supply = $3, updated_at = $4 WHERE network = $1 AND vault_id = $2`

	if _, err := s.pool.Exec(ctx, query, network, vaultID, maxSupply, updatedAt); err != nil {
		return fmt.Errorf("set vault max supply: %w", err)
	}
	return nil
}

// SetState updates the lifecycle state field only; no-op on missing rows.
func (s *VaultStore) SetState(ctx context.Context, network, vaultID, state string, updatedAt int64) error {
	query := `UPDATE vaults SET state = $3, updated_at = $4 WHERE network = $1 AND vault_id = $2`

	if _, err := s.pool.Exec(ctx, query, network, vaultID, state, updatedAt); err != nil {
		return fmt.Errorf("set vault state: %w", err)
	}
	return nil
}
