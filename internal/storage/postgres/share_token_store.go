package postgres

import (
	"context"
	"fmt"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// ShareTokenStore implements storage.ShareTokenStore using PostgreSQL.
type ShareTokenStore struct {
	pool *Pool
}

// NewShareTokenStore creates a new ShareTokenStore.
func NewShareTokenStore(pool *Pool) *ShareTokenStore {
	return &ShareTokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ShareTokenStore = (*ShareTokenStore)(nil)

// Upsert inserts or replaces a share token row.
func (s *ShareTokenStore) Upsert(ctx context.Context, tok *domain.ShareToken) error {
	if tok == nil || tok.Symbol == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO share_tokens (
			network, symbol, vault_id, decimals, total_supply, mode, treasury, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (network, symbol) DO UPDATE SET
			vault_id = EXCLUDED.vault_id,
			decimals = EXCLUDED.decimals,
			total_supply = EXCLUDED.total_supply,
			mode = EXCLUDED.mode,
			treasury = EXCLUDED.treasury,
			created_at = EXCLUDED.created_at
	`

	_, err := s.pool.Exec(ctx, query,
		tok.Network,
		tok.Symbol,
		tok.VaultID,
		tok.Decimals,
		tok.TotalSupply,
		tok.Mode,
		tok.Treasury,
		tok.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert share token: %w", err)
	}
	return nil
}

// Get retrieves a share token by symbol. Returns ErrNotFound if not exists.
func (s *ShareTokenStore) Get(ctx context.Context, network, symbol string) (*domain.ShareToken, error) {
	query := `
		SELECT network, symbol, vault_id, decimals, total_supply, mode, treasury, created_at
		FROM share_tokens
		WHERE network = $1 AND symbol = $2
	`

	var tok domain.ShareToken
	err := s.pool.QueryRow(ctx, query, network, symbol).Scan(
		&tok.Network,
		&tok.Symbol,
		&tok.VaultID,
		&tok.Decimals,
		&tok.TotalSupply,
		&tok.Mode,
		&tok.Treasury,
		&tok.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get share token: %w", err)
	}
	return &tok, nil
}

// SetTotalSupply updates the total supply field only; no-op on missing rows.
func (s *ShareTokenStore) SetTotalSupply(ctx context.Context, network, symbol, totalSupply string) error {
	query := `UPDATE share_tokens SET total_supply = $3 WHERE network = $1 AND symbol = $2`

	if _, err := s.pool.Exec(ctx, query, network, symbol, totalSupply); err != nil {
		return fmt.Errorf("set share token total supply: %w", err)
	}
	return nil
}

// SetMode updates the transfer mode field only; no-op on missing rows.
func (s *ShareTokenStore) SetMode(ctx context.Context, network, symbol, mode string) error {
	query := `UPDATE share_tokens SET mode = $3 WHERE network = $1 AND symbol = $2`

	if _, err := s.pool.Exec(ctx, query, network, symbol, mode); err != nil {
		return fmt.Errorf("set share token mode: %w", err)
	}
	return nil
}
