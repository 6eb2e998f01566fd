package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// BalanceStore implements storage.BalanceStore using PostgreSQL.
type BalanceStore struct {
	pool *Pool
}

// NewBalanceStore creates a new BalanceStore.
func NewBalanceStore(pool *Pool) *BalanceStore {
	return &BalanceStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BalanceStore = (*BalanceStore)(nil)

// Get retrieves one account balance. Returns ErrNotFound if no row exists.
func (s *BalanceStore) Get(ctx context.Context, network, assetSymbol, account string) (*domain.Balance, error) {
	query := `
		SELECT network, asset_symbol, account, amount, updated_at
		FROM balances
		WHERE network = $1 AND asset_symbol = $2 AND account = $3
	`

	var b domain.Balance
	err := s.pool.QueryRow(ctx, query, network, assetSymbol, account).Scan(
		&b.Network,
		&b.AssetSymbol,
		&b.Account,
		&b.Amount,
		&b.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// Set inserts or replaces one account balance.
func (s *BalanceStore) Set(ctx context.Context, b *domain.Balance) error {
	if b == nil || b.AssetSymbol == "" || b.Account == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO balances (network, asset_symbol, account, amount, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (network, asset_symbol, account) DO UPDATE SET
			amount = EXCLUDED.amount,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query, b.Network, b.AssetSymbol, b.Account, b.Amount, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

// ListByAsset retrieves all balances of an asset ordered by account ASC.
func (s *BalanceStore) ListByAsset(ctx context.Context, network, assetSymbol string) ([]*domain.Balance, error) {
	query := `
		SELECT network, asset_symbol, account, amount, updated_at
		FROM balances
		WHERE network = $1 AND asset_symbol = $2
		ORDER BY account ASC
	`

	rows, err := s.pool.Query(ctx, query, network, assetSymbol)
	if err != nil {
		return nil, fmt.Errorf("list balances by asset: %w", err)
	}
	defer rows.Close()

	return scanBalances(rows)
}

// scanBalances scans multiple rows into a slice of Balance.
func scanBalances(rows pgx.Rows) ([]*domain.Balance, error) {
	var balances []*domain.Balance

	for rows.Next() {
		var b domain.Balance

		err := rows.Scan(&b.Network, &b.AssetSymbol, &b.Account, &b.Amount, &b.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan balance row: %w", err)
		}

		balances = append(balances, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate balance rows: %w", err)
	}

	return balances, nil
}
