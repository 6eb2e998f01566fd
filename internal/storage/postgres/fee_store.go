package postgres

import (
	"context"
	"fmt"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// FeeStore implements storage.FeeStore using PostgreSQL.
type FeeStore struct {
	pool *Pool
}

// NewFeeStore creates a new FeeStore.
func NewFeeStore(pool *Pool) *FeeStore {
	return &FeeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.FeeStore = (*FeeStore)(nil)

// InsertFeeEvent appends one fee accrual audit row, overwriting any
// redelivered copy.
func (s *FeeStore) InsertFeeEvent(ctx context.Context, e *domain.FeeEvent) error {
	if e == nil || e.TxID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO fee_events (
			network, tx_id, ev_index, vault_id, token, amount, vault_share, protocol_share, block_height, ts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (network, tx_id, ev_index) DO UPDATE SET
			vault_id = EXCLUDED.vault_id,
			token = EXCLUDED.token,
			amount = EXCLUDED.amount,
			vault_share = EXCLUDED.vault_share,
			protocol_share = EXCLUDED.protocol_share,
			block_height = EXCLUDED.block_height,
			ts = EXCLUDED.ts
	`

	_, err := s.pool.Exec(ctx, query,
		e.Network, e.TxID, e.EvIndex, e.VaultID, e.Token, e.Amount, e.VaultShare, e.ProtocolShare, e.BlockHeight, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert fee event: %w", err)
	}
	return nil
}

// GetTotals retrieves running totals for (network, token).
func (s *FeeStore) GetTotals(ctx context.Context, network, token string) (*domain.FeeTotals, error) {
	query := `
		SELECT network, token, total, vault_total, protocol_total, updated_at
		FROM fee_totals
		WHERE network = $1 AND token = $2
	`

	var t domain.FeeTotals
	err := s.pool.QueryRow(ctx, query, network, token).Scan(
		&t.Network, &t.Token, &t.Total, &t.VaultTotal, &t.ProtocolTotal, &t.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get fee totals: %w", err)
	}
	return &t, nil
}

// UpsertTotals inserts or replaces running totals.
func (s *FeeStore) UpsertTotals(ctx context.Context, t *domain.FeeTotals) error {
	if t == nil || t.Token == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO fee_totals (network, token, total, vault_total, protocol_total, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (network, token) DO UPDATE SET
			total = EXCLUDED.total,
			vault_total = EXCLUDED.vault_total,
			protocol_total = EXCLUDED.protocol_total,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query, t.Network, t.Token, t.Total, t.VaultTotal, t.ProtocolTotal, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert fee totals: %w", err)
	}
	return nil
}

// GetVaultFeeState retrieves a vault's fee schedule.
func (s *FeeStore) GetVaultFeeState(ctx context.Context, network, vaultID string) (*domain.VaultFeeState, error) {
	query := `
		SELECT network, vault_id, fee_bps, vault_split_bps, protocol_split_bps,
		       pending_fee_bps, pending_vault_split_bps, pending_protocol_split_bps, pending_effective_at, updated_at
		FROM vault_fee_state
		WHERE network = $1 AND vault_id = $2
	`

	var st domain.VaultFeeState
	err := s.pool.QueryRow(ctx, query, network, vaultID).Scan(
		&st.Network, &st.VaultID, &st.FeeBps, &st.VaultSplitBps, &st.ProtocolSplitBps,
		&st.PendingFeeBps, &st.PendingVaultSplitBps, &st.PendingProtocolSplitBps, &st.PendingEffectiveAt, &st.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get vault fee state: %w", err)
	}
	return &st, nil
}

// UpsertVaultFeeState inserts or replaces a vault's fee schedule.
func (s *FeeStore) UpsertVaultFeeState(ctx context.Context, st *domain.VaultFeeState) error {
	if st == nil || st.VaultID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO vault_fee_state (
			network, vault_id, fee_bps, vault_split_bps, protocol_split_bps,
			pending_fee_bps, pending_vault_split_bps, pending_protocol_split_bps, pending_effective_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (network, vault_id) DO UPDATE SET
			fee_bps = EXCLUDED.fee_bps,
			vault_split_bps = EXCLUDED.vault_split_bps,
			protocol_split_bps = EXCLUDED.protocol_split_bps,
			pending_fee_bps = EXCLUDED.pending_fee_bps,
			pending_vault_split_bps = EXCLUDED.pending_vault_split_bps,
			pending_protocol_split_bps = EXCLUDED.pending_protocol_split_bps,
			pending_effective_at = EXCLUDED.pending_effective_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		st.Network, st.VaultID, st.FeeBps, st.VaultSplitBps, st.ProtocolSplitBps,
		st.PendingFeeBps, st.PendingVaultSplitBps, st.PendingProtocolSplitBps, st.PendingEffectiveAt, st.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert vault fee state: %w", err)
	}
	return nil
}
