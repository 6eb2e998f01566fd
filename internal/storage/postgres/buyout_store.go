package postgres

import (
	"context"
	"fmt"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// BuyoutStore implements storage.BuyoutStore using PostgreSQL.
type BuyoutStore struct {
	pool *Pool
}

// NewBuyoutStore creates a new BuyoutStore.
func NewBuyoutStore(pool *Pool) *BuyoutStore {
	return &BuyoutStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BuyoutStore = (*BuyoutStore)(nil)

// Upsert inserts or replaces a buyout proposal.
func (s *BuyoutStore) Upsert(ctx context.Context, b *domain.Buyout) error {
	if b == nil || b.ProposalID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO buyouts (
			network, vault_id, proposal_id, proposer, price, for_votes, against_votes, state, result, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (network, vault_id, proposal_id) DO UPDATE SET
			proposer = EXCLUDED.proposer,
			price = EXCLUDED.price,
			for_votes = EXCLUDED.for_votes,
			against_votes = EXCLUDED.against_votes,
			state = EXCLUDED.state,
			result = EXCLUDED.result,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		b.Network, b.VaultID, b.ProposalID, b.Proposer, b.Price, b.ForVotes, b.AgainstVotes, b.State, b.Result, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert buyout: %w", err)
	}
	return nil
}

// Get retrieves a proposal. Returns ErrNotFound if not exists.
func (s *BuyoutStore) Get(ctx context.Context, network, vaultID, proposalID string) (*domain.Buyout, error) {
	query := `
		SELECT network, vault_id, proposal_id, proposer, price, for_votes, against_votes, state, result, updated_at
		FROM buyouts
		WHERE network = $1 AND vault_id = $2 AND proposal_id = $3
	`

	var b domain.Buyout
	err := s.pool.QueryRow(ctx, query, network, vaultID, proposalID).Scan(
		&b.Network, &b.VaultID, &b.ProposalID, &b.Proposer, &b.Price, &b.ForVotes, &b.AgainstVotes, &b.State, &b.Result, &b.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get buyout: %w", err)
	}
	return &b, nil
}
