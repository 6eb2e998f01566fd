package postgres

import (
	"context"
	"fmt"

	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// ProcessedEventStore implements storage.ProcessedEventStore using
// PostgreSQL.
type ProcessedEventStore struct {
	pool *Pool
}

// NewProcessedEventStore creates a new ProcessedEventStore.
func NewProcessedEventStore(pool *Pool) *ProcessedEventStore {
	return &ProcessedEventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProcessedEventStore = (*ProcessedEventStore)(nil)

// Claim records (network, txId, evIndex) as processed. The insert is
// conditional at the database, so concurrent duplicate deliveries resolve
// to exactly one winner.
func (s *ProcessedEventStore) Claim(ctx context.Context, network, txID string, evIndex int) (bool, error) {
	if network == "" || txID == "" {
		return false, storage.ErrInvalidInput
	}

	query := `
		INSERT INTO processed_events (network, tx_id, ev_index)
		VALUES ($1, $2, $3)
		ON CONFLICT (network, tx_id, ev_index) DO NOTHING
	`

	tag, err := s.pool.Exec(ctx, query, network, txID, evIndex)
	if err != nil {
		return false, fmt.Errorf("claim processed event: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
