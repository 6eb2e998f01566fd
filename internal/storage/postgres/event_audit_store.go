package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

// EventAuditStore implements storage.EventAuditStore using PostgreSQL.
type EventAuditStore struct {
	pool *Pool
}

// NewEventAuditStore creates a new EventAuditStore.
func NewEventAuditStore(pool *Pool) *EventAuditStore {
	return &EventAuditStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EventAuditStore = (*EventAuditStore)(nil)

// Insert writes one audit row. Redelivered events overwrite in place so the
// audit write stays idempotent without a conditional statement.
func (s *EventAuditStore) Insert(ctx context.Context, a *domain.EventAudit) error {
	if a == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO event_audit (
			network, vault_id, block_height, tx_index, ev_index, tx_id, event_type, payload, ts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (network, vault_id, block_height, tx_index, ev_index) DO UPDATE SET
			tx_id = EXCLUDED.tx_id,
			event_type = EXCLUDED.event_type,
			payload = EXCLUDED.payload,
			ts = EXCLUDED.ts
	`

	payload := a.Payload
	if len(payload) == 0 {
		payload = []byte("null")
	}

	_, err := s.pool.Exec(ctx, query,
		a.Network,
		a.VaultID,
		a.BlockHeight,
		a.TxIndex,
		a.EvIndex,
		a.TxID,
		a.Type,
		payload,
		a.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert event audit: %w", err)
	}
	return nil
}

// GetByVault retrieves audit rows for a vault ordered by chain position.
func (s *EventAuditStore) GetByVault(ctx context.Context, network, vaultID string) ([]*domain.EventAudit, error) {
	query := `
		SELECT network, vault_id, block_height, tx_index, ev_index, tx_id, event_type, payload, ts
		FROM event_audit
		WHERE network = $1 AND vault_id = $2
		ORDER BY block_height ASC, tx_index ASC, ev_index ASC
	`

	rows, err := s.pool.Query(ctx, query, network, vaultID)
	if err != nil {
		return nil, fmt.Errorf("get event audit by vault: %w", err)
	}
	defer rows.Close()

	return scanEventAudits(rows)
}

// scanEventAudits scans multiple rows into a slice of EventAudit.
func scanEventAudits(rows pgx.Rows) ([]*domain.EventAudit, error) {
	var audits []*domain.EventAudit

	for rows.Next() {
		var a domain.EventAudit

		err := rows.Scan(
			&a.Network,
			&a.VaultID,
			&a.BlockHeight,
			&a.TxIndex,
			&a.EvIndex,
			&a.TxID,
			&a.Type,
			&a.Payload,
			&a.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event audit row: %w", err)
		}

		audits = append(audits, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event audit rows: %w", err)
	}

	return audits, nil
}
