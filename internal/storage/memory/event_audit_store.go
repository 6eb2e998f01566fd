package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/10thfloor/NFractional-sub000/internal/domain"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
)

type auditKey struct {
	Network     string
	VaultID     string
	BlockHeight int64
	TxIndex     int
	EvIndex     int
}

// EventAuditStore is an in-memory implementation of storage.EventAuditStore.
type EventAuditStore struct {
	mu   sync.RWMutex
	rows map[auditKey]*domain.EventAudit
}

// NewEventAuditStore creates a new in-memory event audit store.
func NewEventAuditStore() *EventAuditStore {
	return &EventAuditStore{rows: make(map[auditKey]*domain.EventAudit)}
}

// Insert writes one audit row, overwriting any redelivered copy.
func (s *EventAuditStore) Insert(_ context.Context, a *domain.EventAudit) error {
	if a == nil {
		return storage.ErrInvalidInput
	}

	key := auditKey{
		Network:     a.Network,
		VaultID:     a.VaultID,
		BlockHeight: a.BlockHeight,
		TxIndex:     a.TxIndex,
		EvIndex:     a.EvIndex,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *a
	cp.Payload = append([]byte(nil), a.Payload...)
	s.rows[key] = &cp
	return nil
}

// GetByVault retrieves audit rows for a vault ordered by chain position.
func (s *EventAuditStore) GetByVault(_ context.Context, network, vaultID string) ([]*domain.EventAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EventAudit
	for _, a := range s.rows {
		if a.Network == network && a.VaultID == vaultID {
			cp := *a
			cp.Payload = append([]byte(nil), a.Payload...)
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].BlockHeight != result[j].BlockHeight {
			return result[i].BlockHeight < result[j].BlockHeight
		}
		if result[i].TxIndex != result[j].TxIndex {
			return result[i].TxIndex < result[j].TxIndex
		}
		return result[i].EvIndex < result[j].EvIndex
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.EventAuditStore = (*EventAuditStore)(nil)
