// Package memory provides in-memory store implementations used by tests
// and by --use-memory runs of the indexer.
package memory

import "github.com/10thfloor/NFractional-sub000/internal/storage"

// NewStore builds a storage.Store bundle backed entirely by memory.
func NewStore() *storage.Store {
	return &storage.Store{
		ProcessedEvents: NewProcessedEventStore(),
		EventAudit:      NewEventAuditStore(),
		Vaults:          NewVaultStore(),
		ShareTokens:     NewShareTokenStore(),
		Balances:        NewBalanceStore(),
		Listings:        NewListingStore(),
		Pools:           NewPoolStore(),
		Distributions:   NewDistributionStore(),
		Buyouts:         NewBuyoutStore(),
		Fees:            NewFeeStore(),
	}
}
