package postgres

import "github.com/10thfloor/NFractional-sub000/internal/storage"

// NewStore builds a storage.Store bundle backed by one connection pool.
func NewStore(pool *Pool) *storage.Store {
	return &storage.Store{
		ProcessedEvents: NewProcessedEventStore(pool),
		EventAudit:      NewEventAuditStore(pool),
		Vaults:          NewVaultStore(pool),
		ShareTokens:     NewShareTokenStore(pool),
		Balances:        NewBalanceStore(pool),
		Listings:        NewListingStore(pool),
		Pools:           NewPoolStore(pool),
		Distributions:   NewDistributionStore(pool),
		Buyouts:         NewBuyoutStore(pool),
		Fees:            NewFeeStore(pool),
	}
}
