// Package domain defines the entities projected by the indexer and the
// normalized event envelope it consumes.
package domain

import "encoding/json"

// Envelope is the normalized event record consumed from the durable log.
// Ordering within one chain is (BlockHeight, TxIndex, EvIndex); uniqueness
// across redeliveries is (Network, TxID, EvIndex).
type Envelope struct {
	Network     string          `json:"network"`
	Type        string          `json:"type"`
	VaultID     string          `json:"vaultId,omitempty"` // optional; not every event targets a vault
	BlockHeight int64           `json:"blockHeight"`
	TxIndex     int             `json:"txIndex"`
	EvIndex     int             `json:"evIndex"`
	TxID        string          `json:"txId"`
	Payload     json.RawMessage `json:"payload"`
	Timestamp   int64           `json:"ts,omitempty"` // Unix milliseconds, optional
}

// Event type tags emitted by the upstream normalizer.
const (
	EventVaultCreated     = "VaultCreated"
	EventMaxSupplySet     = "MaxSupplySet"
	EventUnderlyingBurned = "UnderlyingBurned"
	EventRedeemed         = "Redeemed"

	EventSharesMinted        = "SharesMinted"
	EventTransfer            = "Transfer"
	EventTransferModeChanged = "TransferModeChanged"

	EventBuyoutProposed  = "BuyoutProposed"
	EventBuyoutVoted     = "BuyoutVoted"
	EventBuyoutFinalized = "BuyoutFinalized"

	EventDistributionScheduled = "DistributionScheduled"
	EventPayoutClaimed         = "PayoutClaimed"

	EventListingCreated   = "ListingCreated"
	EventListingFilled    = "ListingFilled"
	EventListingCancelled = "ListingCancelled"
	EventListingExpired   = "ListingExpired"

	EventPoolCreated      = "PoolCreated"
	EventLiquidityAdded   = "LiquidityAdded"
	EventLiquidityRemoved = "LiquidityRemoved"
	EventSwap             = "Swap"

	EventFeeAccrued         = "FeeAccrued"
	EventFeeParamsProposed  = "FeeParamsProposed"
	EventFeeParamsActivated = "FeeParamsActivated"
	EventFeeParamsSet       = "FeeParamsSet"
)

// AuditVaultPlaceholder is stored in the audit table's vault column when an
// event carries no vault id, keeping the partition key non-empty.
const AuditVaultPlaceholder = "-"

// EventAudit is the generic audit copy written for every consumed event,
// recognized or not.
type EventAudit struct {
	Network     string
	VaultID     string // AuditVaultPlaceholder when the envelope has none
	BlockHeight int64
	TxIndex     int
	EvIndex     int
	TxID        string
	Type        string
	Payload     []byte // raw JSON payload as received
	Timestamp   int64  // Unix milliseconds
}
