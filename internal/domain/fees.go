package domain

// FeeEvent is one fee accrual, recorded as an append-only audit row.
type FeeEvent struct {
	Network       string
	VaultID       string
	Token         string
	Amount        string // scaled decimal string
	VaultShare    string // scaled decimal string
	ProtocolShare string // scaled decimal string
	TxID          string
	EvIndex       int
	BlockHeight   int64
	Timestamp     int64 // Unix milliseconds
}

// FeeTotals is the running accrual total per (network, token), maintained
// by read-modify-write from fee events.
type FeeTotals struct {
	Network       string
	Token         string
	Total         string // scaled decimal string
	VaultTotal    string // scaled decimal string
	ProtocolTotal string // scaled decimal string
	UpdatedAt     int64  // Unix milliseconds
}

// VaultFeeState holds a vault's current fee parameters and, when a change
// has been proposed but not yet activated, the pending ones.
type VaultFeeState struct {
	Network          string
	VaultID          string
	FeeBps           int
	VaultSplitBps    int
	ProtocolSplitBps int

	// Pending schedule; nil when no change is proposed.
	PendingFeeBps           *int
	PendingVaultSplitBps    *int
	PendingProtocolSplitBps *int
	PendingEffectiveAt      *int64 // Unix milliseconds, optional even when pending

	UpdatedAt int64 // Unix milliseconds
}
