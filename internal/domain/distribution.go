package domain

// Distribution is a payout program for a vault's share holders, keyed by
// (network, vaultId, programId).
type Distribution struct {
	Network     string
	VaultID     string
	ProgramID   string
	Asset       string
	TotalAmount string // scaled decimal string
	Schedule    string // upstream schedule descriptor, stored verbatim
	StartAt     int64  // Unix milliseconds
	EndAt       int64  // Unix milliseconds
	UpdatedAt   int64  // Unix milliseconds
}

// Claim records one account's payout claim against a distribution program,
// keyed by (network, programId, account).
type Claim struct {
	Network   string
	ProgramID string
	Account   string
	Amount    string // scaled decimal string
	ClaimedAt int64  // Unix milliseconds
}
