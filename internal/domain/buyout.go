package domain

// Buyout states.
const (
	BuyoutStateVoting    = "voting"
	BuyoutStateFinalized = "finalized" // terminal
)

// Buyout results, set when a proposal is finalized.
const (
	BuyoutResultSuccess = "success"
	BuyoutResultFailure = "failure"
)

// Buyout is a governance proposal to buy out a vault's underlying, keyed by
// (network, vaultId, proposalId).
type Buyout struct {
	Network      string
	VaultID      string
	ProposalID   string
	Proposer     string
	Price        string // offered price, scaled decimal string
	ForVotes     string // scaled decimal string
	AgainstVotes string // scaled decimal string
	State        string // voting | finalized
	Result       string // success | failure, empty until finalized
	UpdatedAt    int64  // Unix milliseconds
}
