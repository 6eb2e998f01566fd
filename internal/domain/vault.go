package domain

// Vault states. Both redeemed and invalid are terminal.
const (
	VaultStateOpen     = "open"
	VaultStateRedeemed = "redeemed"
	VaultStateInvalid  = "invalid"
)

// Vault is a fractionalized NFT vault. Corresponds to the vaults table.
type Vault struct {
	Network     string
	VaultID     string
	Collection  string // NFT collection identifier
	TokenID     string // underlying token id within the collection
	ShareSymbol string // symbol of the share token backing this vault
	Policy      string
	Creator     string
	State       string // open | redeemed | invalid
	MaxSupply   string // scaled decimal string, empty until MaxSupplySet
	UpdatedAt   int64  // Unix milliseconds
}
