package domain

// ShareToken is the fungible share token of one vault. TotalSupply moves
// only on mint/burn-equivalent events, never on transfers.
type ShareToken struct {
	Network     string
	Symbol      string
	VaultID     string
	Decimals    int    // always 8 for shares minted by this system
	TotalSupply string // scaled decimal string
	Mode        string // transfer mode, e.g. "open"
	Treasury    string
	CreatedAt   int64 // Unix milliseconds
}

// Balance is one account's holding of one asset. No non-negative invariant
// is enforced here; the row mirrors whatever the event stream implies.
type Balance struct {
	Network     string
	AssetSymbol string
	Account     string
	Amount      string // scaled decimal string
	UpdatedAt   int64  // Unix milliseconds
}
