package domain

// Pool is an AMM-style liquidity pool for a vault's share token, keyed by
// (network, vaultId, poolId).
type Pool struct {
	Network   string
	VaultID   string
	PoolID    string
	AssetA    string
	AssetB    string
	ReserveA  string // scaled decimal string
	ReserveB  string // scaled decimal string
	FeeBps    int    // swap fee in basis points
	CreatedAt int64  // Unix milliseconds
	UpdatedAt int64  // Unix milliseconds
}

// PoolByAsset is the asset-keyed mirror of a pool: one row per asset of the
// pool, carrying the other asset and the matching reserve pairing.
type PoolByAsset struct {
	Network      string
	Asset        string
	PoolID       string
	VaultID      string
	OtherAsset   string
	Reserve      string // reserve of Asset, scaled decimal string
	OtherReserve string // reserve of OtherAsset, scaled decimal string
	UpdatedAt    int64  // Unix milliseconds
}
