package domain

// Listing statuses. Everything except open is terminal.
const (
	ListingStatusOpen      = "open"
	ListingStatusFilled    = "filled"
	ListingStatusCancelled = "cancelled"
	ListingStatusExpired   = "expired"
)

// Listing is a share sale listing, keyed by (network, vaultId, listingId).
// A seller-keyed mirror row is kept in lockstep for reverse lookup.
type Listing struct {
	Network      string
	VaultID      string
	ListingID    string
	Seller       string
	Amount       string // share amount offered, scaled decimal string
	Price        string // asking price, scaled decimal string
	PaymentToken string
	Status       string // open | filled | cancelled | expired
	CreatedAt    int64  // Unix milliseconds
	UpdatedAt    int64  // Unix milliseconds
}
