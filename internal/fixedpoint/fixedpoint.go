// Package fixedpoint provides fixed-point arithmetic for share and fee
// amounts. Amounts are decimals truncated to 8 fractional digits, so two
// amounts that render to the same string are the same value and repeated
// add/sub never accumulates binary floating-point drift.
package fixedpoint

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by an Amount.
const Scale = 8

// Amount is a scale-8 fixed-point decimal. The zero value is zero.
type Amount struct {
	d decimal.Decimal
}

// Zero is the canonical zero amount.
var Zero = Amount{}

// FromString parses a decimal string into an Amount. Parsing is permissive:
// extra fractional digits are truncated, and any non-numeric input
// normalizes to Zero. Upstream payloads are not separately validated, so a
// malformed amount must not halt projection.
func FromString(s string) Amount {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Zero
	}
	return Amount{d.Truncate(Scale)}
}

// FromJSON converts a decoded JSON value (string, number, or json.Number)
// into an Amount. Missing or unrecognized values normalize to Zero.
func FromJSON(v any) Amount {
	switch val := v.(type) {
	case nil:
		return Zero
	case string:
		return FromString(val)
	case json.Number:
		return FromString(val.String())
	case float64:
		return Amount{decimal.NewFromFloat(val).Truncate(Scale)}
	case int:
		return Amount{decimal.NewFromInt(int64(val))}
	case int64:
		return Amount{decimal.NewFromInt(val)}
	default:
		return Zero
	}
}

// Add returns a + b. The result stays within scale 8 exactly.
func (a Amount) Add(b Amount) Amount {
	return Amount{a.d.Add(b.d)}
}

// Sub returns a - b. Negative results are representable; this layer does
// not enforce a non-negative balance invariant.
func (a Amount) Sub(b Amount) Amount {
	return Amount{a.d.Sub(b.d)}
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{a.d.Neg()}
}

// IsZero reports whether the amount equals zero.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// Equal reports whether two amounts are numerically equal.
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

// String renders the minimal decimal form: trailing fractional zeros are
// trimmed, the integer part is always present, and negative values carry a
// leading minus. FromString(a.String()) == a for every reachable amount.
func (a Amount) String() string {
	return a.d.String()
}
