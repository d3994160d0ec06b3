package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseQuantity reads a quantity typed at the edit surface. Blank input is a
// valid "no value". The second result is false when the input must be
// rejected: not a number, not finite, or negative.
func ParseQuantity(raw string) (decimal.NullDecimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, false
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}

// FormatQuantity renders an optional quantity, using blank for unset.
func FormatQuantity(q decimal.NullDecimal, blank string) string {
	if !q.Valid {
		return blank
	}
	return q.Decimal.String()
}
