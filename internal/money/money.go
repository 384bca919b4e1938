package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is the zero monetary amount.
var Zero = decimal.Zero

// Round2 rounds a monetary amount to two decimal places using
// round-half-up semantics. Every finalized line or aggregate goes
// through this helper so component sums never drift by more than one
// rounding unit.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatBRL renders an amount for display with two fixed decimals and a
// comma decimal separator, e.g. "R$ 1234,56". Display-only; stored
// precision is unaffected.
func FormatBRL(d decimal.Decimal) string {
	return "R$ " + strings.Replace(Round2(d).StringFixed(2), ".", ",", 1)
}

// MustParse parses a decimal literal and panics on failure. Intended for
// constants and test fixtures.
func MustParse(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}
