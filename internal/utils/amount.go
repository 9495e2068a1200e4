package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountCleaner = strings.NewReplacer(",", "", " ", "", "\t", "", "\n", "")

const (
	maxAmountInputLen = 32
	maxAmountExponent = 12
	minAmountExponent = -12
)

// maxAmount is the exclusive bound of a NUMERIC(14, 2) column.
var maxAmount = decimal.New(1, 12)

// NormalizeAmount parses a money string that may carry thousands separators.
// Anything unparsable or outside the storable range is zero.
func NormalizeAmount(s string) decimal.Decimal {
	cleaned := amountCleaner.Replace(strings.TrimSpace(s))
	if cleaned == "" || len(cleaned) > maxAmountInputLen {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if d.Exponent() > maxAmountExponent || d.Exponent() < minAmountExponent {
		return decimal.Zero
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return decimal.Zero
	}
	return d
}
