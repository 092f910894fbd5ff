// Package money holds the decimal conventions shared by the ledger: amounts
// carry two decimal places, conversion rates six.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	Scale     int32 = 2
	RateScale int32 = 6
)

var Zero = decimal.Zero

// MaxAmount is the largest value a NUMERIC(18,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999999999.99")

// Parse reads a decimal string such as "100.50".
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// MustParse is Parse for literals in tests and constants.
func MustParse(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// IsValidAmount reports whether d is strictly positive, needs no more than
// two decimal places and fits MaxAmount.
func IsValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Truncate(Scale)) && InRange(d)
}

// InRange reports whether d fits a NUMERIC(18,2) column.
func InRange(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// maxRate is the largest value a NUMERIC(18,6) column holds.
var maxRate = decimal.RequireFromString("999999999999.999999")

// IsValidRate reports whether r is strictly positive and fits rate scale.
func IsValidRate(r decimal.Decimal) bool {
	return r.IsPositive() && r.Equal(r.Truncate(RateScale)) && r.LessThanOrEqual(maxRate)
}

// Convert returns amount*rate rounded half-up to two places. Inputs are
// positive so half-away-from-zero is half-up.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(Scale)
}

// FromMinor turns an integer minor-unit amount (kobo, cents) into a decimal.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -Scale)
}

// ToMinor turns a two-place decimal into integer minor units.
func ToMinor(d decimal.Decimal) int64 {
	return d.Shift(Scale).Round(0).IntPart()
}

// Format renders d with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
