package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnits is an amount in the smallest currency unit (cents for USD).
type MinorUnits int64

var (
	hundred  = decimal.NewFromInt(100)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// ParseAmount parses a client supplied price, either a JSON number or a quoted
// string, and converts it to minor units by multiplying by 100 and truncating.
// Non-numeric, zero, negative and out-of-range prices are rejected with
// ErrInvalidAmount.
func ParseAmount(raw string) (decimal.Decimal, MinorUnits, error) {
	s := strings.Trim(strings.TrimSpace(raw), `"`)
	if s == "" {
		return decimal.Zero, 0, fmt.Errorf("%w: price is required", ErrInvalidAmount)
	}

	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if !price.IsPositive() {
		return decimal.Zero, 0, fmt.Errorf("%w: price must be greater than zero", ErrInvalidAmount)
	}

	minor := price.Mul(hundred).Truncate(0)
	if !minor.IsPositive() {
		return decimal.Zero, 0, fmt.Errorf("%w: price is below the smallest currency unit", ErrInvalidAmount)
	}
	if minor.GreaterThan(maxMinor) {
		return decimal.Zero, 0, fmt.Errorf("%w: price is too large", ErrInvalidAmount)
	}
	return price, MinorUnits(minor.IntPart()), nil
}

// RoundMoney rounds to cents and returns the float used on the wire.
func RoundMoney(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
