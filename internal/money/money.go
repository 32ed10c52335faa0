// Package money converts between decimal amount text and integer minor units.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of minor-unit digits: amounts are stored in cents.
const Scale = 2

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrTooPrecise    = errors.New("amount has more than 2 decimal places")
	ErrOutOfRange    = errors.New("amount out of range")
)

// ParseCents parses text such as "12.34" or "-5" into cents.
func ParseCents(text string) (int64, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	return FromDecimal(d)
}

// FromDecimal converts d to cents without rounding.
func FromDecimal(d decimal.Decimal) (int64, error) {
	cents := d.Shift(Scale)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s", ErrTooPrecise, d.String())
	}
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, d.String())
	}
	return cents.IntPart(), nil
}

// ToDecimal converts cents to a decimal amount.
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -Scale)
}

// FormatCents renders cents with exactly two decimal places, e.g. "-10.05".
func FormatCents(cents int64) string {
	return ToDecimal(cents).StringFixed(Scale)
}
