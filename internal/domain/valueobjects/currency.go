// Package valueobjects contains immutable value objects that represent domain
// concepts without identity. They are compared by their values, not by identity.
package valueobjects

import (
	"errors"
	"strings"
)

// Currency represents a monetary currency code (ISO 4217).
// It's a value object - immutable and validated on creation.
type Currency struct {
	code string // Private field ensures immutability
}

// KES is the Kenyan Shilling, the currency the platform operates in.
var KES = Currency{code: "KES"}

// supportedCurrencies is the whitelist of allowed currency codes.
// The platform is single-currency today; adding a code here is the only
// change needed to admit another one at the value-object level.
var supportedCurrencies = map[string]bool{
	"KES": true,
}

// ErrInvalidCurrency is returned when an unsupported currency code is provided.
var ErrInvalidCurrency = errors.New("unsupported currency code")

// NewCurrency creates a new Currency value object with validation.
// The code is normalized to uppercase, so "kes" and "KES" are equivalent.
//
// Example:
//
//	curr, err := NewCurrency("KES")
//	if err != nil {
//	    // handle error
//	}
func NewCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	if !supportedCurrencies[code] {
		return Currency{}, ErrInvalidCurrency
	}

	return Currency{code: code}, nil
}

// MustNewCurrency is a convenience function that panics on invalid input.
// Use only in initialization code where invalid input indicates a programming error.
func MustNewCurrency(code string) Currency {
	curr, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return curr
}

// IsSupported reports whether the given code passes the whitelist without
// constructing a Currency. Used by request validators.
func IsSupported(code string) bool {
	return supportedCurrencies[strings.ToUpper(strings.TrimSpace(code))]
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string {
	return c.code
}

// Equals checks if two currencies are the same.
// Value objects are compared by value, not by reference.
func (c Currency) Equals(other Currency) bool {
	return c.code == other.code
}

// String implements fmt.Stringer for readable output.
func (c Currency) String() string {
	return c.code
}

// IsZero checks if this is an uninitialized currency.
// Useful for optional currency fields.
func (c Currency) IsZero() bool {
	return c.code == ""
}
