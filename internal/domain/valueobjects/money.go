// Package valueobjects - Money is one of the most critical value objects in a
// financial system. It combines amount and currency to prevent common bugs
// like mixing currencies or losing precision in float arithmetic.
package valueobjects

import (
	"errors"
	"fmt"
	"math/big"
)

// Money represents a non-negative monetary amount with its currency.
// Uses big.Rat for exact decimal arithmetic: 0.1 + 0.2 is exactly 0.3 here.
//
// Value Object Pattern:
// - Immutable: all operations return new Money instances
// - Self-validating: cannot create invalid Money
// - Type-safe: prevents mixing currencies
//
// Amounts carry at most two fractional digits and are persisted as integer
// cents (see Cents).
type Money struct {
	amount   *big.Rat
	currency Currency
}

// Common domain errors for Money operations
var (
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrCurrencyMismatch   = errors.New("cannot operate on different currencies")
	ErrInsufficientAmount = errors.New("insufficient amount")
	ErrInvalidAmount      = errors.New("invalid amount format")
	ErrTooManyDecimals    = errors.New("amount has more than two decimal places")
)

// NewMoney creates a Money instance from a decimal string (e.g. "100.50").
//
// Returns an error if:
//   - the amount cannot be parsed
//   - the amount is negative
//   - the amount has more than two fractional digits
func NewMoney(amountStr string, currency Currency) (Money, error) {
	amount := new(big.Rat)
	if _, ok := amount.SetString(amountStr); !ok {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amountStr)
	}

	// Money cannot be negative; direction lives in the ledger entry type.
	if amount.Sign() < 0 {
		return Money{}, ErrNegativeAmount
	}

	// Scale must land on whole cents.
	if !new(big.Rat).Mul(amount, big.NewRat(100, 1)).IsInt() {
		return Money{}, ErrTooManyDecimals
	}

	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyFromInt creates Money from a whole-unit integer amount.
func NewMoneyFromInt(amount int64, currency Currency) (Money, error) {
	if amount < 0 {
		return Money{}, ErrNegativeAmount
	}

	return Money{
		amount:   big.NewRat(amount, 1),
		currency: currency,
	}, nil
}

// NewMoneyFromCents creates Money from integer cents, the storage format.
//
// Example:
//
//	NewMoneyFromCents(10050, KES) // 100.50 KES
func NewMoneyFromCents(cents int64, currency Currency) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}

	return Money{
		amount:   big.NewRat(cents, 100),
		currency: currency,
	}, nil
}

// Zero creates a zero money amount for the given currency.
func Zero(currency Currency) Money {
	return Money{
		amount:   big.NewRat(0, 1),
		currency: currency,
	}
}

// Currency returns the currency of this money.
func (m Money) Currency() Currency {
	return m.currency
}

// Amount returns the amount as a big.Rat.
// Returns a copy to maintain immutability.
func (m Money) Amount() *big.Rat {
	return new(big.Rat).Set(m.amount)
}

// String returns a human-readable representation, e.g. "100.50 KES".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.FloatString(2), m.currency.Code())
}

// Decimal returns the amount as a plain decimal string with two fractional
// digits, the wire format used in API responses and events.
func (m Money) Decimal() string {
	return m.amount.FloatString(2)
}

// Cents returns the amount in integer cents, the database storage format.
// Exact by construction: NewMoney rejects sub-cent precision.
func (m Money) Cents() int64 {
	scaled := new(big.Rat).Mul(m.amount, big.NewRat(100, 1))
	return scaled.Num().Int64() / scaled.Denom().Int64()
}

// Add returns a new Money with the sum of two amounts.
/// IMMUTABLE: returns a new instance, does not modify the receiver.
func (m Money) Add(other Money) (Money, error) {
	if !m.currency.Equals(other.currency) {
		return Money{}, ErrCurrencyMismatch
	}

	sum := new(big.Rat).Add(m.amount, other.amount)
	return Money{amount: sum, currency: m.currency}, nil
}

// Subtract returns a new Money with the difference.
// Returns an error if the result would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.currency.Equals(other.currency) {
		return Money{}, ErrCurrencyMismatch
	}

	diff := new(big.Rat).Sub(m.amount, other.amount)
	if diff.Sign() < 0 {
		return Money{}, ErrInsufficientAmount
	}

	return Money{amount: diff, currency: m.currency}, nil
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.Sign() == 0
}

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.Sign() > 0
}

// GreaterThan checks if this money is greater than another.
func (m Money) GreaterThan(other Money) (bool, error) {
	if !m.currency.Equals(other.currency) {
		return false, ErrCurrencyMismatch
	}
	return m.amount.Cmp(other.amount) > 0, nil
}

// GreaterThanOrEqual checks if this money is >= another.
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if !m.currency.Equals(other.currency) {
		return false, ErrCurrencyMismatch
	}
	return m.amount.Cmp(other.amount) >= 0, nil
}

// LessThan checks if this money is less than another.
func (m Money) LessThan(other Money) (bool, error) {
	if !m.currency.Equals(other.currency) {
		return false, ErrCurrencyMismatch
	}
	return m.amount.Cmp(other.amount) < 0, nil
}

// Equals checks if two money values are equal (amount and currency).
func (m Money) Equals(other Money) bool {
	return m.currency.Equals(other.currency) && m.amount.Cmp(other.amount) == 0
}
