// Package asset provides exact integer arithmetic for wei-scale amounts.
// The core uses big.Int end-to-end; decimal.Decimal appears only at the
// display boundary (formatting, never calculation).
package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrNilRaw         = errors.New("asset: nil raw value")
	ErrNegativeAmount = errors.New("asset: negative amount")
	ErrNegativeResult = errors.New("asset: operation would result in negative amount")
	ErrDivisionByZero = errors.New("asset: division by zero")
	ErrNotInteger     = errors.New("asset: value is not an integer")
)

// Amount is an immutable Value Object holding a quantity of the payment
// currency in its smallest unit (wei). Amounts are never negative.
type Amount struct {
	raw *big.Int
}

// NewAmount creates an Amount from a raw big.Int value in the smallest unit.
func NewAmount(raw *big.Int) Amount {
	if raw == nil {
		panic(ErrNilRaw)
	}
	if raw.Sign() < 0 {
		panic(ErrNegativeAmount)
	}
	return Amount{raw: new(big.Int).Set(raw)} // defensive copy
}

// Zero returns a zero Amount.
func Zero() Amount {
	return Amount{raw: big.NewInt(0)}
}

// NewAmountFromUint64 creates an Amount from a uint64 raw value.
func NewAmountFromUint64(raw uint64) Amount {
	return Amount{raw: new(big.Int).SetUint64(raw)}
}

// ParseAmount creates an Amount from a base-10 integer string. This is the
// BOUNDARY function for decoding wire values: upstream collaborators encode
// all monetary amounts as integer strings, never floats.
func ParseAmount(s string) (Amount, error) {
	raw, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("asset: invalid integer string %q: %w", s, ErrNotInteger)
	}
	if raw.Sign() < 0 {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{raw: raw}, nil
}

// Raw returns a copy of the raw big.Int value.
func (a Amount) Raw() *big.Int {
	if a.raw == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(a.raw)
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.raw == nil || a.raw.Sign() == 0
}

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a.raw != nil && a.raw.Sign() > 0
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{raw: new(big.Int).Add(a.Raw(), b.Raw())}
}

// Sub returns a - b, or an error if the result would be negative.
func (a Amount) Sub(b Amount) (Amount, error) {
	ar, br := a.Raw(), b.Raw()
	if ar.Cmp(br) < 0 {
		return Amount{}, ErrNegativeResult
	}
	return Amount{raw: ar.Sub(ar, br)}, nil
}

// MustSub returns a - b, panicking if the result would be negative.
func (a Amount) MustSub(b Amount) Amount {
	r, err := a.Sub(b)
	if err != nil {
		panic(err)
	}
	return r
}

// Mul multiplies the amount by a non-negative integer factor.
func (a Amount) Mul(factor uint64) Amount {
	return Amount{raw: new(big.Int).Mul(a.Raw(), new(big.Int).SetUint64(factor))}
}

// Div divides the amount by a positive integer divisor, flooring.
func (a Amount) Div(divisor uint64) (Amount, error) {
	if divisor == 0 {
		return Amount{}, ErrDivisionByZero
	}
	return Amount{raw: new(big.Int).Div(a.Raw(), new(big.Int).SetUint64(divisor))}, nil
}

// Cmp compares two amounts. Returns -1 if a < b, 0 if a == b, 1 if a > b.
func (a Amount) Cmp(b Amount) int {
	return a.Raw().Cmp(b.Raw())
}

// Equals returns true if both amounts hold the same value.
func (a Amount) Equals(b Amount) bool {
	return a.Cmp(b) == 0
}

// GreaterThan returns true if a > b.
func (a Amount) GreaterThan(b Amount) bool {
	return a.Cmp(b) > 0
}

// LessThan returns true if a < b.
func (a Amount) LessThan(b Amount) bool {
	return a.Cmp(b) < 0
}

// ToDecimal converts the amount to decimal.Decimal shifted by the currency's
// decimals. BOUNDARY function - use only for UI/display, not calculations.
func (a Amount) ToDecimal(decimals uint8) decimal.Decimal {
	if a.raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(a.raw, -int32(decimals))
}

// String returns the raw integer value as a base-10 string. This is the exact
// representation amounts cross process boundaries in.
func (a Amount) String() string {
	return a.Raw().String()
}

// Format returns a human-readable decimal string, e.g. "1.05" for
// 1050000000000000000 wei at 18 decimals.
func (a Amount) Format(decimals uint8) string {
	return a.ToDecimal(decimals).String()
}
