// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents. Decimal arithmetic is only used at the
// edges: parsing user input, applying interest and formatting.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents.
type Money struct {
	Cents int64
}

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// Cents builds a Money from an integer number of cents.
func Cents(c int64) Money { return Money{Cents: c} }

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal { return decimal.New(m.Cents, -2) }

// String formats the amount with two decimals and a dot separator.
func (m Money) String() string { return m.Decimal().StringFixed(2) }

// MoneyFromDecimal rounds d to cents, half away from zero. Amounts whose
// cents do not fit in an int64 are rejected with ErrInvalidAmount.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Round(2).Mul(hundred)
	if cents.Abs().GreaterThan(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive cents.
//
// Examples:
//
//	ParseDecimalToCents("12.34")  -> 1234, nil
//	ParseDecimalToCents("12,34")  -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil
func ParseDecimalToCents(s string) (int64, error) {
	d, err := parsePlainDecimal(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	m, err := MoneyFromDecimal(d)
	if err != nil || m.Cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return m.Cents, nil
}

// ParseMoney is ParseDecimalToCents returning Money.
func ParseMoney(s string) (Money, error) {
	c, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: c}, nil
}

// ParseRate parses a non-negative interest percentage such as "2,5" or "10".
func ParseRate(s string) (decimal.Decimal, error) {
	d, err := parsePlainDecimal(s)
	if err != nil {
		return decimal.Zero, ErrInvalidInterestRate
	}
	return d, nil
}

// parsePlainDecimal accepts digits with at most one decimal separator; signs
// and exponents are rejected.
func parsePlainDecimal(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrValidation
	}
	for _, r := range s {
		if r != '.' && (r < '0' || r > '9') {
			return decimal.Zero, ErrValidation
		}
	}
	if s == "." {
		return decimal.Zero, ErrValidation
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.TrimSuffix(s, ".")
	return decimal.NewFromString(s)
}

// ApplyInterest applies a percentage once: amount * (1 + rate/100), rounded
// to cents. A result too large to hold in cents is ErrInvalidAmount.
func ApplyInterest(amount Money, ratePercent decimal.Decimal) (Money, error) {
	factor := decimal.NewFromInt(1).Add(ratePercent.Div(hundred))
	return MoneyFromDecimal(amount.Decimal().Mul(factor))
}
