// Package core provides money parsing and handling utilities.
//
// This file contains the Money type used for every amount in the ledger.
// Money keeps full decimal precision; rounding happens only when a value
// is prepared for display.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount. The zero value is 0.
type Money struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// NewMoney wraps a decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{d: d}
}

// MoneyFromInt returns a whole-unit amount.
func MoneyFromInt(units int64) Money {
	return Money{d: decimal.NewFromInt(units)}
}

// MoneyFromFloat converts a float. Intended for tests and literal values;
// ParseMoney should be preferred for user input.
func MoneyFromFloat(f float64) Money {
	return Money{d: decimal.NewFromFloat(f)}
}

// MustParseMoney is like ParseMoney but panics on error.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseMoney converts a decimal string to Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Zero is a valid amount. Negative values and malformed input are
// rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseMoney("12.34")  -> 12.34, nil
//	ParseMoney("12,34")  -> 12.34, nil
//	ParseMoney("0")      -> 0, nil
//	ParseMoney("-1")     -> error
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return Money{}, ErrInvalidAmount
			}
		}
	}
	if parts[0] == "" && (len(parts) == 1 || parts[1] == "") {
		return Money{}, ErrInvalidAmount
	}
	if parts[0] == "" {
		parts[0] = "0"
	}
	s = parts[0]
	if len(parts) == 2 && parts[1] != "" {
		s += "." + parts[1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{d: d}, nil
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.d }

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

// MulInt multiplies by a whole number.
func (m Money) MulInt(n int64) Money { return Money{d: m.d.Mul(decimal.NewFromInt(n))} }

// DivInt divides by a whole number. Division by zero yields Zero.
func (m Money) DivInt(n int64) Money {
	if n == 0 {
		return Zero
	}
	return Money{d: m.d.Div(decimal.NewFromInt(n))}
}

// Ratio returns m / o, or 0 when o is zero.
func (m Money) Ratio(o Money) decimal.Decimal {
	if o.d.IsZero() {
		return decimal.Zero
	}
	return m.d.Div(o.d)
}

func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }
func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }
func (m Money) IsZero() bool { return m.d.IsZero() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }
func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }

// Round2 rounds half away from zero to two decimal places.
func (m Money) Round2() Money { return Money{d: m.d.Round(2)} }

// Float64 returns the value as a float64 for display purposes.
// Use Money arithmetic for calculations.
func (m Money) Float64() float64 { return m.d.InexactFloat64() }

// String formats the amount with two decimals, e.g. "1234.50".
func (m Money) String() string { return m.d.StringFixed(2) }

// MarshalJSON encodes the amount as a JSON number with full precision.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		m.d = decimal.Zero
		return nil
	}
	return m.d.UnmarshalJSON(data)
}
