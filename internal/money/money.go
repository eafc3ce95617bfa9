// Package money provides a fixed-point amount type with two fractional digits.
//
// Amounts are stored as an integer number of cents so that ledger arithmetic
// (including atomic SQL increments) is exact. Parsing, rounding and rendering go
// through shopspring/decimal.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by an Amount.
const Scale = 2

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// ErrOutOfRange is returned when a value does not fit in an Amount.
var ErrOutOfRange = errors.New("amount out of range")

// Amount is a signed monetary value in cents.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// FromDecimal rounds d to two decimals (half away from zero) and converts it to cents.
// Values beyond the Amount range saturate at the nearest bound.
func FromDecimal(d decimal.Decimal) Amount {
	cents := d.Round(Scale).Mul(hundred)
	switch {
	case cents.GreaterThan(maxCents):
		return math.MaxInt64
	case cents.LessThan(minCents):
		return math.MinInt64
	}
	return Amount(cents.IntPart())
}

// NewFromDecimal is FromDecimal with a range check instead of saturation.
func NewFromDecimal(d decimal.Decimal) (Amount, error) {
	return centsOf(d.Round(Scale).Mul(hundred))
}

func centsOf(cents decimal.Decimal) (Amount, error) {
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, ErrOutOfRange
	}
	return Amount(cents.IntPart()), nil
}

// FromFloat converts a float value such as 12.34 to an Amount.
func FromFloat(f float64) Amount {
	return FromDecimal(decimal.NewFromFloat(f))
}

// Cents builds an Amount from an integer number of cents.
func Cents(c int64) Amount {
	return Amount(c)
}

// Parse parses a decimal string such as "12.34" into an Amount.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	a, err := NewFromDecimal(d)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return a, nil
}

// Decimal returns the amount as a decimal with two fractional digits.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// Float64 returns the amount as a float, for ratio and percentage math.
func (a Amount) Float64() float64 {
	return a.Decimal().InexactFloat64()
}

// String renders the amount with exactly two decimals.
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return -a
}

// Abs returns |a|.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool {
	return a > 0
}

// DivFloat divides a by n and rounds the result back to cents.
// Division by a non-positive n yields zero.
func (a Amount) DivFloat(n float64) Amount {
	if n <= 0 {
		return 0
	}
	return FromDecimal(a.Decimal().Div(decimal.NewFromFloat(n)))
}

// Percent returns part / whole * 100 rounded to two decimals, or 0 when whole <= 0.
func Percent(part, whole Amount) float64 {
	if whole <= 0 {
		return 0
	}
	return part.Decimal().Div(whole.Decimal()).Mul(hundred).Round(Scale).InexactFloat64()
}

// Ratio returns num / den rounded to two decimals, or 0 when den <= 0.
func Ratio(num, den Amount) float64 {
	if den <= 0 {
		return 0
	}
	return num.Decimal().Div(den.Decimal()).Round(Scale).InexactFloat64()
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	v, err := NewFromDecimal(d)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	*a = v
	return nil
}

// Value implements driver.Valuer. Amounts are persisted as cents.
func (a Amount) Value() (driver.Value, error) {
	return int64(a), nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = 0
	case int64:
		*a = Amount(v)
	case int32:
		*a = Amount(v)
	case float64:
		return a.scanDecimal(decimal.NewFromFloat(v))
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("scan amount: %w", err)
		}
		return a.scanDecimal(d)
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("scan amount: %w", err)
		}
		return a.scanDecimal(d)
	default:
		return fmt.Errorf("scan amount: unsupported type %T", src)
	}
	return nil
}

// scanDecimal stores a stored cents value, truncating any fraction.
func (a *Amount) scanDecimal(d decimal.Decimal) error {
	v, err := centsOf(d.Truncate(0))
	if err != nil {
		return fmt.Errorf("scan amount: %w", err)
	}
	*a = v
	return nil
}
