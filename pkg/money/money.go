package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a currency value in cents.
type Amount int64

const (
	Zero Amount = 0

	// Max is the largest magnitude Parse accepts: twelve integer digits.
	Max Amount = 99_999_999_999_999
)

var (
	ErrInvalidAmount = errors.New("INVALID_AMOUNT")
	ErrTooPrecise    = errors.New("AMOUNT_TOO_PRECISE")
	ErrOutOfRange    = errors.New("AMOUNT_OUT_OF_RANGE")
)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(int64(Max))
)

// Parse reads a decimal string such as "22", "22.5" or "22,50".
// A leading sign is accepted; more than two decimal places or a magnitude
// above Max is rejected.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return Zero, ErrInvalidAmount
	}

	return FromDecimal(d)
}

func FromDecimal(d decimal.Decimal) (Amount, error) {
	if !d.Round(2).Equal(d) {
		return Zero, ErrTooPrecise
	}

	cents := d.Mul(hundred)
	if cents.Abs().GreaterThan(maxCents) {
		return Zero, ErrOutOfRange
	}

	return Amount(cents.IntPart()), nil
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

func (a Amount) IsPositive() bool {
	return a > 0
}

func (a Amount) Neg() Amount {
	return -a
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts both "22.00" and 22.0.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return ErrInvalidAmount
	}

	v, err := FromDecimal(d)
	if err != nil {
		return err
	}

	*a = v
	return nil
}
