package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits money values carry.
const MoneyScale = 2

var (
	ErrAmountFormat      = errors.New("amount is not a fixed-point number")
	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrAmountPrecision   = errors.New("amount has more than two fractional digits")
)

var numberPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// ParseNumber parses plain fixed-point text. Exponents, NaN and Inf are
// rejected along with anything else the pattern does not match.
func ParseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !numberPattern.MatchString(s) {
		return decimal.Zero, ErrAmountFormat
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrAmountFormat
	}
	return d, nil
}

// ValidateAmount checks that d is strictly positive and representable with
// two fractional digits. 100.500 passes, 100.505 does not.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrAmountNotPositive
	}
	if !d.Equal(d.Round(MoneyScale)) {
		return ErrAmountPrecision
	}
	return nil
}

// ParseAmount parses and validates a transaction amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := ParseNumber(s)
	if err != nil {
		return decimal.Zero, err
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d.Round(MoneyScale), nil
}

// FormatMoney renders d with exactly two fractional digits.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}
