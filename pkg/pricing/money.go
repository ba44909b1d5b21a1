package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fraction digits carried by every monetary boundary value.
const AmountScale = 2

var hundred = decimal.NewFromInt(100)

// ParseAmount converts a decimal string such as "89.90" into a fixed-point value.
// Empty or non-numeric input is an error, never zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.Zero, errors.New("amount is empty")
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// RoundAmount rounds half away from zero to AmountScale digits, which is
// half-up for the non-negative amounts the engine produces.
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(AmountScale)
}

// WholeCents reports whether amount carries no more than AmountScale fraction digits.
func WholeCents(amount decimal.Decimal) bool {
	return amount.Equal(RoundAmount(amount))
}

// FormatAmount renders amount with exactly two fraction digits.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(AmountScale)
}

// FormatAmountPtr renders a nullable amount.
func FormatAmountPtr(amount *decimal.Decimal) *string {
	if amount == nil {
		return nil
	}
	s := FormatAmount(*amount)
	return &s
}
