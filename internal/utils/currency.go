package utils

import (
	"fmt"
	"strings"

	"github.com/Darshanh20/ExpenseManagement/internal/apperrors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// NormalizeCurrencyCode validates an ISO 4217 code and returns its canonical upper-case form.
func NormalizeCurrencyCode(code string) (string, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w: unknown currency code %q", apperrors.ErrValidation, code)
	}
	return unit.String(), nil
}

// RoundToCurrency rounds amount to the standard number of minor units of code.
// Unknown codes leave the amount untouched.
func RoundToCurrency(amount decimal.Decimal, code string) decimal.Decimal {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return amount
	}
	scale, _ := currency.Standard.Rounding(unit)
	return amount.Round(int32(scale))
}
