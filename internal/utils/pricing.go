package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of fractional digits money is stored with.
const CurrencyPlaces = 2

var hundred = decimal.NewFromInt(100)

// LateFee computes amount * percent / 100, rounded half away from zero to
// currency precision.
func LateFee(amount decimal.Decimal, percent int) decimal.Decimal {
	if percent <= 0 {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Round(CurrencyPlaces)
}

// ApplyLateFee returns amount increased by its one-time late fee.
func ApplyLateFee(amount decimal.Decimal, percent int) decimal.Decimal {
	return amount.Add(LateFee(amount, percent)).Round(CurrencyPlaces)
}

// SecurityDeposit is one month of rent.
func SecurityDeposit(monthlyRent decimal.Decimal) decimal.Decimal {
	return monthlyRent.Round(CurrencyPlaces)
}

// ParseAmount parses a positive money amount with at most two decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be greater than zero")
	}
	if !d.Equal(d.Round(CurrencyPlaces)) {
		return decimal.Zero, fmt.Errorf("amount must have at most %d decimal places", CurrencyPlaces)
	}
	return d, nil
}
