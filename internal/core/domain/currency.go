package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BaseCurrencyCode is the currency all amounts are stored in after conversion.
const BaseCurrencyCode = "PKR"

// MinAmount is the smallest accepted payment amount in any currency.
var MinAmount = decimal.NewFromFloat(0.01)

// maxAmountByCurrency caps the accepted amount per source currency.
var maxAmountByCurrency = map[string]decimal.Decimal{
	"PKR": decimal.NewFromInt(1_000_000),
	"USD": decimal.NewFromInt(3_500),
	"AED": decimal.NewFromInt(13_000),
}

// IsSupportedCurrency reports whether code is one of the accepted currencies.
func IsSupportedCurrency(code string) bool {
	_, ok := maxAmountByCurrency[strings.ToUpper(code)]
	return ok
}

// MaxAmountForCurrency returns the ceiling for the given currency code.
// Unknown codes fall back to the base currency ceiling.
func MaxAmountForCurrency(code string) decimal.Decimal {
	if max, ok := maxAmountByCurrency[strings.ToUpper(code)]; ok {
		return max
	}
	return maxAmountByCurrency[BaseCurrencyCode]
}
