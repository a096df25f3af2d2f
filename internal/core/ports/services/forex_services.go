package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateSource fetches a live conversion rate for a currency pair.
// Implementations must respect ctx cancellation and bound their own timeout.
type RateSource interface {
	FetchRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error)
}

// ForexSvcFacade converts customer amounts into the base currency.
type ForexSvcFacade interface {
	// ConvertToPKR converts amount from the given currency into PKR, rounded
	// to 2 decimal places. A PKR amount is returned unchanged.
	ConvertToPKR(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, error)
}
