package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of a processed payment.
// Note: monetary columns use a precise decimal type via github.com/shopspring/decimal.
type Transaction struct {
	TransactionID        string          // Unique across all rows, including soft-deleted ones
	IdempotencyKey       *string         // NULL when the client supplied none; unique among non-deleted rows
	CreatedAt            time.Time       // UTC
	AmountPKR            decimal.Decimal // Converted amount in the base currency
	OriginalAmount       decimal.Decimal
	OriginalCurrency     string
	Email                string
	Address              string
	BankName             string
	EncryptedCNIC        string // Ciphertext only
	EncryptedBankAccount string // Ciphertext only
	MobileNumber         string // Canonical +92 form
	IsDeleted            bool
}
