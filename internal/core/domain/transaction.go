package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single processed payment. Records are immutable
// after creation except for the soft-delete marker.
type Transaction struct {
	TransactionID  string          `json:"transactionID"`  // Unguessable external id, unique forever (including deleted rows)
	IdempotencyKey string          `json:"idempotencyKey"` // Client-supplied; empty means none; unique among non-deleted rows
	CreatedAt      time.Time       `json:"createdAt"`      // UTC, set once

	AmountPKR        decimal.Decimal `json:"amountPKR"`        // Derived via conversion, never edited independently
	OriginalAmount   decimal.Decimal `json:"originalAmount"`   // Amount as submitted
	OriginalCurrency string          `json:"originalCurrency"` // PKR, USD or AED

	Email    string `json:"email"`
	Address  string `json:"address"`
	BankName string `json:"bankName"`

	// Ciphertext produced by the PII protector. Plaintext is never stored or logged.
	EncryptedCNIC        string `json:"-"`
	EncryptedBankAccount string `json:"-"`

	MobileNumber string `json:"mobileNumber"` // Canonical +92 form (see utils.NormalizeMobileNumber)
	Deleted      bool   `json:"-"`
}
