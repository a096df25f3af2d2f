package dto

import (
	"time"

	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/core/domain"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/utils"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest defines the payment-intake payload. Shape checks live
// in the binding tags ("cnic", "pkmobile" and "acctnum" are custom validators
// registered at startup); business rules (per-currency ceilings) live in the
// service.
type CreatePaymentRequest struct {
	BankAccountNumber string          `json:"bankAccountNumber" binding:"required,acctnum"`
	BankName          string          `json:"bankName" binding:"required"`
	CNIC              string          `json:"cnic" binding:"required,cnic"`
	Currency          string          `json:"currency" binding:"required,oneof=PKR USD AED pkr usd aed"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	Email             string          `json:"email" binding:"required,email"`
	MobileNumber      string          `json:"mobileNumber" binding:"required,pkmobile"`
	Address           string          `json:"address"`
	IdempotencyKey    string          `json:"idempotencyKey" binding:"omitempty,max=128"`
}

// createPaymentSanitizers is the per-field sanitization schema for
// CreatePaymentRequest. Encrypted-at-rest fields (CNIC, bank account) are
// shape-validated instead; trimming them could silently alter what the
// customer submitted.
var createPaymentSanitizers = map[string]utils.FieldSanitizer{
	"bankName":       utils.SanitizeString,
	"email":          utils.SanitizeString,
	"mobileNumber":   utils.SanitizeString,
	"address":        utils.SanitizeString,
	"idempotencyKey": utils.SanitizeString,
}

// Sanitize applies the field schema in place. Called before validation-aware
// processing in the handler.
func (r *CreatePaymentRequest) Sanitize() {
	utils.SanitizeFields(map[string]*string{
		"bankName":       &r.BankName,
		"email":          &r.Email,
		"mobileNumber":   &r.MobileNumber,
		"address":        &r.Address,
		"idempotencyKey": &r.IdempotencyKey,
	}, createPaymentSanitizers)
}

// PaymentResponse is the creation acknowledgement. Nothing sensitive.
type PaymentResponse struct {
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToPaymentResponse builds the creation response from a domain transaction.
func ToPaymentResponse(txn *domain.Transaction) PaymentResponse {
	return PaymentResponse{
		TransactionID: txn.TransactionID,
		CreatedAt:     txn.CreatedAt,
	}
}

// TransactionLookupResponse is the non-sensitive projection returned by a
// successful mobile-gated lookup. Encrypted fields are never decrypted or
// included here.
type TransactionLookupResponse struct {
	TransactionID    string          `json:"transactionId"`
	CreatedAt        time.Time       `json:"createdAt"`
	AmountPKR        decimal.Decimal `json:"amountPKR"`
	OriginalCurrency string          `json:"originalCurrency"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	Email            string          `json:"email"`
	MobileNumber     string          `json:"mobileNumber"`
}

// ToTransactionLookupResponse converts a domain transaction to the lookup projection.
func ToTransactionLookupResponse(txn *domain.Transaction) TransactionLookupResponse {
	return TransactionLookupResponse{
		TransactionID:    txn.TransactionID,
		CreatedAt:        txn.CreatedAt,
		AmountPKR:        txn.AmountPKR,
		OriginalCurrency: txn.OriginalCurrency,
		OriginalAmount:   txn.OriginalAmount,
		Email:            txn.Email,
		MobileNumber:     txn.MobileNumber,
	}
}

// TransactionListItem is one row of the paged listing. The mobile number is
// masked for display.
type TransactionListItem struct {
	TransactionID string          `json:"transactionId"`
	CreatedAt     time.Time       `json:"createdAt"`
	AmountPKR     decimal.Decimal `json:"amountPKR"`
	Email         string          `json:"email"`
	MobileNumber  string          `json:"mobileNumber"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Items    []TransactionListItem `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
}
