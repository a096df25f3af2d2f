package services

import (
	"context"

	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/core/domain"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/dto"
)

// PIIProtector encrypts, decrypts and masks sensitive string fields.
// Implementations must never log their inputs or outputs.
type PIIProtector interface {
	Protect(plaintext string) (string, error)
	Unprotect(ciphertext string) (string, error)
	Mask(plaintext string, showLast int) string
}

// PaymentSvcFacade is the transaction pipeline: idempotency-safe creation and
// mobile-number-gated lookup of payment transactions.
type PaymentSvcFacade interface {
	// CreateTransaction processes a payment request. When the request carries
	// an idempotency key already used by a non-deleted record, the existing
	// record is returned unchanged with created=false and no side effects
	// occur; created=true means a new record was written.
	CreateTransaction(ctx context.Context, req dto.CreatePaymentRequest) (txn *domain.Transaction, created bool, err error)

	// LookupTransaction returns the transaction only when suppliedMobile
	// matches the stored number. Mismatches yield apperrors.ErrForbidden,
	// missing records apperrors.ErrNotFound.
	LookupTransaction(ctx context.Context, transactionID, suppliedMobile string) (*domain.Transaction, error)

	// ListTransactions returns a page of non-deleted transactions and the total count.
	ListTransactions(ctx context.Context, page, pageSize int) ([]domain.Transaction, int64, error)

	// DeleteTransaction soft-deletes the transaction.
	DeleteTransaction(ctx context.Context, transactionID string) error
}
