package repositories

import (
	"context"

	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/core/domain"
)

// TransactionRepository defines persistence operations for transactions.
// Implementations must enforce uniqueness of the transaction id across all
// rows and of the idempotency key across non-deleted rows, surfacing
// violations as apperrors.ErrDuplicateTransactionID and
// apperrors.ErrDuplicateIdempotencyKey respectively.
type TransactionRepository interface {
	// SaveTransaction inserts a new transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// FindByTransactionID returns the non-deleted transaction with the given
	// external id, or apperrors.ErrNotFound.
	FindByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindByIdempotencyKey returns the non-deleted transaction created with
	// the given idempotency key, or apperrors.ErrNotFound.
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)

	// ListTransactions returns a page of non-deleted transactions, newest
	// first, plus the total non-deleted count.
	ListTransactions(ctx context.Context, page int, pageSize int) ([]domain.Transaction, int64, error)

	// SoftDeleteTransaction marks the transaction deleted. The row remains
	// and its id is never reused. Returns apperrors.ErrNotFound if no
	// non-deleted row matches.
	SoftDeleteTransaction(ctx context.Context, transactionID string) error
}
