package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/apperrors"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/core/domain"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/models"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Constraint names from the migrations; used to tell apart the two
// uniqueness violations the pipeline reacts to differently.
const (
	transactionIDConstraint  = "transactions_transaction_id_key"
	idempotencyKeyConstraint = "uq_transactions_idempotency_key"
)

const transactionColumns = `
	transaction_id, idempotency_key, created_at, amount_pkr, original_amount,
	original_currency, email, address, bank_name, encrypted_cnic,
	encrypted_bank_account, mobile_number, is_deleted
`

// PgxTransactionRepository implements repositories.TransactionRepository using pgxpool.
type PgxTransactionRepository struct {
	db *pgxpool.Pool
}

// NewTransactionRepository creates a new PgxTransactionRepository.
func NewTransactionRepository(db *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{db: db}
}

// SaveTransaction inserts a new transaction. Uniqueness violations map to
// the duplicate error kinds by constraint name.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	model := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		model.TransactionID, model.IdempotencyKey, model.CreatedAt, model.AmountPKR,
		model.OriginalAmount, model.OriginalCurrency, model.Email, model.Address,
		model.BankName, model.EncryptedCNIC, model.EncryptedBankAccount,
		model.MobileNumber, model.IsDeleted,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			switch pgErr.ConstraintName {
			case transactionIDConstraint:
				return fmt.Errorf("%w: %s", apperrors.ErrDuplicateTransactionID, model.TransactionID)
			case idempotencyKeyConstraint:
				return apperrors.ErrDuplicateIdempotencyKey
			}
			return fmt.Errorf("%w: unexpected unique violation on %s", apperrors.ErrDuplicate, pgErr.ConstraintName)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// FindByTransactionID retrieves a non-deleted transaction by its external id.
func (r *PgxTransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1 AND is_deleted = FALSE
	`
	return r.queryOne(ctx, query, transactionID)
}

// FindByIdempotencyKey retrieves the non-deleted transaction created with the given key.
func (r *PgxTransactionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE idempotency_key = $1 AND is_deleted = FALSE
	`
	return r.queryOne(ctx, query, key)
}

// ListTransactions returns a page of non-deleted transactions, newest first,
// plus the total non-deleted count.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, page int, pageSize int) ([]domain.Transaction, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE is_deleted = FALSE`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE is_deleted = FALSE
		ORDER BY created_at DESC, transaction_id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var items []domain.Transaction
	for rows.Next() {
		model, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, mapping.ToDomainTransaction(model))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed reading transaction rows: %w", err)
	}
	return items, total, nil
}

// SoftDeleteTransaction marks the transaction deleted without removing the row.
func (r *PgxTransactionRepository) SoftDeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE transactions SET is_deleted = TRUE WHERE transaction_id = $1 AND is_deleted = FALSE`,
		transactionID,
	)
	if err != nil {
		return fmt.Errorf("failed to soft-delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTransactionRepository) queryOne(ctx context.Context, query string, arg any) (*domain.Transaction, error) {
	model, err := scanTransaction(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	txn := mapping.ToDomainTransaction(model)
	return &txn, nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var model models.Transaction
	err := row.Scan(
		&model.TransactionID, &model.IdempotencyKey, &model.CreatedAt, &model.AmountPKR,
		&model.OriginalAmount, &model.OriginalCurrency, &model.Email, &model.Address,
		&model.BankName, &model.EncryptedCNIC, &model.EncryptedBankAccount,
		&model.MobileNumber, &model.IsDeleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Transaction{}, err
		}
		return models.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}
	return model, nil
}
