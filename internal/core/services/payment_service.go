package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/apperrors"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/core/domain"
	portsrepo "github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/core/ports/repositories"
	portssvc "github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/core/ports/services"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/dto"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/utils"
)

// maxTransactionIDAttempts bounds the retries after a transaction id
// collision before creation fails outright.
const maxTransactionIDAttempts = 3

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaymentService orchestrates the transaction pipeline: idempotency-safe
// creation and mobile-number-gated lookup.
type PaymentService struct {
	repo      portsrepo.TransactionRepository
	forex     portssvc.ForexSvcFacade
	protector portssvc.PIIProtector
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(repo portsrepo.TransactionRepository, forex portssvc.ForexSvcFacade, protector portssvc.PIIProtector) *PaymentService {
	return &PaymentService{
		repo:      repo,
		forex:     forex,
		protector: protector,
	}
}

// CreateTransaction processes a payment request. Repeated submissions with
// the same idempotency key are side-effect-free after the first: the existing
// record is returned with created=false, without re-conversion, re-encryption
// or a new write.
func (s *PaymentService) CreateTransaction(ctx context.Context, req dto.CreatePaymentRequest) (*domain.Transaction, bool, error) {
	currency := strings.ToUpper(req.Currency)

	if !domain.IsSupportedCurrency(currency) {
		return nil, false, fmt.Errorf("%w: unsupported currency '%s'", apperrors.ErrValidation, currency)
	}
	if req.Amount.LessThan(domain.MinAmount) {
		return nil, false, fmt.Errorf("%w: amount must be at least %s", apperrors.ErrValidation, domain.MinAmount)
	}
	if max := domain.MaxAmountForCurrency(currency); req.Amount.GreaterThan(max) {
		return nil, false, fmt.Errorf("%w: amount cannot exceed %s %s", apperrors.ErrValidation, currency, max)
	}

	if req.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, req.IdempotencyKey)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	amountPKR, err := s.forex.ConvertToPKR(ctx, req.Amount, currency)
	if err != nil {
		return nil, false, err
	}

	encryptedCNIC, err := s.protector.Protect(req.CNIC)
	if err != nil {
		return nil, false, fmt.Errorf("failed to protect national id: %w", err)
	}
	encryptedBankAccount, err := s.protector.Protect(req.BankAccountNumber)
	if err != nil {
		return nil, false, fmt.Errorf("failed to protect bank account: %w", err)
	}

	address := req.Address
	if address == "" {
		address = "N/A"
	}

	txn := domain.Transaction{
		IdempotencyKey:       req.IdempotencyKey,
		AmountPKR:            amountPKR,
		OriginalAmount:       req.Amount,
		OriginalCurrency:     currency,
		Email:                req.Email,
		Address:              address,
		BankName:             req.BankName,
		EncryptedCNIC:        encryptedCNIC,
		EncryptedBankAccount: encryptedBankAccount,
		MobileNumber:         utils.NormalizeMobileNumber(req.MobileNumber),
	}

	for attempt := 0; attempt < maxTransactionIDAttempts; attempt++ {
		txn.TransactionID, err = utils.NewTransactionID()
		if err != nil {
			return nil, false, err
		}
		txn.CreatedAt = time.Now().UTC()

		err = s.repo.SaveTransaction(ctx, txn)
		switch {
		case err == nil:
			return &txn, true, nil
		case errors.Is(err, apperrors.ErrDuplicateIdempotencyKey):
			// A concurrent create with the same key won the race. Return the
			// winner as if it had been found by the initial check.
			existing, findErr := s.repo.FindByIdempotencyKey(ctx, req.IdempotencyKey)
			if findErr != nil {
				return nil, false, fmt.Errorf("failed to recover from idempotency key race: %w", findErr)
			}
			return existing, false, nil
		case errors.Is(err, apperrors.ErrDuplicateTransactionID):
			continue
		default:
			return nil, false, fmt.Errorf("failed to persist transaction: %w", err)
		}
	}

	return nil, false, fmt.Errorf("%w: transaction id collided %d times", apperrors.ErrDuplicate, maxTransactionIDAttempts)
}

// LookupTransaction fetches the non-deleted transaction and authorizes the
// caller by constant-time comparison of the supplied mobile number against
// the stored canonical one. Mismatches surface as a bare ErrForbidden so the
// response never confirms which field failed.
func (s *PaymentService) LookupTransaction(ctx context.Context, transactionID, suppliedMobile string) (*domain.Transaction, error) {
	txn, err := s.repo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}

	if !utils.SecureCompareMobile(txn.MobileNumber, suppliedMobile) {
		return nil, apperrors.ErrForbidden
	}

	return txn, nil
}

// ListTransactions returns a page of non-deleted transactions, newest first.
// Page defaults to 1 and pageSize is clamped to [1, 100] with a default of 20.
func (s *PaymentService) ListTransactions(ctx context.Context, page, pageSize int) ([]domain.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, total, err := s.repo.ListTransactions(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return items, total, nil
}

// DeleteTransaction soft-deletes the transaction. The row and its id remain
// reserved forever; it simply disappears from every read path.
func (s *PaymentService) DeleteTransaction(ctx context.Context, transactionID string) error {
	if err := s.repo.SoftDeleteTransaction(ctx, transactionID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}
