package mapping

import (
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/core/domain"
	"github.com/m-abdur-rehman/Secure-Payment-Gateway-App/internal/models"
)

// ToModelTransaction converts a domain transaction to its database model.
func ToModelTransaction(txn domain.Transaction) models.Transaction {
	var key *string
	if txn.IdempotencyKey != "" {
		k := txn.IdempotencyKey
		key = &k
	}
	return models.Transaction{
		TransactionID:        txn.TransactionID,
		IdempotencyKey:       key,
		CreatedAt:            txn.CreatedAt,
		AmountPKR:            txn.AmountPKR,
		OriginalAmount:       txn.OriginalAmount,
		OriginalCurrency:     txn.OriginalCurrency,
		Email:                txn.Email,
		Address:              txn.Address,
		BankName:             txn.BankName,
		EncryptedCNIC:        txn.EncryptedCNIC,
		EncryptedBankAccount: txn.EncryptedBankAccount,
		MobileNumber:         txn.MobileNumber,
		IsDeleted:            txn.Deleted,
	}
}

// ToDomainTransaction converts a database model to the domain representation.
func ToDomainTransaction(model models.Transaction) domain.Transaction {
	key := ""
	if model.IdempotencyKey != nil {
		key = *model.IdempotencyKey
	}
	return domain.Transaction{
		TransactionID:        model.TransactionID,
		IdempotencyKey:       key,
		CreatedAt:            model.CreatedAt,
		AmountPKR:            model.AmountPKR,
		OriginalAmount:       model.OriginalAmount,
		OriginalCurrency:     model.OriginalCurrency,
		Email:                model.Email,
		Address:              model.Address,
		BankName:             model.BankName,
		EncryptedCNIC:        model.EncryptedCNIC,
		EncryptedBankAccount: model.EncryptedBankAccount,
		MobileNumber:         model.MobileNumber,
		Deleted:              model.IsDeleted,
	}
}
