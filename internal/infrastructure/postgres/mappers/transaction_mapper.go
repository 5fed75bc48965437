package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:                   model.ID,
		Reference:            model.Reference,
		ListingID:            model.ListingID,
		BuyerID:              model.BuyerID,
		SellerID:             model.SellerID,
		Source:               domain.TransactionSource(model.Source),
		PaymentMethod:        model.PaymentMethod,
		Amount:               model.Amount,
		PlatformFee:          model.PlatformFee,
		SellerPayout:         model.SellerPayout,
		FeePercentage:        model.FeePercentage,
		Status:               domain.TransactionStatus(model.Status),
		ItemTransferredAt:    model.ItemTransferredAt,
		VerificationDeadline: model.VerificationDeadline,
		CompletedAt:          model.CompletedAt,
		CancelledAt:          model.CancelledAt,
		TransferProofURL:     model.TransferProofURL,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}

func ToGORMTransaction(tx *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:                   tx.ID,
		Reference:            tx.Reference,
		ListingID:            tx.ListingID,
		BuyerID:              tx.BuyerID,
		SellerID:             tx.SellerID,
		Source:               string(tx.Source),
		PaymentMethod:        tx.PaymentMethod,
		Amount:               tx.Amount,
		PlatformFee:          tx.PlatformFee,
		SellerPayout:         tx.SellerPayout,
		FeePercentage:        tx.FeePercentage,
		Status:               string(tx.Status),
		ItemTransferredAt:    tx.ItemTransferredAt,
		VerificationDeadline: tx.VerificationDeadline,
		CompletedAt:          tx.CompletedAt,
		CancelledAt:          tx.CancelledAt,
		TransferProofURL:     tx.TransferProofURL,
		CreatedAt:            tx.CreatedAt,
		UpdatedAt:            tx.UpdatedAt,
	}
}

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:                model.ID,
		TransactionID:     model.TransactionID,
		ExternalInvoiceID: model.ExternalInvoiceID,
		InvoiceURL:        model.InvoiceURL,
		Amount:            model.Amount,
		Status:            domain.PaymentStatus(model.Status),
		ExpiresAt:         model.ExpiresAt,
		PaidAt:            model.PaidAt,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:                payment.ID,
		TransactionID:     payment.TransactionID,
		ExternalInvoiceID: payment.ExternalInvoiceID,
		InvoiceURL:        payment.InvoiceURL,
		Amount:            payment.Amount,
		Status:            string(payment.Status),
		ExpiresAt:         payment.ExpiresAt,
		PaidAt:            payment.PaidAt,
		CreatedAt:         payment.CreatedAt,
		UpdatedAt:         payment.UpdatedAt,
	}
}

func ToDomainPayout(model *models.PayoutModel) *domain.Payout {
	return &domain.Payout{
		ID:            model.ID,
		TransactionID: model.TransactionID,
		SellerID:      model.SellerID,
		BankAccountID: model.BankAccountID,
		Amount:        model.Amount,
		Status:        domain.PayoutStatus(model.Status),
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMPayout(payout *domain.Payout) *models.PayoutModel {
	return &models.PayoutModel{
		ID:            payout.ID,
		TransactionID: payout.TransactionID,
		SellerID:      payout.SellerID,
		BankAccountID: payout.BankAccountID,
		Amount:        payout.Amount,
		Status:        string(payout.Status),
		CreatedAt:     payout.CreatedAt,
	}
}
