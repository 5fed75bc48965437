package transaction

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
)

func (uc *DefaultTransactionUsecase) viewable(ctx context.Context, transactionID, viewerID string, admin bool) (*domain.Transaction, error) {
	tx, err := uc.getTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !admin && !tx.IsParticipant(viewerID) {
		return nil, domain.Forbidden(domain.CodeNotParticipant, "you are not a party to this transaction")
	}
	return tx, nil
}

func (uc *DefaultTransactionUsecase) GetTransaction(ctx context.Context, transactionID, viewerID string, admin bool) (*transactiondto.TransactionOutput, error) {
	tx, err := uc.viewable(ctx, transactionID, viewerID, admin)
	if err != nil {
		return nil, err
	}
	payments, err := uc.runner.Repos().Payments.ListByTransaction(ctx, tx.ID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	out := &transactiondto.TransactionOutput{Transaction: tx}
	if len(payments) > 0 {
		out.Payment = payments[len(payments)-1]
	}
	return out, nil
}

func (uc *DefaultTransactionUsecase) ListTransactions(ctx context.Context, input *transactiondto.ListTransactionsInput) (*transactiondto.ListTransactionsOutput, error) {
	page, limit := input.Page, input.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	txs, total, err := uc.runner.Repos().Transactions.List(ctx, domain.TransactionFilter{
		UserID: input.UserID,
		Status: input.Status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return &transactiondto.ListTransactionsOutput{
		Transactions: txs,
		Pagination: transactiondto.Pagination{
			CurrentPage:  int32(page),
			TotalPages:   int32(totalPages),
			TotalItems:   int32(total),
			ItemsPerPage: int32(limit),
		},
	}, nil
}

func (uc *DefaultTransactionUsecase) ListPayments(ctx context.Context, transactionID, viewerID string, admin bool) ([]*domain.Payment, error) {
	tx, err := uc.viewable(ctx, transactionID, viewerID, admin)
	if err != nil {
		return nil, err
	}
	return uc.runner.Repos().Payments.ListByTransaction(ctx, tx.ID)
}

// VerificationStatus exposes the pure deadline check.
func (uc *DefaultTransactionUsecase) VerificationStatus(ctx context.Context, transactionID, viewerID string, admin bool) (*transactiondto.VerificationStatusOutput, error) {
	tx, err := uc.viewable(ctx, transactionID, viewerID, admin)
	if err != nil {
		return nil, err
	}
	return &transactiondto.VerificationStatusOutput{
		TransactionID: tx.ID,
		Status:        tx.Status,
		Deadline:      tx.VerificationDeadline,
		Expired:       tx.Status == domain.StatusItemTransferred && tx.IsVerificationExpired(uc.runner.Now()),
	}, nil
}

func (uc *DefaultTransactionUsecase) AuditTrail(ctx context.Context, transactionID, viewerID string, admin bool) ([]domain.AuditEntry, error) {
	tx, err := uc.viewable(ctx, transactionID, viewerID, admin)
	if err != nil {
		return nil, err
	}
	return uc.runner.Repos().Audit.ListByEntity(ctx, domain.EntityTransaction, tx.ID)
}
