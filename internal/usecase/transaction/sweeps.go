package transaction

import (
	"context"
	"fmt"
	"log/slog"

	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
)

// ExpireOverduePayments expires PENDING payments past expires_at, cascading
// to cancellation where no other payment is pending.
func (uc *DefaultTransactionUsecase) ExpireOverduePayments(ctx context.Context) (*transactiondto.SweepResult, error) {
	payments, err := uc.runner.Repos().Payments.FindExpired(ctx, uc.runner.Now(), uc.settings.SweepBatchSize)
	if err != nil {
		return nil, fmt.Errorf("find expired payments: %w", err)
	}
	result := &transactiondto.SweepResult{}
	for _, payment := range payments {
		if _, err := uc.expirePayment(ctx, payment.TransactionID, payment.ID); err != nil {
			slog.Error("failed to expire payment", "payment_id", payment.ID, "error", err)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result, nil
}

// AutoCompleteExpired releases funds for transactions whose verification
// window passed. With auto-completion disabled it only reports them.
func (uc *DefaultTransactionUsecase) AutoCompleteExpired(ctx context.Context) (*transactiondto.SweepResult, error) {
	overdue, err := uc.runner.Repos().Transactions.FindOverdueVerification(ctx, uc.runner.Now(), uc.settings.SweepBatchSize)
	if err != nil {
		return nil, fmt.Errorf("find overdue transactions: %w", err)
	}
	result := &transactiondto.SweepResult{}
	for _, tx := range overdue {
		if !uc.settings.AutoComplete {
			slog.Warn("verification window passed, awaiting manual release",
				"transaction_id", tx.ID,
				"deadline", tx.VerificationDeadline,
			)
			uc.Metrics.OverdueVerification()
			result.Skipped++
			continue
		}
		if _, err := uc.AutoVerify(ctx, tx.ID); err != nil {
			slog.Error("failed to auto-verify transaction", "transaction_id", tx.ID, "error", err)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result, nil
}

// SyncPendingPayments polls the gateway for every PENDING payment.
func (uc *DefaultTransactionUsecase) SyncPendingPayments(ctx context.Context) (*transactiondto.SweepResult, error) {
	payments, err := uc.runner.Repos().Payments.ListPending(ctx, uc.settings.SweepBatchSize)
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}
	result := &transactiondto.SweepResult{}
	for _, payment := range payments {
		if _, err := uc.SyncPayment(ctx, payment.ID); err != nil {
			slog.Error("failed to sync payment", "payment_id", payment.ID, "error", err)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result, nil
}
