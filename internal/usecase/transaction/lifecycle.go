package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
)

func (uc *DefaultTransactionUsecase) MarkTransferred(ctx context.Context, input *transactiondto.MarkTransferredInput) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := uc.runner.Process(ctx, usecase.Operation{
		Name: "mark_transferred",
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			_, tx, err := usecase.LockTransaction(ctx, r, input.TransactionID)
			if err != nil {
				return domain.Effects{}, err
			}
			fx, err := tx.MarkTransferred(input.SellerID, input.ProofURL, uc.runner.Now(), uc.settings.VerificationHours)
			if err != nil {
				return domain.Effects{}, err
			}
			if err := r.Transactions.Update(ctx, tx); err != nil {
				return domain.Effects{}, fmt.Errorf("update transaction: %w", err)
			}
			out = tx
			return fx, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *DefaultTransactionUsecase) ConfirmReceived(ctx context.Context, transactionID, buyerID string) (*domain.Transaction, error) {
	tx, err := uc.getTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.BuyerID != buyerID {
		return nil, domain.Forbidden(domain.CodeBuyerOnly, "only the buyer may confirm receipt")
	}
	account := uc.defaultBankAccount(ctx, tx.SellerID)

	return uc.complete(ctx, "confirm_received", transactionID, buyerID, account, func(tx *domain.Transaction, now time.Time) (domain.Effects, error) {
		return tx.ConfirmReceived(buyerID, now)
	})
}

// AutoVerify completes a transaction whose verification window passed without
// confirmation or dispute.
func (uc *DefaultTransactionUsecase) AutoVerify(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	tx, err := uc.getTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	account := uc.defaultBankAccount(ctx, tx.SellerID)

	return uc.complete(ctx, "auto_verify", transactionID, domain.SystemActor, account, func(tx *domain.Transaction, now time.Time) (domain.Effects, error) {
		return tx.AutoVerify(now)
	})
}

func (uc *DefaultTransactionUsecase) complete(
	ctx context.Context,
	operation, transactionID, actorID string,
	account *domain.BankAccount,
	transition func(tx *domain.Transaction, now time.Time) (domain.Effects, error),
) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := uc.runner.Process(ctx, usecase.Operation{
		Name: operation,
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			now := uc.runner.Now()
			listing, tx, err := usecase.LockTransaction(ctx, r, transactionID)
			if err != nil {
				return domain.Effects{}, err
			}
			dispute, err := usecase.ActiveDispute(ctx, r, tx.ID)
			if err != nil {
				return domain.Effects{}, fmt.Errorf("find dispute: %w", err)
			}
			if dispute != nil {
				return domain.Effects{}, domain.Precondition(domain.CodeDisputeActive, "transaction has an unresolved dispute")
			}

			fx, err := transition(tx, now)
			if err != nil {
				return domain.Effects{}, err
			}
			if err := r.Transactions.Update(ctx, tx); err != nil {
				return domain.Effects{}, fmt.Errorf("update transaction: %w", err)
			}
			settleFx, err := uc.Settle(ctx, r, listing, tx, account, actorID, now)
			if err != nil {
				return domain.Effects{}, err
			}
			fx.Append(settleFx)
			out = tx
			return fx, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Settle finalizes a COMPLETED transaction inside the caller's unit of work:
// the listing becomes SOLD and a payout is queued for the seller's default
// bank account. Without an account the payout is skipped.
func (uc *DefaultTransactionUsecase) Settle(
	ctx context.Context,
	r *domain.Repositories,
	l *domain.Listing,
	tx *domain.Transaction,
	account *domain.BankAccount,
	actorID string,
	now time.Time,
) (domain.Effects, error) {
	from := l.Status
	uc.guard.FinalizeSold(l)
	fx := l.StatusChanged(from, actorID, now)
	if err := r.Listings.Update(ctx, l); err != nil {
		return domain.Effects{}, fmt.Errorf("finalize listing: %w", err)
	}

	if account == nil {
		slog.Warn("seller has no default bank account, payout skipped",
			"transaction_id", tx.ID,
			"seller_id", tx.SellerID,
		)
		return fx, nil
	}
	payout := &domain.Payout{
		ID:            uuid.NewString(),
		TransactionID: tx.ID,
		SellerID:      tx.SellerID,
		BankAccountID: account.ID,
		Amount:        tx.SellerPayout,
		Status:        domain.PayoutPending,
		CreatedAt:     now,
	}
	if err := r.Payouts.Create(ctx, payout); err != nil {
		return domain.Effects{}, fmt.Errorf("create payout: %w", err)
	}
	fx.Append(payout.Created(actorID, now))
	return fx, nil
}

func (uc *DefaultTransactionUsecase) CancelTransaction(ctx context.Context, transactionID, buyerID string) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := uc.runner.Process(ctx, usecase.Operation{
		Name: "cancel_transaction",
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			now := uc.runner.Now()
			listing, tx, err := usecase.LockTransaction(ctx, r, transactionID)
			if err != nil {
				return domain.Effects{}, err
			}
			fx, err := tx.Cancel(buyerID, now)
			if err != nil {
				return domain.Effects{}, err
			}
			if err := r.Transactions.Update(ctx, tx); err != nil {
				return domain.Effects{}, fmt.Errorf("update transaction: %w", err)
			}
			expireFx, err := expirePending(ctx, r, tx.ID, "", buyerID, now)
			if err != nil {
				return domain.Effects{}, err
			}
			fx.Append(expireFx)
			releaseFx, err := uc.releaseListing(ctx, r, listing, tx, buyerID, now)
			if err != nil {
				return domain.Effects{}, err
			}
			fx.Append(releaseFx)
			out = tx
			return fx, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
