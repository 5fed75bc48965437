package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
)

// RequestPayment returns the transaction's unexpired invoice, or retires
// stale ones and issues a fresh invoice.
func (uc *DefaultTransactionUsecase) RequestPayment(ctx context.Context, input *transactiondto.RequestPaymentInput) (*transactiondto.PaymentOutput, error) {
	tx, err := uc.getTransaction(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.BuyerID != input.BuyerID {
		return nil, domain.Forbidden(domain.CodeBuyerOnly, "only the buyer may request payment")
	}

	var out transactiondto.PaymentOutput
	undo := &usecase.Compensations{}
	err = uc.runner.Process(ctx, usecase.Operation{
		Name: "request_payment",
		Undo: undo,
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			now := uc.runner.Now()
			_, tx, err := usecase.LockTransaction(ctx, r, input.TransactionID)
			if err != nil {
				return domain.Effects{}, err
			}
			if tx.Status != domain.StatusPendingPayment {
				return domain.Effects{}, domain.Precondition(domain.CodeInvalidState, "transaction is "+string(tx.Status)+", payment is not required")
			}
			payments, err := r.Payments.ListByTransaction(ctx, tx.ID)
			if err != nil {
				return domain.Effects{}, fmt.Errorf("list payments: %w", err)
			}
			for _, p := range payments {
				if p.IsUsable(now) {
					out = transactiondto.PaymentOutput{Payment: p, Reused: true}
					return domain.Effects{}, nil
				}
			}

			var fx domain.Effects
			for _, p := range payments {
				expireFx, ok := p.Expire(domain.SystemActor, now)
				if !ok {
					continue
				}
				if err := r.Payments.Update(ctx, p); err != nil {
					return domain.Effects{}, fmt.Errorf("expire stale payment: %w", err)
				}
				fx.Append(expireFx)
			}
			payment, paymentFx, err := uc.issueInvoice(ctx, r, tx, input.BuyerEmail, input.BuyerID, now, undo)
			if err != nil {
				return domain.Effects{}, err
			}
			fx.Append(paymentFx)
			out = transactiondto.PaymentOutput{Payment: payment}
			return fx, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *DefaultTransactionUsecase) MarkPaid(ctx context.Context, paymentID string) (*transactiondto.TransactionOutput, error) {
	payment, err := uc.runner.Repos().Payments.Get(ctx, paymentID)
	if err != nil {
		return nil, usecase.MapNotFound(err, domain.CodePaymentNotFound, "payment not found")
	}
	return uc.markPaid(ctx, payment.TransactionID, payment.ID)
}

func (uc *DefaultTransactionUsecase) MarkPaidByInvoice(ctx context.Context, invoiceID string) (*transactiondto.TransactionOutput, error) {
	payment, err := uc.runner.Repos().Payments.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, usecase.MapNotFound(err, domain.CodePaymentNotFound, "payment not found")
	}
	return uc.markPaid(ctx, payment.TransactionID, payment.ID)
}

// markPaid is idempotent: a second confirmation of the same payment is a no-op.
func (uc *DefaultTransactionUsecase) markPaid(ctx context.Context, transactionID, paymentID string) (*transactiondto.TransactionOutput, error) {
	var out transactiondto.TransactionOutput
	err := uc.runner.Process(ctx, usecase.Operation{
		Name: "mark_paid",
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			now := uc.runner.Now()
			_, tx, err := usecase.LockTransaction(ctx, r, transactionID)
			if err != nil {
				return domain.Effects{}, err
			}
			payment, err := r.Payments.GetForUpdate(ctx, paymentID)
			if err != nil {
				return domain.Effects{}, usecase.MapNotFound(err, domain.CodePaymentNotFound, "payment not found")
			}
			out.Transaction, out.Payment = tx, payment
			if payment.Status == domain.PaymentPaid {
				return domain.Effects{}, nil
			}
			if tx.Status != domain.StatusPendingPayment {
				return domain.Effects{}, domain.Precondition(domain.CodeInvalidState, "transaction is "+string(tx.Status)+", payment cannot be applied")
			}

			fx, _, err := payment.MarkPaid(now)
			if err != nil {
				return domain.Effects{}, err
			}
			if err := r.Payments.Update(ctx, payment); err != nil {
				return domain.Effects{}, fmt.Errorf("update payment: %w", err)
			}
			paidFx, err := tx.MarkPaid(now)
			if err != nil {
				return domain.Effects{}, err
			}
			fx.Append(paidFx)
			if err := r.Transactions.Update(ctx, tx); err != nil {
				return domain.Effects{}, fmt.Errorf("update transaction: %w", err)
			}

			siblingFx, err := expirePending(ctx, r, tx.ID, payment.ID, domain.SystemActor, now)
			if err != nil {
				return domain.Effects{}, err
			}
			fx.Append(siblingFx)
			return fx, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *DefaultTransactionUsecase) ExpirePayment(ctx context.Context, paymentID string) (*transactiondto.TransactionOutput, error) {
	payment, err := uc.runner.Repos().Payments.Get(ctx, paymentID)
	if err != nil {
		return nil, usecase.MapNotFound(err, domain.CodePaymentNotFound, "payment not found")
	}
	return uc.expirePayment(ctx, payment.TransactionID, payment.ID)
}

func (uc *DefaultTransactionUsecase) ExpirePaymentByInvoice(ctx context.Context, invoiceID string) (*transactiondto.TransactionOutput, error) {
	payment, err := uc.runner.Repos().Payments.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, usecase.MapNotFound(err, domain.CodePaymentNotFound, "payment not found")
	}
	return uc.expirePayment(ctx, payment.TransactionID, payment.ID)
}

// expirePayment cancels the transaction and releases the listing when the
// expired payment was the last PENDING one.
func (uc *DefaultTransactionUsecase) expirePayment(ctx context.Context, transactionID, paymentID string) (*transactiondto.TransactionOutput, error) {
	var out transactiondto.TransactionOutput
	err := uc.runner.Process(ctx, usecase.Operation{
		Name: "expire_payment",
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			now := uc.runner.Now()
			listing, tx, err := usecase.LockTransaction(ctx, r, transactionID)
			if err != nil {
				return domain.Effects{}, err
			}
			payment, err := r.Payments.GetForUpdate(ctx, paymentID)
			if err != nil {
				return domain.Effects{}, usecase.MapNotFound(err, domain.CodePaymentNotFound, "payment not found")
			}
			out.Transaction, out.Payment = tx, payment

			fx, ok := payment.Expire(domain.SystemActor, now)
			if !ok {
				return domain.Effects{}, nil
			}
			if err := r.Payments.Update(ctx, payment); err != nil {
				return domain.Effects{}, fmt.Errorf("update payment: %w", err)
			}
			if tx.Status != domain.StatusPendingPayment {
				return fx, nil
			}

			payments, err := r.Payments.ListByTransaction(ctx, tx.ID)
			if err != nil {
				return domain.Effects{}, fmt.Errorf("list payments: %w", err)
			}
			for _, p := range payments {
				if p.ID != payment.ID && p.Status == domain.PaymentPending {
					return fx, nil
				}
			}

			cancelFx, err := tx.Cancel(domain.SystemActor, now)
			if err != nil {
				return domain.Effects{}, err
			}
			fx.Append(cancelFx)
			if err := r.Transactions.Update(ctx, tx); err != nil {
				return domain.Effects{}, fmt.Errorf("update transaction: %w", err)
			}
			releaseFx, err := uc.releaseListing(ctx, r, listing, tx, domain.SystemActor, now)
			if err != nil {
				return domain.Effects{}, err
			}
			fx.Append(releaseFx)
			return fx, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SyncPayment polls the gateway for providers that do not call back.
func (uc *DefaultTransactionUsecase) SyncPayment(ctx context.Context, paymentID string) (*transactiondto.TransactionOutput, error) {
	payment, err := uc.runner.Repos().Payments.Get(ctx, paymentID)
	if err != nil {
		return nil, usecase.MapNotFound(err, domain.CodePaymentNotFound, "payment not found")
	}
	if payment.Status != domain.PaymentPending {
		tx, err := uc.getTransaction(ctx, payment.TransactionID)
		if err != nil {
			return nil, err
		}
		return &transactiondto.TransactionOutput{Transaction: tx, Payment: payment}, nil
	}

	status, err := uc.gateway.CheckStatus(ctx, payment.ExternalInvoiceID)
	if err != nil {
		return nil, domain.External(domain.CodeGatewayUnavailable, "could not check invoice status", err)
	}
	switch {
	case status == domain.InvoicePaid:
		return uc.markPaid(ctx, payment.TransactionID, payment.ID)
	case status == domain.InvoiceExpired, !uc.runner.Now().Before(payment.ExpiresAt):
		return uc.expirePayment(ctx, payment.TransactionID, payment.ID)
	}
	tx, err := uc.getTransaction(ctx, payment.TransactionID)
	if err != nil {
		return nil, err
	}
	return &transactiondto.TransactionOutput{Transaction: tx, Payment: payment}, nil
}

// expirePending retires every PENDING payment of the transaction except keepID.
func expirePending(ctx context.Context, r *domain.Repositories, transactionID, keepID, actorID string, now time.Time) (domain.Effects, error) {
	payments, err := r.Payments.ListByTransaction(ctx, transactionID)
	if err != nil {
		return domain.Effects{}, fmt.Errorf("list payments: %w", err)
	}
	var fx domain.Effects
	for _, p := range payments {
		if p.ID == keepID {
			continue
		}
		expireFx, ok := p.Expire(actorID, now)
		if !ok {
			continue
		}
		if err := r.Payments.Update(ctx, p); err != nil {
			return domain.Effects{}, fmt.Errorf("expire payment: %w", err)
		}
		fx.Append(expireFx)
	}
	return fx, nil
}

// releaseListing frees the listing of a cancelled transaction. An auction
// that already ended cannot take bids again, so its listing is withdrawn.
func (uc *DefaultTransactionUsecase) releaseListing(ctx context.Context, r *domain.Repositories, l *domain.Listing, tx *domain.Transaction, actorID string, now time.Time) (domain.Effects, error) {
	from := l.Status
	if tx.Source == domain.SourceAuction && l.AuctionEnded(now) {
		uc.guard.Withdraw(l)
	} else {
		uc.guard.Release(l)
	}
	fx := l.StatusChanged(from, actorID, now)
	if err := r.Listings.Update(ctx, l); err != nil {
		return domain.Effects{}, fmt.Errorf("release listing: %w", err)
	}
	return fx, nil
}
