package dispute

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

func (uc *DefaultDisputeUsecase) MarkUnderReview(ctx context.Context, disputeID, adminID string, isAdmin bool) (*domain.Dispute, error) {
	if !isAdmin {
		return nil, domain.Forbidden(domain.CodeAdminOnly, "only an admin may review disputes")
	}
	var out *domain.Dispute
	err := uc.runner.Process(ctx, usecase.Operation{
		Name: "review_dispute",
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			d, err := r.Disputes.GetForUpdate(ctx, disputeID)
			if err != nil {
				return domain.Effects{}, usecase.MapNotFound(err, domain.CodeDisputeNotFound, "dispute not found")
			}
			fx, err := d.MarkUnderReview(adminID, uc.runner.Now())
			if err != nil {
				return domain.Effects{}, err
			}
			if err := r.Disputes.Update(ctx, d); err != nil {
				return domain.Effects{}, fmt.Errorf("update dispute: %w", err)
			}
			out = d
			return fx, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveDispute applies the admin decision. Refund resolutions move the
// transaction to REFUNDED and withdraw the listing; NO_REFUND completes it
// and pays the seller out.
func (uc *DefaultDisputeUsecase) ResolveDispute(ctx context.Context, input *disputedto.ResolveDisputeInput) (*disputedto.DisputeOutput, error) {
	if !input.IsAdmin {
		return nil, domain.Forbidden(domain.CodeAdminOnly, "only an admin may resolve disputes")
	}
	if !input.Resolution.Valid() {
		return nil, domain.Precondition(domain.CodeInvalidResolution, "unknown resolution "+string(input.Resolution))
	}
	current, err := uc.getDispute(ctx, input.DisputeID)
	if err != nil {
		return nil, err
	}

	var account *domain.BankAccount
	if !input.Resolution.RefundsBuyer() {
		tx, err := uc.runner.Repos().Transactions.Get(ctx, current.TransactionID)
		if err != nil {
			return nil, usecase.MapNotFound(err, domain.CodeTransactionNotFound, "transaction not found")
		}
		account, err = uc.banks.GetDefaultBankAccount(ctx, tx.SellerID)
		if err != nil {
			slog.Error("failed to fetch default bank account", "seller_id", tx.SellerID, "error", err)
			uc.Metrics.SideEffectFailure("bank_account")
			account = nil
		}
	}

	var out disputedto.DisputeOutput
	err = uc.runner.Process(ctx, usecase.Operation{
		Name: "resolve_dispute",
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			now := uc.runner.Now()
			listing, tx, err := usecase.LockTransaction(ctx, r, current.TransactionID)
			if err != nil {
				return domain.Effects{}, err
			}
			d, err := r.Disputes.GetForUpdate(ctx, input.DisputeID)
			if err != nil {
				return domain.Effects{}, usecase.MapNotFound(err, domain.CodeDisputeNotFound, "dispute not found")
			}

			fx, err := d.Resolve(input.AdminID, input.Resolution, input.RefundAmount, tx.Amount, input.Note, now)
			if err != nil {
				return domain.Effects{}, err
			}
			if err := r.Disputes.Update(ctx, d); err != nil {
				return domain.Effects{}, fmt.Errorf("update dispute: %w", err)
			}

			if d.Resolution.RefundsBuyer() {
				refundFx, err := tx.Refund(input.AdminID, now)
				if err != nil {
					return domain.Effects{}, err
				}
				fx.Append(refundFx)
				if err := r.Transactions.Update(ctx, tx); err != nil {
					return domain.Effects{}, fmt.Errorf("update transaction: %w", err)
				}
				from := listing.Status
				uc.guard.Withdraw(listing)
				fx.Append(listing.StatusChanged(from, input.AdminID, now))
				if err := r.Listings.Update(ctx, listing); err != nil {
					return domain.Effects{}, fmt.Errorf("withdraw listing: %w", err)
				}
			} else {
				completeFx, err := tx.ResolveCompleted(input.AdminID, now)
				if err != nil {
					return domain.Effects{}, err
				}
				fx.Append(completeFx)
				if err := r.Transactions.Update(ctx, tx); err != nil {
					return domain.Effects{}, fmt.Errorf("update transaction: %w", err)
				}
				settleFx, err := uc.settler.Settle(ctx, r, listing, tx, account, input.AdminID, now)
				if err != nil {
					return domain.Effects{}, err
				}
				fx.Append(settleFx)
			}

			fx.Append(d.Resolved(tx))
			out.Dispute, out.Transaction = d, tx
			return fx, nil
		},
	})
	if err != nil {
		return nil, err
	}
	uc.Metrics.DisputeResolved(string(input.Resolution))
	return &out, nil
}

func (uc *DefaultDisputeUsecase) GetDispute(ctx context.Context, disputeID, viewerID string, admin bool) (*disputedto.DisputeOutput, error) {
	d, err := uc.getDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, d, viewerID, admin)
}

func (uc *DefaultDisputeUsecase) GetDisputeByTransaction(ctx context.Context, transactionID, viewerID string, admin bool) (*disputedto.DisputeOutput, error) {
	d, err := uc.runner.Repos().Disputes.GetByTransaction(ctx, transactionID)
	if err != nil {
		return nil, usecase.MapNotFound(err, domain.CodeDisputeNotFound, "dispute not found")
	}
	return uc.view(ctx, d, viewerID, admin)
}

func (uc *DefaultDisputeUsecase) view(ctx context.Context, d *domain.Dispute, viewerID string, admin bool) (*disputedto.DisputeOutput, error) {
	repos := uc.runner.Repos()
	tx, err := repos.Transactions.Get(ctx, d.TransactionID)
	if err != nil {
		return nil, usecase.MapNotFound(err, domain.CodeTransactionNotFound, "transaction not found")
	}
	if !admin && !tx.IsParticipant(viewerID) {
		return nil, domain.Forbidden(domain.CodeNotParticipant, "you are not a party to this dispute")
	}
	evidence, err := repos.Evidence.ListByDispute(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	return &disputedto.DisputeOutput{Dispute: d, Transaction: tx, Evidence: evidence}, nil
}
