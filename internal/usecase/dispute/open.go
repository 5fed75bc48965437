package dispute

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

// OpenDispute freezes an ITEM_TRANSFERRED transaction until an admin decides.
// Only one dispute may ever exist per transaction.
func (uc *DefaultDisputeUsecase) OpenDispute(ctx context.Context, input *disputedto.OpenDisputeInput) (*domain.Dispute, error) {
	category := input.Category
	if category == "" {
		category = domain.CategoryOther
	}

	var out *domain.Dispute
	err := uc.runner.Process(ctx, usecase.Operation{
		Name: "open_dispute",
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			now := uc.runner.Now()
			_, tx, err := usecase.LockTransaction(ctx, r, input.TransactionID)
			if err != nil {
				return domain.Effects{}, err
			}
			if tx.BuyerID != input.BuyerID {
				return domain.Effects{}, domain.Forbidden(domain.CodeBuyerOnly, "only the buyer may open a dispute")
			}
			existing, err := r.Disputes.GetByTransaction(ctx, tx.ID)
			switch {
			case err == nil:
				return domain.Effects{}, domain.Conflict(domain.CodeDisputeExists, "a dispute already exists for this transaction", existing.ID)
			case !errors.Is(err, domain.ErrRecordNotFound):
				return domain.Effects{}, fmt.Errorf("find dispute: %w", err)
			}

			fx, err := tx.OpenDispute(input.BuyerID, now)
			if err != nil {
				return domain.Effects{}, err
			}
			if err := r.Transactions.Update(ctx, tx); err != nil {
				return domain.Effects{}, fmt.Errorf("update transaction: %w", err)
			}

			d := &domain.Dispute{
				ID:            uuid.NewString(),
				TransactionID: tx.ID,
				InitiatorID:   input.BuyerID,
				Category:      category,
				Description:   input.Description,
				Status:        domain.DisputeOpen,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := r.Disputes.Create(ctx, d); err != nil {
				return domain.Effects{}, fmt.Errorf("create dispute: %w", err)
			}
			fx.Append(d.Opened(tx, now))
			out = d
			return fx, nil
		},
	})
	if err != nil {
		return nil, err
	}
	uc.Metrics.DisputeOpened()
	return out, nil
}

func (uc *DefaultDisputeUsecase) AddEvidence(ctx context.Context, input *disputedto.AddEvidenceInput) (*domain.Evidence, error) {
	var out *domain.Evidence
	err := uc.runner.Process(ctx, usecase.Operation{
		Name: "add_evidence",
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			now := uc.runner.Now()
			d, err := r.Disputes.GetForUpdate(ctx, input.DisputeID)
			if err != nil {
				return domain.Effects{}, usecase.MapNotFound(err, domain.CodeDisputeNotFound, "dispute not found")
			}
			tx, err := r.Transactions.Get(ctx, d.TransactionID)
			if err != nil {
				return domain.Effects{}, usecase.MapNotFound(err, domain.CodeTransactionNotFound, "transaction not found")
			}
			if !tx.IsParticipant(input.UploaderID) {
				return domain.Effects{}, domain.Forbidden(domain.CodeNotParticipant, "only the buyer or seller may add evidence")
			}
			if !d.IsActive() {
				return domain.Effects{}, domain.Precondition(domain.CodeDisputeResolved, "dispute is already resolved")
			}
			count, err := r.Evidence.CountByUploader(ctx, d.ID, input.UploaderID)
			if err != nil {
				return domain.Effects{}, fmt.Errorf("count evidence: %w", err)
			}
			if count >= int64(uc.maxEvidence) {
				return domain.Effects{}, domain.Precondition(domain.CodeEvidenceLimit, fmt.Sprintf("at most %d evidence files per party", uc.maxEvidence))
			}

			evidence := &domain.Evidence{
				ID:         uuid.NewString(),
				DisputeID:  d.ID,
				UploaderID: input.UploaderID,
				FileURL:    input.FileURL,
				FileType:   input.FileType,
				Note:       input.Note,
				CreatedAt:  now,
			}
			if err := r.Evidence.Create(ctx, evidence); err != nil {
				return domain.Effects{}, fmt.Errorf("create evidence: %w", err)
			}
			out = evidence
			return evidence.Added(d, tx, now), nil
		},
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
