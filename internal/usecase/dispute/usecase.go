package dispute

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

type DisputeUsecase interface {
	OpenDispute(ctx context.Context, input *disputedto.OpenDisputeInput) (*domain.Dispute, error)
	AddEvidence(ctx context.Context, input *disputedto.AddEvidenceInput) (*domain.Evidence, error)
	MarkUnderReview(ctx context.Context, disputeID, adminID string, isAdmin bool) (*domain.Dispute, error)
	ResolveDispute(ctx context.Context, input *disputedto.ResolveDisputeInput) (*disputedto.DisputeOutput, error)
	GetDispute(ctx context.Context, disputeID, viewerID string, admin bool) (*disputedto.DisputeOutput, error)
	GetDisputeByTransaction(ctx context.Context, transactionID, viewerID string, admin bool) (*disputedto.DisputeOutput, error)
}

// Settler finalizes a transaction resolved in the seller's favour.
type Settler interface {
	Settle(ctx context.Context, r *domain.Repositories, l *domain.Listing, tx *domain.Transaction, account *domain.BankAccount, actorID string, now time.Time) (domain.Effects, error)
}

type DefaultDisputeUsecase struct {
	runner      *usecase.Runner
	settler     Settler
	banks       domain.BankAccountProvider
	guard       domain.ListingGuard
	maxEvidence int
	Metrics     *metrics.EscrowMetrics
}

func NewDefaultDisputeUsecase(
	runner *usecase.Runner,
	settler Settler,
	banks domain.BankAccountProvider,
	maxEvidence int,
) *DefaultDisputeUsecase {
	if maxEvidence <= 0 {
		maxEvidence = domain.MaxEvidencePerUploader
	}
	return &DefaultDisputeUsecase{
		runner:      runner,
		settler:     settler,
		banks:       banks,
		maxEvidence: maxEvidence,
		Metrics:     runner.Metrics,
	}
}

func (uc *DefaultDisputeUsecase) getDispute(ctx context.Context, disputeID string) (*domain.Dispute, error) {
	d, err := uc.runner.Repos().Disputes.Get(ctx, disputeID)
	if err != nil {
		return nil, usecase.MapNotFound(err, domain.CodeDisputeNotFound, "dispute not found")
	}
	return d, nil
}
