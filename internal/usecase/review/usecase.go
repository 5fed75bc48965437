package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	reviewdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/review"
)

type ReviewUsecase interface {
	CreateReview(ctx context.Context, input *reviewdto.CreateReviewInput) (*reviewdto.ReviewOutput, error)
	ListUserReviews(ctx context.Context, userID string) ([]*domain.Review, *domain.UserRating, error)
}

type DefaultReviewUsecase struct {
	runner *usecase.Runner
}

func NewDefaultReviewUsecase(runner *usecase.Runner) *DefaultReviewUsecase {
	return &DefaultReviewUsecase{runner: runner}
}

// CreateReview rates the counterparty of a COMPLETED transaction and folds the
// rating into their running average in the same unit of work.
func (uc *DefaultReviewUsecase) CreateReview(ctx context.Context, input *reviewdto.CreateReviewInput) (*reviewdto.ReviewOutput, error) {
	if err := domain.ValidateRating(input.Rating); err != nil {
		return nil, err
	}

	var out reviewdto.ReviewOutput
	err := uc.runner.Process(ctx, usecase.Operation{
		Name: "create_review",
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			now := uc.runner.Now()
			tx, err := r.Transactions.GetForUpdate(ctx, input.TransactionID)
			if err != nil {
				return domain.Effects{}, usecase.MapNotFound(err, domain.CodeTransactionNotFound, "transaction not found")
			}
			if !tx.IsParticipant(input.ReviewerID) {
				return domain.Effects{}, domain.Forbidden(domain.CodeNotParticipant, "only the buyer or seller may review this transaction")
			}
			if tx.Status != domain.StatusCompleted {
				return domain.Effects{}, domain.Precondition(domain.CodeInvalidState, "reviews open once the transaction is completed")
			}
			exists, err := r.Reviews.Exists(ctx, tx.ID, input.ReviewerID)
			if err != nil {
				return domain.Effects{}, fmt.Errorf("check review: %w", err)
			}
			if exists {
				return domain.Effects{}, domain.Conflict(domain.CodeReviewExists, "you already reviewed this transaction", tx.ID)
			}

			reviewee := tx.SellerID
			if input.ReviewerID == tx.SellerID {
				reviewee = tx.BuyerID
			}
			review := &domain.Review{
				ID:            uuid.NewString(),
				TransactionID: tx.ID,
				ReviewerID:    input.ReviewerID,
				RevieweeID:    reviewee,
				Rating:        input.Rating,
				Comment:       input.Comment,
				CreatedAt:     now,
			}
			if err := r.Reviews.Create(ctx, review); err != nil {
				return domain.Effects{}, fmt.Errorf("create review: %w", err)
			}

			rating, err := r.Ratings.AddRating(ctx, reviewee, review.Rating, now)
			if err != nil {
				return domain.Effects{}, fmt.Errorf("update rating: %w", err)
			}

			out.Review, out.Rating = review, rating
			return review.Created(tx, now), nil
		},
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *DefaultReviewUsecase) ListUserReviews(ctx context.Context, userID string) ([]*domain.Review, *domain.UserRating, error) {
	repos := uc.runner.Repos()
	reviews, err := repos.Reviews.ListByReviewee(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list reviews: %w", err)
	}
	rating, err := repos.Ratings.Get(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load rating: %w", err)
	}
	return reviews, rating, nil
}
