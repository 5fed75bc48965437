package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainReview(model *models.ReviewModel) *domain.Review {
	return &domain.Review{
		ID:            model.ID,
		TransactionID: model.TransactionID,
		ReviewerID:    model.ReviewerID,
		RevieweeID:    model.RevieweeID,
		Rating:        model.Rating,
		Comment:       model.Comment,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMReview(review *domain.Review) *models.ReviewModel {
	return &models.ReviewModel{
		ID:            review.ID,
		TransactionID: review.TransactionID,
		ReviewerID:    review.ReviewerID,
		RevieweeID:    review.RevieweeID,
		Rating:        review.Rating,
		Comment:       review.Comment,
		CreatedAt:     review.CreatedAt,
	}
}

func ToDomainUserRating(model *models.UserRatingModel) *domain.UserRating {
	return &domain.UserRating{
		UserID:      model.UserID,
		RatingSum:   model.RatingSum,
		RatingCount: model.RatingCount,
		Average:     model.Average,
		UpdatedAt:   model.UpdatedAt,
	}
}

func ToDomainAuditEntry(model *models.AuditLogModel) domain.AuditEntry {
	return domain.AuditEntry{
		ID:         model.ID,
		EntityType: model.EntityType,
		EntityID:   model.EntityID,
		Action:     domain.AuditAction(model.Action),
		ActorID:    model.ActorID,
		OldValue:   model.OldValue,
		NewValue:   model.NewValue,
		CreatedAt:  model.CreatedAt,
	}
}

func ToGORMAuditEntry(entry *domain.AuditEntry) *models.AuditLogModel {
	return &models.AuditLogModel{
		ID:         entry.ID,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     string(entry.Action),
		ActorID:    entry.ActorID,
		OldValue:   entry.OldValue,
		NewValue:   entry.NewValue,
		CreatedAt:  entry.CreatedAt,
	}
}
