package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

type DefaultReviewRepository struct {
	db *gorm.DB
}

func NewDefaultReviewRepository(db *gorm.DB) *DefaultReviewRepository {
	return &DefaultReviewRepository{db: db}
}

func (r *DefaultReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return r.db.WithContext(ctx).Create(mappers.ToGORMReview(review)).Error
}

func (r *DefaultReviewRepository) Exists(ctx context.Context, transactionID, reviewerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReviewModel{}).
		Where("transaction_id = ? AND reviewer_id = ?", transactionID, reviewerID).
		Count(&count).Error
	return count > 0, err
}

func (r *DefaultReviewRepository) ListByReviewee(ctx context.Context, revieweeID string) ([]*domain.Review, error) {
	var reviewModels []models.ReviewModel
	if err := r.db.WithContext(ctx).
		Where("reviewee_id = ?", revieweeID).
		Order("created_at DESC").
		Find(&reviewModels).Error; err != nil {
		return nil, err
	}
	reviews := make([]*domain.Review, len(reviewModels))
	for i := range reviewModels {
		reviews[i] = mappers.ToDomainReview(&reviewModels[i])
	}
	return reviews, nil
}

type DefaultUserRatingRepository struct {
	db *gorm.DB
}

func NewDefaultUserRatingRepository(db *gorm.DB) *DefaultUserRatingRepository {
	return &DefaultUserRatingRepository{db: db}
}

func (r *DefaultUserRatingRepository) Get(ctx context.Context, userID string) (*domain.UserRating, error) {
	return r.get(r.db.WithContext(ctx), userID)
}

func (r *DefaultUserRatingRepository) get(db *gorm.DB, userID string) (*domain.UserRating, error) {
	var model models.UserRatingModel
	err := db.Where("user_id = ?", userID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.UserRating{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainUserRating(&model), nil
}

// addRatingSQL increments the aggregate in the row itself, so two first
// reviews of the same user cannot both start from zero.
const addRatingSQL = `
INSERT INTO user_ratings (user_id, rating_sum, rating_count, average, updated_at)
VALUES (@user_id, @rating, 1, @rating, @now)
ON CONFLICT (user_id) DO UPDATE SET
    rating_sum   = user_ratings.rating_sum + EXCLUDED.rating_sum,
    rating_count = user_ratings.rating_count + 1,
    average      = CAST(user_ratings.rating_sum + EXCLUDED.rating_sum AS double precision) / (user_ratings.rating_count + 1),
    updated_at   = EXCLUDED.updated_at
RETURNING user_id, rating_sum, rating_count, average, updated_at`

func (r *DefaultUserRatingRepository) AddRating(ctx context.Context, userID string, rating int, now time.Time) (*domain.UserRating, error) {
	var model models.UserRatingModel
	err := r.db.WithContext(ctx).Raw(addRatingSQL, map[string]any{
		"user_id": userID,
		"rating":  rating,
		"now":     now,
	}).Scan(&model).Error
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainUserRating(&model), nil
}

type DefaultAuditRepository struct {
	db *gorm.DB
}

func NewDefaultAuditRepository(db *gorm.DB) *DefaultAuditRepository {
	return &DefaultAuditRepository{db: db}
}

func (r *DefaultAuditRepository) Append(ctx context.Context, entries ...domain.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}
	auditModels := make([]*models.AuditLogModel, len(entries))
	for i := range entries {
		auditModels[i] = mappers.ToGORMAuditEntry(&entries[i])
	}
	return r.db.WithContext(ctx).Create(&auditModels).Error
}

func (r *DefaultAuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditEntry, error) {
	var auditModels []models.AuditLogModel
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id ASC").
		Find(&auditModels).Error; err != nil {
		return nil, err
	}
	entries := make([]domain.AuditEntry, len(auditModels))
	for i := range auditModels {
		entries[i] = mappers.ToDomainAuditEntry(&auditModels[i])
	}
	return entries, nil
}
