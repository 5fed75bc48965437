package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

func (r *DefaultDisputeRepository) Create(ctx context.Context, dispute *domain.Dispute) error {
	return r.db.WithContext(ctx).Create(mappers.ToGORMDispute(dispute)).Error
}

func (r *DefaultDisputeRepository) Get(ctx context.Context, id string) (*domain.Dispute, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *DefaultDisputeRepository) GetForUpdate(ctx context.Context, id string) (*domain.Dispute, error) {
	return r.first(forUpdate(r.db.WithContext(ctx)).Where("id = ?", id))
}

func (r *DefaultDisputeRepository) GetByTransaction(ctx context.Context, transactionID string) (*domain.Dispute, error) {
	return r.first(r.db.WithContext(ctx).Where("transaction_id = ?", transactionID))
}

func (r *DefaultDisputeRepository) first(query *gorm.DB) (*domain.Dispute, error) {
	var model models.DisputeModel
	if err := query.First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return mappers.ToDomainDispute(&model), nil
}

func (r *DefaultDisputeRepository) Update(ctx context.Context, dispute *domain.Dispute) error {
	return r.db.WithContext(ctx).Save(mappers.ToGORMDispute(dispute)).Error
}

type DefaultEvidenceRepository struct {
	db *gorm.DB
}

func NewDefaultEvidenceRepository(db *gorm.DB) *DefaultEvidenceRepository {
	return &DefaultEvidenceRepository{db: db}
}

func (r *DefaultEvidenceRepository) Create(ctx context.Context, evidence *domain.Evidence) error {
	return r.db.WithContext(ctx).Create(mappers.ToGORMEvidence(evidence)).Error
}

func (r *DefaultEvidenceRepository) CountByUploader(ctx context.Context, disputeID, uploaderID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EvidenceModel{}).
		Where("dispute_id = ? AND uploader_id = ?", disputeID, uploaderID).
		Count(&count).Error
	return count, err
}

func (r *DefaultEvidenceRepository) ListByDispute(ctx context.Context, disputeID string) ([]*domain.Evidence, error) {
	var evidenceModels []models.EvidenceModel
	if err := r.db.WithContext(ctx).
		Where("dispute_id = ?", disputeID).
		Order("created_at ASC").
		Find(&evidenceModels).Error; err != nil {
		return nil, err
	}
	evidence := make([]*domain.Evidence, len(evidenceModels))
	for i := range evidenceModels {
		evidence[i] = mappers.ToDomainEvidence(&evidenceModels[i])
	}
	return evidence, nil
}
