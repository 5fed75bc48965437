package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

var activeStatuses = []string{
	string(domain.StatusPendingPayment),
	string(domain.StatusPaid),
	string(domain.StatusItemTransferred),
	string(domain.StatusDisputed),
}

type DefaultTransactionRepository struct {
	db *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{db: db}
}

func (r *DefaultTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	return r.db.WithContext(ctx).Create(mappers.ToGORMTransaction(tx)).Error
}

func (r *DefaultTransactionRepository) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *DefaultTransactionRepository) GetForUpdate(ctx context.Context, id string) (*domain.Transaction, error) {
	return r.get(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *DefaultTransactionRepository) get(db *gorm.DB, id string) (*domain.Transaction, error) {
	var model models.TransactionModel
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultTransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	return r.db.WithContext(ctx).Save(mappers.ToGORMTransaction(tx)).Error
}

func (r *DefaultTransactionRepository) FindActiveByListing(ctx context.Context, listingID string) (*domain.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Where("status IN ?", activeStatuses).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultTransactionRepository) FindOverdueVerification(ctx context.Context, now time.Time, limit int) ([]*domain.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.StatusItemTransferred)).
		Where("verification_deadline < ?", now).
		Order("verification_deadline ASC").
		Limit(limit).
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

func (r *DefaultTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{})
	if filter.UserID != "" {
		query = query.Where("buyer_id = ? OR seller_id = ?", filter.UserID, filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var txModels []models.TransactionModel
	if err := query.
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&txModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainTransactions(txModels), total, nil
}

func toDomainTransactions(txModels []models.TransactionModel) []*domain.Transaction {
	txs := make([]*domain.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = mappers.ToDomainTransaction(&txModels[i])
	}
	return txs
}
