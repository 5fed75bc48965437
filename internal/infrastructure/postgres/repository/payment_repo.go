package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

type DefaultPaymentRepository struct {
	db *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{db: db}
}

func (r *DefaultPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Create(mappers.ToGORMPayment(payment)).Error
}

func (r *DefaultPaymentRepository) Get(ctx context.Context, id string) (*domain.Payment, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *DefaultPaymentRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*domain.Payment, error) {
	return r.first(r.db.WithContext(ctx).Where("external_invoice_id = ?", invoiceID))
}

func (r *DefaultPaymentRepository) GetForUpdate(ctx context.Context, id string) (*domain.Payment, error) {
	return r.first(forUpdate(r.db.WithContext(ctx)).Where("id = ?", id))
}

func (r *DefaultPaymentRepository) first(query *gorm.DB) (*domain.Payment, error) {
	var model models.PaymentModel
	if err := query.First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return mappers.ToDomainPayment(&model), nil
}

func (r *DefaultPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Save(mappers.ToGORMPayment(payment)).Error
}

func (r *DefaultPaymentRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.Payment, error) {
	return r.find(r.db.WithContext(ctx).Where("transaction_id = ?", transactionID), 0)
}

func (r *DefaultPaymentRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Payment, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ?", string(domain.PaymentPending)).
		Where("expires_at <= ?", now), limit)
}

func (r *DefaultPaymentRepository) ListPending(ctx context.Context, limit int) ([]*domain.Payment, error) {
	return r.find(r.db.WithContext(ctx).Where("status = ?", string(domain.PaymentPending)), limit)
}

func (r *DefaultPaymentRepository) find(query *gorm.DB, limit int) ([]*domain.Payment, error) {
	if limit > 0 {
		query = query.Limit(limit)
	}
	var paymentModels []models.PaymentModel
	if err := query.Order("created_at ASC, id ASC").Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]*domain.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = mappers.ToDomainPayment(&paymentModels[i])
	}
	return payments, nil
}

type DefaultPayoutRepository struct {
	db *gorm.DB
}

func NewDefaultPayoutRepository(db *gorm.DB) *DefaultPayoutRepository {
	return &DefaultPayoutRepository{db: db}
}

func (r *DefaultPayoutRepository) Create(ctx context.Context, payout *domain.Payout) error {
	return r.db.WithContext(ctx).Create(mappers.ToGORMPayout(payout)).Error
}

func (r *DefaultPayoutRepository) GetByTransaction(ctx context.Context, transactionID string) (*domain.Payout, error) {
	var model models.PayoutModel
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return mappers.ToDomainPayout(&model), nil
}
