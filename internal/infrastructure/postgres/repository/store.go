package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// GormStore implements domain.Store on postgres. A unit of work is one
// database transaction; GetForUpdate issues SELECT ... FOR UPDATE.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Repositories() *domain.Repositories {
	return bind(s.db)
}

func (s *GormStore) Atomic(ctx context.Context, fn func(r *domain.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bind(tx))
	})
}

func bind(db *gorm.DB) *domain.Repositories {
	return &domain.Repositories{
		Listings:     NewDefaultListingRepository(db),
		Bids:         NewDefaultBidRepository(db),
		Transactions: NewDefaultTransactionRepository(db),
		Payments:     NewDefaultPaymentRepository(db),
		Payouts:      NewDefaultPayoutRepository(db),
		Disputes:     NewDefaultDisputeRepository(db),
		Evidence:     NewDefaultEvidenceRepository(db),
		Reviews:      NewDefaultReviewRepository(db),
		Ratings:      NewDefaultUserRatingRepository(db),
		Audit:        NewDefaultAuditRepository(db),
	}
}

func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRecordNotFound
	}
	return err
}
