package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

type DefaultListingRepository struct {
	db *gorm.DB
}

func NewDefaultListingRepository(db *gorm.DB) *DefaultListingRepository {
	return &DefaultListingRepository{db: db}
}

func (r *DefaultListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	return r.db.WithContext(ctx).Create(mappers.ToGORMListing(listing)).Error
}

func (r *DefaultListingRepository) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *DefaultListingRepository) GetForUpdate(ctx context.Context, id string) (*domain.Listing, error) {
	return r.get(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *DefaultListingRepository) get(db *gorm.DB, id string) (*domain.Listing, error) {
	var model models.ListingModel
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return mappers.ToDomainListing(&model), nil
}

func (r *DefaultListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	return r.db.WithContext(ctx).Save(mappers.ToGORMListing(listing)).Error
}

func (r *DefaultListingRepository) FindEndedAuctions(ctx context.Context, now time.Time, limit int) ([]*domain.Listing, error) {
	var listingModels []models.ListingModel
	if err := r.db.WithContext(ctx).
		Where("type = ?", string(domain.ListingAuction)).
		Where("status = ?", string(domain.ListingActive)).
		Where("auction_ends_at < ?", now).
		Order("auction_ends_at ASC").
		Limit(limit).
		Find(&listingModels).Error; err != nil {
		return nil, err
	}
	listings := make([]*domain.Listing, len(listingModels))
	for i := range listingModels {
		listings[i] = mappers.ToDomainListing(&listingModels[i])
	}
	return listings, nil
}

type DefaultBidRepository struct {
	db *gorm.DB
}

func NewDefaultBidRepository(db *gorm.DB) *DefaultBidRepository {
	return &DefaultBidRepository{db: db}
}

func (r *DefaultBidRepository) Create(ctx context.Context, bid *domain.Bid) error {
	return r.db.WithContext(ctx).Create(mappers.ToGORMBid(bid)).Error
}

func (r *DefaultBidRepository) Highest(ctx context.Context, listingID string) (*domain.Bid, error) {
	var model models.BidModel
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("amount DESC, id ASC").
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return mappers.ToDomainBid(&model), nil
}

func (r *DefaultBidRepository) ListByListing(ctx context.Context, listingID string) ([]*domain.Bid, error) {
	var bidModels []models.BidModel
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("id ASC").
		Find(&bidModels).Error; err != nil {
		return nil, err
	}
	bids := make([]*domain.Bid, len(bidModels))
	for i := range bidModels {
		bids[i] = mappers.ToDomainBid(&bidModels[i])
	}
	return bids, nil
}

func (r *DefaultBidRepository) CountByListing(ctx context.Context, listingID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BidModel{}).Where("listing_id = ?", listingID).Count(&count).Error
	return count, err
}
