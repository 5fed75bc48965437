package mappers

import (
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainListing(model *models.ListingModel) *domain.Listing {
	listing := &domain.Listing{
		ID:           model.ID,
		SellerID:     model.SellerID,
		Title:        model.Title,
		Description:  model.Description,
		GameName:     model.GameName,
		Type:         domain.ListingType(model.Type),
		Status:       domain.ListingStatus(model.Status),
		Price:        model.Price,
		StartingBid:  model.StartingBid,
		CurrentBid:   model.CurrentBid,
		BidIncrement: model.BidIncrement,
		BuyNowPrice:  model.BuyNowPrice,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
	if model.AuctionEndsAt != nil {
		listing.AuctionEndsAt = *model.AuctionEndsAt
	}
	return listing
}

func ToGORMListing(listing *domain.Listing) *models.ListingModel {
	var endsAt *time.Time
	if !listing.AuctionEndsAt.IsZero() {
		t := listing.AuctionEndsAt
		endsAt = &t
	}
	return &models.ListingModel{
		ID:            listing.ID,
		SellerID:      listing.SellerID,
		Title:         listing.Title,
		Description:   listing.Description,
		GameName:      listing.GameName,
		Type:          string(listing.Type),
		Status:        string(listing.Status),
		Price:         listing.Price,
		StartingBid:   listing.StartingBid,
		CurrentBid:    listing.CurrentBid,
		BidIncrement:  listing.BidIncrement,
		BuyNowPrice:   listing.BuyNowPrice,
		AuctionEndsAt: endsAt,
		CreatedAt:     listing.CreatedAt,
		UpdatedAt:     listing.UpdatedAt,
	}
}

func ToDomainBid(model *models.BidModel) *domain.Bid {
	return &domain.Bid{
		ID:        model.ID,
		ListingID: model.ListingID,
		BidderID:  model.BidderID,
		Amount:    model.Amount,
		CreatedAt: model.CreatedAt,
	}
}

func ToGORMBid(bid *domain.Bid) *models.BidModel {
	return &models.BidModel{
		ID:        bid.ID,
		ListingID: bid.ListingID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount,
		CreatedAt: bid.CreatedAt,
	}
}
