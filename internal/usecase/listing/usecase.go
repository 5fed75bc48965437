package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	listingdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/listing"
)

type ListingUsecase interface {
	CreateListing(ctx context.Context, input *listingdto.CreateListingInput) (*domain.Listing, error)
	PublishListing(ctx context.Context, listingID, sellerID string) (*domain.Listing, error)
	CancelListing(ctx context.Context, listingID, sellerID string) (*domain.Listing, error)
	GetListing(ctx context.Context, listingID string) (*listingdto.ListingOutput, error)
}

type DefaultListingUsecase struct {
	runner *usecase.Runner
}

func NewDefaultListingUsecase(runner *usecase.Runner) *DefaultListingUsecase {
	return &DefaultListingUsecase{runner: runner}
}

func (uc *DefaultListingUsecase) CreateListing(ctx context.Context, input *listingdto.CreateListingInput) (*domain.Listing, error) {
	now := uc.runner.Now()
	listing := &domain.Listing{
		ID:            uuid.NewString(),
		SellerID:      input.SellerID,
		Title:         input.Title,
		Description:   input.Description,
		GameName:      input.GameName,
		Type:          input.Type,
		Status:        domain.ListingDraft,
		Price:         input.Price,
		StartingBid:   input.StartingBid,
		BidIncrement:  input.BidIncrement,
		BuyNowPrice:   input.BuyNowPrice,
		AuctionEndsAt: input.AuctionEndsAt.UTC(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := listing.Validate(now); err != nil {
		return nil, err
	}
	err := uc.runner.Process(ctx, usecase.Operation{
		Name: "create_listing",
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			if err := r.Listings.Create(ctx, listing); err != nil {
				return domain.Effects{}, fmt.Errorf("create listing: %w", err)
			}
			return listing.Created(now), nil
		},
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func (uc *DefaultListingUsecase) PublishListing(ctx context.Context, listingID, sellerID string) (*domain.Listing, error) {
	return uc.mutate(ctx, "publish_listing", listingID, func(r *domain.Repositories, l *domain.Listing) (domain.Effects, error) {
		return l.Publish(sellerID, uc.runner.Now())
	})
}

// CancelListing withdraws a listing that is not reserved and has no bids.
func (uc *DefaultListingUsecase) CancelListing(ctx context.Context, listingID, sellerID string) (*domain.Listing, error) {
	return uc.mutate(ctx, "cancel_listing", listingID, func(r *domain.Repositories, l *domain.Listing) (domain.Effects, error) {
		if l.SellerID != sellerID {
			return domain.Effects{}, domain.Forbidden(domain.CodeSellerOnly, "only the seller may cancel the listing")
		}
		if l.Status == domain.ListingPending {
			active, err := r.Transactions.FindActiveByListing(ctx, l.ID)
			if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
				return domain.Effects{}, fmt.Errorf("find active transaction: %w", err)
			}
			resourceID := ""
			if active != nil {
				resourceID = active.ID
			}
			return domain.Effects{}, domain.Conflict(domain.CodeListingHasActiveTx, "listing has an active transaction", resourceID)
		}
		if l.IsAuction() {
			bids, err := r.Bids.CountByListing(ctx, l.ID)
			if err != nil {
				return domain.Effects{}, fmt.Errorf("count bids: %w", err)
			}
			if bids > 0 {
				return domain.Effects{}, domain.Precondition(domain.CodeAuctionHasBids, "auction already has bids, close it instead")
			}
		}
		return l.Cancel(sellerID, uc.runner.Now())
	})
}

func (uc *DefaultListingUsecase) mutate(
	ctx context.Context,
	operation, listingID string,
	fn func(r *domain.Repositories, l *domain.Listing) (domain.Effects, error),
) (*domain.Listing, error) {
	var out *domain.Listing
	err := uc.runner.Process(ctx, usecase.Operation{
		Name: operation,
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			l, err := r.Listings.GetForUpdate(ctx, listingID)
			if err != nil {
				return domain.Effects{}, usecase.MapNotFound(err, domain.CodeListingNotFound, "listing not found")
			}
			fx, err := fn(r, l)
			if err != nil {
				return domain.Effects{}, err
			}
			if err := r.Listings.Update(ctx, l); err != nil {
				return domain.Effects{}, fmt.Errorf("update listing: %w", err)
			}
			out = l
			return fx, nil
		},
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *DefaultListingUsecase) GetListing(ctx context.Context, listingID string) (*listingdto.ListingOutput, error) {
	repos := uc.runner.Repos()
	l, err := repos.Listings.Get(ctx, listingID)
	if err != nil {
		return nil, usecase.MapNotFound(err, domain.CodeListingNotFound, "listing not found")
	}
	out := &listingdto.ListingOutput{Listing: l}
	if l.IsAuction() {
		count, err := repos.Bids.CountByListing(ctx, l.ID)
		if err != nil {
			return nil, fmt.Errorf("count bids: %w", err)
		}
		out.BidCount = count
		out.MinimumBid = l.MinimumBid()
	}
	return out, nil
}
