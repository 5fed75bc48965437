package auction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	auctiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/auction"
	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/transaction"
)

type AuctionUsecase interface {
	PlaceBid(ctx context.Context, input *auctiondto.PlaceBidInput) (*auctiondto.PlaceBidOutput, error)
	CloseAuction(ctx context.Context, input *auctiondto.CloseAuctionInput) (*auctiondto.CloseAuctionOutput, error)
	CloseEndedAuctions(ctx context.Context) (*transactiondto.SweepResult, error)
	ListBids(ctx context.Context, listingID string) ([]*domain.Bid, error)
}

// TransactionOpener inserts the winning bid's transaction inside the close unit of work.
type TransactionOpener interface {
	Open(ctx context.Context, r *domain.Repositories, p transaction.OpenParams) (*domain.Transaction, *domain.Payment, domain.Effects, error)
}

type DefaultAuctionUsecase struct {
	runner    *usecase.Runner
	opener    TransactionOpener
	guard     domain.ListingGuard
	batchSize int
	Metrics   *metrics.EscrowMetrics
}

func NewDefaultAuctionUsecase(runner *usecase.Runner, opener TransactionOpener, batchSize int) *DefaultAuctionUsecase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &DefaultAuctionUsecase{
		runner:    runner,
		opener:    opener,
		batchSize: batchSize,
		Metrics:   runner.Metrics,
	}
}

// PlaceBid accepts a bid that clears the current price by at least the increment.
func (uc *DefaultAuctionUsecase) PlaceBid(ctx context.Context, input *auctiondto.PlaceBidInput) (*auctiondto.PlaceBidOutput, error) {
	var out auctiondto.PlaceBidOutput
	err := uc.runner.Process(ctx, usecase.Operation{
		Name: "place_bid",
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			now := uc.runner.Now()
			listing, err := r.Listings.GetForUpdate(ctx, input.ListingID)
			if err != nil {
				return domain.Effects{}, usecase.MapNotFound(err, domain.CodeListingNotFound, "listing not found")
			}
			if err := domain.CheckBid(listing, input.BidderID, input.Amount, now); err != nil {
				return domain.Effects{}, err
			}
			previous, err := highestBid(ctx, r, listing.ID)
			if err != nil {
				return domain.Effects{}, err
			}

			bid := &domain.Bid{
				ID:        domain.NewULID(now),
				ListingID: listing.ID,
				BidderID:  input.BidderID,
				Amount:    input.Amount,
				CreatedAt: now,
			}
			if err := r.Bids.Create(ctx, bid); err != nil {
				return domain.Effects{}, fmt.Errorf("create bid: %w", err)
			}
			fx := bid.Accept(listing, previous, now)
			if err := r.Listings.Update(ctx, listing); err != nil {
				return domain.Effects{}, fmt.Errorf("update listing: %w", err)
			}
			out = auctiondto.PlaceBidOutput{
				Bid:        bid,
				CurrentBid: listing.CurrentBid,
				MinimumBid: listing.MinimumBid(),
			}
			return fx, nil
		},
	})
	if err != nil {
		uc.Metrics.Bid("rejected")
		return nil, err
	}
	uc.Metrics.Bid("accepted")
	return &out, nil
}

// CloseAuction ends bidding. Without bids the listing is cancelled; otherwise
// the highest bid becomes a PENDING_PAYMENT transaction in the same unit of work.
func (uc *DefaultAuctionUsecase) CloseAuction(ctx context.Context, input *auctiondto.CloseAuctionInput) (*auctiondto.CloseAuctionOutput, error) {
	var out auctiondto.CloseAuctionOutput
	undo := &usecase.Compensations{}
	err := uc.runner.Process(ctx, usecase.Operation{
		Name: "close_auction",
		Undo: undo,
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			now := uc.runner.Now()
			listing, err := r.Listings.GetForUpdate(ctx, input.ListingID)
			if err != nil {
				return domain.Effects{}, usecase.MapNotFound(err, domain.CodeListingNotFound, "listing not found")
			}
			if err := domain.CheckClose(listing, input.ActorID); err != nil {
				return domain.Effects{}, err
			}
			out.Listing = listing

			winner, err := highestBid(ctx, r, listing.ID)
			if err != nil {
				return domain.Effects{}, err
			}
			if winner == nil {
				fx := domain.ClosedUnsold(listing, input.ActorID, now)
				if err := r.Listings.Update(ctx, listing); err != nil {
					return domain.Effects{}, fmt.Errorf("update listing: %w", err)
				}
				return fx, nil
			}

			from := listing.Status
			if err := uc.guard.Reserve(listing); err != nil {
				return domain.Effects{}, err
			}
			fx := listing.StatusChanged(from, input.ActorID, now)
			if err := r.Listings.Update(ctx, listing); err != nil {
				return domain.Effects{}, fmt.Errorf("reserve listing: %w", err)
			}
			tx, payment, openFx, err := uc.opener.Open(ctx, r, transaction.OpenParams{
				Listing: listing,
				BuyerID: winner.BidderID,
				Source:  domain.SourceAuction,
				Amount:  winner.Amount,
				ActorID: input.ActorID,
				Now:     now,
				Undo:    undo,
			})
			if err != nil {
				return domain.Effects{}, err
			}
			fx.Append(openFx)
			fx.Append(domain.ClosedSold(listing, winner, tx, input.ActorID, now))
			out.WinningBid, out.Transaction, out.Payment = winner, tx, payment
			return fx, nil
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Sold() {
		uc.Metrics.TransactionCreated(string(domain.ListingAuction), out.Transaction.PlatformFee)
	}
	return &out, nil
}

// CloseEndedAuctions is the scheduler's pass over auctions past auction_ends_at.
func (uc *DefaultAuctionUsecase) CloseEndedAuctions(ctx context.Context) (*transactiondto.SweepResult, error) {
	ended, err := uc.runner.Repos().Listings.FindEndedAuctions(ctx, uc.runner.Now(), uc.batchSize)
	if err != nil {
		return nil, fmt.Errorf("find ended auctions: %w", err)
	}
	result := &transactiondto.SweepResult{}
	for _, listing := range ended {
		_, err := uc.CloseAuction(ctx, &auctiondto.CloseAuctionInput{
			ListingID: listing.ID,
			ActorID:   domain.SystemActor,
		})
		if err != nil {
			slog.Error("failed to close auction", "listing_id", listing.ID, "error", err)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result, nil
}

func (uc *DefaultAuctionUsecase) ListBids(ctx context.Context, listingID string) ([]*domain.Bid, error) {
	if _, err := uc.runner.Repos().Listings.Get(ctx, listingID); err != nil {
		return nil, usecase.MapNotFound(err, domain.CodeListingNotFound, "listing not found")
	}
	return uc.runner.Repos().Bids.ListByListing(ctx, listingID)
}

func highestBid(ctx context.Context, r *domain.Repositories, listingID string) (*domain.Bid, error) {
	bid, err := r.Bids.Highest(ctx, listingID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("highest bid: %w", err)
	}
	return bid, nil
}
