package http

import (
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/auction"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/dispute"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/listing"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/review"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/transaction"
)

type Handler struct {
	listings     listing.ListingUsecase
	auctions     auction.AuctionUsecase
	transactions transaction.TransactionUsecase
	disputes     dispute.DisputeUsecase
	reviews      review.ReviewUsecase
}

func NewHandler(
	listings listing.ListingUsecase,
	auctions auction.AuctionUsecase,
	transactions transaction.TransactionUsecase,
	disputes dispute.DisputeUsecase,
	reviews review.ReviewUsecase,
) *Handler {
	return &Handler{
		listings:     listings,
		auctions:     auctions,
		transactions: transactions,
		disputes:     disputes,
		reviews:      reviews,
	}
}
