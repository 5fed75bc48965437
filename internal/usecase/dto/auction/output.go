package auctiondto

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

type PlaceBidOutput struct {
	Bid        *domain.Bid
	CurrentBid int64
	MinimumBid int64
}

// CloseAuctionOutput carries the created transaction when the auction sold.
type CloseAuctionOutput struct {
	Listing     *domain.Listing
	WinningBid  *domain.Bid
	Transaction *domain.Transaction
	Payment     *domain.Payment
}

func (o *CloseAuctionOutput) Sold() bool { return o.Transaction != nil }
