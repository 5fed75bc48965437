package listingdto

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

type ListingOutput struct {
	Listing    *domain.Listing
	BidCount   int64
	MinimumBid int64
}
