package listingdto

import (
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type CreateListingInput struct {
	SellerID      string
	Title         string
	Description   string
	GameName      string
	Type          domain.ListingType
	Price         int64
	StartingBid   int64
	BidIncrement  int64
	BuyNowPrice   int64
	AuctionEndsAt time.Time
}
