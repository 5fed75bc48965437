package auctiondto

type PlaceBidInput struct {
	ListingID string
	BidderID  string
	Amount    int64
}

type CloseAuctionInput struct {
	ListingID string
	// ActorID is the seller, or domain.SystemActor for scheduler closes.
	ActorID string
}
