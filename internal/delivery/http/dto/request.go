package dto

import "time"

type CreateListingRequest struct {
	Title         string     `json:"title" validate:"required,max=200"`
	Description   string     `json:"description" validate:"max=5000"`
	GameName      string     `json:"game_name" validate:"required,max=100"`
	Type          string     `json:"type" validate:"required,oneof=FIXED AUCTION"`
	Price         int64      `json:"price" validate:"gte=0"`
	StartingBid   int64      `json:"starting_bid" validate:"gte=0"`
	BidIncrement  int64      `json:"bid_increment" validate:"gte=0"`
	BuyNowPrice   int64      `json:"buy_now_price" validate:"gte=0"`
	AuctionEndsAt *time.Time `json:"auction_ends_at"`
}

type PlaceBidRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type CreateTransactionRequest struct {
	ListingID     string `json:"listing_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"max=50"`
}

type MarkTransferredRequest struct {
	ProofURL string `json:"proof_url" validate:"omitempty,url"`
}

type OpenDisputeRequest struct {
	Category    string `json:"category" validate:"required,oneof=ITEM_NOT_RECEIVED ITEM_NOT_AS_DESCRIBED ACCOUNT_RECOVERED OTHER"`
	Description string `json:"description" validate:"required,max=5000"`
}

type AddEvidenceRequest struct {
	FileURL  string `json:"file_url" validate:"required,url"`
	FileType string `json:"file_type" validate:"max=50"`
	Note     string `json:"note" validate:"max=2000"`
}

type ResolveDisputeRequest struct {
	Resolution   string `json:"resolution" validate:"required,oneof=FULL_REFUND PARTIAL_REFUND NO_REFUND"`
	RefundAmount int64  `json:"refund_amount" validate:"gte=0"`
	Note         string `json:"note" validate:"max=2000"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// PaymentCallbackRequest is the gateway's invoice callback.
type PaymentCallbackRequest struct {
	ID         string `json:"id" validate:"required"`
	ExternalID string `json:"external_id"`
	Status     string `json:"status" validate:"required"`
}
