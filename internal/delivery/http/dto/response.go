package dto

import (
	"encoding/json"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type SuccessResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type ErrorPayload struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	ResourceID string `json:"resource_id,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Status string       `json:"status"`
	Error  ErrorPayload `json:"error"`
}

type ListingResponse struct {
	ID            string     `json:"id"`
	SellerID      string     `json:"seller_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	GameName      string     `json:"game_name"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Price         int64      `json:"price,omitempty"`
	StartingBid   int64      `json:"starting_bid,omitempty"`
	CurrentBid    int64      `json:"current_bid,omitempty"`
	BidIncrement  int64      `json:"bid_increment,omitempty"`
	BuyNowPrice   int64      `json:"buy_now_price,omitempty"`
	AuctionEndsAt *time.Time `json:"auction_ends_at,omitempty"`
	BidCount      int64      `json:"bid_count,omitempty"`
	MinimumBid    int64      `json:"minimum_bid,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func FromListing(l *domain.Listing) ListingResponse {
	resp := ListingResponse{
		ID:           l.ID,
		SellerID:     l.SellerID,
		Title:        l.Title,
		Description:  l.Description,
		GameName:     l.GameName,
		Type:         string(l.Type),
		Status:       string(l.Status),
		Price:        l.Price,
		StartingBid:  l.StartingBid,
		CurrentBid:   l.CurrentBid,
		BidIncrement: l.BidIncrement,
		BuyNowPrice:  l.BuyNowPrice,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if !l.AuctionEndsAt.IsZero() {
		endsAt := l.AuctionEndsAt
		resp.AuctionEndsAt = &endsAt
	}
	return resp
}

type BidResponse struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func FromBid(b *domain.Bid) BidResponse {
	return BidResponse{ID: b.ID, ListingID: b.ListingID, BidderID: b.BidderID, Amount: b.Amount, CreatedAt: b.CreatedAt}
}

func FromBids(bids []*domain.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, FromBid(b))
	}
	return out
}

type PlaceBidResponse struct {
	Bid        BidResponse `json:"bid"`
	CurrentBid int64       `json:"current_bid"`
	MinimumBid int64       `json:"minimum_bid"`
}

type CloseAuctionResponse struct {
	Listing     ListingResponse      `json:"listing"`
	Sold        bool                 `json:"sold"`
	WinningBid  *BidResponse         `json:"winning_bid,omitempty"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
	Payment     *PaymentResponse     `json:"payment,omitempty"`
}

type TransactionResponse struct {
	ID                   string     `json:"id"`
	Reference            string     `json:"reference"`
	ListingID            string     `json:"listing_id"`
	BuyerID              string     `json:"buyer_id"`
	SellerID             string     `json:"seller_id"`
	Source               string     `json:"source"`
	PaymentMethod        string     `json:"payment_method,omitempty"`
	Amount               int64      `json:"transaction_amount"`
	PlatformFee          int64      `json:"platform_fee"`
	SellerPayout         int64      `json:"seller_payout"`
	FeePercentage        float64    `json:"fee_percentage"`
	Status               string     `json:"status"`
	ItemTransferredAt    *time.Time `json:"item_transferred_at,omitempty"`
	VerificationDeadline *time.Time `json:"verification_deadline,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	CancelledAt          *time.Time `json:"cancelled_at,omitempty"`
	TransferProofURL     string     `json:"transfer_proof_url,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func FromTransaction(tx *domain.Transaction) *TransactionResponse {
	if tx == nil {
		return nil
	}
	return &TransactionResponse{
		ID:                   tx.ID,
		Reference:            tx.Reference,
		ListingID:            tx.ListingID,
		BuyerID:              tx.BuyerID,
		SellerID:             tx.SellerID,
		Source:               string(tx.Source),
		PaymentMethod:        tx.PaymentMethod,
		Amount:               tx.Amount,
		PlatformFee:          tx.PlatformFee,
		SellerPayout:         tx.SellerPayout,
		FeePercentage:        tx.FeePercentage,
		Status:               string(tx.Status),
		ItemTransferredAt:    tx.ItemTransferredAt,
		VerificationDeadline: tx.VerificationDeadline,
		CompletedAt:          tx.CompletedAt,
		CancelledAt:          tx.CancelledAt,
		TransferProofURL:     tx.TransferProofURL,
		CreatedAt:            tx.CreatedAt,
		UpdatedAt:            tx.UpdatedAt,
	}
}

type PaymentResponse struct {
	ID                string     `json:"id"`
	TransactionID     string     `json:"transaction_id"`
	ExternalInvoiceID string     `json:"external_invoice_id"`
	InvoiceURL        string     `json:"invoice_url"`
	Amount            int64      `json:"amount"`
	Status            string     `json:"status"`
	ExpiresAt         time.Time  `json:"expires_at"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	Reused            bool       `json:"reused,omitempty"`
}

func FromPayment(p *domain.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}
	return &PaymentResponse{
		ID:                p.ID,
		TransactionID:     p.TransactionID,
		ExternalInvoiceID: p.ExternalInvoiceID,
		InvoiceURL:        p.InvoiceURL,
		Amount:            p.Amount,
		Status:            string(p.Status),
		ExpiresAt:         p.ExpiresAt,
		PaidAt:            p.PaidAt,
	}
}

type TransactionWithPaymentResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Payment     *PaymentResponse     `json:"payment,omitempty"`
}

type Pagination struct {
	CurrentPage  int32 `json:"current_page"`
	TotalPages   int32 `json:"total_pages"`
	TotalItems   int32 `json:"total_items"`
	ItemsPerPage int32 `json:"items_per_page"`
}

type TransactionListResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Pagination   Pagination             `json:"pagination"`
}

type VerificationStatusResponse struct {
	TransactionID string     `json:"transaction_id"`
	Status        string     `json:"status"`
	Deadline      *time.Time `json:"verification_deadline,omitempty"`
	Expired       bool       `json:"expired"`
}

type AuditEntryResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	ActorID   string          `json:"actor_id"`
	OldValue  json.RawMessage `json:"old_value,omitempty"`
	NewValue  json.RawMessage `json:"new_value,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func FromAuditEntries(entries []domain.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:        e.ID,
			Action:    string(e.Action),
			ActorID:   e.ActorID,
			OldValue:  e.OldValue,
			NewValue:  e.NewValue,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

type DisputeResponse struct {
	ID            string               `json:"id"`
	TransactionID string               `json:"transaction_id"`
	InitiatorID   string               `json:"initiator_id"`
	Category      string               `json:"category"`
	Description   string               `json:"description"`
	Status        string               `json:"status"`
	Resolution    string               `json:"resolution,omitempty"`
	RefundAmount  int64                `json:"refund_amount,omitempty"`
	AdminNote     string               `json:"admin_note,omitempty"`
	ResolvedBy    string               `json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time           `json:"resolved_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	Transaction   *TransactionResponse `json:"transaction,omitempty"`
	Evidence      []EvidenceResponse   `json:"evidence,omitempty"`
}

func FromDispute(d *domain.Dispute) DisputeResponse {
	return DisputeResponse{
		ID:            d.ID,
		TransactionID: d.TransactionID,
		InitiatorID:   d.InitiatorID,
		Category:      string(d.Category),
		Description:   d.Description,
		Status:        string(d.Status),
		Resolution:    string(d.Resolution),
		RefundAmount:  d.RefundAmount,
		AdminNote:     d.AdminNote,
		ResolvedBy:    d.ResolvedBy,
		ResolvedAt:    d.ResolvedAt,
		CreatedAt:     d.CreatedAt,
	}
}

type EvidenceResponse struct {
	ID         string    `json:"id"`
	DisputeID  string    `json:"dispute_id"`
	UploaderID string    `json:"uploader_id"`
	FileURL    string    `json:"file_url"`
	FileType   string    `json:"file_type,omitempty"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromEvidence(e *domain.Evidence) EvidenceResponse {
	return EvidenceResponse{
		ID:         e.ID,
		DisputeID:  e.DisputeID,
		UploaderID: e.UploaderID,
		FileURL:    e.FileURL,
		FileType:   e.FileType,
		Note:       e.Note,
		CreatedAt:  e.CreatedAt,
	}
}

type ReviewResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	ReviewerID    string    `json:"reviewer_id"`
	RevieweeID    string    `json:"reviewee_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromReview(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:            r.ID,
		TransactionID: r.TransactionID,
		ReviewerID:    r.ReviewerID,
		RevieweeID:    r.RevieweeID,
		Rating:        r.Rating,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt,
	}
}

type UserRatingResponse struct {
	UserID      string  `json:"user_id"`
	Average     float64 `json:"average"`
	RatingCount int64   `json:"rating_count"`
}

func FromUserRating(r *domain.UserRating) *UserRatingResponse {
	if r == nil {
		return nil
	}
	return &UserRatingResponse{UserID: r.UserID, Average: r.Average, RatingCount: r.RatingCount}
}

type UserReviewsResponse struct {
	Rating  *UserRatingResponse `json:"rating"`
	Reviews []ReviewResponse    `json:"reviews"`
}
