package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	auctiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/auction"
	listingdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/listing"
)

func (h *Handler) createListing(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req dto.CreateListingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	input := &listingdto.CreateListingInput{
		SellerID:     actor.UserID,
		Title:        req.Title,
		Description:  req.Description,
		GameName:     req.GameName,
		Type:         domain.ListingType(req.Type),
		Price:        req.Price,
		StartingBid:  req.StartingBid,
		BidIncrement: req.BidIncrement,
		BuyNowPrice:  req.BuyNowPrice,
	}
	if req.AuctionEndsAt != nil {
		input.AuctionEndsAt = req.AuctionEndsAt.UTC()
	}
	l, err := h.listings.CreateListing(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, dto.FromListing(l))
}

func (h *Handler) getListing(w http.ResponseWriter, r *http.Request) {
	out, err := h.listings.GetListing(r.Context(), chi.URLParam(r, "listing_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	resp := dto.FromListing(out.Listing)
	resp.BidCount = out.BidCount
	resp.MinimumBid = out.MinimumBid
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) publishListing(w http.ResponseWriter, r *http.Request) {
	l, err := h.listings.PublishListing(r.Context(), chi.URLParam(r, "listing_id"), actorFromContext(r.Context()).UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, dto.FromListing(l))
}

func (h *Handler) cancelListing(w http.ResponseWriter, r *http.Request) {
	l, err := h.listings.CancelListing(r.Context(), chi.URLParam(r, "listing_id"), actorFromContext(r.Context()).UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, dto.FromListing(l))
}

func (h *Handler) listBids(w http.ResponseWriter, r *http.Request) {
	bids, err := h.auctions.ListBids(r.Context(), chi.URLParam(r, "listing_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, dto.FromBids(bids))
}

func (h *Handler) placeBid(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBidRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.auctions.PlaceBid(r.Context(), &auctiondto.PlaceBidInput{
		ListingID: chi.URLParam(r, "listing_id"),
		BidderID:  actorFromContext(r.Context()).UserID,
		Amount:    req.Amount,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, dto.PlaceBidResponse{
		Bid:        dto.FromBid(out.Bid),
		CurrentBid: out.CurrentBid,
		MinimumBid: out.MinimumBid,
	})
}

// closeAuction lets the seller settle an auction; the scheduler closes the rest.
func (h *Handler) closeAuction(w http.ResponseWriter, r *http.Request) {
	out, err := h.auctions.CloseAuction(r.Context(), &auctiondto.CloseAuctionInput{
		ListingID: chi.URLParam(r, "listing_id"),
		ActorID:   actorFromContext(r.Context()).UserID,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, closeAuctionResponse(out))
}

func closeAuctionResponse(out *auctiondto.CloseAuctionOutput) dto.CloseAuctionResponse {
	resp := dto.CloseAuctionResponse{
		Listing:     dto.FromListing(out.Listing),
		Sold:        out.Sold(),
		Transaction: dto.FromTransaction(out.Transaction),
		Payment:     dto.FromPayment(out.Payment),
	}
	if out.WinningBid != nil {
		b := dto.FromBid(out.WinningBid)
		resp.WinningBid = &b
	}
	return resp
}
