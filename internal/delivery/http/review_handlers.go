package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto"
	reviewdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/review"
)

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.reviews.CreateReview(r.Context(), &reviewdto.CreateReviewInput{
		TransactionID: chi.URLParam(r, "transaction_id"),
		ReviewerID:    actorFromContext(r.Context()).UserID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, dto.FromReview(out.Review))
}

func (h *Handler) listUserReviews(w http.ResponseWriter, r *http.Request) {
	reviews, rating, err := h.reviews.ListUserReviews(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	resp := dto.UserReviewsResponse{
		Rating:  dto.FromUserRating(rating),
		Reviews: make([]dto.ReviewResponse, 0, len(reviews)),
	}
	for _, rv := range reviews {
		resp.Reviews = append(resp.Reviews, dto.FromReview(rv))
	}
	writeSuccess(w, http.StatusOK, resp)
}
