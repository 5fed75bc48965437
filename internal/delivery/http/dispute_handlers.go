package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

func (h *Handler) openDispute(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenDisputeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.disputes.OpenDispute(r.Context(), &disputedto.OpenDisputeInput{
		TransactionID: chi.URLParam(r, "transaction_id"),
		BuyerID:       actorFromContext(r.Context()).UserID,
		Category:      domain.DisputeCategory(req.Category),
		Description:   req.Description,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, dto.FromDispute(d))
}

func (h *Handler) addEvidence(w http.ResponseWriter, r *http.Request) {
	var req dto.AddEvidenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.disputes.AddEvidence(r.Context(), &disputedto.AddEvidenceInput{
		DisputeID:  chi.URLParam(r, "dispute_id"),
		UploaderID: actorFromContext(r.Context()).UserID,
		FileURL:    req.FileURL,
		FileType:   req.FileType,
		Note:       req.Note,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, dto.FromEvidence(e))
}

func (h *Handler) markUnderReview(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	d, err := h.disputes.MarkUnderReview(r.Context(), chi.URLParam(r, "dispute_id"), actor.UserID, actor.IsAdmin())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, dto.FromDispute(d))
}

func (h *Handler) resolveDispute(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req dto.ResolveDisputeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.disputes.ResolveDispute(r.Context(), &disputedto.ResolveDisputeInput{
		DisputeID:    chi.URLParam(r, "dispute_id"),
		AdminID:      actor.UserID,
		Resolution:   domain.DisputeResolution(req.Resolution),
		RefundAmount: req.RefundAmount,
		Note:         req.Note,
		IsAdmin:      actor.IsAdmin(),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, disputeResponse(out))
}

func (h *Handler) getDispute(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	out, err := h.disputes.GetDispute(r.Context(), chi.URLParam(r, "dispute_id"), actor.UserID, actor.IsAdmin())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, disputeResponse(out))
}

func (h *Handler) getDisputeByTransaction(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	out, err := h.disputes.GetDisputeByTransaction(r.Context(), chi.URLParam(r, "transaction_id"), actor.UserID, actor.IsAdmin())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, disputeResponse(out))
}

func disputeResponse(out *disputedto.DisputeOutput) dto.DisputeResponse {
	resp := dto.FromDispute(out.Dispute)
	resp.Transaction = dto.FromTransaction(out.Transaction)
	for _, e := range out.Evidence {
		resp.Evidence = append(resp.Evidence, dto.FromEvidence(e))
	}
	return resp
}
