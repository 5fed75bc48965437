package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
)

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	var req dto.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.transactions.CreateTransaction(r.Context(), &transactiondto.CreateTransactionInput{
		ListingID:     req.ListingID,
		BuyerID:       actor.UserID,
		BuyerEmail:    actor.Email,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, dto.TransactionWithPaymentResponse{
		Transaction: dto.FromTransaction(out.Transaction),
		Payment:     dto.FromPayment(out.Payment),
	})
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	out, err := h.transactions.ListTransactions(r.Context(), &transactiondto.ListTransactionsInput{
		UserID: actorFromContext(r.Context()).UserID,
		Status: domain.TransactionStatus(q.Get("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	resp := dto.TransactionListResponse{
		Transactions: make([]*dto.TransactionResponse, 0, len(out.Transactions)),
		Pagination: dto.Pagination{
			CurrentPage:  out.Pagination.CurrentPage,
			TotalPages:   out.Pagination.TotalPages,
			TotalItems:   out.Pagination.TotalItems,
			ItemsPerPage: out.Pagination.ItemsPerPage,
		},
	}
	for _, tx := range out.Transactions {
		resp.Transactions = append(resp.Transactions, dto.FromTransaction(tx))
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	out, err := h.transactions.GetTransaction(r.Context(), chi.URLParam(r, "transaction_id"), actor.UserID, actor.IsAdmin())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, dto.TransactionWithPaymentResponse{
		Transaction: dto.FromTransaction(out.Transaction),
		Payment:     dto.FromPayment(out.Payment),
	})
}

func (h *Handler) requestPayment(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	out, err := h.transactions.RequestPayment(r.Context(), &transactiondto.RequestPaymentInput{
		TransactionID: chi.URLParam(r, "transaction_id"),
		BuyerID:       actor.UserID,
		BuyerEmail:    actor.Email,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	resp := dto.FromPayment(out.Payment)
	resp.Reused = out.Reused
	status := http.StatusCreated
	if out.Reused {
		status = http.StatusOK
	}
	writeSuccess(w, status, resp)
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	payments, err := h.transactions.ListPayments(r.Context(), chi.URLParam(r, "transaction_id"), actor.UserID, actor.IsAdmin())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	resp := make([]*dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, dto.FromPayment(p))
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) markTransferred(w http.ResponseWriter, r *http.Request) {
	var req dto.MarkTransferredRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := h.transactions.MarkTransferred(r.Context(), &transactiondto.MarkTransferredInput{
		TransactionID: chi.URLParam(r, "transaction_id"),
		SellerID:      actorFromContext(r.Context()).UserID,
		ProofURL:      req.ProofURL,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, dto.FromTransaction(tx))
}

func (h *Handler) confirmReceived(w http.ResponseWriter, r *http.Request) {
	tx, err := h.transactions.ConfirmReceived(r.Context(), chi.URLParam(r, "transaction_id"), actorFromContext(r.Context()).UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, dto.FromTransaction(tx))
}

func (h *Handler) cancelTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.transactions.CancelTransaction(r.Context(), chi.URLParam(r, "transaction_id"), actorFromContext(r.Context()).UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, dto.FromTransaction(tx))
}

func (h *Handler) verificationStatus(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	out, err := h.transactions.VerificationStatus(r.Context(), chi.URLParam(r, "transaction_id"), actor.UserID, actor.IsAdmin())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, dto.VerificationStatusResponse{
		TransactionID: out.TransactionID,
		Status:        string(out.Status),
		Deadline:      out.Deadline,
		Expired:       out.Expired,
	})
}

func (h *Handler) auditTrail(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	entries, err := h.transactions.AuditTrail(r.Context(), chi.URLParam(r, "transaction_id"), actor.UserID, actor.IsAdmin())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, dto.FromAuditEntries(entries))
}
