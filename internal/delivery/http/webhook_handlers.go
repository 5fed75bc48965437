package http

import (
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/gateway"
	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
)

// paymentCallback translates gateway invoice callbacks into mark_paid and
// expire_payment. Pending callbacks are acknowledged without action.
func (h *Handler) paymentCallback(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentCallbackRequest
	if !decodeCallback(w, r, &req) {
		return
	}

	var (
		out *transactiondto.TransactionOutput
		err error
	)
	switch gateway.MapStatus(req.Status) {
	case domain.InvoicePaid:
		out, err = h.transactions.MarkPaidByInvoice(r.Context(), req.ID)
	case domain.InvoiceExpired:
		out, err = h.transactions.ExpirePaymentByInvoice(r.Context(), req.ID)
	default:
		writeSuccess(w, http.StatusOK, map[string]string{"result": "ignored"})
		return
	}
	if err != nil {
		slog.Warn("payment callback rejected", "invoice_id", req.ID, "status", req.Status, "error", err)
		writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, dto.TransactionWithPaymentResponse{
		Transaction: dto.FromTransaction(out.Transaction),
		Payment:     dto.FromPayment(out.Payment),
	})
}
