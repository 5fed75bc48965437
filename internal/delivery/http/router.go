package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type RouterConfig struct {
	JWTSecret      string
	CallbackToken  string
	Idempotency    domain.IdempotencyStore
	IdempotencyTTL time.Duration
	Metrics        http.Handler
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	idem := idempotency(cfg.Idempotency, cfg.IdempotencyTTL)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(callbackAuth(cfg.CallbackToken)).Post("/webhooks/payments", h.paymentCallback)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware([]byte(cfg.JWTSecret)))

			r.Route("/listings", func(r chi.Router) {
				r.Post("/", h.createListing)
				r.Get("/{listing_id}", h.getListing)
				r.Post("/{listing_id}/publish", h.publishListing)
				r.Post("/{listing_id}/cancel", h.cancelListing)
				r.Get("/{listing_id}/bids", h.listBids)
				r.Post("/{listing_id}/bids", h.placeBid)
				r.Post("/{listing_id}/close", h.closeAuction)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.With(idem).Post("/", h.createTransaction)
				r.Get("/", h.listTransactions)
				r.Get("/{transaction_id}", h.getTransaction)
				r.With(idem).Post("/{transaction_id}/payments", h.requestPayment)
				r.Get("/{transaction_id}/payments", h.listPayments)
				r.Post("/{transaction_id}/transfer", h.markTransferred)
				r.Post("/{transaction_id}/confirm", h.confirmReceived)
				r.Post("/{transaction_id}/cancel", h.cancelTransaction)
				r.Get("/{transaction_id}/verification", h.verificationStatus)
				r.Get("/{transaction_id}/audit", h.auditTrail)
				r.Post("/{transaction_id}/disputes", h.openDispute)
				r.Get("/{transaction_id}/dispute", h.getDisputeByTransaction)
				r.Post("/{transaction_id}/reviews", h.createReview)
			})

			r.Route("/disputes/{dispute_id}", func(r chi.Router) {
				r.Get("/", h.getDispute)
				r.Post("/evidence", h.addEvidence)
				r.With(requireAdmin).Post("/review", h.markUnderReview)
				r.With(requireAdmin).Post("/resolve", h.resolveDispute)
			})

			r.Get("/users/{user_id}/reviews", h.listUserReviews)
		})
	})
	return r
}
