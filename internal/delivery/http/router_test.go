package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/cache"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/usecasetest"
)

const (
	testSecret        = "test-secret"
	testCallbackToken = "cb-token"
)

type testServer struct {
	h      *usecasetest.Harness
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	h := usecasetest.New(t, usecasetest.Options{})
	h.Users.AllVerified = true
	handler := NewHandler(h.Listings, h.Auctions, h.Transactions, h.Disputes, h.Reviews)
	return &testServer{
		h: h,
		router: NewRouter(handler, RouterConfig{
			JWTSecret:      testSecret,
			CallbackToken:  testCallbackToken,
			Idempotency:    cache.NewMemoryIdempotencyStore(),
			IdempotencyTTL: time.Hour,
		}),
	}
}

func signToken(t *testing.T, subject, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role:  role,
		Email: subject + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  struct {
		Code       string `json:"code"`
		ResourceID string `json:"resource_id"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

type createdTransaction struct {
	Transaction struct {
		ID           string `json:"id"`
		Reference    string `json:"reference"`
		Status       string `json:"status"`
		Amount       int64  `json:"transaction_amount"`
		PlatformFee  int64  `json:"platform_fee"`
		SellerPayout int64  `json:"seller_payout"`
	} `json:"transaction"`
	Payment struct {
		ExternalInvoiceID string `json:"external_invoice_id"`
	} `json:"payment"`
}

func TestRouterRejectsMissingAndSystemTokens(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/transactions", "", nil, nil)
	if rec.Code != http.StatusUnauthorized || env.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("no token: got %d %q", rec.Code, env.Error.Code)
	}

	rec, _ = s.do(t, http.MethodGet, "/api/v1/transactions", signToken(t, domain.SystemActor, ""), nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("system subject must be rejected, got %d", rec.Code)
	}

	rec, _ = s.do(t, http.MethodGet, "/api/v1/transactions", signToken(t, "buyer-1", ""), nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterListingToPaidTransaction(t *testing.T) {
	s := newTestServer(t)
	seller := signToken(t, "seller-1", "")
	buyer := signToken(t, "buyer-1", "")

	rec, env := s.do(t, http.MethodPost, "/api/v1/listings", seller, map[string]any{
		"title":     "Level 80 account",
		"game_name": "Genshin Impact",
		"type":      "FIXED",
		"price":     100000,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create listing: got %d: %s", rec.Code, rec.Body.String())
	}
	var l struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &l); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if l.Status != string(domain.ListingDraft) {
		t.Fatalf("new listing status = %s", l.Status)
	}

	rec, _ = s.do(t, http.MethodPost, "/api/v1/listings/"+l.ID+"/publish", seller, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish: got %d: %s", rec.Code, rec.Body.String())
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/transactions", buyer, map[string]string{"listing_id": l.ID}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction: got %d: %s", rec.Code, rec.Body.String())
	}
	var created createdTransaction
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode transaction: %v", err)
	}
	if created.Transaction.PlatformFee != 5000 || created.Transaction.SellerPayout != 95000 {
		t.Fatalf("fee split = %d/%d", created.Transaction.PlatformFee, created.Transaction.SellerPayout)
	}
	if created.Payment.ExternalInvoiceID == "" {
		t.Fatalf("expected an invoice on the new transaction")
	}

	// a stranger cannot read it
	rec, _ = s.do(t, http.MethodGet, "/api/v1/transactions/"+created.Transaction.ID, signToken(t, "stranger", ""), nil, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger read: got %d", rec.Code)
	}

	callback := map[string]string{
		"id":          created.Payment.ExternalInvoiceID,
		"external_id": created.Transaction.Reference,
		"status":      "PAID",
	}
	rec, _ = s.do(t, http.MethodPost, "/api/v1/webhooks/payments", "", callback, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("callback without token: got %d", rec.Code)
	}

	rec, _ = s.do(t, http.MethodPost, "/api/v1/webhooks/payments", "",
		`{"id":"`+created.Payment.ExternalInvoiceID+`","status":"PAID","paid_amount":100000}`,
		map[string]string{"X-Callback-Token": testCallbackToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("paid callback: got %d: %s", rec.Code, rec.Body.String())
	}
	if tx := s.h.Transaction(t, created.Transaction.ID); tx.Status != domain.StatusPaid {
		t.Fatalf("transaction status = %s, want PAID", tx.Status)
	}

	// redelivery is harmless
	rec, _ = s.do(t, http.MethodPost, "/api/v1/webhooks/payments", "", callback,
		map[string]string{"X-Callback-Token": testCallbackToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("repeated callback: got %d: %s", rec.Code, rec.Body.String())
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/webhooks/payments", "",
		map[string]string{"id": created.Payment.ExternalInvoiceID, "status": "PENDING"},
		map[string]string{"X-Callback-Token": testCallbackToken})
	if rec.Code != http.StatusOK || !bytes.Contains(env.Data, []byte("ignored")) {
		t.Fatalf("pending callback: got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterValidationErrors(t *testing.T) {
	s := newTestServer(t)
	seller := signToken(t, "seller-1", "")

	tests := []struct {
		name string
		body any
		code string
	}{
		{"malformed", `{"title":`, "INVALID_JSON"},
		{"unknown field", map[string]any{"title": "x", "game_name": "g", "type": "FIXED", "price": 1, "colour": "red"}, "INVALID_JSON"},
		{"missing title", map[string]any{"game_name": "g", "type": "FIXED", "price": 1}, "VALIDATION_FAILED"},
		{"bad type", map[string]any{"title": "x", "game_name": "g", "type": "BARTER"}, "VALIDATION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodPost, "/api/v1/listings", seller, tt.body, nil)
			if rec.Code != http.StatusBadRequest || env.Error.Code != tt.code {
				t.Fatalf("got %d %q, want 400 %q", rec.Code, env.Error.Code, tt.code)
			}
		})
	}
}

func TestRouterMapsDomainErrors(t *testing.T) {
	s := newTestServer(t)
	l := s.h.ActiveFixedListing(t, "seller-1", 50000)
	buyer := signToken(t, "buyer-1", "")

	rec, env := s.do(t, http.MethodPost, "/api/v1/transactions", signToken(t, "seller-1", ""), map[string]string{"listing_id": l.ID}, nil)
	if rec.Code != http.StatusForbidden || env.Error.Code != domain.CodeSelfPurchase {
		t.Fatalf("self purchase: got %d %q", rec.Code, env.Error.Code)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/transactions", buyer, map[string]string{"listing_id": "missing"}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing listing: got %d %q", rec.Code, env.Error.Code)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/transactions", buyer, map[string]string{"listing_id": l.ID}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first order: got %d: %s", rec.Code, rec.Body.String())
	}
	var created createdTransaction
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode transaction: %v", err)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/transactions", buyer, map[string]string{"listing_id": l.ID}, nil)
	if rec.Code != http.StatusConflict || env.Error.Code != domain.CodePendingPaymentExists {
		t.Fatalf("repeat order: got %d %q", rec.Code, env.Error.Code)
	}
	if env.Error.ResourceID != created.Transaction.ID {
		t.Fatalf("resource_id = %q, want %q", env.Error.ResourceID, created.Transaction.ID)
	}

	rec, env = s.do(t, http.MethodPost, "/api/v1/transactions", signToken(t, "buyer-2", ""), map[string]string{"listing_id": l.ID}, nil)
	if rec.Code != http.StatusConflict || env.Error.Code != domain.CodeListingReserved {
		t.Fatalf("reserved listing: got %d %q", rec.Code, env.Error.Code)
	}

	rec, _ = s.do(t, http.MethodPost, "/api/v1/transactions/"+created.Transaction.ID+"/confirm", buyer, nil, nil)
	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("confirm before transfer: got %d", rec.Code)
	}
}

func TestRouterIdempotentReplay(t *testing.T) {
	s := newTestServer(t)
	l := s.h.ActiveFixedListing(t, "seller-1", 50000)
	buyer := signToken(t, "buyer-1", "")
	headers := map[string]string{"Idempotency-Key": "order-1"}

	first, env := s.do(t, http.MethodPost, "/api/v1/transactions", buyer, map[string]string{"listing_id": l.ID}, headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("first: got %d: %s", first.Code, first.Body.String())
	}
	var created createdTransaction
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode transaction: %v", err)
	}

	second, _ := s.do(t, http.MethodPost, "/api/v1/transactions", buyer, map[string]string{"listing_id": l.ID}, headers)
	if second.Code != http.StatusCreated {
		t.Fatalf("replay: got %d: %s", second.Code, second.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("replay header missing")
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Fatalf("replayed body differs")
	}
	if n := s.h.Gateway.Count(); n != 1 {
		t.Fatalf("invoices created = %d, want 1", n)
	}

	// the same key from another user is a different request
	other, env := s.do(t, http.MethodPost, "/api/v1/transactions", signToken(t, "buyer-2", ""), map[string]string{"listing_id": l.ID}, headers)
	if other.Code != http.StatusConflict || env.Error.Code != domain.CodeListingReserved {
		t.Fatalf("other user: got %d %q", other.Code, env.Error.Code)
	}
}

func TestRouterAdminOnlyDisputeRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/disputes/any/resolve", signToken(t, "buyer-1", ""),
		map[string]string{"resolution": "FULL_REFUND"}, nil)
	if rec.Code != http.StatusForbidden || env.Error.Code != "ADMIN_ONLY" {
		t.Fatalf("non-admin resolve: got %d %q", rec.Code, env.Error.Code)
	}

	rec, _ = s.do(t, http.MethodPost, "/api/v1/disputes/missing/resolve", signToken(t, "admin-1", RoleAdmin),
		map[string]string{"resolution": "FULL_REFUND"}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("admin resolve of missing dispute: got %d: %s", rec.Code, rec.Body.String())
	}
}
