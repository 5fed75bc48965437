package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

func TestInvoiceClient_CreateInvoice(t *testing.T) {
	var got createInvoiceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		if !ok || user != "secret" {
			t.Errorf("expected basic auth with secret key, got %q", user)
		}
		if r.Method != http.MethodPost || r.URL.Path != "/v2/invoices" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"inv-1","external_id":"ESC-1","status":"PENDING","invoice_url":"https://pay/inv-1","expiry_date":"2026-01-02T00:00:00Z"}`))
	}))
	defer srv.Close()

	c := NewInvoiceClient(srv.URL+"/", "secret", time.Second)
	inv, err := c.CreateInvoice(context.Background(), domain.InvoiceRequest{
		ExternalID: "ESC-1",
		Amount:     100000,
		Duration:   24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if inv.ID != "inv-1" || inv.InvoiceURL != "https://pay/inv-1" {
		t.Fatalf("unexpected invoice %+v", inv)
	}
	if got.InvoiceDuration != 86400 || got.Currency != "IDR" || got.Amount != 100000 {
		t.Fatalf("unexpected request body %+v", got)
	}
}

func TestInvoiceClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_code":"API_VALIDATION_ERROR","message":"amount too small"}`))
	}))
	defer srv.Close()

	c := NewInvoiceClient(srv.URL, "secret", time.Second)
	if _, err := c.CreateInvoice(context.Background(), domain.InvoiceRequest{ExternalID: "x", Amount: 1}); err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestMapStatus(t *testing.T) {
	cases := map[string]domain.InvoiceStatus{
		"PAID":    domain.InvoicePaid,
		"settled": domain.InvoicePaid,
		"EXPIRED": domain.InvoiceExpired,
		"PENDING": domain.InvoicePending,
		"":        domain.InvoicePending,
	}
	for in, want := range cases {
		if got := MapStatus(in); got != want {
			t.Fatalf("MapStatus(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestSimulatedGateway_Expiry(t *testing.T) {
	g := NewSimulatedGateway("")
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }

	inv, err := g.CreateInvoice(context.Background(), domain.InvoiceRequest{Duration: time.Hour})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s, _ := g.CheckStatus(context.Background(), inv.ID); s != domain.InvoicePending {
		t.Fatalf("expected pending, got %s", s)
	}
	now = now.Add(time.Hour)
	if s, _ := g.CheckStatus(context.Background(), inv.ID); s != domain.InvoiceExpired {
		t.Fatalf("expected expired at deadline, got %s", s)
	}
}

func TestInvoiceClient_ExpireInvoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/invoices/inv-1/expire!" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"inv-1","status":"EXPIRED"}`))
	}))
	defer srv.Close()

	c := NewInvoiceClient(srv.URL, "secret", time.Second)
	if err := c.ExpireInvoice(context.Background(), "inv-1"); err != nil {
		t.Fatalf("expire invoice: %v", err)
	}
}

func TestSimulatedGateway_ExpireInvoice(t *testing.T) {
	ctx := context.Background()
	g := NewSimulatedGateway("")
	inv, err := g.CreateInvoice(ctx, domain.InvoiceRequest{Duration: time.Hour})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := g.ExpireInvoice(ctx, inv.ID); err != nil {
		t.Fatalf("expire: %v", err)
	}
	if s, _ := g.CheckStatus(ctx, inv.ID); s != domain.InvoiceExpired {
		t.Fatalf("expected expired, got %s", s)
	}
	if got := g.CountByStatus(domain.InvoiceExpired); got != 1 {
		t.Fatalf("expired count = %d", got)
	}

	paid, _ := g.CreateInvoice(ctx, domain.InvoiceRequest{Duration: time.Hour})
	_ = g.SetStatus(paid.ID, domain.InvoicePaid)
	if err := g.ExpireInvoice(ctx, paid.ID); err == nil {
		t.Fatal("expected paid invoice to stay paid")
	}
}
