package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

func TestWebhookNotifierSignsPayload(t *testing.T) {
	var (
		got       NotificationPayload
		signature string
		valid     bool
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		signature = r.Header.Get(SignatureHeader)
		valid = signature == Sign([]byte("secret"), body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, "secret", time.Second)
	err := n.Notify(context.Background(), domain.Notification{
		UserID:  "seller-1",
		Type:    domain.NotifyNewOrder,
		Title:   "New order",
		Payload: map[string]string{"transaction_id": "tx-1"},
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if !valid {
		t.Fatalf("signature %q does not match body", signature)
	}
	if got.UserID != "seller-1" || got.Type != string(domain.NotifyNewOrder) || got.Data["transaction_id"] != "tx-1" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.DeliveryID == "" {
		t.Fatalf("delivery id missing")
	}
}

func TestWebhookNotifierReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, "", time.Second)
	if err := n.Notify(context.Background(), domain.Notification{UserID: "u"}); err == nil {
		t.Fatalf("expected an error for a 503 response")
	}
}
