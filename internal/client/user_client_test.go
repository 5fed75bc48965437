package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newUserServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/verified/profile":
			w.Write([]byte(`{"user_id":"verified","phone_verified":true,"id_document_verified":true}`))
		case "/users/phone-only/profile":
			w.Write([]byte(`{"user_id":"phone-only","phone_verified":true,"id_document_verified":false}`))
		case "/users/seller/bank-accounts/default":
			w.Write([]byte(`{"id":"ba-1","bank_code":"014","account_number":"123","account_name":"SELLER"}`))
		case "/users/broken/profile":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"error":"database down"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestHTTPUserClient_KYC(t *testing.T) {
	srv := newUserServer(t)
	defer srv.Close()
	c := NewHTTPUserClient(srv.URL, time.Second)
	ctx := context.Background()

	if ok, err := c.HasCompletedKYC(ctx, "verified"); err != nil || !ok {
		t.Fatalf("expected verified user, got ok=%v err=%v", ok, err)
	}
	if ok, err := c.HasCompletedKYC(ctx, "phone-only"); err != nil || ok {
		t.Fatalf("expected incomplete KYC, got ok=%v err=%v", ok, err)
	}
	if ok, err := c.HasCompletedKYC(ctx, "unknown"); err != nil || ok {
		t.Fatalf("expected unknown user to be unverified, got ok=%v err=%v", ok, err)
	}
	if _, err := c.HasCompletedKYC(ctx, "broken"); err == nil || err.Error() != "database down" {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestHTTPUserClient_DefaultBankAccount(t *testing.T) {
	srv := newUserServer(t)
	defer srv.Close()
	c := NewHTTPUserClient(srv.URL, time.Second)

	acc, err := c.GetDefaultBankAccount(context.Background(), "seller")
	if err != nil || acc == nil || acc.ID != "ba-1" || acc.UserID != "seller" {
		t.Fatalf("unexpected account %+v err=%v", acc, err)
	}
	acc, err = c.GetDefaultBankAccount(context.Background(), "nobody")
	if err != nil || acc != nil {
		t.Fatalf("expected no account, got %+v err=%v", acc, err)
	}
}
