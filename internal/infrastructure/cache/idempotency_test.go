package cache

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

func TestMemoryIdempotency_ReserveCompleteReplay(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore()

	ok, stored, err := store.Reserve(ctx, "buyer-1:key-1", time.Minute)
	if err != nil || !ok || stored != nil {
		t.Fatalf("first reserve: ok=%v stored=%v err=%v", ok, stored, err)
	}

	ok, stored, _ = store.Reserve(ctx, "buyer-1:key-1", time.Minute)
	if ok || stored != nil {
		t.Fatalf("expected in-flight reservation, got ok=%v stored=%v", ok, stored)
	}

	resp := domain.StoredResponse{StatusCode: 201, ContentType: "application/json", Body: []byte(`{"id":"tx-1"}`)}
	if err := store.Complete(ctx, "buyer-1:key-1", resp, time.Minute); err != nil {
		t.Fatalf("complete: %v", err)
	}

	ok, stored, _ = store.Reserve(ctx, "buyer-1:key-1", time.Minute)
	if ok || stored == nil || stored.StatusCode != 201 || string(stored.Body) != `{"id":"tx-1"}` {
		t.Fatalf("expected replay, got ok=%v stored=%+v", ok, stored)
	}
}

func TestMemoryIdempotency_ReleaseAndExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Reserve(ctx, "k", time.Minute)
	if err := store.Release(ctx, "k"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _, _ := store.Reserve(ctx, "k", time.Minute); !ok {
		t.Fatal("expected reserve after release")
	}

	now = now.Add(2 * time.Minute)
	if ok, _, _ := store.Reserve(ctx, "k", time.Minute); !ok {
		t.Fatal("expected reserve after expiry")
	}
}
