package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

func seedListing(t *testing.T, s *Store, id string) {
	t.Helper()
	err := s.Atomic(context.Background(), func(r *domain.Repositories) error {
		return r.Listings.Create(context.Background(), &domain.Listing{
			ID:       id,
			SellerID: "seller",
			Title:    "Item",
			Type:     domain.ListingFixed,
			Status:   domain.ListingActive,
			Price:    1000,
		})
	})
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
}

func TestAtomicRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedListing(t, s, "l1")

	boom := errors.New("boom")
	err := s.Atomic(ctx, func(r *domain.Repositories) error {
		l, err := r.Listings.GetForUpdate(ctx, "l1")
		if err != nil {
			return err
		}
		l.Status = domain.ListingPending
		if err := r.Listings.Update(ctx, l); err != nil {
			return err
		}
		if err := r.Transactions.Create(ctx, &domain.Transaction{ID: "tx1", ListingID: "l1", Status: domain.StatusPendingPayment}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	repos := s.Repositories()
	l, err := repos.Listings.Get(ctx, "l1")
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if l.Status != domain.ListingActive {
		t.Fatalf("listing change leaked out of a failed unit: %s", l.Status)
	}
	if _, err := repos.Transactions.Get(ctx, "tx1"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("transaction leaked out of a failed unit: %v", err)
	}
}

func TestAtomicCommits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedListing(t, s, "l1")

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err := s.Atomic(ctx, func(r *domain.Repositories) error {
		if err := r.Transactions.Create(ctx, &domain.Transaction{ID: "tx1", ListingID: "l1", BuyerID: "buyer", Status: domain.StatusPendingPayment}); err != nil {
			return err
		}
		return r.Audit.Append(ctx, domain.NewAuditEntry(domain.EntityTransaction, "tx1", domain.AuditTransactionCreated, "buyer", nil, nil, now))
	})
	if err != nil {
		t.Fatalf("Atomic: %v", err)
	}

	repos := s.Repositories()
	active, err := repos.Transactions.FindActiveByListing(ctx, "l1")
	if err != nil || active.ID != "tx1" {
		t.Fatalf("expected tx1 active on l1, got %v, %v", active, err)
	}
	entries, err := repos.Audit.ListByEntity(ctx, domain.EntityTransaction, "tx1")
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one audit entry, got %d, %v", len(entries), err)
	}
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedListing(t, s, "l1")

	l, _ := s.Repositories().Listings.Get(ctx, "l1")
	l.Status = domain.ListingSold

	again, _ := s.Repositories().Listings.Get(ctx, "l1")
	if again.Status != domain.ListingActive {
		t.Fatalf("mutating a returned listing changed the store: %s", again.Status)
	}
}

func TestTransactionListPagination(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	err := s.Atomic(ctx, func(r *domain.Repositories) error {
		for _, id := range []string{"a", "b", "c"} {
			if err := r.Transactions.Create(ctx, &domain.Transaction{ID: id, ListingID: "l-" + id, BuyerID: "buyer", SellerID: "seller", Status: domain.StatusPendingPayment}); err != nil {
				return err
			}
		}
		return r.Transactions.Create(ctx, &domain.Transaction{ID: "other", ListingID: "l-x", BuyerID: "x", SellerID: "y", Status: domain.StatusPendingPayment})
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	page, total, err := s.Repositories().Transactions.List(ctx, domain.TransactionFilter{UserID: "buyer", Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(page) != 2 {
		t.Fatalf("expected 2 of 3, got %d of %d", len(page), total)
	}
	if page[0].ID != "c" {
		t.Fatalf("expected newest first, got %s", page[0].ID)
	}
}

func TestAddRatingAccumulatesAcrossUnits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for _, rating := range []int{5, 4, 3, 4} {
		wg.Add(1)
		go func(rating int) {
			defer wg.Done()
			err := s.Atomic(ctx, func(r *domain.Repositories) error {
				_, err := r.Ratings.AddRating(ctx, "seller", rating, now)
				return err
			})
			if err != nil {
				t.Errorf("AddRating: %v", err)
			}
		}(rating)
	}
	wg.Wait()

	got, err := s.Repositories().Ratings.Get(ctx, "seller")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.RatingCount != 4 || got.RatingSum != 16 || got.Average != 4 {
		t.Fatalf("unexpected aggregate %+v", got)
	}

	// a rolled back unit leaves the aggregate untouched
	boom := errors.New("boom")
	_ = s.Atomic(ctx, func(r *domain.Repositories) error {
		if _, err := r.Ratings.AddRating(ctx, "seller", 1, now); err != nil {
			return err
		}
		return boom
	})
	if got, _ := s.Repositories().Ratings.Get(ctx, "seller"); got.RatingCount != 4 {
		t.Fatalf("rollback leaked a rating: %+v", got)
	}
}
