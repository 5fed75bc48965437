package domain

import (
	"errors"
	"testing"
	"time"
)

func TestListingValidate(t *testing.T) {
	cases := []struct {
		name    string
		listing Listing
		wantErr bool
	}{
		{name: "fixed", listing: Listing{Title: "Item", Type: ListingFixed, Price: 1000}},
		{name: "fixed without price", listing: Listing{Title: "Item", Type: ListingFixed}, wantErr: true},
		{name: "missing title", listing: Listing{Type: ListingFixed, Price: 1000}, wantErr: true},
		{name: "auction", listing: Listing{Title: "Item", Type: ListingAuction, StartingBid: 1000, BidIncrement: 100, AuctionEndsAt: testNow.Add(time.Hour)}},
		{name: "auction in the past", listing: Listing{Title: "Item", Type: ListingAuction, StartingBid: 1000, BidIncrement: 100, AuctionEndsAt: testNow}, wantErr: true},
		{name: "auction without increment", listing: Listing{Title: "Item", Type: ListingAuction, StartingBid: 1000, AuctionEndsAt: testNow.Add(time.Hour)}, wantErr: true},
		{name: "buy now below start", listing: Listing{Title: "Item", Type: ListingAuction, StartingBid: 1000, BidIncrement: 100, BuyNowPrice: 900, AuctionEndsAt: testNow.Add(time.Hour)}, wantErr: true},
		{name: "unknown type", listing: Listing{Title: "Item", Type: "BARTER", Price: 1000}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.listing.Validate(testNow)
			if tc.wantErr != (err != nil) {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestPurchasePrice(t *testing.T) {
	open := testNow.Add(time.Hour)
	cases := []struct {
		name     string
		listing  Listing
		now      time.Time
		want     int64
		wantCode string
	}{
		{name: "fixed", listing: Listing{Type: ListingFixed, Price: 75000}, now: testNow, want: 75000},
		{name: "buy now", listing: Listing{Type: ListingAuction, StartingBid: 1000, BuyNowPrice: 90000, AuctionEndsAt: open}, now: testNow, want: 90000},
		{name: "buy now above current bid", listing: Listing{Type: ListingAuction, StartingBid: 1000, CurrentBid: 89999, BuyNowPrice: 90000, AuctionEndsAt: open}, now: testNow, want: 90000},
		{name: "bidding only", listing: Listing{Type: ListingAuction, StartingBid: 1000, AuctionEndsAt: open}, now: testNow, wantCode: CodeNotBuyable},
		{name: "bids reached buy now", listing: Listing{Type: ListingAuction, StartingBid: 1000, CurrentBid: 90000, BuyNowPrice: 90000, AuctionEndsAt: open}, now: testNow, wantCode: CodeNotBuyable},
		{name: "auction ended", listing: Listing{Type: ListingAuction, StartingBid: 1000, BuyNowPrice: 90000, AuctionEndsAt: open}, now: open.Add(time.Second), wantCode: CodeAuctionEnded},
		{name: "at end time", listing: Listing{Type: ListingAuction, StartingBid: 1000, BuyNowPrice: 90000, AuctionEndsAt: open}, now: open, want: 90000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			price, err := tc.listing.PurchasePrice(tc.now)
			if tc.wantCode != "" {
				de, ok := AsError(err)
				if !ok || de.Code != tc.wantCode || !errors.Is(err, ErrPreconditionFailed) {
					t.Fatalf("expected %s precondition, got %v", tc.wantCode, err)
				}
				return
			}
			if err != nil || price != tc.want {
				t.Fatalf("PurchasePrice() = %d, %v, want %d", price, err, tc.want)
			}
		})
	}
}

func TestListingGuard(t *testing.T) {
	var guard ListingGuard

	l := &Listing{ID: "l1", Status: ListingActive}
	if err := guard.Reserve(l); err != nil || l.Status != ListingPending {
		t.Fatalf("Reserve active: status %s, err %v", l.Status, err)
	}
	if err := guard.Reserve(l); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected reserved listing to conflict, got %v", err)
	}

	guard.Release(l)
	if l.Status != ListingActive {
		t.Fatalf("expected ACTIVE after release, got %s", l.Status)
	}

	_ = guard.Reserve(l)
	guard.FinalizeSold(l)
	if err := guard.Reserve(l); err == nil {
		t.Fatalf("expected sold listing to be rejected")
	} else if de, _ := AsError(err); de.Code != CodeListingSold {
		t.Fatalf("expected LISTING_SOLD, got %s", de.Code)
	}

	// Release only affects reserved listings.
	guard.Release(l)
	if l.Status != ListingSold {
		t.Fatalf("release must not reopen a sold listing, got %s", l.Status)
	}

	for _, status := range []ListingStatus{ListingDraft, ListingCancelled} {
		l := &Listing{ID: "l2", Status: status}
		err := guard.Reserve(l)
		if de, ok := AsError(err); !ok || !errors.Is(err, ErrConflict) || de.Code != CodeListingUnavailable {
			t.Fatalf("reserve %s listing: expected LISTING_UNAVAILABLE conflict, got %v", status, err)
		}
		if l.Status != status {
			t.Fatalf("failed reserve changed status to %s", l.Status)
		}
	}
}

func TestListingLifecycle(t *testing.T) {
	l := &Listing{ID: "l1", SellerID: "seller", Title: "Item", Type: ListingFixed, Price: 1000, Status: ListingDraft}

	if _, err := l.Publish("stranger", testNow); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected stranger publish to be forbidden, got %v", err)
	}
	if _, err := l.Publish("seller", testNow); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, err := l.Publish("seller", testNow); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected second publish to fail, got %v", err)
	}

	l.Status = ListingPending
	if _, err := l.Cancel("seller", testNow); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected reserved listing cancel to conflict, got %v", err)
	}

	l.Status = ListingActive
	if _, err := l.Cancel("seller", testNow); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if l.Status != ListingCancelled {
		t.Fatalf("expected CANCELLED, got %s", l.Status)
	}
}
