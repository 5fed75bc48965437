package domain

import (
	"errors"
	"testing"
	"time"
)

func newTestAuction() *Listing {
	return &Listing{
		ID:            "auction-1",
		SellerID:      "seller",
		Title:         "Mythic account",
		Type:          ListingAuction,
		Status:        ListingActive,
		StartingBid:   100000,
		BidIncrement:  10000,
		AuctionEndsAt: testNow.Add(time.Hour),
	}
}

func TestCheckBid(t *testing.T) {
	l := newTestAuction()

	cases := []struct {
		name   string
		bidder string
		amount int64
		now    time.Time
		kind   error
		code   string
	}{
		{name: "seller bid", bidder: "seller", amount: 200000, now: testNow, kind: ErrForbidden, code: CodeSelfBid},
		{name: "below starting bid plus increment", bidder: "alice", amount: 100000, now: testNow, kind: ErrPreconditionFailed, code: CodeBidTooLow},
		{name: "one short of minimum", bidder: "alice", amount: 109999, now: testNow, kind: ErrPreconditionFailed, code: CodeBidTooLow},
		{name: "after end", bidder: "alice", amount: 200000, now: testNow.Add(2 * time.Hour), kind: ErrPreconditionFailed, code: CodeAuctionEnded},
		{name: "exact minimum", bidder: "alice", amount: 110000, now: testNow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckBid(l, tc.bidder, tc.amount, tc.now)
			if tc.kind == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			if de, _ := AsError(err); de.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, de.Code)
			}
		})
	}
}

func TestCheckBidRejectsFixedListing(t *testing.T) {
	l := &Listing{ID: "fixed-1", SellerID: "seller", Type: ListingFixed, Status: ListingActive, Price: 50000}
	err := CheckBid(l, "alice", 60000, testNow)
	if de, ok := AsError(err); !ok || de.Code != CodeNotAuction {
		t.Fatalf("expected NOT_AUCTION, got %v", err)
	}
}

func TestBidAcceptRaisesMinimumAndNotifiesOutbid(t *testing.T) {
	l := newTestAuction()

	first := &Bid{ID: "b1", ListingID: l.ID, BidderID: "alice", Amount: 110000, CreatedAt: testNow}
	fx := first.Accept(l, nil, testNow)
	if len(fx.Notifications) != 0 {
		t.Fatalf("first bid should notify nobody, got %+v", fx.Notifications)
	}
	if l.CurrentBid != 110000 || l.MinimumBid() != 120000 {
		t.Fatalf("unexpected current %d / minimum %d", l.CurrentBid, l.MinimumBid())
	}

	if err := CheckBid(l, "bob", 110000, testNow); err == nil {
		t.Fatalf("expected bid equal to current price to be rejected")
	}

	second := &Bid{ID: "b2", ListingID: l.ID, BidderID: "bob", Amount: 120000, CreatedAt: testNow}
	fx = second.Accept(l, first, testNow)
	if len(fx.Notifications) != 1 || fx.Notifications[0].UserID != "alice" || fx.Notifications[0].Type != NotifyOutbid {
		t.Fatalf("expected outbid notification for alice, got %+v", fx.Notifications)
	}

	// Raising your own bid does not notify yourself.
	third := &Bid{ID: "b3", ListingID: l.ID, BidderID: "bob", Amount: 130000, CreatedAt: testNow}
	if fx := third.Accept(l, second, testNow); len(fx.Notifications) != 0 {
		t.Fatalf("self-outbid should not notify, got %+v", fx.Notifications)
	}
}

func TestCheckClose(t *testing.T) {
	l := newTestAuction()
	if err := CheckClose(l, "alice"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected non-seller close to be forbidden, got %v", err)
	}
	if err := CheckClose(l, "seller"); err != nil {
		t.Fatalf("seller close: %v", err)
	}
	if err := CheckClose(l, SystemActor); err != nil {
		t.Fatalf("system close: %v", err)
	}

	fx := ClosedUnsold(l, SystemActor, testNow)
	if l.Status != ListingCancelled {
		t.Fatalf("expected CANCELLED, got %s", l.Status)
	}
	if len(fx.Notifications) != 1 || fx.Notifications[0].Type != NotifyAuctionUnsold {
		t.Fatalf("expected unsold notification, got %+v", fx.Notifications)
	}
	if err := CheckClose(l, SystemActor); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected closed auction to be rejected, got %v", err)
	}
}
