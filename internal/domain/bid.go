package domain

import (
	"strconv"
	"time"
)

// Bid is an immutable auction bid.
type Bid struct {
	ID        string
	ListingID string
	BidderID  string
	Amount    int64
	CreatedAt time.Time
}

// CheckBid validates a bid against the listing it targets.
// Equal-to-current bids are rejected: the next bid must clear current price + increment.
func CheckBid(l *Listing, bidderID string, amount int64, now time.Time) error {
	if !l.IsAuction() {
		return Precondition(CodeNotAuction, "listing is not an auction")
	}
	if l.Status != ListingActive {
		return Precondition(CodeListingUnavailable, "auction is not accepting bids")
	}
	if bidderID == l.SellerID {
		return Forbidden(CodeSelfBid, "seller cannot bid on own listing")
	}
	if l.AuctionEnded(now) {
		return Precondition(CodeAuctionEnded, "auction has ended")
	}
	if minimum := l.MinimumBid(); amount < minimum {
		return &Error{
			Kind:    ErrPreconditionFailed,
			Code:    CodeBidTooLow,
			Message: "bid must be at least " + formatIDR(minimum),
		}
	}
	return nil
}

// Accept applies a checked bid to the listing. previous is the bid being
// outbid, nil for the first bid.
func (b *Bid) Accept(l *Listing, previous *Bid, now time.Time) Effects {
	before := l.CurrentBid
	l.CurrentBid = b.Amount
	l.UpdatedAt = now

	var fx Effects
	fx.Record(NewAuditEntry(EntityListing, l.ID, AuditBidPlaced, b.BidderID,
		map[string]int64{"current_bid": before},
		b,
		now,
	))
	fx.Emit(Event{
		Type:       EventBidPlaced,
		EntityID:   b.ID,
		ListingID:  l.ID,
		ActorID:    b.BidderID,
		Amount:     b.Amount,
		OccurredAt: now,
	})
	if previous != nil && previous.BidderID != b.BidderID {
		fx.Notify(Notification{
			UserID: previous.BidderID,
			Type:   NotifyOutbid,
			Title:  "You have been outbid",
			Body:   "A higher bid of " + formatIDR(b.Amount) + " was placed on " + l.Title,
			Payload: map[string]string{
				"listing_id":  l.ID,
				"current_bid": strconv.FormatInt(b.Amount, 10),
				"minimum_bid": strconv.FormatInt(l.MinimumBid(), 10),
			},
		})
	}
	return fx
}

// CheckClose validates a close_auction request. actorID is the seller or SystemActor.
func CheckClose(l *Listing, actorID string) error {
	if !l.IsAuction() {
		return Precondition(CodeNotAuction, "listing is not an auction")
	}
	if actorID != SystemActor && actorID != l.SellerID {
		return Forbidden(CodeSellerOnly, "only the seller may close the auction")
	}
	if l.Status != ListingActive {
		return Precondition(CodeListingUnavailable, "auction is not open")
	}
	return nil
}

// ClosedUnsold ends an auction without bids: the listing is cancelled.
func ClosedUnsold(l *Listing, actorID string, now time.Time) Effects {
	from := l.Status
	l.Status = ListingCancelled
	fx := l.StatusChanged(from, actorID, now)
	fx.Record(NewAuditEntry(EntityListing, l.ID, AuditAuctionClosed, actorID, nil, map[string]string{"outcome": "unsold"}, now))
	fx.Emit(Event{
		Type:       EventAuctionClosed,
		EntityID:   l.ID,
		ListingID:  l.ID,
		ActorID:    actorID,
		NewStatus:  string(l.Status),
		OccurredAt: now,
	})
	fx.Notify(Notification{
		UserID:  l.SellerID,
		Type:    NotifyAuctionUnsold,
		Title:   "Auction ended without bids",
		Body:    l.Title + " received no bids and was closed",
		Payload: map[string]string{"listing_id": l.ID},
	})
	return fx
}

// ClosedSold records the hand-off of the winning bid to a new transaction.
func ClosedSold(l *Listing, winner *Bid, tx *Transaction, actorID string, now time.Time) Effects {
	var fx Effects
	fx.Record(NewAuditEntry(EntityListing, l.ID, AuditAuctionClosed, actorID, nil, map[string]string{
		"outcome":        "sold",
		"winning_bid_id": winner.ID,
		"transaction_id": tx.ID,
	}, now))
	fx.Emit(Event{
		Type:       EventAuctionClosed,
		EntityID:   l.ID,
		ListingID:  l.ID,
		ActorID:    actorID,
		NewStatus:  string(l.Status),
		Amount:     winner.Amount,
		OccurredAt: now,
	})
	payload := map[string]string{
		"listing_id":     l.ID,
		"transaction_id": tx.ID,
		"amount":         strconv.FormatInt(winner.Amount, 10),
	}
	fx.Notify(Notification{
		UserID:  winner.BidderID,
		Type:    NotifyAuctionWon,
		Title:   "You won the auction",
		Body:    "You won " + l.Title + " for " + formatIDR(winner.Amount) + ". Complete payment for order " + tx.Reference,
		Payload: payload,
	})
	fx.Notify(Notification{
		UserID:  l.SellerID,
		Type:    NotifyAuctionSold,
		Title:   "Auction sold",
		Body:    l.Title + " sold for " + formatIDR(winner.Amount),
		Payload: payload,
	})
	return fx
}
