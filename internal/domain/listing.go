package domain

import "time"

type ListingStatus string

const (
	ListingDraft     ListingStatus = "DRAFT"
	ListingActive    ListingStatus = "ACTIVE"
	ListingPending   ListingStatus = "PENDING"
	ListingSold      ListingStatus = "SOLD"
	ListingCancelled ListingStatus = "CANCELLED"
)

type ListingType string

const (
	ListingFixed   ListingType = "FIXED"
	ListingAuction ListingType = "AUCTION"
)

// Listing is a sellable unit (game account, in-game item).
// Amounts are integer IDR.
type Listing struct {
	ID          string
	SellerID    string
	Title       string
	Description string
	GameName    string
	Type        ListingType
	Status      ListingStatus

	Price int64

	StartingBid   int64
	CurrentBid    int64
	BidIncrement  int64
	BuyNowPrice   int64
	AuctionEndsAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l *Listing) IsAuction() bool { return l.Type == ListingAuction }

// CurrentPrice is the highest accepted bid, or the starting bid when there are none.
func (l *Listing) CurrentPrice() int64 {
	if l.CurrentBid > 0 {
		return l.CurrentBid
	}
	return l.StartingBid
}

// MinimumBid is the smallest amount the next bid may carry.
func (l *Listing) MinimumBid() int64 {
	return l.CurrentPrice() + l.BidIncrement
}

func (l *Listing) AuctionEnded(now time.Time) bool {
	return l.IsAuction() && now.After(l.AuctionEndsAt)
}

// PurchasePrice is the amount frozen into a transaction created by a buyer.
// An ended auction belongs to its highest bidder and cannot be bought outright.
func (l *Listing) PurchasePrice(now time.Time) (int64, error) {
	switch l.Type {
	case ListingFixed:
		return l.Price, nil
	case ListingAuction:
		if l.AuctionEnded(now) {
			return 0, Precondition(CodeAuctionEnded, "auction has ended")
		}
		if l.BuyNowPrice <= 0 {
			return 0, Precondition(CodeNotBuyable, "auction listing without buy-now price is sold through bidding")
		}
		if l.CurrentBid >= l.BuyNowPrice {
			return 0, Precondition(CodeNotBuyable, "bidding has reached the buy-now price")
		}
		return l.BuyNowPrice, nil
	default:
		return 0, Precondition(CodeInvalidListing, "unknown listing type")
	}
}

// Validate checks the listing terms a seller submits.
func (l *Listing) Validate(now time.Time) error {
	if l.Title == "" {
		return Precondition(CodeInvalidListing, "title is required")
	}
	switch l.Type {
	case ListingFixed:
		if l.Price <= 0 {
			return Precondition(CodeInvalidListing, "price must be positive")
		}
	case ListingAuction:
		if l.StartingBid <= 0 {
			return Precondition(CodeInvalidListing, "starting bid must be positive")
		}
		if l.BidIncrement <= 0 {
			return Precondition(CodeInvalidListing, "bid increment must be positive")
		}
		if !l.AuctionEndsAt.After(now) {
			return Precondition(CodeInvalidListing, "auction must end in the future")
		}
		if l.BuyNowPrice != 0 && l.BuyNowPrice <= l.StartingBid {
			return Precondition(CodeInvalidListing, "buy-now price must exceed starting bid")
		}
	default:
		return Precondition(CodeInvalidListing, "unknown listing type")
	}
	return nil
}

const EntityListing = "listing"

// Created records a new DRAFT listing.
func (l *Listing) Created(now time.Time) Effects {
	var fx Effects
	fx.Record(NewAuditEntry(EntityListing, l.ID, AuditListingCreated, l.SellerID, nil, l, now))
	return fx
}

// Publish moves DRAFT -> ACTIVE. Auction terms are re-validated against now.
func (l *Listing) Publish(actorID string, now time.Time) (Effects, error) {
	if actorID != l.SellerID {
		return Effects{}, Forbidden(CodeSellerOnly, "only the seller may publish the listing")
	}
	if l.Status != ListingDraft {
		return Effects{}, Precondition(CodeInvalidState, "listing is "+string(l.Status)+", expected DRAFT")
	}
	if err := l.Validate(now); err != nil {
		return Effects{}, err
	}
	before := *l
	l.Status = ListingActive
	l.UpdatedAt = now
	var fx Effects
	fx.Record(NewAuditEntry(EntityListing, l.ID, AuditListingPublished, actorID, before, l, now))
	fx.Emit(Event{
		Type:       EventListingStatusChanged,
		EntityID:   l.ID,
		ListingID:  l.ID,
		ActorID:    actorID,
		OldStatus:  string(before.Status),
		NewStatus:  string(l.Status),
		OccurredAt: now,
	})
	return fx, nil
}

// Cancel withdraws a DRAFT or ACTIVE listing. Bid and transaction checks are the caller's.
func (l *Listing) Cancel(actorID string, now time.Time) (Effects, error) {
	if actorID != l.SellerID {
		return Effects{}, Forbidden(CodeSellerOnly, "only the seller may cancel the listing")
	}
	switch l.Status {
	case ListingDraft, ListingActive:
	case ListingPending:
		return Effects{}, Conflict(CodeListingHasActiveTx, "listing has an active transaction", l.ID)
	default:
		return Effects{}, Precondition(CodeInvalidState, "listing is "+string(l.Status))
	}
	before := *l
	l.Status = ListingCancelled
	l.UpdatedAt = now
	var fx Effects
	fx.Record(NewAuditEntry(EntityListing, l.ID, AuditListingCancelled, actorID, before, l, now))
	fx.Emit(Event{
		Type:       EventListingStatusChanged,
		EntityID:   l.ID,
		ListingID:  l.ID,
		ActorID:    actorID,
		OldStatus:  string(before.Status),
		NewStatus:  string(l.Status),
		OccurredAt: now,
	})
	return fx, nil
}
