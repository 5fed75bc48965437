// Package usecasetest wires the escrow usecases against the in-memory store,
// the simulated gateway and a static user directory for scenario tests.
package usecasetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/client"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/gateway"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/auction"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/dispute"
	listingdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/listing"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/listing"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/review"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/transaction"
)

// Start is the fixed instant every harness clock begins at.
var Start = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Recorder captures dispatched notifications and events. Err fails every delivery.
type Recorder struct {
	mu            sync.Mutex
	Notifications []domain.Notification
	Events        []domain.Event
	Err           error
}

func (r *Recorder) Notify(_ context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Notifications = append(r.Notifications, n)
	return nil
}

func (r *Recorder) PublishEvent(_ context.Context, ev domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, ev)
	return nil
}

// NotificationsFor returns the notification types delivered to userID.
func (r *Recorder) NotificationsFor(userID string) []domain.NotificationType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.NotificationType
	for _, n := range r.Notifications {
		if n.UserID == userID {
			out = append(out, n.Type)
		}
	}
	return out
}

func (r *Recorder) HasEvent(typ domain.EventType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.Events {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

type Options struct {
	FeePercentage     float64
	PaymentExpiry     time.Duration
	VerificationHours int
	ManualRelease     bool
	MaxEvidence       int
}

type Harness struct {
	Clock    *Clock
	Store    *memory.Store
	Gateway  *gateway.SimulatedGateway
	Users    *client.StaticUserDirectory
	Recorder *Recorder
	Runner   *usecase.Runner

	Listings     *listing.DefaultListingUsecase
	Auctions     *auction.DefaultAuctionUsecase
	Transactions *transaction.DefaultTransactionUsecase
	Disputes     *dispute.DefaultDisputeUsecase
	Reviews      *review.DefaultReviewUsecase
}

func New(t *testing.T, opts Options) *Harness {
	t.Helper()
	if opts.FeePercentage == 0 {
		opts.FeePercentage = 0.05
	}
	if opts.PaymentExpiry == 0 {
		opts.PaymentExpiry = 24 * time.Hour
	}
	if opts.VerificationHours == 0 {
		opts.VerificationHours = 24
	}

	h := &Harness{
		Clock:    &Clock{now: Start},
		Store:    memory.NewStore(),
		Gateway:  gateway.NewSimulatedGateway(""),
		Users:    client.NewStaticUserDirectory(),
		Recorder: &Recorder{},
	}
	h.Runner = usecase.NewRunner(h.Store, h.Recorder, h.Recorder, nil)
	h.Runner.Async = false
	h.Runner.Clock = h.Clock.Now

	h.Transactions = transaction.NewDefaultTransactionUsecase(h.Runner, h.Users, h.Gateway, h.Users, transaction.Settings{
		FeePercentage:     opts.FeePercentage,
		PaymentExpiry:     opts.PaymentExpiry,
		VerificationHours: opts.VerificationHours,
		AutoComplete:      !opts.ManualRelease,
	})
	h.Listings = listing.NewDefaultListingUsecase(h.Runner)
	h.Auctions = auction.NewDefaultAuctionUsecase(h.Runner, h.Transactions, 0)
	h.Disputes = dispute.NewDefaultDisputeUsecase(h.Runner, h.Transactions, h.Users, opts.MaxEvidence)
	h.Reviews = review.NewDefaultReviewUsecase(h.Runner)
	return h
}

// ActiveFixedListing creates and publishes a fixed-price listing.
func (h *Harness) ActiveFixedListing(t *testing.T, sellerID string, price int64) *domain.Listing {
	t.Helper()
	return h.publish(t, &listingdto.CreateListingInput{
		SellerID: sellerID,
		Title:    "Level 80 account",
		GameName: "Genshin Impact",
		Type:     domain.ListingFixed,
		Price:    price,
	})
}

// ActiveAuction creates and publishes an auction ending after d.
func (h *Harness) ActiveAuction(t *testing.T, sellerID string, startingBid, increment int64, d time.Duration) *domain.Listing {
	t.Helper()
	return h.publish(t, &listingdto.CreateListingInput{
		SellerID:      sellerID,
		Title:         "Rare skin bundle",
		GameName:      "Mobile Legends",
		Type:          domain.ListingAuction,
		StartingBid:   startingBid,
		BidIncrement:  increment,
		AuctionEndsAt: h.Clock.Now().Add(d),
	})
}

// BuyNowAuction is ActiveAuction with a buy-now price.
func (h *Harness) BuyNowAuction(t *testing.T, sellerID string, startingBid, increment, buyNow int64, d time.Duration) *domain.Listing {
	t.Helper()
	return h.publish(t, &listingdto.CreateListingInput{
		SellerID:      sellerID,
		Title:         "Rare skin bundle",
		GameName:      "Mobile Legends",
		Type:          domain.ListingAuction,
		StartingBid:   startingBid,
		BidIncrement:  increment,
		BuyNowPrice:   buyNow,
		AuctionEndsAt: h.Clock.Now().Add(d),
	})
}

func (h *Harness) publish(t *testing.T, input *listingdto.CreateListingInput) *domain.Listing {
	t.Helper()
	ctx := context.Background()
	l, err := h.Listings.CreateListing(ctx, input)
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	l, err = h.Listings.PublishListing(ctx, l.ID, input.SellerID)
	if err != nil {
		t.Fatalf("publish listing: %v", err)
	}
	return l
}

func (h *Harness) Listing(t *testing.T, id string) *domain.Listing {
	t.Helper()
	l, err := h.Store.Repositories().Listings.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get listing %s: %v", id, err)
	}
	return l
}

func (h *Harness) Transaction(t *testing.T, id string) *domain.Transaction {
	t.Helper()
	tx, err := h.Store.Repositories().Transactions.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get transaction %s: %v", id, err)
	}
	return tx
}

func (h *Harness) Payments(t *testing.T, transactionID string) []*domain.Payment {
	t.Helper()
	payments, err := h.Store.Repositories().Payments.ListByTransaction(context.Background(), transactionID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	return payments
}

// Code extracts the reason code of a domain error, or "" when err is not one.
func Code(err error) string {
	if de, ok := domain.AsError(err); ok {
		return de.Code
	}
	return ""
}
