package domain

import (
	"context"
	"time"
)

// Repositories returned by Store are bound either to the root connection
// (reads) or to an open unit of work (inside Atomic). All writes go through Atomic.
//
// Lock order inside a unit of work: listing, then transaction, then payment.
type Repositories struct {
	Listings     ListingRepository
	Bids         BidRepository
	Transactions TransactionRepository
	Payments     PaymentRepository
	Payouts      PayoutRepository
	Disputes     DisputeRepository
	Evidence     EvidenceRepository
	Reviews      ReviewRepository
	Ratings      UserRatingRepository
	Audit        AuditRepository
}

type Store interface {
	Repositories() *Repositories
	// Atomic runs fn in a single unit of work; any error rolls everything back.
	Atomic(ctx context.Context, fn func(r *Repositories) error) error
}

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Get(ctx context.Context, id string) (*Listing, error)
	// GetForUpdate locks the listing row until the unit of work ends.
	GetForUpdate(ctx context.Context, id string) (*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	FindEndedAuctions(ctx context.Context, now time.Time, limit int) ([]*Listing, error)
}

type BidRepository interface {
	Create(ctx context.Context, bid *Bid) error
	// Highest returns ErrRecordNotFound when the listing has no bids.
	Highest(ctx context.Context, listingID string) (*Bid, error)
	ListByListing(ctx context.Context, listingID string) ([]*Bid, error)
	CountByListing(ctx context.Context, listingID string) (int64, error)
}

type TransactionFilter struct {
	UserID string
	Status TransactionStatus
	Page   int
	Limit  int
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	Get(ctx context.Context, id string) (*Transaction, error)
	GetForUpdate(ctx context.Context, id string) (*Transaction, error)
	Update(ctx context.Context, tx *Transaction) error
	// FindActiveByListing returns the listing's non-terminal transaction or ErrRecordNotFound.
	FindActiveByListing(ctx context.Context, listingID string) (*Transaction, error)
	FindOverdueVerification(ctx context.Context, now time.Time, limit int) ([]*Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*Transaction, int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	GetByInvoiceID(ctx context.Context, invoiceID string) (*Payment, error)
	GetForUpdate(ctx context.Context, id string) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
	ListByTransaction(ctx context.Context, transactionID string) ([]*Payment, error)
	FindExpired(ctx context.Context, now time.Time, limit int) ([]*Payment, error)
	ListPending(ctx context.Context, limit int) ([]*Payment, error)
}

type PayoutRepository interface {
	Create(ctx context.Context, payout *Payout) error
	GetByTransaction(ctx context.Context, transactionID string) (*Payout, error)
}

type DisputeRepository interface {
	Create(ctx context.Context, dispute *Dispute) error
	Get(ctx context.Context, id string) (*Dispute, error)
	GetForUpdate(ctx context.Context, id string) (*Dispute, error)
	GetByTransaction(ctx context.Context, transactionID string) (*Dispute, error)
	Update(ctx context.Context, dispute *Dispute) error
}

type EvidenceRepository interface {
	Create(ctx context.Context, evidence *Evidence) error
	CountByUploader(ctx context.Context, disputeID, uploaderID string) (int64, error)
	ListByDispute(ctx context.Context, disputeID string) ([]*Evidence, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	Exists(ctx context.Context, transactionID, reviewerID string) (bool, error)
	ListByReviewee(ctx context.Context, revieweeID string) ([]*Review, error)
}

// Get and GetForUpdate return a zero rating for users without reviews.
type UserRatingRepository interface {
	Get(ctx context.Context, userID string) (*UserRating, error)
	// AddRating folds one rating into the user's aggregate in a single
	// atomic step and returns the updated aggregate.
	AddRating(ctx context.Context, userID string, rating int, now time.Time) (*UserRating, error)
}

type AuditRepository interface {
	Append(ctx context.Context, entries ...AuditEntry) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]AuditEntry, error)
}
