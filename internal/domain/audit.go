package domain

import (
	"crypto/rand"
	"encoding/json"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type AuditAction string

const (
	AuditListingCreated       AuditAction = "LISTING_CREATED"
	AuditListingPublished     AuditAction = "LISTING_PUBLISHED"
	AuditListingCancelled     AuditAction = "LISTING_CANCELLED"
	AuditListingStatus        AuditAction = "LISTING_STATUS_CHANGED"
	AuditBidPlaced            AuditAction = "BID_PLACED"
	AuditAuctionClosed        AuditAction = "AUCTION_CLOSED"
	AuditTransactionCreated   AuditAction = "TRANSACTION_CREATED"
	AuditPaymentCreated       AuditAction = "PAYMENT_CREATED"
	AuditPaymentPaid          AuditAction = "PAYMENT_PAID"
	AuditPaymentExpired       AuditAction = "PAYMENT_EXPIRED"
	AuditTransactionPaid      AuditAction = "TRANSACTION_PAID"
	AuditItemTransferred      AuditAction = "ITEM_TRANSFERRED"
	AuditReceiptConfirmed     AuditAction = "RECEIPT_CONFIRMED"
	AuditAutoVerified         AuditAction = "AUTO_VERIFIED"
	AuditTransactionCancelled AuditAction = "TRANSACTION_CANCELLED"
	AuditPayoutCreated        AuditAction = "PAYOUT_CREATED"
	AuditDisputeOpened        AuditAction = "DISPUTE_OPENED"
	AuditEvidenceAdded        AuditAction = "EVIDENCE_ADDED"
	AuditDisputeUnderReview   AuditAction = "DISPUTE_UNDER_REVIEW"
	AuditDisputeResolved      AuditAction = "DISPUTE_RESOLVED"
	AuditTransactionRefunded  AuditAction = "TRANSACTION_REFUNDED"
	AuditReviewCreated        AuditAction = "REVIEW_CREATED"
)

// SystemActor is the actor id recorded for scheduler-driven transitions.
const SystemActor = "system"

// AuditEntry is an append-only record of a state-changing call.
// IDs are ULIDs, so entries sort in creation order.
type AuditEntry struct {
	ID         string
	EntityType string
	EntityID   string
	Action     AuditAction
	ActorID    string
	OldValue   json.RawMessage
	NewValue   json.RawMessage
	CreatedAt  time.Time
}

var (
	ulidMu      sync.Mutex
	ulidEntropy = ulid.Monotonic(rand.Reader, 0)
)

// NewULID returns a lexicographically sortable id, monotonic within a millisecond.
func NewULID(t time.Time) string {
	ulidMu.Lock()
	defer ulidMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), ulidEntropy).String()
}

// NewAuditEntry snapshots old and new values as JSON. Nil snapshots stay empty.
func NewAuditEntry(entityType, entityID string, action AuditAction, actorID string, oldValue, newValue any, now time.Time) AuditEntry {
	return AuditEntry{
		ID:         NewULID(now),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actorID,
		OldValue:   snapshot(oldValue),
		NewValue:   snapshot(newValue),
		CreatedAt:  now,
	}
}

func snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
