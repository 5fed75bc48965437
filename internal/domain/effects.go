package domain

import "time"

type NotificationType string

const (
	NotifyNewOrder             NotificationType = "NEW_ORDER"
	NotifyPaymentReceived      NotificationType = "PAYMENT_RECEIVED"
	NotifyItemTransferred      NotificationType = "ITEM_TRANSFERRED"
	NotifyTransactionCompleted NotificationType = "TRANSACTION_COMPLETED"
	NotifyTransactionCancelled NotificationType = "TRANSACTION_CANCELLED"
	NotifyOutbid               NotificationType = "OUTBID"
	NotifyAuctionWon           NotificationType = "AUCTION_WON"
	NotifyAuctionSold          NotificationType = "AUCTION_SOLD"
	NotifyAuctionUnsold        NotificationType = "AUCTION_UNSOLD"
	NotifyDisputeOpened        NotificationType = "DISPUTE_OPENED"
	NotifyDisputeEvidence      NotificationType = "DISPUTE_EVIDENCE"
	NotifyDisputeResolved      NotificationType = "DISPUTE_RESOLVED"
	NotifyReviewReceived       NotificationType = "REVIEW_RECEIVED"
)

// Notification is delivered fire-and-forget after the state change commits.
type Notification struct {
	UserID  string
	Type    NotificationType
	Title   string
	Body    string
	Payload map[string]string
}

type EventType string

const (
	EventTransactionCreated   EventType = "transaction.created"
	EventTransactionPaid      EventType = "transaction.paid"
	EventItemTransferred      EventType = "transaction.item_transferred"
	EventTransactionCompleted EventType = "transaction.completed"
	EventTransactionCancelled EventType = "transaction.cancelled"
	EventTransactionDisputed  EventType = "transaction.disputed"
	EventTransactionRefunded  EventType = "transaction.refunded"
	EventPaymentCreated       EventType = "payment.created"
	EventPaymentExpired       EventType = "payment.expired"
	EventPayoutCreated        EventType = "payout.created"
	EventBidPlaced            EventType = "auction.bid_placed"
	EventAuctionClosed        EventType = "auction.closed"
	EventDisputeResolved      EventType = "dispute.resolved"
	EventListingStatusChanged EventType = "listing.status_changed"
)

// Event is a domain event published to the event bus after commit.
type Event struct {
	Type       EventType
	EntityID   string
	ListingID  string
	ActorID    string
	OldStatus  string
	NewStatus  string
	Amount     int64
	OccurredAt time.Time
}

// Effects is everything a transition decided besides the state change itself.
// Audit entries are persisted inside the atomic unit; notifications and
// events are dispatched after commit and never roll the transition back.
type Effects struct {
	Audit         []AuditEntry
	Notifications []Notification
	Events        []Event
}

func (e *Effects) Record(entry AuditEntry) { e.Audit = append(e.Audit, entry) }

func (e *Effects) Notify(n Notification) { e.Notifications = append(e.Notifications, n) }

func (e *Effects) Emit(ev Event) { e.Events = append(e.Events, ev) }

func (e *Effects) Append(other Effects) {
	e.Audit = append(e.Audit, other.Audit...)
	e.Notifications = append(e.Notifications, other.Notifications...)
	e.Events = append(e.Events, other.Events...)
}
