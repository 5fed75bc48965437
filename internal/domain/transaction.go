package domain

import (
	"strconv"
	"time"
)

type TransactionSource string

const (
	SourcePurchase TransactionSource = "PURCHASE"
	SourceAuction  TransactionSource = "AUCTION"
)

// Transaction is the escrow record between a buyer and a seller.
// Amount is frozen at creation; PlatformFee + SellerPayout == Amount.
type Transaction struct {
	ID            string
	Reference     string
	ListingID     string
	BuyerID       string
	SellerID      string
	Source        TransactionSource
	PaymentMethod string

	Amount        int64
	PlatformFee   int64
	SellerPayout  int64
	FeePercentage float64

	Status               TransactionStatus
	ItemTransferredAt    *time.Time
	VerificationDeadline *time.Time
	CompletedAt          *time.Time
	CancelledAt          *time.Time
	TransferProofURL     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

const EntityTransaction = "transaction"

func (t *Transaction) IsParticipant(userID string) bool {
	return userID == t.BuyerID || userID == t.SellerID
}

func (t *Transaction) requireBuyer(actorID string) error {
	if actorID != t.BuyerID {
		return Forbidden(CodeBuyerOnly, "only the buyer may perform this action")
	}
	return nil
}

func (t *Transaction) requireSeller(actorID string) error {
	if actorID != t.SellerID {
		return Forbidden(CodeSellerOnly, "only the seller may perform this action")
	}
	return nil
}

func (t *Transaction) moveTo(to TransactionStatus, now time.Time) error {
	if !CanTransition(t.Status, to) {
		return Precondition(CodeInvalidState, "transaction is "+string(t.Status)+", cannot move to "+string(to))
	}
	t.Status = to
	t.UpdatedAt = now
	return nil
}

func (t *Transaction) event(typ EventType, actorID string, from TransactionStatus, now time.Time) Event {
	return Event{
		Type:       typ,
		EntityID:   t.ID,
		ListingID:  t.ListingID,
		ActorID:    actorID,
		OldStatus:  string(from),
		NewStatus:  string(t.Status),
		Amount:     t.Amount,
		OccurredAt: now,
	}
}

func (t *Transaction) payload() map[string]string {
	return map[string]string{
		"transaction_id": t.ID,
		"reference":      t.Reference,
		"listing_id":     t.ListingID,
		"status":         string(t.Status),
	}
}

// Created returns the effects of inserting a new PENDING_PAYMENT transaction.
func (t *Transaction) Created(actorID string, now time.Time) Effects {
	var fx Effects
	fx.Record(NewAuditEntry(EntityTransaction, t.ID, AuditTransactionCreated, actorID, nil, t, now))
	fx.Emit(t.event(EventTransactionCreated, actorID, "", now))
	fx.Notify(Notification{
		UserID:  t.SellerID,
		Type:    NotifyNewOrder,
		Title:   "New order",
		Body:    "Order " + t.Reference + " is awaiting payment",
		Payload: t.payload(),
	})
	return fx
}

// MarkPaid moves PENDING_PAYMENT -> PAID. The listing stays PENDING until completion.
func (t *Transaction) MarkPaid(now time.Time) (Effects, error) {
	before := *t
	if err := t.moveTo(StatusPaid, now); err != nil {
		return Effects{}, err
	}
	var fx Effects
	fx.Record(NewAuditEntry(EntityTransaction, t.ID, AuditTransactionPaid, SystemActor, before, t, now))
	fx.Emit(t.event(EventTransactionPaid, SystemActor, before.Status, now))
	fx.Notify(Notification{
		UserID:  t.SellerID,
		Type:    NotifyPaymentReceived,
		Title:   "Payment received",
		Body:    "Buyer paid order " + t.Reference + ". Please transfer the item.",
		Payload: t.payload(),
	})
	return fx, nil
}

// MarkTransferred is the seller's delivery claim; it opens the verification window.
func (t *Transaction) MarkTransferred(actorID, proofURL string, now time.Time, verificationHours int) (Effects, error) {
	if err := t.requireSeller(actorID); err != nil {
		return Effects{}, err
	}
	before := *t
	if err := t.moveTo(StatusItemTransferred, now); err != nil {
		return Effects{}, err
	}
	deadline := VerificationDeadline(now, verificationHours)
	transferredAt := now
	t.ItemTransferredAt = &transferredAt
	t.VerificationDeadline = &deadline
	t.TransferProofURL = proofURL

	payload := t.payload()
	payload["verification_deadline"] = deadline.Format(time.RFC3339)

	var fx Effects
	fx.Record(NewAuditEntry(EntityTransaction, t.ID, AuditItemTransferred, actorID, before, t, now))
	fx.Emit(t.event(EventItemTransferred, actorID, before.Status, now))
	fx.Notify(Notification{
		UserID:  t.BuyerID,
		Type:    NotifyItemTransferred,
		Title:   "Item transferred",
		Body:    "Seller transferred order " + t.Reference + ". Confirm receipt before " + deadline.Format(time.RFC3339),
		Payload: payload,
	})
	return fx, nil
}

// ConfirmReceived is the buyer's acceptance. Dispute state is checked by the caller.
func (t *Transaction) ConfirmReceived(actorID string, now time.Time) (Effects, error) {
	if err := t.requireBuyer(actorID); err != nil {
		return Effects{}, err
	}
	return t.complete(actorID, AuditReceiptConfirmed, now)
}

// AutoVerify completes a transaction whose verification window has passed.
func (t *Transaction) AutoVerify(now time.Time) (Effects, error) {
	if t.Status != StatusItemTransferred {
		return Effects{}, Precondition(CodeInvalidState, "transaction is "+string(t.Status)+", not awaiting verification")
	}
	if !t.IsVerificationExpired(now) {
		return Effects{}, Precondition(CodeInvalidState, "verification window is still open")
	}
	return t.complete(SystemActor, AuditAutoVerified, now)
}

// ResolveCompleted settles a DISPUTED transaction in the seller's favour.
func (t *Transaction) ResolveCompleted(actorID string, now time.Time) (Effects, error) {
	if t.Status != StatusDisputed {
		return Effects{}, Precondition(CodeInvalidState, "transaction is not disputed")
	}
	return t.complete(actorID, AuditDisputeResolved, now)
}

func (t *Transaction) complete(actorID string, action AuditAction, now time.Time) (Effects, error) {
	before := *t
	if err := t.moveTo(StatusCompleted, now); err != nil {
		return Effects{}, err
	}
	completedAt := now
	t.CompletedAt = &completedAt

	var fx Effects
	fx.Record(NewAuditEntry(EntityTransaction, t.ID, action, actorID, before, t, now))
	fx.Emit(t.event(EventTransactionCompleted, actorID, before.Status, now))
	fx.Notify(Notification{
		UserID:  t.SellerID,
		Type:    NotifyTransactionCompleted,
		Title:   "Order completed",
		Body:    "Order " + t.Reference + " is complete. Payout of IDR " + strconv.FormatInt(t.SellerPayout, 10) + " is being processed.",
		Payload: t.payload(),
	})
	return fx, nil
}

// Cancel moves PENDING_PAYMENT -> CANCELLED. actorID is the buyer or SystemActor (payment expiry).
func (t *Transaction) Cancel(actorID string, now time.Time) (Effects, error) {
	if actorID != SystemActor {
		if err := t.requireBuyer(actorID); err != nil {
			return Effects{}, err
		}
	}
	before := *t
	if err := t.moveTo(StatusCancelled, now); err != nil {
		return Effects{}, err
	}
	cancelledAt := now
	t.CancelledAt = &cancelledAt

	var fx Effects
	fx.Record(NewAuditEntry(EntityTransaction, t.ID, AuditTransactionCancelled, actorID, before, t, now))
	fx.Emit(t.event(EventTransactionCancelled, actorID, before.Status, now))
	for _, userID := range []string{t.BuyerID, t.SellerID} {
		fx.Notify(Notification{
			UserID:  userID,
			Type:    NotifyTransactionCancelled,
			Title:   "Order cancelled",
			Body:    "Order " + t.Reference + " was cancelled",
			Payload: t.payload(),
		})
	}
	return fx, nil
}

// OpenDispute freezes the transaction. The window is inclusive of the deadline.
func (t *Transaction) OpenDispute(actorID string, now time.Time) (Effects, error) {
	if err := t.requireBuyer(actorID); err != nil {
		return Effects{}, err
	}
	if t.Status != StatusItemTransferred {
		return Effects{}, Precondition(CodeInvalidState, "disputes can only be opened after the item is transferred")
	}
	if t.IsVerificationExpired(now) {
		return Effects{}, Precondition(CodeDisputeWindowClosed, "verification window has closed")
	}
	before := *t
	if err := t.moveTo(StatusDisputed, now); err != nil {
		return Effects{}, err
	}
	var fx Effects
	fx.Record(NewAuditEntry(EntityTransaction, t.ID, AuditDisputeOpened, actorID, before, t, now))
	fx.Emit(t.event(EventTransactionDisputed, actorID, before.Status, now))
	return fx, nil
}

// Refund settles a DISPUTED transaction in the buyer's favour.
func (t *Transaction) Refund(actorID string, now time.Time) (Effects, error) {
	before := *t
	if err := t.moveTo(StatusRefunded, now); err != nil {
		return Effects{}, err
	}
	var fx Effects
	fx.Record(NewAuditEntry(EntityTransaction, t.ID, AuditTransactionRefunded, actorID, before, t, now))
	fx.Emit(t.event(EventTransactionRefunded, actorID, before.Status, now))
	return fx, nil
}

// IsVerificationExpired reports whether now is strictly past the verification deadline.
func (t *Transaction) IsVerificationExpired(now time.Time) bool {
	if t.VerificationDeadline == nil {
		return false
	}
	return now.After(*t.VerificationDeadline)
}
