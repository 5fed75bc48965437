package domain

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentExpired PaymentStatus = "EXPIRED"
)

// Payment is one invoice attempt for a transaction; retries create new rows.
type Payment struct {
	ID                string
	TransactionID     string
	ExternalInvoiceID string
	InvoiceURL        string
	Amount            int64
	Status            PaymentStatus
	ExpiresAt         time.Time
	PaidAt            *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const EntityPayment = "payment"

// IsUsable reports whether the payment can still be paid.
func (p *Payment) IsUsable(now time.Time) bool {
	return p.Status == PaymentPending && now.Before(p.ExpiresAt)
}

func (p *Payment) Created(actorID string, now time.Time) Effects {
	var fx Effects
	fx.Record(NewAuditEntry(EntityPayment, p.ID, AuditPaymentCreated, actorID, nil, p, now))
	fx.Emit(Event{
		Type:       EventPaymentCreated,
		EntityID:   p.ID,
		ActorID:    actorID,
		NewStatus:  string(p.Status),
		Amount:     p.Amount,
		OccurredAt: now,
	})
	return fx
}

// MarkPaid records settlement. ok is false when the payment was already paid.
func (p *Payment) MarkPaid(now time.Time) (fx Effects, ok bool, err error) {
	switch p.Status {
	case PaymentPaid:
		return Effects{}, false, nil
	case PaymentExpired:
		return Effects{}, false, Precondition(CodePaymentExpired, "payment has expired")
	}
	before := *p
	paidAt := now
	p.Status = PaymentPaid
	p.PaidAt = &paidAt
	p.UpdatedAt = now
	fx.Record(NewAuditEntry(EntityPayment, p.ID, AuditPaymentPaid, SystemActor, before, p, now))
	return fx, true, nil
}

// Expire marks a PENDING payment EXPIRED. ok is false when there was nothing to expire.
func (p *Payment) Expire(actorID string, now time.Time) (fx Effects, ok bool) {
	if p.Status != PaymentPending {
		return Effects{}, false
	}
	before := *p
	p.Status = PaymentExpired
	p.UpdatedAt = now
	fx.Record(NewAuditEntry(EntityPayment, p.ID, AuditPaymentExpired, actorID, before, p, now))
	fx.Emit(Event{
		Type:       EventPaymentExpired,
		EntityID:   p.ID,
		ActorID:    actorID,
		OldStatus:  string(before.Status),
		NewStatus:  string(p.Status),
		Amount:     p.Amount,
		OccurredAt: now,
	})
	return fx, true
}

type PayoutStatus string

const (
	PayoutPending PayoutStatus = "PENDING"
)

// Payout is the seller's net proceeds, handed to the disbursement collaborator.
type Payout struct {
	ID            string
	TransactionID string
	SellerID      string
	BankAccountID string
	Amount        int64
	Status        PayoutStatus
	CreatedAt     time.Time
}

func (p *Payout) Created(actorID string, now time.Time) Effects {
	var fx Effects
	fx.Record(NewAuditEntry("payout", p.ID, AuditPayoutCreated, actorID, nil, p, now))
	fx.Emit(Event{
		Type:       EventPayoutCreated,
		EntityID:   p.TransactionID,
		ActorID:    actorID,
		NewStatus:  string(p.Status),
		Amount:     p.Amount,
		OccurredAt: now,
	})
	return fx
}

// BankAccount is the seller's disbursement destination.
type BankAccount struct {
	ID            string
	UserID        string
	BankCode      string
	AccountNumber string
	AccountName   string
}
