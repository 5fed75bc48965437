package domain

import (
	"strconv"
	"time"
)

type DisputeStatus string

const (
	DisputeOpen        DisputeStatus = "OPEN"
	DisputeUnderReview DisputeStatus = "UNDER_REVIEW"
	DisputeResolved    DisputeStatus = "RESOLVED"
)

type DisputeResolution string

const (
	ResolutionFullRefund    DisputeResolution = "FULL_REFUND"
	ResolutionPartialRefund DisputeResolution = "PARTIAL_REFUND"
	ResolutionNoRefund      DisputeResolution = "NO_REFUND"
)

// RefundsBuyer reports the settlement direction of a resolution.
func (r DisputeResolution) RefundsBuyer() bool {
	return r == ResolutionFullRefund || r == ResolutionPartialRefund
}

func (r DisputeResolution) Valid() bool {
	switch r {
	case ResolutionFullRefund, ResolutionPartialRefund, ResolutionNoRefund:
		return true
	}
	return false
}

type DisputeCategory string

const (
	CategoryItemNotReceived    DisputeCategory = "ITEM_NOT_RECEIVED"
	CategoryItemNotAsDescribed DisputeCategory = "ITEM_NOT_AS_DESCRIBED"
	CategoryAccountRecovered   DisputeCategory = "ACCOUNT_RECOVERED"
	CategoryOther              DisputeCategory = "OTHER"
)

// MaxEvidencePerUploader bounds attachments per party per dispute.
const MaxEvidencePerUploader = 10

type Dispute struct {
	ID            string
	TransactionID string
	InitiatorID   string
	Category      DisputeCategory
	Description   string
	Status        DisputeStatus
	Resolution    DisputeResolution
	RefundAmount  int64
	AdminNote     string
	ResolvedBy    string
	ResolvedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const EntityDispute = "dispute"

func (d *Dispute) IsActive() bool { return d.Status != DisputeResolved }

func (d *Dispute) Opened(tx *Transaction, now time.Time) Effects {
	var fx Effects
	fx.Record(NewAuditEntry(EntityDispute, d.ID, AuditDisputeOpened, d.InitiatorID, nil, d, now))
	fx.Notify(Notification{
		UserID: tx.SellerID,
		Type:   NotifyDisputeOpened,
		Title:  "Dispute opened",
		Body:   "Buyer opened a dispute on order " + tx.Reference + ": " + string(d.Category),
		Payload: map[string]string{
			"dispute_id":     d.ID,
			"transaction_id": tx.ID,
		},
	})
	return fx
}

// MarkUnderReview is the admin picking the dispute up.
func (d *Dispute) MarkUnderReview(adminID string, now time.Time) (Effects, error) {
	if d.Status != DisputeOpen {
		return Effects{}, Precondition(CodeInvalidState, "dispute is "+string(d.Status)+", expected OPEN")
	}
	before := *d
	d.Status = DisputeUnderReview
	d.UpdatedAt = now
	var fx Effects
	fx.Record(NewAuditEntry(EntityDispute, d.ID, AuditDisputeUnderReview, adminID, before, d, now))
	return fx, nil
}

// Resolve closes the dispute. refundAmount is admin-supplied for partial refunds.
func (d *Dispute) Resolve(adminID string, resolution DisputeResolution, refundAmount, transactionAmount int64, note string, now time.Time) (Effects, error) {
	if d.Status == DisputeResolved {
		return Effects{}, Conflict(CodeDisputeResolved, "dispute is already resolved", d.ID)
	}
	if !resolution.Valid() {
		return Effects{}, Precondition(CodeInvalidResolution, "unknown resolution "+string(resolution))
	}
	switch resolution {
	case ResolutionFullRefund:
		refundAmount = transactionAmount
	case ResolutionNoRefund:
		refundAmount = 0
	case ResolutionPartialRefund:
		if refundAmount <= 0 || refundAmount >= transactionAmount {
			return Effects{}, Precondition(CodeInvalidRefundAmount, "partial refund must be between 0 and the transaction amount")
		}
	}
	before := *d
	resolvedAt := now
	d.Status = DisputeResolved
	d.Resolution = resolution
	d.RefundAmount = refundAmount
	d.AdminNote = note
	d.ResolvedBy = adminID
	d.ResolvedAt = &resolvedAt
	d.UpdatedAt = now

	var fx Effects
	fx.Record(NewAuditEntry(EntityDispute, d.ID, AuditDisputeResolved, adminID, before, d, now))
	fx.Emit(Event{
		Type:       EventDisputeResolved,
		EntityID:   d.TransactionID,
		ActorID:    adminID,
		OldStatus:  string(before.Status),
		NewStatus:  string(resolution),
		Amount:     refundAmount,
		OccurredAt: now,
	})
	return fx, nil
}

// Evidence is an attachment reference; storage is handled elsewhere.
type Evidence struct {
	ID         string
	DisputeID  string
	UploaderID string
	FileURL    string
	FileType   string
	Note       string
	CreatedAt  time.Time
}

// Added records the evidence and tells the other party about it.
func (e *Evidence) Added(d *Dispute, tx *Transaction, now time.Time) Effects {
	var fx Effects
	fx.Record(NewAuditEntry(EntityDispute, d.ID, AuditEvidenceAdded, e.UploaderID, nil, e, now))
	counterparty := tx.SellerID
	if e.UploaderID == tx.SellerID {
		counterparty = tx.BuyerID
	}
	fx.Notify(Notification{
		UserID: counterparty,
		Type:   NotifyDisputeEvidence,
		Title:  "New dispute evidence",
		Body:   "New evidence was added to the dispute on order " + tx.Reference,
		Payload: map[string]string{
			"dispute_id":     d.ID,
			"transaction_id": tx.ID,
			"evidence_id":    e.ID,
		},
	})
	return fx
}

// Resolved notifies both parties of the admin decision.
func (d *Dispute) Resolved(tx *Transaction) Effects {
	var fx Effects
	for _, userID := range []string{tx.BuyerID, tx.SellerID} {
		fx.Notify(Notification{
			UserID: userID,
			Type:   NotifyDisputeResolved,
			Title:  "Dispute resolved",
			Body:   "The dispute on order " + tx.Reference + " was resolved: " + string(d.Resolution),
			Payload: map[string]string{
				"dispute_id":     d.ID,
				"transaction_id": tx.ID,
				"resolution":     string(d.Resolution),
				"refund_amount":  strconv.FormatInt(d.RefundAmount, 10),
			},
		})
	}
	return fx
}
