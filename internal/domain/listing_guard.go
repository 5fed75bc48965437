package domain

import "time"

// ListingGuard keeps listing status in lockstep with its transaction.
// Callers hold the listing row lock (Atomic + GetForUpdate) while using it,
// which makes Reserve a compare-and-swap on ACTIVE -> PENDING.
type ListingGuard struct{}

// Reserve moves an ACTIVE listing to PENDING. Any other status is a Conflict.
func (ListingGuard) Reserve(l *Listing) error {
	switch l.Status {
	case ListingActive:
		l.Status = ListingPending
		return nil
	case ListingPending:
		return Conflict(CodeListingReserved, "listing is reserved by another buyer", "")
	case ListingSold:
		return Conflict(CodeListingSold, "listing has already been sold", "")
	default:
		return Conflict(CodeListingUnavailable, "item unavailable", "")
	}
}

// Release returns a PENDING listing to ACTIVE after its transaction was cancelled.
func (ListingGuard) Release(l *Listing) {
	if l.Status == ListingPending {
		l.Status = ListingActive
	}
}

// FinalizeSold marks the listing SOLD on completion.
func (ListingGuard) FinalizeSold(l *Listing) {
	l.Status = ListingSold
}

// Withdraw takes a listing off the market after a refunded transaction.
func (ListingGuard) Withdraw(l *Listing) {
	l.Status = ListingCancelled
}

// StatusChanged records a guard-driven listing transition.
func (l *Listing) StatusChanged(from ListingStatus, actorID string, now time.Time) Effects {
	var fx Effects
	if from == l.Status {
		return fx
	}
	l.UpdatedAt = now
	fx.Record(NewAuditEntry(EntityListing, l.ID, AuditListingStatus, actorID,
		map[string]string{"status": string(from)},
		map[string]string{"status": string(l.Status)},
		now,
	))
	fx.Emit(Event{
		Type:       EventListingStatusChanged,
		EntityID:   l.ID,
		ListingID:  l.ID,
		ActorID:    actorID,
		OldStatus:  string(from),
		NewStatus:  string(l.Status),
		OccurredAt: now,
	})
	return fx
}
