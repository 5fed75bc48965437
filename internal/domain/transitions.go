package domain

type TransactionStatus string

const (
	StatusPendingPayment  TransactionStatus = "PENDING_PAYMENT"
	StatusPaid            TransactionStatus = "PAID"
	StatusItemTransferred TransactionStatus = "ITEM_TRANSFERRED"
	StatusCompleted       TransactionStatus = "COMPLETED"
	StatusCancelled       TransactionStatus = "CANCELLED"
	StatusDisputed        TransactionStatus = "DISPUTED"
	StatusRefunded        TransactionStatus = "REFUNDED"
)

// AllowedTransitions is the escrow state machine. COMPLETED is only reachable
// through ITEM_TRANSFERRED, directly or via DISPUTED.
var AllowedTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPendingPayment:  {StatusPaid, StatusCancelled},
	StatusPaid:            {StatusItemTransferred},
	StatusItemTransferred: {StatusCompleted, StatusDisputed},
	StatusDisputed:        {StatusCompleted, StatusRefunded},
	StatusCompleted:       {},
	StatusCancelled:       {},
	StatusRefunded:        {},
}

func CanTransition(from, to TransactionStatus) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRefunded
}

// HoldsListing reports whether a transaction in this status keeps its listing reserved.
func (s TransactionStatus) HoldsListing() bool {
	return !s.IsTerminal()
}
