package transactiondto

import (
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

type TransactionOutput struct {
	Transaction *domain.Transaction
	Payment     *domain.Payment
}

// PaymentOutput is the invoice the buyer should pay. Reused is true when an
// unexpired invoice already existed.
type PaymentOutput struct {
	Payment *domain.Payment
	Reused  bool
}

type VerificationStatusOutput struct {
	TransactionID string
	Status        domain.TransactionStatus
	Deadline      *time.Time
	Expired       bool
}

type ListTransactionsOutput struct {
	Transactions []*domain.Transaction
	Pagination   Pagination
}

type Pagination struct {
	CurrentPage  int32
	TotalPages   int32
	TotalItems   int32
	ItemsPerPage int32
}

// SweepResult summarises one scheduler pass.
type SweepResult struct {
	Processed int
	Failed    int
	Skipped   int
}
