package transactiondto

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

type CreateTransactionInput struct {
	ListingID     string
	BuyerID       string
	BuyerEmail    string
	PaymentMethod string
}

type RequestPaymentInput struct {
	TransactionID string
	BuyerID       string
	BuyerEmail    string
}

type MarkTransferredInput struct {
	TransactionID string
	SellerID      string
	ProofURL      string
}

type ListTransactionsInput struct {
	UserID string
	Status domain.TransactionStatus
	Page   int
	Limit  int
}
