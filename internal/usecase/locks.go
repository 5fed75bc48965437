package usecase

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// MapNotFound turns a repository miss into a NotFound with a caller-facing code.
func MapNotFound(err error, code, msg string) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.NotFound(code, msg)
	}
	return err
}

// LockTransaction locks the transaction's listing and then the transaction
// itself, in that order, inside a unit of work.
func LockTransaction(ctx context.Context, r *domain.Repositories, transactionID string) (*domain.Listing, *domain.Transaction, error) {
	peek, err := r.Transactions.Get(ctx, transactionID)
	if err != nil {
		return nil, nil, MapNotFound(err, domain.CodeTransactionNotFound, "transaction not found")
	}
	listing, err := r.Listings.GetForUpdate(ctx, peek.ListingID)
	if err != nil {
		return nil, nil, MapNotFound(err, domain.CodeListingNotFound, "listing not found")
	}
	tx, err := r.Transactions.GetForUpdate(ctx, transactionID)
	if err != nil {
		return nil, nil, MapNotFound(err, domain.CodeTransactionNotFound, "transaction not found")
	}
	return listing, tx, nil
}

// ActiveDispute returns the transaction's unresolved dispute, or nil.
func ActiveDispute(ctx context.Context, r *domain.Repositories, transactionID string) (*domain.Dispute, error) {
	d, err := r.Disputes.GetByTransaction(ctx, transactionID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !d.IsActive() {
		return nil, nil
	}
	return d, nil
}
