package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
)

const referenceAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

func (uc *DefaultTransactionUsecase) CreateTransaction(ctx context.Context, input *transactiondto.CreateTransactionInput) (*transactiondto.TransactionOutput, error) {
	listing, err := uc.runner.Repos().Listings.Get(ctx, input.ListingID)
	if err != nil {
		return nil, usecase.MapNotFound(err, domain.CodeListingNotFound, "listing not found")
	}
	if listing.SellerID == input.BuyerID {
		return nil, domain.Forbidden(domain.CodeSelfPurchase, "you cannot buy your own listing")
	}

	verified, err := uc.profiles.HasCompletedKYC(ctx, input.BuyerID)
	if err != nil {
		return nil, domain.External(domain.CodeProfileUnavailable, "could not verify buyer profile", err)
	}
	if !verified {
		return nil, domain.Precondition(domain.CodeKYCRequired, "complete phone and ID verification before buying")
	}

	var out transactiondto.TransactionOutput
	undo := &usecase.Compensations{}
	err = uc.runner.Process(ctx, usecase.Operation{
		Name: "create_transaction",
		Undo: undo,
		Critical: func(r *domain.Repositories) (domain.Effects, error) {
			now := uc.runner.Now()
			l, err := r.Listings.GetForUpdate(ctx, input.ListingID)
			if err != nil {
				return domain.Effects{}, usecase.MapNotFound(err, domain.CodeListingNotFound, "listing not found")
			}
			if err := checkNoActiveTransaction(ctx, r, l, input.BuyerID); err != nil {
				return domain.Effects{}, err
			}
			from := l.Status
			if err := uc.guard.Reserve(l); err != nil {
				return domain.Effects{}, err
			}
			amount, err := l.PurchasePrice(now)
			if err != nil {
				return domain.Effects{}, err
			}
			fx := l.StatusChanged(from, input.BuyerID, now)
			if err := r.Listings.Update(ctx, l); err != nil {
				return domain.Effects{}, fmt.Errorf("reserve listing: %w", err)
			}

			tx, payment, openFx, err := uc.Open(ctx, r, OpenParams{
				Listing:       l,
				BuyerID:       input.BuyerID,
				BuyerEmail:    input.BuyerEmail,
				PaymentMethod: input.PaymentMethod,
				Source:        domain.SourcePurchase,
				Amount:        amount,
				ActorID:       input.BuyerID,
				Now:           now,
				Undo:          undo,
			})
			if err != nil {
				return domain.Effects{}, err
			}
			fx.Append(openFx)
			out.Transaction, out.Payment = tx, payment
			return fx, nil
		},
	})
	if err != nil {
		return nil, err
	}
	uc.Metrics.TransactionCreated(string(listing.Type), out.Transaction.PlatformFee)
	return &out, nil
}

// checkNoActiveTransaction distinguishes the buyer's own pending order from
// someone else's reservation.
func checkNoActiveTransaction(ctx context.Context, r *domain.Repositories, l *domain.Listing, buyerID string) error {
	active, err := r.Transactions.FindActiveByListing(ctx, l.ID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find active transaction: %w", err)
	}
	if active.BuyerID != buyerID {
		return domain.Conflict(domain.CodeListingReserved, "listing is reserved by another buyer", "")
	}
	if active.Status == domain.StatusPendingPayment {
		return domain.Conflict(domain.CodePendingPaymentExists, "you already have a pending order for this listing, resume its payment", active.ID)
	}
	return domain.Conflict(domain.CodeListingReserved, "you already have an order in progress for this listing", active.ID)
}

// OpenParams describes a transaction about to be inserted for an already
// reserved listing.
type OpenParams struct {
	Listing       *domain.Listing
	BuyerID       string
	BuyerEmail    string
	PaymentMethod string
	Source        domain.TransactionSource
	Amount        int64
	ActorID       string
	Now           time.Time
	// Undo receives the expiry of the issued invoice if the unit rolls back.
	Undo *usecase.Compensations
}

// Open inserts a PENDING_PAYMENT transaction and its first payment inside the
// caller's unit of work. An invoice failure aborts the whole unit; an invoice
// issued by a unit that later rolls back is expired through p.Undo.
func (uc *DefaultTransactionUsecase) Open(ctx context.Context, r *domain.Repositories, p OpenParams) (*domain.Transaction, *domain.Payment, domain.Effects, error) {
	reference, err := newReference()
	if err != nil {
		return nil, nil, domain.Effects{}, err
	}
	fee, payout := domain.ComputeFees(p.Amount, uc.settings.FeePercentage)
	tx := &domain.Transaction{
		ID:            uuid.NewString(),
		Reference:     reference,
		ListingID:     p.Listing.ID,
		BuyerID:       p.BuyerID,
		SellerID:      p.Listing.SellerID,
		Source:        p.Source,
		PaymentMethod: p.PaymentMethod,
		Amount:        p.Amount,
		PlatformFee:   fee,
		SellerPayout:  payout,
		FeePercentage: uc.settings.FeePercentage,
		Status:        domain.StatusPendingPayment,
		CreatedAt:     p.Now,
		UpdatedAt:     p.Now,
	}
	if err := r.Transactions.Create(ctx, tx); err != nil {
		return nil, nil, domain.Effects{}, fmt.Errorf("create transaction: %w", err)
	}
	fx := tx.Created(p.ActorID, p.Now)

	payment, paymentFx, err := uc.issueInvoice(ctx, r, tx, p.BuyerEmail, p.ActorID, p.Now, p.Undo)
	if err != nil {
		return nil, nil, domain.Effects{}, err
	}
	fx.Append(paymentFx)
	return tx, payment, fx, nil
}

func (uc *DefaultTransactionUsecase) issueInvoice(ctx context.Context, r *domain.Repositories, tx *domain.Transaction, payerEmail, actorID string, now time.Time, undo *usecase.Compensations) (*domain.Payment, domain.Effects, error) {
	paymentID := uuid.NewString()
	invoice, err := uc.gateway.CreateInvoice(ctx, domain.InvoiceRequest{
		ExternalID:  paymentID,
		Amount:      tx.Amount,
		PayerEmail:  payerEmail,
		Description: "Escrow order " + tx.Reference,
		SuccessURL:  uc.settings.SuccessURL,
		FailureURL:  uc.settings.FailureURL,
		Duration:    uc.settings.PaymentExpiry,
	})
	if err != nil {
		return nil, domain.Effects{}, domain.External(domain.CodeInvoiceFailed, "payment provider could not create an invoice, try again", err)
	}
	undo.Add(func(ctx context.Context) {
		uc.voidInvoice(ctx, invoice.ID, tx.Reference)
	})

	expiresAt := now.Add(uc.settings.PaymentExpiry)
	if !invoice.ExpiresAt.IsZero() && invoice.ExpiresAt.Before(expiresAt) {
		expiresAt = invoice.ExpiresAt
	}
	payment := &domain.Payment{
		ID:                paymentID,
		TransactionID:     tx.ID,
		ExternalInvoiceID: invoice.ID,
		InvoiceURL:        invoice.InvoiceURL,
		Amount:            tx.Amount,
		Status:            domain.PaymentPending,
		ExpiresAt:         expiresAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := r.Payments.Create(ctx, payment); err != nil {
		return nil, domain.Effects{}, fmt.Errorf("create payment: %w", err)
	}
	return payment, payment.Created(actorID, now), nil
}

// voidInvoice expires an invoice whose payment row never committed, so the
// payer cannot settle money the escrow has no record of.
func (uc *DefaultTransactionUsecase) voidInvoice(ctx context.Context, invoiceID, reference string) {
	slog.Warn("unit rolled back after invoice was issued, expiring invoice",
		"invoice_id", invoiceID,
		"reference", reference,
	)
	if err := uc.gateway.ExpireInvoice(ctx, invoiceID); err != nil {
		slog.Error("failed to expire orphaned invoice",
			"invoice_id", invoiceID,
			"reference", reference,
			"error", err,
		)
	}
}

func newReference() (string, error) {
	generate, err := nanoid.CustomASCII(referenceAlphabet, 10)
	if err != nil {
		return "", fmt.Errorf("reference generator: %w", err)
	}
	return "ESC-" + generate(), nil
}
