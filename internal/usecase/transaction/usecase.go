package transaction

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
)

type TransactionUsecase interface {
	CreateTransaction(ctx context.Context, input *transactiondto.CreateTransactionInput) (*transactiondto.TransactionOutput, error)
	RequestPayment(ctx context.Context, input *transactiondto.RequestPaymentInput) (*transactiondto.PaymentOutput, error)

	MarkPaid(ctx context.Context, paymentID string) (*transactiondto.TransactionOutput, error)
	MarkPaidByInvoice(ctx context.Context, invoiceID string) (*transactiondto.TransactionOutput, error)
	ExpirePayment(ctx context.Context, paymentID string) (*transactiondto.TransactionOutput, error)
	ExpirePaymentByInvoice(ctx context.Context, invoiceID string) (*transactiondto.TransactionOutput, error)
	SyncPayment(ctx context.Context, paymentID string) (*transactiondto.TransactionOutput, error)

	MarkTransferred(ctx context.Context, input *transactiondto.MarkTransferredInput) (*domain.Transaction, error)
	ConfirmReceived(ctx context.Context, transactionID, buyerID string) (*domain.Transaction, error)
	CancelTransaction(ctx context.Context, transactionID, buyerID string) (*domain.Transaction, error)
	AutoVerify(ctx context.Context, transactionID string) (*domain.Transaction, error)

	ExpireOverduePayments(ctx context.Context) (*transactiondto.SweepResult, error)
	AutoCompleteExpired(ctx context.Context) (*transactiondto.SweepResult, error)
	SyncPendingPayments(ctx context.Context) (*transactiondto.SweepResult, error)

	GetTransaction(ctx context.Context, transactionID, viewerID string, admin bool) (*transactiondto.TransactionOutput, error)
	ListTransactions(ctx context.Context, input *transactiondto.ListTransactionsInput) (*transactiondto.ListTransactionsOutput, error)
	ListPayments(ctx context.Context, transactionID, viewerID string, admin bool) ([]*domain.Payment, error)
	VerificationStatus(ctx context.Context, transactionID, viewerID string, admin bool) (*transactiondto.VerificationStatusOutput, error)
	AuditTrail(ctx context.Context, transactionID, viewerID string, admin bool) ([]domain.AuditEntry, error)
}

// Settings are the escrow terms applied to new and in-flight transactions.
type Settings struct {
	FeePercentage     float64
	PaymentExpiry     time.Duration
	VerificationHours int
	AutoComplete      bool
	SuccessURL        string
	FailureURL        string
	SweepBatchSize    int
}

type DefaultTransactionUsecase struct {
	runner   *usecase.Runner
	profiles domain.UserProfileProvider
	gateway  domain.PaymentGateway
	banks    domain.BankAccountProvider
	guard    domain.ListingGuard
	settings Settings
	Metrics  *metrics.EscrowMetrics
}

func NewDefaultTransactionUsecase(
	runner *usecase.Runner,
	profiles domain.UserProfileProvider,
	gateway domain.PaymentGateway,
	banks domain.BankAccountProvider,
	settings Settings,
) *DefaultTransactionUsecase {
	if settings.SweepBatchSize <= 0 {
		settings.SweepBatchSize = 100
	}
	return &DefaultTransactionUsecase{
		runner:   runner,
		profiles: profiles,
		gateway:  gateway,
		banks:    banks,
		settings: settings,
		Metrics:  runner.Metrics,
	}
}

// defaultBankAccount never fails the caller: completion proceeds without a payout.
func (uc *DefaultTransactionUsecase) defaultBankAccount(ctx context.Context, sellerID string) *domain.BankAccount {
	account, err := uc.banks.GetDefaultBankAccount(ctx, sellerID)
	if err != nil {
		slog.Error("failed to fetch default bank account", "seller_id", sellerID, "error", err)
		uc.Metrics.SideEffectFailure("bank_account")
		return nil
	}
	return account
}

func (uc *DefaultTransactionUsecase) getTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	tx, err := uc.runner.Repos().Transactions.Get(ctx, transactionID)
	if err != nil {
		return nil, usecase.MapNotFound(err, domain.CodeTransactionNotFound, "transaction not found")
	}
	return tx, nil
}
