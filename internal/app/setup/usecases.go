package setup

import (
	"github.com/LavaJover/shvark-escrow-service/internal/usecase"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/auction"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/dispute"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/listing"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/review"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/transaction"
)

type UseCases struct {
	ListingUsecase     *listing.DefaultListingUsecase
	AuctionUsecase     *auction.DefaultAuctionUsecase
	TransactionUsecase *transaction.DefaultTransactionUsecase
	DisputeUsecase     *dispute.DefaultDisputeUsecase
	ReviewUsecase      *review.DefaultReviewUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	cfg := deps.Config
	runner := usecase.NewRunner(deps.Store, deps.Notifier, deps.Events, deps.Metrics)

	transactionUsecase := transaction.NewDefaultTransactionUsecase(
		runner,
		deps.Profiles,
		deps.Gateway,
		deps.Banks,
		transaction.Settings{
			FeePercentage:     cfg.Escrow.FeePercentage,
			PaymentExpiry:     cfg.Escrow.PaymentExpiry(),
			VerificationHours: cfg.Escrow.VerificationPeriodHours,
			AutoComplete:      cfg.Escrow.AutoCompleteOnDeadline,
			SuccessURL:        cfg.Gateway.SuccessURL,
			FailureURL:        cfg.Gateway.FailureURL,
			SweepBatchSize:    cfg.Scheduler.BatchSize,
		},
	)

	return &UseCases{
		ListingUsecase:     listing.NewDefaultListingUsecase(runner),
		AuctionUsecase:     auction.NewDefaultAuctionUsecase(runner, transactionUsecase, cfg.Scheduler.BatchSize),
		TransactionUsecase: transactionUsecase,
		DisputeUsecase:     dispute.NewDefaultDisputeUsecase(runner, transactionUsecase, deps.Banks, cfg.Escrow.MaxEvidencePerUploader),
		ReviewUsecase:      review.NewDefaultReviewUsecase(runner),
	}
}
