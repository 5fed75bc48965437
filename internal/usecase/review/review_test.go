package review_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	reviewdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/review"
	transactiondto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/transaction"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/usecasetest"
)

const (
	seller = "seller-1"
	buyer  = "buyer-1"
)

func TestReviewsAfterCompletion(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t, usecasetest.Options{})
	h.Users.SetVerified(buyer, true)
	listing := h.ActiveFixedListing(t, seller, 100000)

	created, err := h.Transactions.CreateTransaction(ctx, &transactiondto.CreateTransactionInput{ListingID: listing.ID, BuyerID: buyer})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	txID := created.Transaction.ID

	_, err = h.Reviews.CreateReview(ctx, &reviewdto.CreateReviewInput{TransactionID: txID, ReviewerID: buyer, Rating: 5})
	if !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Fatalf("expected review before completion to fail, got %v", err)
	}

	if _, err := h.Transactions.MarkPaid(ctx, created.Payment.ID); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if _, err := h.Transactions.MarkTransferred(ctx, &transactiondto.MarkTransferredInput{TransactionID: txID, SellerID: seller}); err != nil {
		t.Fatalf("MarkTransferred: %v", err)
	}
	if _, err := h.Transactions.ConfirmReceived(ctx, txID, buyer); err != nil {
		t.Fatalf("ConfirmReceived: %v", err)
	}

	if _, err := h.Reviews.CreateReview(ctx, &reviewdto.CreateReviewInput{TransactionID: txID, ReviewerID: buyer, Rating: 6}); usecasetest.Code(err) != domain.CodeInvalidRating {
		t.Fatalf("expected INVALID_RATING, got %v", err)
	}
	if _, err := h.Reviews.CreateReview(ctx, &reviewdto.CreateReviewInput{TransactionID: txID, ReviewerID: "stranger", Rating: 4}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected stranger to be forbidden, got %v", err)
	}

	out, err := h.Reviews.CreateReview(ctx, &reviewdto.CreateReviewInput{TransactionID: txID, ReviewerID: buyer, Rating: 5, Comment: "fast transfer"})
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if out.Review.RevieweeID != seller || out.Rating.RatingCount != 1 || out.Rating.Average != 5 {
		t.Fatalf("unexpected review outcome %+v / %+v", out.Review, out.Rating)
	}

	_, err = h.Reviews.CreateReview(ctx, &reviewdto.CreateReviewInput{TransactionID: txID, ReviewerID: buyer, Rating: 1})
	if usecasetest.Code(err) != domain.CodeReviewExists {
		t.Fatalf("expected REVIEW_EXISTS, got %v", err)
	}

	if _, err := h.Reviews.CreateReview(ctx, &reviewdto.CreateReviewInput{TransactionID: txID, ReviewerID: seller, Rating: 4}); err != nil {
		t.Fatalf("seller review: %v", err)
	}

	reviews, rating, err := h.Reviews.ListUserReviews(ctx, seller)
	if err != nil {
		t.Fatalf("ListUserReviews: %v", err)
	}
	if len(reviews) != 1 || rating.Average != 5 {
		t.Fatalf("expected one 5-star review for seller, got %d / %v", len(reviews), rating.Average)
	}
	_, buyerRating, err := h.Reviews.ListUserReviews(ctx, buyer)
	if err != nil || buyerRating.RatingCount != 1 || buyerRating.Average != 4 {
		t.Fatalf("expected buyer rated 4, got %+v, %v", buyerRating, err)
	}
}

// completedPurchase runs a fixed-price purchase by buyerID through to completion.
func completedPurchase(t *testing.T, h *usecasetest.Harness, buyerID string) string {
	t.Helper()
	ctx := context.Background()
	listing := h.ActiveFixedListing(t, seller, 50000)
	created, err := h.Transactions.CreateTransaction(ctx, &transactiondto.CreateTransactionInput{ListingID: listing.ID, BuyerID: buyerID})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	txID := created.Transaction.ID
	if _, err := h.Transactions.MarkPaid(ctx, created.Payment.ID); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if _, err := h.Transactions.MarkTransferred(ctx, &transactiondto.MarkTransferredInput{TransactionID: txID, SellerID: seller}); err != nil {
		t.Fatalf("MarkTransferred: %v", err)
	}
	if _, err := h.Transactions.ConfirmReceived(ctx, txID, buyerID); err != nil {
		t.Fatalf("ConfirmReceived: %v", err)
	}
	return txID
}

func TestConcurrentFirstReviewsAreAllCounted(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t, usecasetest.Options{})
	h.Users.AllVerified = true

	ratings := map[string]int{"buyer-a": 5, "buyer-b": 3, "buyer-c": 4}
	txs := make(map[string]string, len(ratings))
	for buyerID := range ratings {
		txs[buyerID] = completedPurchase(t, h, buyerID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(ratings))
	for buyerID, rating := range ratings {
		wg.Add(1)
		go func(buyerID string, rating int) {
			defer wg.Done()
			_, err := h.Reviews.CreateReview(ctx, &reviewdto.CreateReviewInput{TransactionID: txs[buyerID], ReviewerID: buyerID, Rating: rating})
			errs <- err
		}(buyerID, rating)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("CreateReview: %v", err)
		}
	}

	reviews, rating, err := h.Reviews.ListUserReviews(ctx, seller)
	if err != nil {
		t.Fatalf("ListUserReviews: %v", err)
	}
	if len(reviews) != 3 || rating.RatingCount != 3 || rating.RatingSum != 12 || rating.Average != 4 {
		t.Fatalf("expected 3 reviews averaging 4, got %d reviews, %+v", len(reviews), rating)
	}
}
