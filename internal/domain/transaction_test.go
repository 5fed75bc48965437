package domain

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestTransaction(status TransactionStatus) *Transaction {
	fee, payout := ComputeFees(100000, 0.05)
	return &Transaction{
		ID:           "tx-1",
		Reference:    "ESC-TEST000001",
		ListingID:    "listing-1",
		BuyerID:      "buyer",
		SellerID:     "seller",
		Source:       SourcePurchase,
		Amount:       100000,
		PlatformFee:  fee,
		SellerPayout: payout,
		Status:       status,
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
}

func TestCanTransition(t *testing.T) {
	all := []TransactionStatus{
		StatusPendingPayment, StatusPaid, StatusItemTransferred,
		StatusCompleted, StatusCancelled, StatusDisputed, StatusRefunded,
	}
	allowed := map[[2]TransactionStatus]bool{
		{StatusPendingPayment, StatusPaid}:       true,
		{StatusPendingPayment, StatusCancelled}:  true,
		{StatusPaid, StatusItemTransferred}:      true,
		{StatusItemTransferred, StatusCompleted}: true,
		{StatusItemTransferred, StatusDisputed}:  true,
		{StatusDisputed, StatusCompleted}:        true,
		{StatusDisputed, StatusRefunded}:         true,
	}
	for _, from := range all {
		for _, to := range all {
			if got := CanTransition(from, to); got != allowed[[2]TransactionStatus{from, to}] {
				t.Fatalf("CanTransition(%s, %s) = %v", from, to, got)
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []TransactionStatus{StatusCompleted, StatusCancelled, StatusRefunded} {
		if !s.IsTerminal() || s.HoldsListing() {
			t.Fatalf("%s should be terminal and release the listing", s)
		}
		if len(AllowedTransitions[s]) != 0 {
			t.Fatalf("%s should have no outgoing transitions", s)
		}
	}
	for _, s := range []TransactionStatus{StatusPendingPayment, StatusPaid, StatusItemTransferred, StatusDisputed} {
		if s.IsTerminal() || !s.HoldsListing() {
			t.Fatalf("%s should hold the listing", s)
		}
	}
}

func TestMarkTransferredOpensVerificationWindow(t *testing.T) {
	tx := newTestTransaction(StatusPaid)

	if _, err := tx.MarkTransferred("buyer", "", testNow, 24); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for buyer, got %v", err)
	}

	fx, err := tx.MarkTransferred("seller", "https://proof.local/1.png", testNow, 24)
	if err != nil {
		t.Fatalf("MarkTransferred: %v", err)
	}
	if tx.Status != StatusItemTransferred {
		t.Fatalf("expected ITEM_TRANSFERRED, got %s", tx.Status)
	}
	if tx.VerificationDeadline == nil || !tx.VerificationDeadline.Equal(testNow.Add(24*time.Hour)) {
		t.Fatalf("unexpected deadline %v", tx.VerificationDeadline)
	}
	if len(fx.Audit) != 1 || fx.Audit[0].Action != AuditItemTransferred {
		t.Fatalf("expected one item_transferred audit entry, got %+v", fx.Audit)
	}
	if len(fx.Notifications) != 1 || fx.Notifications[0].UserID != "buyer" {
		t.Fatalf("expected buyer notification, got %+v", fx.Notifications)
	}
}

func TestCompletedOnlyThroughItemTransferred(t *testing.T) {
	for _, s := range []TransactionStatus{StatusPendingPayment, StatusPaid} {
		tx := newTestTransaction(s)
		if _, err := tx.ConfirmReceived("buyer", testNow); !errors.Is(err, ErrPreconditionFailed) {
			t.Fatalf("confirm from %s: expected precondition failure, got %v", s, err)
		}
	}

	tx := newTestTransaction(StatusItemTransferred)
	if _, err := tx.ConfirmReceived("seller", testNow); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected seller to be rejected, got %v", err)
	}
	if _, err := tx.ConfirmReceived("buyer", testNow); err != nil {
		t.Fatalf("ConfirmReceived: %v", err)
	}
	if tx.Status != StatusCompleted || tx.CompletedAt == nil {
		t.Fatalf("expected completed transaction, got %s", tx.Status)
	}
}

func TestAutoVerifyRequiresExpiredWindow(t *testing.T) {
	tx := newTestTransaction(StatusPaid)
	if _, err := tx.MarkTransferred("seller", "", testNow, 24); err != nil {
		t.Fatalf("MarkTransferred: %v", err)
	}

	deadline := *tx.VerificationDeadline
	if _, err := tx.AutoVerify(deadline); err == nil {
		t.Fatalf("expected auto-verify at the deadline to be rejected")
	}
	fx, err := tx.AutoVerify(deadline.Add(time.Second))
	if err != nil {
		t.Fatalf("AutoVerify: %v", err)
	}
	if tx.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", tx.Status)
	}
	if fx.Audit[0].Action != AuditAutoVerified || fx.Audit[0].ActorID != SystemActor {
		t.Fatalf("expected system auto_verified audit, got %+v", fx.Audit[0])
	}
}

func TestDisputeWindowIsInclusive(t *testing.T) {
	tx := newTestTransaction(StatusPaid)
	if _, err := tx.MarkTransferred("seller", "", testNow, 24); err != nil {
		t.Fatalf("MarkTransferred: %v", err)
	}
	deadline := *tx.VerificationDeadline

	late := *tx
	if _, err := late.OpenDispute("buyer", deadline.Add(time.Nanosecond)); err == nil {
		t.Fatalf("expected dispute after deadline to be rejected")
	} else if de, _ := AsError(err); de.Code != CodeDisputeWindowClosed {
		t.Fatalf("expected %s, got %s", CodeDisputeWindowClosed, de.Code)
	}

	if _, err := tx.OpenDispute("seller", deadline); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected seller to be rejected, got %v", err)
	}
	if _, err := tx.OpenDispute("buyer", deadline); err != nil {
		t.Fatalf("OpenDispute at deadline: %v", err)
	}
	if tx.Status != StatusDisputed {
		t.Fatalf("expected DISPUTED, got %s", tx.Status)
	}
}

func TestCancelOnlyFromPendingPayment(t *testing.T) {
	tx := newTestTransaction(StatusPendingPayment)
	fx, err := tx.Cancel("buyer", testNow)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(fx.Notifications) != 2 {
		t.Fatalf("expected buyer and seller notifications, got %d", len(fx.Notifications))
	}

	paid := newTestTransaction(StatusPaid)
	if _, err := paid.Cancel("buyer", testNow); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected paid transaction cancel to fail, got %v", err)
	}

	other := newTestTransaction(StatusPendingPayment)
	if _, err := other.Cancel("stranger", testNow); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected stranger cancel to be forbidden, got %v", err)
	}
	if _, err := other.Cancel(SystemActor, testNow); err != nil {
		t.Fatalf("system cancel: %v", err)
	}
}
