package domain

import (
	"errors"
	"testing"
)

func TestDisputeResolve(t *testing.T) {
	cases := []struct {
		name       string
		resolution DisputeResolution
		refund     int64
		wantRefund int64
		wantCode   string
	}{
		{name: "full refund ignores amount", resolution: ResolutionFullRefund, refund: 1, wantRefund: 100000},
		{name: "no refund zeroes amount", resolution: ResolutionNoRefund, refund: 5000, wantRefund: 0},
		{name: "partial refund", resolution: ResolutionPartialRefund, refund: 40000, wantRefund: 40000},
		{name: "partial refund of zero", resolution: ResolutionPartialRefund, refund: 0, wantCode: CodeInvalidRefundAmount},
		{name: "partial refund of everything", resolution: ResolutionPartialRefund, refund: 100000, wantCode: CodeInvalidRefundAmount},
		{name: "unknown resolution", resolution: "SPLIT", wantCode: CodeInvalidResolution},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &Dispute{ID: "d1", TransactionID: "tx-1", InitiatorID: "buyer", Status: DisputeOpen}
			fx, err := d.Resolve("admin", tc.resolution, tc.refund, 100000, "note", testNow)
			if tc.wantCode != "" {
				de, ok := AsError(err)
				if !ok || de.Code != tc.wantCode {
					t.Fatalf("expected %s, got %v", tc.wantCode, err)
				}
				if d.Status != DisputeOpen {
					t.Fatalf("rejected resolution must not change status, got %s", d.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if d.Status != DisputeResolved || d.RefundAmount != tc.wantRefund || d.ResolvedBy != "admin" || d.ResolvedAt == nil {
				t.Fatalf("unexpected dispute after resolve: %+v", d)
			}
			if len(fx.Audit) != 1 || fx.Audit[0].Action != AuditDisputeResolved {
				t.Fatalf("expected resolution audit entry, got %+v", fx.Audit)
			}
		})
	}
}

func TestDisputeResolveTwice(t *testing.T) {
	d := &Dispute{ID: "d1", Status: DisputeOpen}
	if _, err := d.Resolve("admin", ResolutionNoRefund, 0, 100000, "", testNow); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := d.Resolve("admin", ResolutionFullRefund, 0, 100000, "", testNow); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected second resolution to conflict, got %v", err)
	}
}

func TestDisputeMarkUnderReview(t *testing.T) {
	d := &Dispute{ID: "d1", Status: DisputeOpen}
	if _, err := d.MarkUnderReview("admin", testNow); err != nil {
		t.Fatalf("MarkUnderReview: %v", err)
	}
	if d.Status != DisputeUnderReview || !d.IsActive() {
		t.Fatalf("expected active UNDER_REVIEW dispute, got %s", d.Status)
	}
	if _, err := d.MarkUnderReview("admin", testNow); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected second review to fail, got %v", err)
	}
	if _, err := d.Resolve("admin", ResolutionFullRefund, 0, 100000, "", testNow); err != nil {
		t.Fatalf("resolve from review: %v", err)
	}
}

func TestEvidenceNotifiesCounterparty(t *testing.T) {
	tx := newTestTransaction(StatusDisputed)
	d := &Dispute{ID: "d1", TransactionID: tx.ID, Status: DisputeOpen}

	fromBuyer := &Evidence{ID: "e1", DisputeID: d.ID, UploaderID: "buyer"}
	if fx := fromBuyer.Added(d, tx, testNow); fx.Notifications[0].UserID != "seller" {
		t.Fatalf("buyer evidence should notify seller, got %s", fx.Notifications[0].UserID)
	}
	fromSeller := &Evidence{ID: "e2", DisputeID: d.ID, UploaderID: "seller"}
	if fx := fromSeller.Added(d, tx, testNow); fx.Notifications[0].UserID != "buyer" {
		t.Fatalf("seller evidence should notify buyer, got %s", fx.Notifications[0].UserID)
	}
}

func TestUserRatingAverage(t *testing.T) {
	var r UserRating
	for _, v := range []int{5, 4, 3} {
		r.Add(v, testNow)
	}
	if r.RatingCount != 3 || r.Average != 4 {
		t.Fatalf("expected 3 ratings averaging 4, got %d / %v", r.RatingCount, r.Average)
	}
	if err := ValidateRating(0); err == nil {
		t.Fatalf("expected rating 0 to be rejected")
	}
	if err := ValidateRating(6); err == nil {
		t.Fatalf("expected rating 6 to be rejected")
	}
}
