package domain

import (
	"math/rand"
	"testing"
	"time"
)

func TestComputeFees(t *testing.T) {
	cases := []struct {
		amount     int64
		percentage float64
		fee        int64
		payout     int64
	}{
		{amount: 100000, percentage: 0.05, fee: 5000, payout: 95000},
		{amount: 0, percentage: 0.05, fee: 0, payout: 0},
		{amount: 99, percentage: 0.05, fee: 5, payout: 94},
		{amount: 10, percentage: 0.05, fee: 1, payout: 9},
		{amount: 250000, percentage: 0, fee: 0, payout: 250000},
		{amount: 250000, percentage: 1, fee: 250000, payout: 0},
	}
	for _, tc := range cases {
		fee, payout := ComputeFees(tc.amount, tc.percentage)
		if fee != tc.fee || payout != tc.payout {
			t.Fatalf("ComputeFees(%d, %v) = (%d, %d), want (%d, %d)",
				tc.amount, tc.percentage, fee, payout, tc.fee, tc.payout)
		}
	}
}

func TestComputeFeesAlwaysSumsToAmount(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		amount := rng.Int63n(1_000_000_000)
		percentage := rng.Float64()
		fee, payout := ComputeFees(amount, percentage)
		if fee+payout != amount {
			t.Fatalf("fee %d + payout %d != amount %d (pct %v)", fee, payout, amount, percentage)
		}
		if fee < 0 || payout < 0 {
			t.Fatalf("negative split for amount %d pct %v: fee %d payout %d", amount, percentage, fee, payout)
		}
	}
}

func TestVerificationDeadline(t *testing.T) {
	from := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	got := VerificationDeadline(from, 24)
	if want := from.Add(24 * time.Hour); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
