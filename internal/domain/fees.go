package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ComputeFees splits amount into platform fee and seller payout.
// feePercentage is a fraction in [0,1], validated by config.
// Payout is derived by subtraction so fee+payout == amount exactly.
func ComputeFees(amount int64, feePercentage float64) (platformFee, sellerPayout int64) {
	fee := decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(feePercentage)).
		Round(0).
		IntPart()
	return fee, amount - fee
}

// VerificationDeadline is the end of the buyer's verification window.
func VerificationDeadline(from time.Time, hours int) time.Time {
	return from.Add(time.Duration(hours) * time.Hour)
}

func formatIDR(amount int64) string {
	return "IDR " + strconv.FormatInt(amount, 10)
}
