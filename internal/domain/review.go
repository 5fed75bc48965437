package domain

import (
	"strconv"
	"time"
)

type Review struct {
	ID            string
	TransactionID string
	ReviewerID    string
	RevieweeID    string
	Rating        int
	Comment       string
	CreatedAt     time.Time
}

// UserRating is the running average kept per reviewed user.
type UserRating struct {
	UserID      string
	RatingSum   int64
	RatingCount int64
	Average     float64
	UpdatedAt   time.Time
}

func (r *UserRating) Add(rating int, now time.Time) {
	r.RatingSum += int64(rating)
	r.RatingCount++
	r.Average = float64(r.RatingSum) / float64(r.RatingCount)
	r.UpdatedAt = now
}

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return Precondition(CodeInvalidRating, "rating must be between 1 and 5")
	}
	return nil
}

func (r *Review) Created(tx *Transaction, now time.Time) Effects {
	var fx Effects
	fx.Record(NewAuditEntry("review", r.ID, AuditReviewCreated, r.ReviewerID, nil, r, now))
	fx.Notify(Notification{
		UserID: r.RevieweeID,
		Type:   NotifyReviewReceived,
		Title:  "New review",
		Body:   "You received a " + strconv.Itoa(r.Rating) + "-star review for order " + tx.Reference,
		Payload: map[string]string{
			"review_id":      r.ID,
			"transaction_id": tx.ID,
		},
	})
	return fx
}
