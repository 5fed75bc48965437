package models

import "time"

type ReviewModel struct {
	ID            string `gorm:"primaryKey"`
	TransactionID string `gorm:"uniqueIndex:idx_review_once;not null"`
	ReviewerID    string `gorm:"uniqueIndex:idx_review_once;not null"`
	RevieweeID    string `gorm:"index;not null"`
	Rating        int    `gorm:"not null"`
	Comment       string
	CreatedAt     time.Time
}

func (ReviewModel) TableName() string { return "reviews" }

type UserRatingModel struct {
	UserID      string `gorm:"primaryKey"`
	RatingSum   int64
	RatingCount int64
	Average     float64
	UpdatedAt   time.Time
}

func (UserRatingModel) TableName() string { return "user_ratings" }
