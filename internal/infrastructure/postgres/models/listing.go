package models

import "time"

type ListingModel struct {
	ID            string `gorm:"primaryKey"`
	SellerID      string `gorm:"index;not null"`
	Title         string `gorm:"not null"`
	Description   string
	GameName      string
	Type          string `gorm:"not null"`
	Status        string `gorm:"index;not null"`
	Price         int64
	StartingBid   int64
	CurrentBid    int64
	BidIncrement  int64
	BuyNowPrice   int64
	AuctionEndsAt *time.Time `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ListingModel) TableName() string { return "listings" }

type BidModel struct {
	ID        string `gorm:"primaryKey"`
	ListingID string `gorm:"index;not null"`
	BidderID  string `gorm:"not null"`
	Amount    int64  `gorm:"not null"`
	CreatedAt time.Time
}

func (BidModel) TableName() string { return "bids" }
