package models

import "time"

type TransactionModel struct {
	ID                   string `gorm:"primaryKey"`
	Reference            string `gorm:"uniqueIndex;not null"`
	ListingID            string `gorm:"index;not null"`
	BuyerID              string `gorm:"index;not null"`
	SellerID             string `gorm:"index;not null"`
	Source               string `gorm:"not null"`
	PaymentMethod        string
	Amount               int64   `gorm:"not null"`
	PlatformFee          int64   `gorm:"not null"`
	SellerPayout         int64   `gorm:"not null"`
	FeePercentage        float64 `gorm:"not null"`
	Status               string  `gorm:"index;not null"`
	ItemTransferredAt    *time.Time
	VerificationDeadline *time.Time `gorm:"index"`
	CompletedAt          *time.Time
	CancelledAt          *time.Time
	TransferProofURL     string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (TransactionModel) TableName() string { return "transactions" }

type PaymentModel struct {
	ID                string `gorm:"primaryKey"`
	TransactionID     string `gorm:"index;not null"`
	ExternalInvoiceID string `gorm:"uniqueIndex;not null"`
	InvoiceURL        string
	Amount            int64     `gorm:"not null"`
	Status            string    `gorm:"index;not null"`
	ExpiresAt         time.Time `gorm:"index;not null"`
	PaidAt            *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (PaymentModel) TableName() string { return "payments" }

type PayoutModel struct {
	ID            string `gorm:"primaryKey"`
	TransactionID string `gorm:"uniqueIndex;not null"`
	SellerID      string `gorm:"index;not null"`
	BankAccountID string `gorm:"not null"`
	Amount        int64  `gorm:"not null"`
	Status        string `gorm:"not null"`
	CreatedAt     time.Time
}

func (PayoutModel) TableName() string { return "payouts" }
