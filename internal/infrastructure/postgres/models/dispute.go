package models

import (
	"time"
)

type DisputeModel struct {
	ID            string `gorm:"primaryKey"`
	TransactionID string `gorm:"uniqueIndex;not null"`
	InitiatorID   string `gorm:"not null"`
	Category      string `gorm:"not null"`
	Description   string
	Status        string `gorm:"index;not null"`
	Resolution    string
	RefundAmount  int64
	AdminNote     string
	ResolvedBy    string
	ResolvedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (DisputeModel) TableName() string { return "disputes" }

type EvidenceModel struct {
	ID         string `gorm:"primaryKey"`
	DisputeID  string `gorm:"index:idx_evidence_uploader;not null"`
	UploaderID string `gorm:"index:idx_evidence_uploader;not null"`
	FileURL    string `gorm:"not null"`
	FileType   string
	Note       string
	CreatedAt  time.Time
}

func (EvidenceModel) TableName() string { return "dispute_evidence" }
