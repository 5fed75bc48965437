package models

import "time"

// AuditLogModel rows are append-only; ID is a ULID.
type AuditLogModel struct {
	ID         string `gorm:"primaryKey"`
	EntityType string `gorm:"index:idx_audit_entity;not null"`
	EntityID   string `gorm:"index:idx_audit_entity;not null"`
	Action     string `gorm:"not null"`
	ActorID    string `gorm:"not null"`
	OldValue   []byte `gorm:"type:jsonb"`
	NewValue   []byte `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (AuditLogModel) TableName() string { return "audit_logs" }
