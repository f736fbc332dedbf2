package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/audit"
)

// AuditLogModel is one audit row
type AuditLogModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Action     audit.Action   `gorm:"type:varchar(20);not null"`
	Collection string         `gorm:"type:varchar(50);not null;index"`
	RecordID   uuid.UUID      `gorm:"type:uuid;not null"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null"`
	Details    map[string]any `gorm:"type:text;serializer:json"`
	CreatedAt  time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain Entry
func (m *AuditLogModel) ToDomain() audit.Entry {
	return audit.Entry{
		ID:         m.ID,
		Action:     m.Action,
		Collection: m.Collection,
		RecordID:   m.RecordID,
		UserID:     m.UserID,
		Details:    m.Details,
		CreatedAt:  m.CreatedAt,
	}
}
