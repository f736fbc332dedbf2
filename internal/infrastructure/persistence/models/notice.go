package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/notice"
)

// NoticeModel is one user's copy of a notice
type NoticeModel struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey"`
	DispatchID uuid.UUID   `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID   `gorm:"type:uuid;not null;index"`
	Title      string      `gorm:"type:varchar(200);not null"`
	Message    string      `gorm:"type:text;not null"`
	Type       notice.Type `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (NoticeModel) TableName() string {
	return "notices"
}

// ToDomain converts the persistence model to a domain Notice
func (m *NoticeModel) ToDomain() notice.Notice {
	return notice.Notice{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Message:   m.Message,
		Type:      m.Type,
		CreatedAt: m.CreatedAt,
	}
}

// NoticeRegistryModel records a dispatched notice once
type NoticeRegistryModel struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey"`
	SentBy     uuid.UUID   `gorm:"type:uuid;not null"`
	Title      string      `gorm:"type:varchar(200);not null"`
	Message    string      `gorm:"type:text;not null"`
	Type       notice.Type `gorm:"type:varchar(20);not null"`
	Recipients []uuid.UUID `gorm:"type:text;serializer:json"`
	SentTo     int         `gorm:"not null;default:0"`
	CreatedAt  time.Time   `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (NoticeRegistryModel) TableName() string {
	return "notice_registries"
}

// ToDomain converts the persistence model to a domain Dispatch
func (m *NoticeRegistryModel) ToDomain() notice.Dispatch {
	return notice.Dispatch{
		ID:         m.ID,
		SentBy:     m.SentBy,
		Title:      m.Title,
		Message:    m.Message,
		Type:       m.Type,
		Recipients: m.Recipients,
		CreatedAt:  m.CreatedAt,
	}
}

// NoticeRegistryModelFromDomain creates a persistence model from a domain Dispatch
func NoticeRegistryModelFromDomain(d *notice.Dispatch) *NoticeRegistryModel {
	return &NoticeRegistryModel{
		ID:         d.ID,
		SentBy:     d.SentBy,
		Title:      d.Title,
		Message:    d.Message,
		Type:       d.Type,
		Recipients: d.Recipients,
		SentTo:     d.SentToCount(),
		CreatedAt:  d.CreatedAt,
	}
}
