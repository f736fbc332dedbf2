package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/notification"
)

// NotificationModel is one delivered notification. created_at is indexed so
// expired rows can be purged by an external job.
type NotificationModel struct {
	ID            uuid.UUID             `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID             `gorm:"type:uuid;not null;index:idx_notification_user_read,priority:1"`
	Category      notification.Category `gorm:"column:type;type:varchar(30);not null"`
	Title         string                `gorm:"type:varchar(200);not null"`
	Message       string                `gorm:"type:text"`
	ComplaintID   *uuid.UUID            `gorm:"type:uuid"`
	MaintenanceID *uuid.UUID            `gorm:"type:uuid"`
	IsRead        bool                  `gorm:"not null;default:false;index:idx_notification_user_read,priority:2"`
	CreatedAt     time.Time             `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() notification.Notification {
	return notification.Notification{
		ID:       m.ID,
		UserID:   m.UserID,
		Category: m.Category,
		Title:    m.Title,
		Message:  m.Message,
		Ref: notification.Ref{
			ComplaintID:   m.ComplaintID,
			MaintenanceID: m.MaintenanceID,
		},
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

// NotificationModelFromDomain creates a persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	return &NotificationModel{
		ID:            n.ID,
		UserID:        n.UserID,
		Category:      n.Category,
		Title:         n.Title,
		Message:       n.Message,
		ComplaintID:   n.Ref.ComplaintID,
		MaintenanceID: n.Ref.MaintenanceID,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
	}
}
