package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/notification"
)

// NotificationResponse is the API view of a notification
type NotificationResponse struct {
	ID            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	ComplaintID   *uuid.UUID `json:"complaint_id,omitempty"`
	MaintenanceID *uuid.UUID `json:"maintenance_id,omitempty"`
	IsRead        bool       `json:"is_read"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToNotificationResponse converts a domain notification
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            n.ID,
		Type:          string(n.Category),
		Title:         n.Title,
		Message:       n.Message,
		ComplaintID:   n.Ref.ComplaintID,
		MaintenanceID: n.Ref.MaintenanceID,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
	}
}
