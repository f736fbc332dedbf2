// Package notification models in-app notifications and the recipient rules
// used to fan an event out to users of a society.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/shared"
)

// Category classifies a notification
type Category string

const (
	CategoryMaintenance      Category = "maintenance"
	CategoryAnnouncement     Category = "announcement"
	CategoryComplaintCreated Category = "complaint_created"
	CategoryComplaintComment Category = "complaint_comment"
	CategoryComplaintStatus  Category = "complaint_status"
)

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	switch c {
	case CategoryMaintenance, CategoryAnnouncement, CategoryComplaintCreated,
		CategoryComplaintComment, CategoryComplaintStatus:
		return true
	}
	return false
}

// RetentionPeriod is how long a notification is kept after creation.
// Nothing in this service deletes expired rows; created_at is indexed so an
// external job can.
const RetentionPeriod = 60 * 24 * time.Hour

// Ref points at the entity a notification is about
type Ref struct {
	ComplaintID   *uuid.UUID `json:"complaint_id,omitempty"`
	MaintenanceID *uuid.UUID `json:"maintenance_id,omitempty"`
}

// Notification is one record delivered to one user
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Category  Category
	Title     string
	Message   string
	Ref       Ref
	IsRead    bool
	CreatedAt time.Time
}

// ExpiresAt returns the end of the retention window
func (n *Notification) ExpiresAt() time.Time {
	return n.CreatedAt.Add(RetentionPeriod)
}

// Event is something that happened in a society that users should hear about
type Event struct {
	// Society is the tenant identifier the event belongs to.
	Society  string
	Actor    uuid.UUID
	Category Category
	Title    string
	Message  string
	Ref      Ref
}

// Validate checks the event is deliverable
func (e Event) Validate() error {
	if e.Society == "" {
		return shared.ErrSocietyRequired
	}
	if !e.Category.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown notification category")
	}
	if e.Title == "" {
		return shared.NewDomainError("INVALID_INPUT", "Notification title is required")
	}
	return nil
}

// Repository persists notifications in a society store
type Repository interface {
	// CreateBatch writes all records in a single statement.
	CreateBatch(ctx context.Context, records []Notification) error
	Create(ctx context.Context, n *Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}
