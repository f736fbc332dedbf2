// Package notice covers notices pushed by admins to residents.
package notice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/shared"
)

// Type of a notice
type Type string

const (
	TypeGeneral     Type = "general"
	TypeEvent       Type = "event"
	TypeMaintenance Type = "maintenance"
	TypeMeeting     Type = "meeting"
)

// ParseType normalizes a requested type, defaulting to general
func ParseType(v string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(v)))
	switch t {
	case "":
		return TypeGeneral, nil
	case TypeGeneral, TypeEvent, TypeMaintenance, TypeMeeting:
		return t, nil
	}
	return "", shared.NewDomainError("INVALID_INPUT", "Unknown notice type")
}

// IsTargeted reports whether the type goes to a single user rather than
// every resident
func (t Type) IsTargeted() bool {
	return t == TypeMaintenance
}

// NotificationTitle is the title of the announcement that accompanies a notice
func (t Type) NotificationTitle() string {
	switch t {
	case TypeMeeting:
		return "New meeting notice"
	case TypeMaintenance:
		return "Maintenance notice"
	default:
		return "New announcement"
	}
}

// UpdatedTitle is the title of the announcement sent when a notice is
// edited and re-sent
func (t Type) UpdatedTitle() string {
	switch t {
	case TypeMeeting:
		return "Meeting notice updated"
	case TypeMaintenance:
		return "Maintenance notice updated"
	default:
		return "Announcement updated"
	}
}

// Notice is one user's copy of a notice
type Notice struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Message   string
	Type      Type
	CreatedAt time.Time
}

// Dispatch records a notice once, with its recipients
type Dispatch struct {
	ID         uuid.UUID
	SentBy     uuid.UUID
	Title      string
	Message    string
	Type       Type
	Recipients []uuid.UUID
	CreatedAt  time.Time
}

// SentToCount returns the number of recipients
func (d *Dispatch) SentToCount() int {
	return len(d.Recipients)
}

// Repository persists notices and the dispatch registry
type Repository interface {
	// Send writes one notice per recipient and the dispatch record together.
	Send(ctx context.Context, d *Dispatch) error
	// Resend replaces the notices of an existing dispatch with one per
	// current recipient and rewrites the dispatch record.
	Resend(ctx context.Context, d *Dispatch) error
	FindDispatch(ctx context.Context, id uuid.UUID) (*Dispatch, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Notice, error)
	// ListAll returns every user's copy, newest first.
	ListAll(ctx context.Context) ([]Notice, error)
	Registry(ctx context.Context) ([]Dispatch, error)
	// Delete removes a dispatch and the notices it produced.
	Delete(ctx context.Context, dispatchID uuid.UUID) error
}
