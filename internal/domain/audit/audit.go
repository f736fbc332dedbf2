// Package audit records who changed what inside a society.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action performed on a record
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry is one audit log row
type Entry struct {
	ID         uuid.UUID
	Action     Action
	Collection string
	RecordID   uuid.UUID
	UserID     uuid.UUID
	Details    map[string]any
	CreatedAt  time.Time
}

// NewEntry stamps a new entry
func NewEntry(action Action, collection string, recordID, userID uuid.UUID, details map[string]any) *Entry {
	return &Entry{
		ID:         uuid.New(),
		Action:     action,
		Collection: collection,
		RecordID:   recordID,
		UserID:     userID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
}

// Repository persists audit entries
type Repository interface {
	Record(ctx context.Context, e *Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
}
