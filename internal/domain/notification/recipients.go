package notification

import (
	"time"

	"github.com/google/uuid"
)

// RecipientSet accumulates recipients for one event. Membership absorbs
// duplicates, the actor is never admitted, and insertion order is kept so
// writes are deterministic.
type RecipientSet struct {
	actor uuid.UUID
	seen  map[uuid.UUID]struct{}
	order []uuid.UUID
}

// NewRecipientSet creates an empty set excluding actor
func NewRecipientSet(actor uuid.UUID) *RecipientSet {
	return &RecipientSet{
		actor: actor,
		seen:  make(map[uuid.UUID]struct{}),
	}
}

// Add admits ids not yet present and returns how many were added
func (s *RecipientSet) Add(ids ...uuid.UUID) int {
	added := 0
	for _, id := range ids {
		if id == uuid.Nil || id == s.actor {
			continue
		}
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.order = append(s.order, id)
		added++
	}
	return added
}

// Contains reports membership
func (s *RecipientSet) Contains(id uuid.UUID) bool {
	_, ok := s.seen[id]
	return ok
}

// Len returns the number of recipients
func (s *RecipientSet) Len() int {
	return len(s.order)
}

// IDs returns recipients in insertion order
func (s *RecipientSet) IDs() []uuid.UUID {
	out := make([]uuid.UUID, len(s.order))
	copy(out, s.order)
	return out
}

// Records builds one unread notification per recipient
func (s *RecipientSet) Records(e Event, now time.Time) []Notification {
	records := make([]Notification, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, Notification{
			ID:        uuid.New(),
			UserID:    id,
			Category:  e.Category,
			Title:     e.Title,
			Message:   e.Message,
			Ref:       e.Ref,
			CreatedAt: now,
		})
	}
	return records
}
