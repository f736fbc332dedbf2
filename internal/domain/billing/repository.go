package billing

import (
	"context"

	"github.com/google/uuid"
)

// MaintenanceFilter narrows maintenance listings
type MaintenanceFilter struct {
	FlatIDs []uuid.UUID
	Year    int
	Month   int
	// SortBy names a column: due_date, amount, status or created_at.
	// Unknown columns fall back to due_date.
	SortBy  string
	SortDir string
}

// MaintenanceRepository persists charges
type MaintenanceRepository interface {
	Create(ctx context.Context, m *Maintenance) error
	// Update saves a charge. The slip number is written only by AttachSlip.
	Update(ctx context.Context, m *Maintenance) error
	// TransitionStatus moves a charge from one status to another only when
	// it is currently in from, and reports whether this call moved it.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)
	// AttachSlip stores slip on a charge that carries none and reports
	// whether it did.
	AttachSlip(ctx context.Context, id uuid.UUID, slip string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Maintenance, error)
	List(ctx context.Context, filter MaintenanceFilter) ([]Maintenance, error)
}

// SlipFilter narrows slip listings
type SlipFilter struct {
	SocietyID uuid.UUID
	FlatIDs   []uuid.UUID
	Year      int
	Month     int
}

// SlipRepository persists issued receipts
type SlipRepository interface {
	Create(ctx context.Context, s *Slip) error
	List(ctx context.Context, filter SlipFilter) ([]Slip, error)
}
