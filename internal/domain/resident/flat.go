package resident

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyhub/backend/internal/domain/shared"
)

// FlatStatus tracks occupancy
type FlatStatus string

const (
	FlatVacant   FlatStatus = "vacant"
	FlatOccupied FlatStatus = "occupied"
)

// Flat is a unit inside a society
type Flat struct {
	ID         uuid.UUID
	FlatNumber string
	OwnerID    *uuid.UUID
	TenantID   *uuid.UUID
	AreaSqFt   decimal.Decimal
	Tower      string
	Floor      string
	Block      string
	Status     FlatStatus
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewFlat builds a vacant flat
func NewFlat(flatNumber string, area decimal.Decimal) (*Flat, error) {
	flatNumber = strings.TrimSpace(flatNumber)
	if flatNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Flat number is required")
	}
	if area.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Area cannot be negative")
	}
	now := time.Now()
	return &Flat{
		ID:         uuid.New(),
		FlatNumber: flatNumber,
		AreaSqFt:   area,
		Status:     FlatVacant,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Occupants returns the owner and tenant, whichever are set
func (f *Flat) Occupants() []uuid.UUID {
	ids := make([]uuid.UUID, 0, 2)
	if f.OwnerID != nil {
		ids = append(ids, *f.OwnerID)
	}
	if f.TenantID != nil {
		ids = append(ids, *f.TenantID)
	}
	return ids
}

// Assign places a resident in the flat for the given role. It fails when the
// slot is already taken.
func (f *Flat) Assign(role Role, userID uuid.UUID) error {
	switch role {
	case RoleOwner:
		if f.OwnerID != nil {
			return shared.NewDomainError("ALREADY_EXISTS", "This flat already has an owner")
		}
		f.OwnerID = &userID
	case RoleTenant:
		if f.TenantID != nil {
			return shared.NewDomainError("ALREADY_EXISTS", "This flat already has a tenant")
		}
		f.TenantID = &userID
	default:
		return shared.NewDomainError("INVALID_INPUT", "Only owner or tenant can be assigned to a flat")
	}
	f.Status = FlatOccupied
	f.UpdatedAt = time.Now()
	return nil
}

// HistoryKind distinguishes ownership from tenancy history
type HistoryKind string

const (
	HistoryOwnership HistoryKind = "ownership"
	HistoryTenancy   HistoryKind = "tenancy"
)

// OccupancyRecord is one closed or open period of a resident in a flat
type OccupancyRecord struct {
	ID        uuid.UUID
	Kind      HistoryKind
	FlatID    uuid.UUID
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   *time.Time
	Reason    string
	AddedBy   *uuid.UUID
}
