package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyhub/backend/internal/domain/resident"
)

// CreateFlatInput describes a new flat
type CreateFlatInput struct {
	FlatNumber string
	AreaSqFt   decimal.Decimal
	Tower      string
	Floor      string
	Block      string
	Notes      string
}

// UpdateFlatInput replaces the descriptive fields of a flat
type UpdateFlatInput struct {
	FlatNumber string
	AreaSqFt   decimal.Decimal
	Tower      string
	Floor      string
	Block      string
	Notes      string
}

// TransferInput moves a flat to a new owner or tenant
type TransferInput struct {
	UserID uuid.UUID
	Reason string
}

// CreateResidentInput creates an owner or tenant of a flat
type CreateResidentInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     resident.Role
	FlatID   uuid.UUID
}

// UpdateUserInput replaces a user's profile
type UpdateUserInput struct {
	Name  string
	Email string
	Phone string
}

// FlatResponse is the API view of a flat
type FlatResponse struct {
	ID         uuid.UUID       `json:"id"`
	FlatNumber string          `json:"flat_number"`
	OwnerID    *uuid.UUID      `json:"owner_id,omitempty"`
	TenantID   *uuid.UUID      `json:"tenant_id,omitempty"`
	AreaSqFt   decimal.Decimal `json:"area_sq_ft"`
	Tower      string          `json:"tower,omitempty"`
	Floor      string          `json:"floor,omitempty"`
	Block      string          `json:"block,omitempty"`
	Status     string          `json:"status"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// HistoryResponse is one occupancy period
type HistoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	Kind      string     `json:"kind"`
	UserID    uuid.UUID  `json:"user_id"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	AddedBy   *uuid.UUID `json:"added_by,omitempty"`
}

// UserResponse is the API view of a user; the password hash never leaves
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Role      string     `json:"role"`
	FlatID    *uuid.UUID `json:"flat_id,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToFlatResponse converts a flat
func ToFlatResponse(f *resident.Flat) FlatResponse {
	return FlatResponse{
		ID: f.ID, FlatNumber: f.FlatNumber, OwnerID: f.OwnerID, TenantID: f.TenantID,
		AreaSqFt: f.AreaSqFt, Tower: f.Tower, Floor: f.Floor, Block: f.Block,
		Status: string(f.Status), Notes: f.Notes, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt,
	}
}

// ToUserResponse converts a user
func ToUserResponse(u *resident.User) UserResponse {
	return UserResponse{
		ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: string(u.Role),
		FlatID: u.FlatID, IsActive: u.IsActive, CreatedAt: u.CreatedAt,
	}
}

func toHistoryResponse(r *resident.OccupancyRecord) HistoryResponse {
	return HistoryResponse{
		ID: r.ID, Kind: string(r.Kind), UserID: r.UserID, StartDate: r.StartDate,
		EndDate: r.EndDate, Reason: r.Reason, AddedBy: r.AddedBy,
	}
}
