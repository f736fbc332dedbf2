package resident

import (
	"context"

	"github.com/google/uuid"
)

// UserFilter narrows user listings
type UserFilter struct {
	Role   Role
	FlatID *uuid.UUID
}

// UserRepository persists society users
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]User, error)
}

// FlatRepository persists flats and their occupancy history
type FlatRepository interface {
	Create(ctx context.Context, f *Flat) error
	Update(ctx context.Context, f *Flat) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Flat, error)
	List(ctx context.Context) ([]Flat, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Flat, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Flat, error)
	// Transfer closes the open history record of the given kind and opens a
	// new one, updating the flat's current owner or tenant.
	Transfer(ctx context.Context, rec *OccupancyRecord) error
	History(ctx context.Context, flatID uuid.UUID, kind HistoryKind) ([]OccupancyRecord, error)
}
