// Package scope describes the society a request runs against: its
// descriptor, the caller, and the repositories of its store.
package scope

import (
	"context"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/audit"
	"github.com/societyhub/backend/internal/domain/billing"
	"github.com/societyhub/backend/internal/domain/complaint"
	"github.com/societyhub/backend/internal/domain/notice"
	"github.com/societyhub/backend/internal/domain/notification"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/society"
)

// Repositories gives access to every repository of one society store
type Repositories interface {
	Users() resident.UserRepository
	Flats() resident.FlatRepository
	Maintenance() billing.MaintenanceRepository
	Slips() billing.SlipRepository
	Complaints() complaint.Repository
	Notices() notice.Repository
	Notifications() notification.Repository
	Audit() audit.Repository
	Directory() notification.Directory
}

// TransactionScope runs fn with repositories bound to one transaction.
// If fn returns an error the transaction is rolled back.
type TransactionScope interface {
	Repositories
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Tenant is a resolved society and its store
type Tenant struct {
	Society *society.Society
	Store   TransactionScope
}

// ID returns the society id
func (t Tenant) ID() uuid.UUID {
	return t.Society.ID
}

// Key is the identifier used to address the society through the router
func (t Tenant) Key() string {
	return t.Society.ID.String()
}

// Actor is the authenticated caller
type Actor struct {
	UserID uuid.UUID
	Role   resident.Role
	FlatID *uuid.UUID
}

// IsAdmin reports whether the caller administers the society
func (a Actor) IsAdmin() bool {
	return a.Role == resident.RoleAdmin
}

// Opener resolves a society identifier (UUID or code) to a Tenant
type Opener interface {
	Open(ctx context.Context, identifier string) (Tenant, error)
}
