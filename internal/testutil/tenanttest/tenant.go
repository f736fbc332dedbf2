// Package tenanttest builds sqlite backed society stores for service tests.
package tenanttest

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/domain/society"
	"github.com/societyhub/backend/internal/infrastructure/persistence"
	"github.com/societyhub/backend/internal/infrastructure/persistence/models"
	"github.com/societyhub/backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Tenant is a migrated sqlite society store
type Tenant struct {
	scope.Tenant
	DB *gorm.DB
}

// New creates a society with the given code and a fresh store
func New(t *testing.T, code string) *Tenant {
	t.Helper()
	db := testutil.NewSQLiteDB(t, models.TenantSchema()...)
	return &Tenant{
		Tenant: scope.Tenant{
			Society: testutil.NewSociety(t, code, "sqlite://memory"),
			Store:   persistence.NewGormTransactionScope(db),
		},
		DB: db,
	}
}

// Opener serves a fixed set of tenants by code or id
type Opener map[string]scope.Tenant

// NewOpener indexes tenants by code and id
func NewOpener(tenants ...*Tenant) Opener {
	o := Opener{}
	for _, tn := range tenants {
		o[tn.Society.Code] = tn.Tenant
		o[tn.Society.ID.String()] = tn.Tenant
	}
	return o
}

// Open implements scope.Opener
func (o Opener) Open(_ context.Context, identifier string) (scope.Tenant, error) {
	if tn, ok := o[society.NormalizeCode(identifier)]; ok {
		return tn, nil
	}
	return scope.Tenant{}, shared.ErrTenantNotFound
}

// Flat stores a new vacant flat
func (tn *Tenant) Flat(t *testing.T, f *gofakeit.Faker) *resident.Flat {
	t.Helper()
	flat := testutil.NewFlat(t, f)
	require.NoError(t, tn.Store.Flats().Create(context.Background(), flat))
	return flat
}

// User stores a new active user. Owners and tenants are also recorded on
// the flat.
func (tn *Tenant) User(t *testing.T, f *gofakeit.Faker, role resident.Role, flat *resident.Flat) *resident.User {
	t.Helper()
	ctx := context.Background()
	u := testutil.NewUser(t, f, role, nil)
	if flat != nil {
		u.FlatID = &flat.ID
	}
	require.NoError(t, tn.Store.Users().Create(ctx, u))
	if flat != nil && role.IsResident() {
		kind := resident.HistoryOwnership
		if role == resident.RoleTenant {
			kind = resident.HistoryTenancy
		}
		require.NoError(t, tn.Store.Flats().Transfer(ctx, &resident.OccupancyRecord{Kind: kind, FlatID: flat.ID, UserID: u.ID}))
		if role == resident.RoleOwner {
			flat.OwnerID = &u.ID
		} else {
			flat.TenantID = &u.ID
		}
		flat.Status = resident.FlatOccupied
	}
	return u
}

// Actor returns the caller view of u
func Actor(u *resident.User) scope.Actor {
	return scope.Actor{UserID: u.ID, Role: u.Role, FlatID: u.FlatID}
}
