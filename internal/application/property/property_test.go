package property

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/infrastructure/auth"
	"github.com/societyhub/backend/internal/testutil"
	"github.com/societyhub/backend/internal/testutil/tenanttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTokenRevoker struct {
	mock.Mock
}

func (m *MockTokenRevoker) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	args := m.Called(ctx, userID, ttl)
	return args.Error(0)
}

func domainCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func TestFlatService_CRUD(t *testing.T) {
	tn := tenanttest.New(t, "acme")
	f := testutil.Faker(t)
	admin := tenanttest.Actor(tn.User(t, f, resident.RoleAdmin, nil))
	svc := NewFlatService(zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, tn.Tenant, admin, CreateFlatInput{FlatNumber: " B-204 ", AreaSqFt: decimal.NewFromInt(980), Tower: "B"})
	require.NoError(t, err)
	assert.Equal(t, "B-204", created.FlatNumber)
	assert.Equal(t, string(resident.FlatVacant), created.Status)

	_, err = svc.Create(ctx, tn.Tenant, admin, CreateFlatInput{FlatNumber: "B-204"})
	assert.Equal(t, "ALREADY_EXISTS", domainCode(err))

	updated, err := svc.Update(ctx, tn.Tenant, admin, created.ID, UpdateFlatInput{AreaSqFt: decimal.NewFromInt(1000), Floor: "2"})
	require.NoError(t, err)
	assert.Equal(t, "B-204", updated.FlatNumber)
	assert.Equal(t, "2", updated.Floor)
	assert.True(t, decimal.NewFromInt(1000).Equal(updated.AreaSqFt))

	list, err := svc.List(ctx, tn.Tenant, admin)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, tn.Tenant, admin, created.ID))
	_, err = svc.Get(ctx, tn.Tenant, admin, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	entries, err := tn.Store.Audit().List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestFlatService_RoleScopedVisibility(t *testing.T) {
	tn := tenanttest.New(t, "acme")
	f := testutil.Faker(t)
	mine, other := tn.Flat(t, f), tn.Flat(t, f)
	owner := tenanttest.Actor(tn.User(t, f, resident.RoleOwner, mine))
	tenant := tenanttest.Actor(tn.User(t, f, resident.RoleTenant, other))
	svc := NewFlatService(zap.NewNop())
	ctx := context.Background()

	flats, err := svc.List(ctx, tn.Tenant, owner)
	require.NoError(t, err)
	require.Len(t, flats, 1)
	assert.Equal(t, mine.ID, flats[0].ID)

	flats, err = svc.List(ctx, tn.Tenant, tenant)
	require.NoError(t, err)
	require.Len(t, flats, 1)
	assert.Equal(t, other.ID, flats[0].ID)

	_, err = svc.Get(ctx, tn.Tenant, owner, other.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestFlatService_TransferOwnership(t *testing.T) {
	tn := tenanttest.New(t, "acme")
	f := testutil.Faker(t)
	flat := tn.Flat(t, f)
	admin := tenanttest.Actor(tn.User(t, f, resident.RoleAdmin, nil))
	first := tn.User(t, f, resident.RoleOwner, flat)
	second := tn.User(t, f, resident.RoleOwner, nil)
	svc := NewFlatService(zap.NewNop())
	ctx := context.Background()

	resp, err := svc.TransferOwnership(ctx, tn.Tenant, admin, flat.ID, TransferInput{UserID: second.ID, Reason: "Sold"})
	require.NoError(t, err)
	require.NotNil(t, resp.OwnerID)
	assert.Equal(t, second.ID, *resp.OwnerID)

	history, err := svc.History(ctx, tn.Tenant, admin, flat.ID, resident.HistoryOwnership)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].UserID)
	assert.Nil(t, history[0].EndDate)
	assert.Equal(t, first.ID, history[1].UserID)
	assert.NotNil(t, history[1].EndDate)

	moved, err := tn.Store.Users().FindByID(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.FlatID)
	assert.Equal(t, flat.ID, *moved.FlatID)

	t.Run("rejects a user with the wrong role", func(t *testing.T) {
		tenant := tn.User(t, f, resident.RoleTenant, nil)
		_, err := svc.TransferOwnership(ctx, tn.Tenant, admin, flat.ID, TransferInput{UserID: tenant.ID})
		assert.Equal(t, "INVALID_INPUT", domainCode(err))
	})

	t.Run("tenant change keeps the owner", func(t *testing.T) {
		tenant := tn.User(t, f, resident.RoleTenant, nil)
		resp, err := svc.ChangeTenant(ctx, tn.Tenant, admin, flat.ID, TransferInput{UserID: tenant.ID})
		require.NoError(t, err)
		assert.Equal(t, second.ID, *resp.OwnerID)
		assert.Equal(t, tenant.ID, *resp.TenantID)
	})
}

func TestUserService_CreateResident(t *testing.T) {
	tn := tenanttest.New(t, "acme")
	f := testutil.Faker(t)
	flat := tn.Flat(t, f)
	admin := tenanttest.Actor(tn.User(t, f, resident.RoleAdmin, nil))
	svc := NewUserService(nil, time.Hour, zap.NewNop())
	ctx := context.Background()

	input := CreateResidentInput{
		Name: "Asha Rao", Email: "Asha@Example.com", Phone: "9876543210",
		Password: "long-enough-pw", Role: resident.RoleOwner, FlatID: flat.ID,
	}
	created, err := svc.CreateResident(ctx, tn.Tenant, admin, input)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", created.Email)
	assert.Equal(t, flat.ID, *created.FlatID)

	stored, err := tn.Store.Flats().FindByID(ctx, flat.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, *stored.OwnerID)
	assert.Equal(t, resident.FlatOccupied, stored.Status)

	user, err := tn.Store.Users().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "long-enough-pw"))

	tests := []struct {
		name  string
		input CreateResidentInput
		code  string
	}{
		{"duplicate email", func() CreateResidentInput { i := input; i.Role = resident.RoleTenant; return i }(), "EMAIL_TAKEN"},
		{"flat already has an owner", func() CreateResidentInput { i := input; i.Email = "other@example.com"; return i }(), "ALREADY_EXISTS"},
		{"admin role is refused", func() CreateResidentInput { i := input; i.Email = "x@example.com"; i.Role = resident.RoleAdmin; return i }(), "INVALID_INPUT"},
		{"short password", func() CreateResidentInput { i := input; i.Email = "y@example.com"; i.Password = "short"; return i }(), auth.ErrWeakPassword.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateResident(ctx, tn.Tenant, admin, tt.input)
			assert.Equal(t, tt.code, domainCode(err))
		})
	}

	t.Run("unknown flat", func(t *testing.T) {
		i := input
		i.Email = "z@example.com"
		i.FlatID = uuid.New()
		_, err := svc.CreateResident(ctx, tn.Tenant, admin, i)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestUserService_Deactivate(t *testing.T) {
	tn := tenanttest.New(t, "acme")
	f := testutil.Faker(t)
	admin := tenanttest.Actor(tn.User(t, f, resident.RoleAdmin, nil))
	owner := tn.User(t, f, resident.RoleOwner, tn.Flat(t, f))
	ctx := context.Background()

	revoker := &MockTokenRevoker{}
	revoker.On("AddUserTokensToBlacklist", mock.Anything, owner.ID.String(), 2*time.Hour).Return(nil).Once()
	svc := NewUserService(revoker, 2*time.Hour, zap.NewNop())

	require.NoError(t, svc.Deactivate(ctx, tn.Tenant, admin, owner.ID))
	stored, err := tn.Store.Users().FindByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	revoker.AssertExpectations(t)

	err = svc.Deactivate(ctx, tn.Tenant, admin, admin.UserID)
	assert.Equal(t, "INVALID_INPUT", domainCode(err))
}

func TestUserService_GetAndUpdate(t *testing.T) {
	tn := tenanttest.New(t, "acme")
	f := testutil.Faker(t)
	admin := tenanttest.Actor(tn.User(t, f, resident.RoleAdmin, nil))
	owner := tn.User(t, f, resident.RoleOwner, tn.Flat(t, f))
	other := tn.User(t, f, resident.RoleTenant, nil)
	svc := NewUserService(nil, time.Hour, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Get(ctx, tn.Tenant, tenanttest.Actor(owner), other.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	self, err := svc.Get(ctx, tn.Tenant, tenanttest.Actor(owner), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.Email, self.Email)

	_, err = svc.Update(ctx, tn.Tenant, admin, owner.ID, UpdateUserInput{Email: other.Email})
	assert.ErrorIs(t, err, ErrEmailTaken)

	updated, err := svc.Update(ctx, tn.Tenant, admin, owner.ID, UpdateUserInput{Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)

	owners, err := svc.List(ctx, tn.Tenant, resident.UserFilter{Role: resident.RoleOwner})
	require.NoError(t, err)
	assert.Len(t, owners, 1)
}
