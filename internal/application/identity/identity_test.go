package identity

import (
	"context"
	"testing"
	"time"

	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/domain/society"
	"github.com/societyhub/backend/internal/infrastructure/auth"
	"github.com/societyhub/backend/internal/infrastructure/config"
	"github.com/societyhub/backend/internal/infrastructure/persistence"
	"github.com/societyhub/backend/internal/infrastructure/persistence/models"
	"github.com/societyhub/backend/internal/testutil"
	"github.com/societyhub/backend/internal/testutil/tenanttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockSuperUserRepository is a mock implementation of society.SuperUserRepository
type MockSuperUserRepository struct {
	mock.Mock
}

func (m *MockSuperUserRepository) FindByEmail(ctx context.Context, email string) (*society.SuperUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*society.SuperUser), args.Error(1)
}

func (m *MockSuperUserRepository) Create(ctx context.Context, u *society.SuperUser) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", Expiration: time.Hour, Issuer: "test"})
}

func TestAuthService_Login(t *testing.T) {
	tn := tenanttest.New(t, "acme")
	f := testutil.Faker(t)
	flat := tn.Flat(t, f)
	owner := tn.User(t, f, resident.RoleOwner, flat)
	inactive := tn.User(t, f, resident.RoleTenant, nil)
	inactive.Deactivate()
	require.NoError(t, tn.Store.Users().Update(context.Background(), inactive))

	jwtSvc := newJWT()
	svc := NewAuthService(tenanttest.NewOpener(tn), &MockSuperUserRepository{}, jwtSvc, auth.NewInMemoryTokenBlacklist(), zap.NewNop())
	ctx := context.Background()

	t.Run("issues a token scoped to the society", func(t *testing.T) {
		res, err := svc.Login(ctx, LoginInput{SocietyCode: "ACME", Email: owner.Email, Password: testutil.Password})
		require.NoError(t, err)
		assert.Equal(t, owner.ID, res.User.ID)
		assert.Equal(t, &flat.ID, res.User.FlatID)
		assert.Equal(t, "acme", res.Society.Code)

		claims, err := jwtSvc.Validate(res.Token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "owner", claims.Role)
		assert.Equal(t, tn.Society.ID.String(), claims.SocietyID)
	})

	t.Run("unknown society", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{SocietyCode: "nowhere", Email: owner.Email, Password: testutil.Password})
		assert.ErrorIs(t, err, shared.ErrTenantNotFound)
	})

	t.Run("missing society", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: owner.Email, Password: testutil.Password})
		assert.ErrorIs(t, err, shared.ErrSocietyRequired)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{SocietyCode: "acme", Email: owner.Email, Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{SocietyCode: "acme", Email: "ghost@example.com", Password: testutil.Password})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{SocietyCode: "acme", Email: inactive.Email, Password: testutil.Password})
		assert.ErrorIs(t, err, ErrAccountDeactivated)
	})
}

func TestAuthService_SuperLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte(testutil.Password), bcrypt.MinCost)
	require.NoError(t, err)
	su := &society.SuperUser{ID: testutil.NewTestUUID("root"), Email: "root@example.com", PasswordHash: string(hash)}

	repo := &MockSuperUserRepository{}
	repo.On("FindByEmail", mock.Anything, "root@example.com").Return(su, nil)
	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, shared.ErrNotFound)

	jwtSvc := newJWT()
	svc := NewAuthService(tenanttest.Opener{}, repo, jwtSvc, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

	res, err := svc.SuperLogin(context.Background(), "root@example.com", testutil.Password)
	require.NoError(t, err)
	claims, err := jwtSvc.Validate(res.Token.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsSuper())

	_, err = svc.SuperLogin(context.Background(), "root@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.SuperLogin(context.Background(), "ghost@example.com", testutil.Password)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	repo.AssertExpectations(t)
}

func TestAuthService_Logout(t *testing.T) {
	jwtSvc := newJWT()
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewAuthService(tenanttest.Opener{}, &MockSuperUserRepository{}, jwtSvc, blacklist, zap.NewNop())

	token, err := jwtSvc.Issue(auth.IssueInput{UserID: testutil.NewTestUUID("u"), Role: auth.RoleSuper})
	require.NoError(t, err)
	claims, err := jwtSvc.Validate(token.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims))
	revoked, err := blacklist.IsBlacklisted(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	me, err := svc.Me(claims, nil)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleSuper, me.Role)
}

func TestProvisioningService(t *testing.T) {
	master := testutil.NewSQLiteDB(t, models.MasterSchema()...)
	registry := persistence.NewGormSocietyRegistry(master)
	tn := tenanttest.New(t, "acme")
	svc := NewProvisioningService(registry, tenanttest.NewOpener(tn), zap.NewNop())
	ctx := context.Background()

	t.Run("registers societies", func(t *testing.T) {
		res, err := svc.RegisterSociety(ctx, RegisterSocietyInput{Name: "Zenith Towers", Code: "Zenith", DSN: "sqlite:///tmp/zenith.db"})
		require.NoError(t, err)
		assert.Equal(t, "zenith", res.Code)

		_, err = svc.RegisterSociety(ctx, RegisterSocietyInput{Name: "Again", Code: "zenith", DSN: "sqlite:///tmp/z2.db"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		_, err = svc.RegisterSociety(ctx, RegisterSocietyInput{Name: "No DSN", Code: "nodsn"})
		assert.Error(t, err)

		list, err := svc.ListSocieties(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Zenith Towers", list[0].Name)
	})

	t.Run("creates an admin in the society store", func(t *testing.T) {
		info, err := svc.CreateAdmin(ctx, CreateAdminInput{
			Society: "acme", Name: "Asha Admin", Email: "Asha@Example.com", Phone: "9800000000", Password: "Secret#123",
		})
		require.NoError(t, err)
		assert.Equal(t, "admin", info.Role)

		stored, err := tn.Store.Users().FindByEmail(ctx, "asha@example.com")
		require.NoError(t, err)
		assert.Equal(t, resident.RoleAdmin, stored.Role)
		assert.True(t, auth.CheckPassword(stored.PasswordHash, "Secret#123"))

		_, err = svc.CreateAdmin(ctx, CreateAdminInput{
			Society: "acme", Name: "Dup", Email: "asha@example.com", Phone: "9800000001", Password: "Secret#123",
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown society", func(t *testing.T) {
		_, err := svc.CreateAdmin(ctx, CreateAdminInput{Society: "ghost", Name: "x", Email: "x@y.z", Phone: "1", Password: "Secret#123"})
		assert.ErrorIs(t, err, shared.ErrTenantNotFound)
	})
}
