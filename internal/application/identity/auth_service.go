package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/domain/society"
	"github.com/societyhub/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials hides whether the email or the password was wrong
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	// ErrAccountDeactivated is returned for users an admin deactivated
	ErrAccountDeactivated = shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
)

// AuthService handles authentication operations
type AuthService struct {
	tenants    scope.Opener
	superUsers society.SuperUserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	tenants scope.Opener,
	superUsers society.SuperUserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		tenants:    tenants,
		superUsers: superUsers,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login authenticates a society user. The society is resolved through the
// router, so routing errors are returned as they are.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.SocietyCode) == "" {
		return nil, shared.ErrSocietyRequired
	}
	s.logger.Info("Login attempt", zap.String("society", input.SocietyCode), zap.String("email", input.Email))

	tenant, err := s.tenants.Open(ctx, input.SocietyCode)
	if err != nil {
		return nil, err
	}

	user, err := tenant.Store.Users().FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("User not found during login", zap.String("email", input.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	token, err := s.jwtService.Issue(auth.IssueInput{UserID: user.ID, Role: string(user.Role), SocietyID: tenant.ID()})
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("society_id", tenant.Key()))

	return &LoginResult{Token: token, User: toUserInfo(user), Society: ToSocietyResponse(tenant.Society)}, nil
}

// SuperLogin authenticates a platform operator against the master registry
func (s *AuthService) SuperLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	su, err := s.superUsers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(su.PasswordHash, password) {
		s.logger.Warn("Invalid super user password attempt", zap.String("email", su.Email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(auth.IssueInput{UserID: su.ID, Role: auth.RoleSuper})
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token: token,
		User:  UserInfo{ID: su.ID, Email: su.Email, Role: auth.RoleSuper},
	}, nil
}

// Me describes the caller from its claims and, for society users, the
// flat resolved by the user context.
func (s *AuthService) Me(claims *auth.Claims, flatID *uuid.UUID) (*CurrentUser, error) {
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, auth.ErrInvalidClaims
	}
	me := &CurrentUser{UserID: userID, Role: claims.Role, SocietyID: claims.SocietyID, FlatID: flatID}
	if claims.ExpiresAt != nil {
		me.ExpiresAt = claims.ExpiresAt.Time
	}
	return me, nil
}

// Logout revokes the presented token until it would have expired
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims.ID == "" {
		return nil
	}
	ttl := claims.RemainingTTL()
	if ttl <= 0 {
		return nil
	}
	return s.blacklist.AddToBlacklist(ctx, claims.ID, ttl)
}

// CreateSuperUser adds a platform operator
func (s *AuthService) CreateSuperUser(ctx context.Context, email, password string) (*society.SuperUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Email is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	su := &society.SuperUser{ID: uuid.New(), Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	if err := s.superUsers.Create(ctx, su); err != nil {
		return nil, err
	}
	s.logger.Info("Super user created", zap.String("email", email))
	return su, nil
}
