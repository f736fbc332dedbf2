package property

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/audit"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

const userCollection = "users"

// ErrEmailTaken is returned when a society already has a user with the email
var ErrEmailTaken = shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")

// TokenRevoker invalidates every token issued to a user
type TokenRevoker interface {
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error
}

// UserService manages the owners and tenants of a society
type UserService struct {
	revoker  TokenRevoker
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewUserService creates a new UserService. revoker may be nil, in which
// case deactivated users keep their tokens until they expire.
func NewUserService(revoker TokenRevoker, tokenTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{revoker: revoker, tokenTTL: tokenTTL, logger: logger}
}

// CreateResident creates an owner or tenant and moves them into their flat
func (s *UserService) CreateResident(ctx context.Context, t scope.Tenant, actor scope.Actor, input CreateResidentInput) (*UserResponse, error) {
	if !input.Role.IsResident() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Role must be owner or tenant")
	}
	if len(input.Password) < auth.MinPasswordLength {
		return nil, auth.ErrWeakPassword
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := t.Store.Users().FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	flat, err := t.Store.Flats().FindByID(ctx, input.FlatID)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user, err := resident.NewUser(input.Name, email, input.Phone, input.Role, hash)
	if err != nil {
		return nil, err
	}
	createdBy := actor.UserID
	user.CreatedBy = &createdBy
	user.FlatID = &flat.ID

	// Assign only checks the slot; Transfer below writes it.
	if err := flat.Assign(input.Role, user.ID); err != nil {
		return nil, err
	}

	kind := resident.HistoryOwnership
	if input.Role == resident.RoleTenant {
		kind = resident.HistoryTenancy
	}

	err = t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Users().Create(ctx, user); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}
		if err := repos.Flats().Transfer(ctx, &resident.OccupancyRecord{
			Kind:    kind,
			FlatID:  flat.ID,
			UserID:  user.ID,
			Reason:  "Initial assignment",
			AddedBy: &createdBy,
		}); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionCreate, userCollection, user.ID, actor.UserID,
			map[string]any{"role": string(user.Role), "flat_id": flat.ID.String()}))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Resident created",
		zap.String("society_id", t.Key()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns the users of the society, optionally narrowed by role or flat
func (s *UserService) List(ctx context.Context, t scope.Tenant, filter resident.UserFilter) ([]UserResponse, error) {
	users, err := t.Store.Users().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out, nil
}

// Get returns one user. Residents may only read themselves.
func (s *UserService) Get(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID) (*UserResponse, error) {
	if !actor.IsAdmin() && actor.UserID != id {
		return nil, shared.ErrForbidden
	}
	user, err := t.Store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Update replaces a user's profile
func (s *UserService) Update(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID, input UpdateUserInput) (*UserResponse, error) {
	user, err := t.Store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		user.Phone = phone
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != user.Email {
		if other, err := t.Store.Users().FindByEmail(ctx, email); err == nil && other.ID != user.ID {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		user.Email = email
	}
	user.UpdatedAt = time.Now()

	err = t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Users().Update(ctx, user); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionUpdate, userCollection, user.ID, actor.UserID, nil))
	})
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Deactivate blocks a user from signing in and revokes their tokens
func (s *UserService) Deactivate(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID) error {
	if actor.UserID == id {
		return shared.NewDomainError("INVALID_INPUT", "You cannot deactivate yourself")
	}
	user, err := t.Store.Users().FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Deactivate()

	err = t.Store.Execute(ctx, func(repos scope.Repositories) error {
		if err := repos.Users().Update(ctx, user); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.NewEntry(audit.ActionUpdate, userCollection, user.ID, actor.UserID,
			map[string]any{"is_active": false}))
	})
	if err != nil {
		return err
	}

	if s.revoker != nil {
		if err := s.revoker.AddUserTokensToBlacklist(ctx, user.ID.String(), s.tokenTTL); err != nil {
			s.logger.Warn("Failed to revoke tokens of deactivated user",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}
	s.logger.Info("User deactivated", zap.String("society_id", t.Key()), zap.String("user_id", user.ID.String()))
	return nil
}
