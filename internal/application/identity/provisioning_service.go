package identity

import (
	"context"

	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/domain/society"
	"github.com/societyhub/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ProvisioningService is used by platform operators to register societies
// and seed their first admins.
type ProvisioningService struct {
	registry society.Registry
	tenants  scope.Opener
	logger   *zap.Logger
}

// NewProvisioningService creates a new ProvisioningService
func NewProvisioningService(registry society.Registry, tenants scope.Opener, logger *zap.Logger) *ProvisioningService {
	return &ProvisioningService{registry: registry, tenants: tenants, logger: logger}
}

// RegisterSociety adds a descriptor to the master registry
func (s *ProvisioningService) RegisterSociety(ctx context.Context, input RegisterSocietyInput) (*SocietyResponse, error) {
	desc, err := society.NewSociety(input.Name, input.Code, input.DSN, input.Address)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Register(ctx, desc); err != nil {
		return nil, err
	}
	s.logger.Info("Society registered", zap.String("code", desc.Code), zap.String("society_id", desc.ID.String()))
	return ToSocietyResponse(desc), nil
}

// ListSocieties returns every registered society
func (s *ProvisioningService) ListSocieties(ctx context.Context) ([]SocietyResponse, error) {
	items, err := s.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SocietyResponse, len(items))
	for i := range items {
		out[i] = *ToSocietyResponse(&items[i])
	}
	return out, nil
}

// CreateAdmin creates an admin user inside the society's own store
func (s *ProvisioningService) CreateAdmin(ctx context.Context, input CreateAdminInput) (*UserInfo, error) {
	if input.Society == "" {
		return nil, shared.ErrSocietyRequired
	}
	tenant, err := s.tenants.Open(ctx, input.Society)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	admin, err := resident.NewUser(input.Name, input.Email, input.Phone, resident.RoleAdmin, hash)
	if err != nil {
		return nil, err
	}
	if err := tenant.Store.Users().Create(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Admin provisioned",
		zap.String("society_id", tenant.Key()),
		zap.String("user_id", admin.ID.String()))
	info := toUserInfo(admin)
	return &info, nil
}
