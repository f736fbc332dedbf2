package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/domain/society"
	"github.com/societyhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSocietyRegistry implements society.Registry on the master database
type GormSocietyRegistry struct {
	db *gorm.DB
}

// NewGormSocietyRegistry creates a new GormSocietyRegistry
func NewGormSocietyRegistry(db *gorm.DB) *GormSocietyRegistry {
	return &GormSocietyRegistry{db: db}
}

// FindSociety looks a society up by UUID or by code
func (r *GormSocietyRegistry) FindSociety(ctx context.Context, identifier string) (*society.Society, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, shared.ErrNotFound
	}

	query := r.db.WithContext(ctx)
	if id, err := uuid.Parse(identifier); err == nil {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("code = ?", society.NormalizeCode(identifier))
	}

	var model models.SocietyModel
	if err := query.First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// Register stores a new descriptor
func (r *GormSocietyRegistry) Register(ctx context.Context, s *society.Society) error {
	return translate(r.db.WithContext(ctx).Create(models.SocietyModelFromDomain(s)).Error)
}

// List returns all registered societies ordered by code
func (r *GormSocietyRegistry) List(ctx context.Context) ([]society.Society, error) {
	var rows []models.SocietyModel
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]society.Society, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// GormSuperUserRepository implements society.SuperUserRepository
type GormSuperUserRepository struct {
	db *gorm.DB
}

// NewGormSuperUserRepository creates a new GormSuperUserRepository
func NewGormSuperUserRepository(db *gorm.DB) *GormSuperUserRepository {
	return &GormSuperUserRepository{db: db}
}

// FindByEmail finds a platform operator by email
func (r *GormSuperUserRepository) FindByEmail(ctx context.Context, email string) (*society.SuperUser, error) {
	if email == "" {
		return nil, shared.ErrNotFound
	}
	var model models.SuperUserModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&model).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// Create stores a platform operator
func (r *GormSuperUserRepository) Create(ctx context.Context, u *society.SuperUser) error {
	model := &models.SuperUserModel{
		ID:           u.ID,
		Email:        strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.CreatedAt,
	}
	return translate(r.db.WithContext(ctx).Create(model).Error)
}
