package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDirectory answers notification recipient queries from a society store
type GormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory creates a new GormDirectory
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// AdminIDs returns active admins
func (d *GormDirectory) AdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	return d.userIDs(ctx, "role = ?", resident.RoleAdmin)
}

// ResidentIDs returns active owners and tenants
func (d *GormDirectory) ResidentIDs(ctx context.Context) ([]uuid.UUID, error) {
	return d.userIDs(ctx, "role IN ?", []resident.Role{resident.RoleOwner, resident.RoleTenant})
}

// FlatMemberIDs returns active users whose home flat is flatID
func (d *GormDirectory) FlatMemberIDs(ctx context.Context, flatID uuid.UUID) ([]uuid.UUID, error) {
	return d.userIDs(ctx, "flat_id = ?", flatID)
}

// FlatOccupantIDs returns the owner and tenant recorded on the flat. A
// missing flat has no occupants.
func (d *GormDirectory) FlatOccupantIDs(ctx context.Context, flatID uuid.UUID) ([]uuid.UUID, error) {
	var flats []models.FlatModel
	if err := d.db.WithContext(ctx).
		Select("owner_id", "tenant_id").
		Where("id = ?", flatID).
		Limit(1).
		Find(&flats).Error; err != nil {
		return nil, err
	}
	if len(flats) == 0 {
		return nil, nil
	}
	return flats[0].ToDomain().Occupants(), nil
}

func (d *GormDirectory) userIDs(ctx context.Context, cond string, arg any) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where(cond, arg).
		Where("is_active = ?", true).
		Order("created_at").
		Pluck("id", &ids).Error
	return ids, err
}
