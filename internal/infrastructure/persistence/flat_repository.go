package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFlatRepository implements resident.FlatRepository using GORM
type GormFlatRepository struct {
	db *gorm.DB
}

// NewGormFlatRepository creates a new GormFlatRepository
func NewGormFlatRepository(db *gorm.DB) *GormFlatRepository {
	return &GormFlatRepository{db: db}
}

// Create creates a new flat
func (r *GormFlatRepository) Create(ctx context.Context, f *resident.Flat) error {
	return translate(r.db.WithContext(ctx).Create(models.FlatModelFromDomain(f)).Error)
}

// Update saves all fields of a flat
func (r *GormFlatRepository) Update(ctx context.Context, f *resident.Flat) error {
	return updateAll(ctx, r.db, models.FlatModelFromDomain(f))
}

// Delete removes a flat and its history
func (r *GormFlatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("flat_id = ?", id).Delete(&models.OccupancyHistoryModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.FlatModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a flat by ID
func (r *GormFlatRepository) FindByID(ctx context.Context, id uuid.UUID) (*resident.Flat, error) {
	var model models.FlatModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// List returns all flats ordered by number
func (r *GormFlatRepository) List(ctx context.Context) ([]resident.Flat, error) {
	return r.find(r.db.WithContext(ctx))
}

// ListByOwner returns flats owned by ownerID
func (r *GormFlatRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]resident.Flat, error) {
	return r.find(r.db.WithContext(ctx).Where("owner_id = ?", ownerID))
}

// ListByTenant returns flats rented by tenantID
func (r *GormFlatRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]resident.Flat, error) {
	return r.find(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID))
}

func (r *GormFlatRepository) find(query *gorm.DB) ([]resident.Flat, error) {
	var rows []models.FlatModel
	if err := query.Order("flat_number").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]resident.Flat, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Transfer closes the open history row of rec.Kind, opens rec, and points the
// flat at the new owner or tenant, all in one transaction.
func (r *GormFlatRepository) Transfer(ctx context.Context, rec *resident.OccupancyRecord) error {
	column := "owner_id"
	if rec.Kind == resident.HistoryTenancy {
		column = "tenant_id"
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.OccupancyHistoryModel{}).
			Where("flat_id = ? AND kind = ? AND end_date IS NULL", rec.FlatID, rec.Kind).
			Update("end_date", now).Error; err != nil {
			return err
		}

		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		if rec.StartDate.IsZero() {
			rec.StartDate = now
		}
		model := &models.OccupancyHistoryModel{
			ID:        rec.ID,
			Kind:      rec.Kind,
			FlatID:    rec.FlatID,
			UserID:    rec.UserID,
			StartDate: rec.StartDate,
			Reason:    rec.Reason,
			AddedBy:   rec.AddedBy,
		}
		if err := tx.Create(model).Error; err != nil {
			return err
		}

		result := tx.Model(&models.FlatModel{}).
			Where("id = ?", rec.FlatID).
			Updates(map[string]any{
				column:       rec.UserID,
				"status":     resident.FlatOccupied,
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// History lists the flat's records of one kind, newest first
func (r *GormFlatRepository) History(ctx context.Context, flatID uuid.UUID, kind resident.HistoryKind) ([]resident.OccupancyRecord, error) {
	var rows []models.OccupancyHistoryModel
	if err := r.db.WithContext(ctx).
		Where("flat_id = ? AND kind = ?", flatID, kind).
		Order("start_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]resident.OccupancyRecord, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}
