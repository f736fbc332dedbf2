package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/billing"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMaintenanceRepository implements billing.MaintenanceRepository
type GormMaintenanceRepository struct {
	db *gorm.DB
}

// NewGormMaintenanceRepository creates a new GormMaintenanceRepository
func NewGormMaintenanceRepository(db *gorm.DB) *GormMaintenanceRepository {
	return &GormMaintenanceRepository{db: db}
}

// Create stores a new charge. A second charge for the same flat and cycle
// is rejected with shared.ErrAlreadyExists.
func (r *GormMaintenanceRepository) Create(ctx context.Context, m *billing.Maintenance) error {
	return translate(r.db.WithContext(ctx).Create(models.MaintenanceModelFromDomain(m)).Error)
}

// Update saves all fields of a charge except its slip
func (r *GormMaintenanceRepository) Update(ctx context.Context, m *billing.Maintenance) error {
	return updateAll(ctx, r.db, models.MaintenanceModelFromDomain(m), "slip_number", "receipt_generated")
}

// TransitionStatus is a compare-and-set on the status column
func (r *GormMaintenanceRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to billing.Status) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.MaintenanceModel{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

// AttachSlip sets the slip number only while the column is still NULL
func (r *GormMaintenanceRepository) AttachSlip(ctx context.Context, id uuid.UUID, slip string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.MaintenanceModel{}).
		Where("id = ? AND slip_number IS NULL", id).
		Updates(map[string]any{"slip_number": slip, "receipt_generated": true, "updated_at": time.Now()})
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return result.RowsAffected == 1, nil
}

// Delete removes a charge
func (r *GormMaintenanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MaintenanceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a charge by ID
func (r *GormMaintenanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Maintenance, error) {
	var model models.MaintenanceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// List returns charges matching the filter ordered by due date, newest first.
// A non-nil empty FlatIDs slice matches nothing.
func (r *GormMaintenanceRepository) List(ctx context.Context, filter billing.MaintenanceFilter) ([]billing.Maintenance, error) {
	if filter.FlatIDs != nil && len(filter.FlatIDs) == 0 {
		return []billing.Maintenance{}, nil
	}
	query := r.db.WithContext(ctx).Model(&models.MaintenanceModel{})
	if len(filter.FlatIDs) > 0 {
		query = query.Where("flat_id IN ?", filter.FlatIDs)
	}
	if filter.Year > 0 {
		query = query.Where("cycle_year = ?", filter.Year)
	}
	if filter.Month > 0 {
		query = query.Where("cycle_month = ?", filter.Month)
	}

	var rows []models.MaintenanceModel
	if err := query.Order(orderClause(filter.SortBy, filter.SortDir, MaintenanceSortFields, "due_date")).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]billing.Maintenance, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// GormSlipRepository implements billing.SlipRepository
type GormSlipRepository struct {
	db *gorm.DB
}

// NewGormSlipRepository creates a new GormSlipRepository
func NewGormSlipRepository(db *gorm.DB) *GormSlipRepository {
	return &GormSlipRepository{db: db}
}

// Create records an issued slip. A second slip for the same charge is
// rejected with shared.ErrAlreadyExists.
func (r *GormSlipRepository) Create(ctx context.Context, s *billing.Slip) error {
	return translate(r.db.WithContext(ctx).Create(models.SlipModelFromDomain(s)).Error)
}

// List returns slips matching the filter, newest first
func (r *GormSlipRepository) List(ctx context.Context, filter billing.SlipFilter) ([]billing.Slip, error) {
	if filter.FlatIDs != nil && len(filter.FlatIDs) == 0 {
		return []billing.Slip{}, nil
	}
	query := r.db.WithContext(ctx).Model(&models.SlipModel{})
	if filter.SocietyID != uuid.Nil {
		query = query.Where("society_id = ?", filter.SocietyID)
	}
	if len(filter.FlatIDs) > 0 {
		query = query.Where("flat_id IN ?", filter.FlatIDs)
	}
	if filter.Year > 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Month > 0 {
		query = query.Where("month = ?", filter.Month)
	}

	var rows []models.SlipModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]billing.Slip, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}
