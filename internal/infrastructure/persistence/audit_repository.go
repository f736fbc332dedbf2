package persistence

import (
	"context"

	"github.com/societyhub/backend/internal/domain/audit"
	"github.com/societyhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Record appends an entry
func (r *GormAuditRepository) Record(ctx context.Context, e *audit.Entry) error {
	model := &models.AuditLogModel{
		ID:         e.ID,
		Action:     e.Action,
		Collection: e.Collection,
		RecordID:   e.RecordID,
		UserID:     e.UserID,
		Details:    e.Details,
		CreatedAt:  e.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// List returns the newest entries
func (r *GormAuditRepository) List(ctx context.Context, limit int) ([]audit.Entry, error) {
	var rows []models.AuditLogModel
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]audit.Entry, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}
