package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/complaint"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormComplaintRepository implements complaint.Repository
type GormComplaintRepository struct {
	db *gorm.DB
}

// NewGormComplaintRepository creates a new GormComplaintRepository
func NewGormComplaintRepository(db *gorm.DB) *GormComplaintRepository {
	return &GormComplaintRepository{db: db}
}

// Create stores a complaint
func (r *GormComplaintRepository) Create(ctx context.Context, c *complaint.Complaint) error {
	return translate(r.db.WithContext(ctx).Create(models.ComplaintModelFromDomain(c)).Error)
}

// Update saves all fields of a complaint
func (r *GormComplaintRepository) Update(ctx context.Context, c *complaint.Complaint) error {
	return updateAll(ctx, r.db, models.ComplaintModelFromDomain(c))
}

// Delete removes a complaint and its comments
func (r *GormComplaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complaint_id = ?", id).Delete(&models.CommentModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ComplaintModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a complaint by ID
func (r *GormComplaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*complaint.Complaint, error) {
	var model models.ComplaintModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return model.ToDomain(), nil
}

// List returns complaints, newest first. Filter fields are OR-ed.
func (r *GormComplaintRepository) List(ctx context.Context, filter *complaint.Filter) ([]complaint.Complaint, error) {
	query := r.db.WithContext(ctx).Model(&models.ComplaintModel{})
	if filter != nil {
		switch {
		case filter.CreatedBy != nil && filter.FlatID != nil:
			query = query.Where("created_by = ? OR flat_id = ?", *filter.CreatedBy, *filter.FlatID)
		case filter.CreatedBy != nil:
			query = query.Where("created_by = ?", *filter.CreatedBy)
		case filter.FlatID != nil:
			query = query.Where("flat_id = ?", *filter.FlatID)
		}
	}

	var rows []models.ComplaintModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]complaint.Complaint, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// AddComment stores a comment
func (r *GormComplaintRepository) AddComment(ctx context.Context, c *complaint.Comment) error {
	model := &models.CommentModel{
		ID:          c.ID,
		ComplaintID: c.ComplaintID,
		Message:     c.Message,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Comments lists a complaint's thread, oldest first
func (r *GormComplaintRepository) Comments(ctx context.Context, complaintID uuid.UUID) ([]complaint.Comment, error) {
	var rows []models.CommentModel
	if err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]complaint.Comment, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}
