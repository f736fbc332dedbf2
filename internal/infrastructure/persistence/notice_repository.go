package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/notice"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNoticeRepository implements notice.Repository
type GormNoticeRepository struct {
	db *gorm.DB
}

// NewGormNoticeRepository creates a new GormNoticeRepository
func NewGormNoticeRepository(db *gorm.DB) *GormNoticeRepository {
	return &GormNoticeRepository{db: db}
}

// Send inserts one notice per recipient in bulk together with the registry row
func (r *GormNoticeRepository) Send(ctx context.Context, d *notice.Dispatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createNotices(tx, d, d.CreatedAt); err != nil {
			return err
		}
		return tx.Create(models.NoticeRegistryModelFromDomain(d)).Error
	})
}

// Resend drops the notices of d, writes fresh ones and saves the registry row
func (r *GormNoticeRepository) Resend(ctx context.Context, d *notice.Dispatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dispatch_id = ?", d.ID).Delete(&models.NoticeModel{}).Error; err != nil {
			return err
		}
		if err := createNotices(tx, d, time.Now()); err != nil {
			return err
		}
		return updateAll(ctx, tx, models.NoticeRegistryModelFromDomain(d))
	})
}

// createNotices bulk inserts one copy of d per recipient
func createNotices(tx *gorm.DB, d *notice.Dispatch, at time.Time) error {
	if len(d.Recipients) == 0 {
		return nil
	}
	rows := make([]models.NoticeModel, 0, len(d.Recipients))
	for _, userID := range d.Recipients {
		rows = append(rows, models.NoticeModel{
			ID:         uuid.New(),
			DispatchID: d.ID,
			UserID:     userID,
			Title:      d.Title,
			Message:    d.Message,
			Type:       d.Type,
			CreatedAt:  at,
		})
	}
	return tx.Create(&rows).Error
}

// FindDispatch finds a registry entry by ID
func (r *GormNoticeRepository) FindDispatch(ctx context.Context, id uuid.UUID) (*notice.Dispatch, error) {
	var model models.NoticeRegistryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	d := model.ToDomain()
	return &d, nil
}

// ListForUser returns a user's notices, newest first
func (r *GormNoticeRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]notice.Notice, error) {
	var rows []models.NoticeModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]notice.Notice, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// ListAll returns every user's notices, newest first
func (r *GormNoticeRepository) ListAll(ctx context.Context) ([]notice.Notice, error) {
	var rows []models.NoticeModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]notice.Notice, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Registry lists dispatched notices, newest first
func (r *GormNoticeRepository) Registry(ctx context.Context) ([]notice.Dispatch, error) {
	var rows []models.NoticeRegistryModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]notice.Dispatch, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Delete removes a dispatch and the notices it produced
func (r *GormNoticeRepository) Delete(ctx context.Context, dispatchID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dispatch_id = ?", dispatchID).Delete(&models.NoticeModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.NoticeRegistryModel{}, "id = ?", dispatchID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
