package persistence

import (
	"context"

	"github.com/societyhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// updateAll writes every column of model except omit, keyed by its primary
// key, and reports shared.ErrNotFound when no row matched.
func updateAll(ctx context.Context, db *gorm.DB, model any, omit ...string) error {
	omit = append([]string{"id", "created_at"}, omit...)
	result := db.WithContext(ctx).Model(model).Select("*").Omit(omit...).Updates(model)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
