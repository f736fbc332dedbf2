package persistence

import (
	"context"

	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/audit"
	"github.com/societyhub/backend/internal/domain/billing"
	"github.com/societyhub/backend/internal/domain/complaint"
	"github.com/societyhub/backend/internal/domain/notice"
	"github.com/societyhub/backend/internal/domain/notification"
	"github.com/societyhub/backend/internal/domain/resident"
	"gorm.io/gorm"
)

// GormTransactionScope implements scope.TransactionScope over one society store.
type GormTransactionScope struct {
	gormRepositories
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{gormRepositories{db: db}}
}

// Execute runs the given function within a database transaction.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos scope.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{db: tx})
	})
}

// gormRepositories hands out repositories bound to db, which may be a transaction.
type gormRepositories struct {
	db *gorm.DB
}

func (r *gormRepositories) Users() resident.UserRepository { return NewGormUserRepository(r.db) }
func (r *gormRepositories) Flats() resident.FlatRepository { return NewGormFlatRepository(r.db) }
func (r *gormRepositories) Maintenance() billing.MaintenanceRepository {
	return NewGormMaintenanceRepository(r.db)
}
func (r *gormRepositories) Slips() billing.SlipRepository { return NewGormSlipRepository(r.db) }
func (r *gormRepositories) Complaints() complaint.Repository { return NewGormComplaintRepository(r.db) }
func (r *gormRepositories) Notices() notice.Repository { return NewGormNoticeRepository(r.db) }
func (r *gormRepositories) Audit() audit.Repository { return NewGormAuditRepository(r.db) }
func (r *gormRepositories) Directory() notification.Directory { return NewGormDirectory(r.db) }
func (r *gormRepositories) Notifications() notification.Repository {
	return NewGormNotificationRepository(r.db)
}

var (
	_ scope.TransactionScope = (*GormTransactionScope)(nil)
	_ scope.Repositories     = (*gormRepositories)(nil)
)
