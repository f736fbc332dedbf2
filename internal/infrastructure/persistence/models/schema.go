package models

// TenantSchema returns the fixed set of models every society store carries.
// The router migrates them when a society connection is first opened.
func TenantSchema() []any {
	return []any{
		&UserModel{},
		&FlatModel{},
		&OccupancyHistoryModel{},
		&MaintenanceModel{},
		&SlipCounterModel{},
		&SlipModel{},
		&ComplaintModel{},
		&CommentModel{},
		&NoticeModel{},
		&NoticeRegistryModel{},
		&NotificationModel{},
		&AuditLogModel{},
	}
}
