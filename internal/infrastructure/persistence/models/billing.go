package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyhub/backend/internal/domain/billing"
)

// MaintenanceModel is the persistence model for a maintenance charge
type MaintenanceModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FlatID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_maintenance_cycle,priority:1"`
	Amount           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DueDate          time.Time       `gorm:"not null;index"`
	CycleYear        int             `gorm:"not null;uniqueIndex:idx_maintenance_cycle,priority:2"`
	CycleMonth       int             `gorm:"not null;uniqueIndex:idx_maintenance_cycle,priority:3"`
	Status           billing.Status  `gorm:"type:varchar(20);not null;default:'pending'"`
	Notes            string          `gorm:"type:text"`
	SlipNumber       *string         `gorm:"type:varchar(32);uniqueIndex"`
	ReceiptGenerated bool            `gorm:"not null;default:false"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MaintenanceModel) TableName() string {
	return "maintenances"
}

// ToDomain converts the persistence model to a domain Maintenance
func (m *MaintenanceModel) ToDomain() *billing.Maintenance {
	out := &billing.Maintenance{
		ID:               m.ID,
		FlatID:           m.FlatID,
		Amount:           m.Amount,
		DueDate:          m.DueDate,
		CycleYear:        m.CycleYear,
		CycleMonth:       m.CycleMonth,
		Status:           m.Status,
		Notes:            m.Notes,
		ReceiptGenerated: m.ReceiptGenerated,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.SlipNumber != nil {
		out.SlipNumber = *m.SlipNumber
	}
	return out
}

// MaintenanceModelFromDomain creates a persistence model from a domain Maintenance
func MaintenanceModelFromDomain(m *billing.Maintenance) *MaintenanceModel {
	out := &MaintenanceModel{
		ID:               m.ID,
		FlatID:           m.FlatID,
		Amount:           m.Amount,
		DueDate:          m.DueDate,
		CycleYear:        m.CycleYear,
		CycleMonth:       m.CycleMonth,
		Status:           m.Status,
		Notes:            m.Notes,
		ReceiptGenerated: m.ReceiptGenerated,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.SlipNumber != "" {
		slip := m.SlipNumber
		out.SlipNumber = &slip
	}
	return out
}

// SlipCounterModel holds the receipt counter of one (society, year).
// Rows are never deleted.
type SlipCounterModel struct {
	SocietyID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Year      int       `gorm:"primaryKey;autoIncrement:false"`
	Counter   int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SlipCounterModel) TableName() string {
	return "slip_counters"
}

// SlipModel is the receipt registry row
type SlipModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SocietyID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_slip_number,priority:1"`
	FlatID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	OwnerID       uuid.UUID       `gorm:"type:uuid;not null"`
	MaintenanceID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_slip_maintenance"`
	SlipNumber    string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_slip_number,priority:3"`
	Month         int             `gorm:"not null"`
	Year          int             `gorm:"not null;uniqueIndex:idx_slip_number,priority:2"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SlipModel) TableName() string {
	return "slip_registries"
}

// ToDomain converts the persistence model to a domain Slip
func (m *SlipModel) ToDomain() *billing.Slip {
	return &billing.Slip{
		ID:            m.ID,
		SocietyID:     m.SocietyID,
		FlatID:        m.FlatID,
		OwnerID:       m.OwnerID,
		MaintenanceID: m.MaintenanceID,
		SlipNumber:    m.SlipNumber,
		Month:         m.Month,
		Year:          m.Year,
		Amount:        m.Amount,
		CreatedAt:     m.CreatedAt,
	}
}

// SlipModelFromDomain creates a persistence model from a domain Slip
func SlipModelFromDomain(s *billing.Slip) *SlipModel {
	return &SlipModel{
		ID:            s.ID,
		SocietyID:     s.SocietyID,
		FlatID:        s.FlatID,
		OwnerID:       s.OwnerID,
		MaintenanceID: s.MaintenanceID,
		SlipNumber:    s.SlipNumber,
		Month:         s.Month,
		Year:          s.Year,
		Amount:        s.Amount,
		CreatedAt:     s.CreatedAt,
	}
}
