package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyhub/backend/internal/domain/resident"
)

// UserModel is the persistence model for a society user
type UserModel struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Name         string        `gorm:"type:varchar(200);not null"`
	Email        string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Phone        string        `gorm:"type:varchar(50);not null"`
	Role         resident.Role `gorm:"type:varchar(20);not null;index"`
	FlatID       *uuid.UUID    `gorm:"type:uuid;index"`
	IsActive     bool          `gorm:"not null"`
	CreatedBy    *uuid.UUID    `gorm:"type:uuid"`
	CreatedAt    time.Time     `gorm:"not null"`
	UpdatedAt    time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *resident.User {
	return &resident.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Phone:        m.Phone,
		Role:         m.Role,
		FlatID:       m.FlatID,
		IsActive:     m.IsActive,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *resident.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		Role:         u.Role,
		FlatID:       u.FlatID,
		IsActive:     u.IsActive,
		CreatedBy:    u.CreatedBy,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// FlatModel is the persistence model for a flat
type FlatModel struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey"`
	FlatNumber string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	OwnerID    *uuid.UUID          `gorm:"type:uuid;index"`
	TenantID   *uuid.UUID          `gorm:"type:uuid;index"`
	AreaSqFt   decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0"`
	Tower      string              `gorm:"type:varchar(50)"`
	Floor      string              `gorm:"type:varchar(20)"`
	Block      string              `gorm:"type:varchar(50)"`
	Status     resident.FlatStatus `gorm:"type:varchar(20);not null;default:'vacant'"`
	Notes      string              `gorm:"type:text"`
	CreatedAt  time.Time           `gorm:"not null"`
	UpdatedAt  time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FlatModel) TableName() string {
	return "flats"
}

// ToDomain converts the persistence model to a domain Flat
func (m *FlatModel) ToDomain() *resident.Flat {
	return &resident.Flat{
		ID:         m.ID,
		FlatNumber: m.FlatNumber,
		OwnerID:    m.OwnerID,
		TenantID:   m.TenantID,
		AreaSqFt:   m.AreaSqFt,
		Tower:      m.Tower,
		Floor:      m.Floor,
		Block:      m.Block,
		Status:     m.Status,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FlatModelFromDomain creates a persistence model from a domain Flat
func FlatModelFromDomain(f *resident.Flat) *FlatModel {
	return &FlatModel{
		ID:         f.ID,
		FlatNumber: f.FlatNumber,
		OwnerID:    f.OwnerID,
		TenantID:   f.TenantID,
		AreaSqFt:   f.AreaSqFt,
		Tower:      f.Tower,
		Floor:      f.Floor,
		Block:      f.Block,
		Status:     f.Status,
		Notes:      f.Notes,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

// OccupancyHistoryModel stores ownership and tenancy periods
type OccupancyHistoryModel struct {
	ID        uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Kind      resident.HistoryKind `gorm:"type:varchar(20);not null;index:idx_occupancy_flat_kind,priority:2"`
	FlatID    uuid.UUID            `gorm:"type:uuid;not null;index:idx_occupancy_flat_kind,priority:1"`
	UserID    uuid.UUID            `gorm:"type:uuid;not null"`
	StartDate time.Time            `gorm:"not null"`
	EndDate   *time.Time
	Reason    string     `gorm:"type:text"`
	AddedBy   *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (OccupancyHistoryModel) TableName() string {
	return "occupancy_histories"
}

// ToDomain converts the persistence model to a domain OccupancyRecord
func (m *OccupancyHistoryModel) ToDomain() resident.OccupancyRecord {
	return resident.OccupancyRecord{
		ID:        m.ID,
		Kind:      m.Kind,
		FlatID:    m.FlatID,
		UserID:    m.UserID,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Reason:    m.Reason,
		AddedBy:   m.AddedBy,
	}
}
