package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/society"
)

// SocietyModel is a row of the master registry
type SocietyModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Code      string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	DSN       string    `gorm:"column:dsn;type:text;not null"`
	Address   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SocietyModel) TableName() string {
	return "societies"
}

// ToDomain converts the persistence model to a domain Society
func (m *SocietyModel) ToDomain() *society.Society {
	return &society.Society{
		ID:        m.ID,
		Name:      m.Name,
		Code:      m.Code,
		DSN:       m.DSN,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
	}
}

// SocietyModelFromDomain creates a persistence model from a domain Society
func SocietyModelFromDomain(s *society.Society) *SocietyModel {
	return &SocietyModel{
		ID:        s.ID,
		Name:      s.Name,
		Code:      s.Code,
		DSN:       s.DSN,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
	}
}

// SuperUserModel is a platform operator
type SuperUserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SuperUserModel) TableName() string {
	return "super_users"
}

// ToDomain converts the persistence model to a domain SuperUser
func (m *SuperUserModel) ToDomain() *society.SuperUser {
	return &society.SuperUser{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

// MasterSchema lists the registry tables. Production schemas are managed by
// the SQL migrations; tests migrate these models directly.
func MasterSchema() []any {
	return []any{&SocietyModel{}, &SuperUserModel{}}
}
