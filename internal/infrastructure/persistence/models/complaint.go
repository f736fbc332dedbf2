package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/complaint"
)

// ComplaintModel is the persistence model for a complaint. Assignee lists are
// stored as JSON so the same schema works on postgres and sqlite.
type ComplaintModel struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Title          string             `gorm:"type:varchar(200);not null"`
	Description    string             `gorm:"type:text;not null"`
	CreatedBy      uuid.UUID          `gorm:"type:uuid;not null;index"`
	FlatID         uuid.UUID          `gorm:"type:uuid;not null;index"`
	Category       complaint.Category `gorm:"type:varchar(30);not null"`
	Priority       complaint.Priority `gorm:"type:varchar(20);not null"`
	Status         complaint.Status   `gorm:"type:varchar(20);not null;index"`
	AssignedAdmins []uuid.UUID        `gorm:"type:text;serializer:json"`
	AssignedUsers  []uuid.UUID        `gorm:"type:text;serializer:json"`
	IsPrivate      bool               `gorm:"not null;default:false"`
	LastUpdatedBy  uuid.UUID          `gorm:"type:uuid"`
	CreatedAt      time.Time          `gorm:"not null;index"`
	UpdatedAt      time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ComplaintModel) TableName() string {
	return "complaints"
}

// ToDomain converts the persistence model to a domain Complaint
func (m *ComplaintModel) ToDomain() *complaint.Complaint {
	return &complaint.Complaint{
		ID:             m.ID,
		Title:          m.Title,
		Description:    m.Description,
		CreatedBy:      m.CreatedBy,
		FlatID:         m.FlatID,
		Category:       m.Category,
		Priority:       m.Priority,
		Status:         m.Status,
		AssignedAdmins: m.AssignedAdmins,
		AssignedUsers:  m.AssignedUsers,
		IsPrivate:      m.IsPrivate,
		LastUpdatedBy:  m.LastUpdatedBy,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ComplaintModelFromDomain creates a persistence model from a domain Complaint
func ComplaintModelFromDomain(c *complaint.Complaint) *ComplaintModel {
	return &ComplaintModel{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		CreatedBy:      c.CreatedBy,
		FlatID:         c.FlatID,
		Category:       c.Category,
		Priority:       c.Priority,
		Status:         c.Status,
		AssignedAdmins: c.AssignedAdmins,
		AssignedUsers:  c.AssignedUsers,
		IsPrivate:      c.IsPrivate,
		LastUpdatedBy:  c.LastUpdatedBy,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// CommentModel is one message in a complaint thread
type CommentModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null;index"`
	Message     string    `gorm:"type:text;not null"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CommentModel) TableName() string {
	return "complaint_comments"
}

// ToDomain converts the persistence model to a domain Comment
func (m *CommentModel) ToDomain() complaint.Comment {
	return complaint.Comment{
		ID:          m.ID,
		ComplaintID: m.ComplaintID,
		Message:     m.Message,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}
