// Package complaint covers resident complaints and their discussion threads.
package complaint

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/shared"
)

// Status of a complaint
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Label is the human form used in notifications ("in progress")
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Category of a complaint
type Category string

const (
	CategoryMaintenance Category = "maintenance"
	CategorySecurity    Category = "security"
	CategoryNoise       Category = "noise"
	CategoryBilling     Category = "billing"
	CategoryOther       Category = "other"
)

// Priority of a complaint
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Complaint is raised against a flat
type Complaint struct {
	ID             uuid.UUID
	Title          string
	Description    string
	CreatedBy      uuid.UUID
	FlatID         uuid.UUID
	Category       Category
	Priority       Priority
	Status         Status
	AssignedAdmins []uuid.UUID
	AssignedUsers  []uuid.UUID
	IsPrivate      bool
	LastUpdatedBy  uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewComplaint opens a complaint for a flat
func NewComplaint(title, description string, createdBy, flatID uuid.UUID, category Category, priority Priority, private bool) (*Complaint, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Title and description required")
	}
	if flatID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Flat is required")
	}
	if category == "" {
		category = CategoryOther
	}
	if priority == "" {
		priority = PriorityMedium
	}
	now := time.Now()
	return &Complaint{
		ID:            uuid.New(),
		Title:         title,
		Description:   description,
		CreatedBy:     createdBy,
		FlatID:        flatID,
		Category:      category,
		Priority:      priority,
		Status:        StatusOpen,
		IsPrivate:     private,
		LastUpdatedBy: createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsAssignedAdmin reports whether userID is among the assigned admins
func (c *Complaint) IsAssignedAdmin(userID uuid.UUID) bool {
	return slices.Contains(c.AssignedAdmins, userID)
}

// ChangeStatus moves the complaint to s
func (c *Complaint) ChangeStatus(s Status, by uuid.UUID) error {
	if !s.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid status")
	}
	c.Status = s
	c.LastUpdatedBy = by
	c.UpdatedAt = time.Now()
	return nil
}

// Assign replaces the assignee lists
func (c *Complaint) Assign(admins, users []uuid.UUID, by uuid.UUID) {
	c.AssignedAdmins = admins
	c.AssignedUsers = users
	c.LastUpdatedBy = by
	c.UpdatedAt = time.Now()
}

// Comment is one message in a complaint thread
type Comment struct {
	ID          uuid.UUID
	ComplaintID uuid.UUID
	Message     string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
}

// NewComment validates and builds a comment
func NewComment(complaintID, by uuid.UUID, message string) (*Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Comment cannot be empty")
	}
	return &Comment{
		ID:          uuid.New(),
		ComplaintID: complaintID,
		Message:     message,
		CreatedBy:   by,
		CreatedAt:   time.Now(),
	}, nil
}

// Preview truncates a comment for notification bodies
func (c *Comment) Preview() string {
	r := []rune(c.Message)
	if len(r) <= 100 {
		return c.Message
	}
	return string(r[:100])
}

// Filter narrows complaint listings. A nil Filter lists everything.
type Filter struct {
	CreatedBy *uuid.UUID
	FlatID    *uuid.UUID
}

// Repository persists complaints and comments
type Repository interface {
	Create(ctx context.Context, c *Complaint) error
	Update(ctx context.Context, c *Complaint) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Complaint, error)
	// List returns complaints created by CreatedBy or raised for FlatID, newest first.
	List(ctx context.Context, filter *Filter) ([]Complaint, error)
	AddComment(ctx context.Context, c *Comment) error
	Comments(ctx context.Context, complaintID uuid.UUID) ([]Comment, error)
}
