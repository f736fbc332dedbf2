package complaint

import (
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/complaint"
)

// CreateComplaintInput opens a complaint. FlatID is only honoured for admins;
// residents always raise complaints against their own flat.
type CreateComplaintInput struct {
	Title       string
	Description string
	FlatID      *uuid.UUID
	Category    complaint.Category
	Priority    complaint.Priority
	IsPrivate   bool
}

// AssignInput replaces the assignees of a complaint
type AssignInput struct {
	Admins []uuid.UUID
	Users  []uuid.UUID
}

// ComplaintResponse is the API view of a complaint
type ComplaintResponse struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	CreatedBy      uuid.UUID   `json:"created_by"`
	FlatID         uuid.UUID   `json:"flat_id"`
	Category       string      `json:"category"`
	Priority       string      `json:"priority"`
	Status         string      `json:"status"`
	AssignedAdmins []uuid.UUID `json:"assigned_admins"`
	AssignedUsers  []uuid.UUID `json:"assigned_users"`
	IsPrivate      bool        `json:"is_private"`
	LastUpdatedBy  uuid.UUID   `json:"last_updated_by"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// CommentResponse is the API view of a comment
type CommentResponse struct {
	ID          uuid.UUID `json:"id"`
	ComplaintID uuid.UUID `json:"complaint_id"`
	Message     string    `json:"message"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToComplaintResponse converts a complaint
func ToComplaintResponse(c *complaint.Complaint) ComplaintResponse {
	admins, users := c.AssignedAdmins, c.AssignedUsers
	if admins == nil {
		admins = []uuid.UUID{}
	}
	if users == nil {
		users = []uuid.UUID{}
	}
	return ComplaintResponse{
		ID: c.ID, Title: c.Title, Description: c.Description, CreatedBy: c.CreatedBy, FlatID: c.FlatID,
		Category: string(c.Category), Priority: string(c.Priority), Status: string(c.Status),
		AssignedAdmins: admins, AssignedUsers: users, IsPrivate: c.IsPrivate,
		LastUpdatedBy: c.LastUpdatedBy, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func toCommentResponse(c *complaint.Comment) CommentResponse {
	return CommentResponse{ID: c.ID, ComplaintID: c.ComplaintID, Message: c.Message, CreatedBy: c.CreatedBy, CreatedAt: c.CreatedAt}
}
