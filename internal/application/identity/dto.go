package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/society"
	"github.com/societyhub/backend/internal/infrastructure/auth"
)

// LoginInput contains the input for society user login
type LoginInput struct {
	SocietyCode string
	Email       string
	Password    string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Token   *auth.Token      `json:"token"`
	User    UserInfo         `json:"user"`
	Society *SocietyResponse `json:"society,omitempty"`
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID     uuid.UUID  `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   string     `json:"role"`
	FlatID *uuid.UUID `json:"flat_id,omitempty"`
}

// SocietyResponse is the public view of a registered society
type SocietyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterSocietyInput registers a new society store
type RegisterSocietyInput struct {
	Name    string
	Code    string
	DSN     string
	Address string
}

// CreateAdminInput provisions an admin inside a society store
type CreateAdminInput struct {
	Society  string
	Name     string
	Email    string
	Phone    string
	Password string
}

// CurrentUser is returned by the "me" endpoint
type CurrentUser struct {
	UserID    uuid.UUID  `json:"user_id"`
	Role      string     `json:"role"`
	SocietyID string     `json:"society_id,omitempty"`
	FlatID    *uuid.UUID `json:"flat_id,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
}

func toUserInfo(u *resident.User) UserInfo {
	return UserInfo{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role), FlatID: u.FlatID}
}

// ToSocietyResponse hides connection data from a descriptor
func ToSocietyResponse(s *society.Society) *SocietyResponse {
	return &SocietyResponse{ID: s.ID, Name: s.Name, Code: s.Code, Address: s.Address, CreatedAt: s.CreatedAt}
}
