// Package resident holds the people and flats of a society.
package resident

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/shared"
)

// Role is a society-level role carried in credentials
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
	// RoleSuper is the platform operator; it never belongs to a society store.
	RoleSuper Role = "super"
)

// IsValid reports whether r is a society role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleTenant:
		return true
	}
	return false
}

// IsResident reports whether r occupies a flat
func (r Role) IsResident() bool {
	return r == RoleOwner || r == RoleTenant
}

// User is a member of a society
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         Role
	FlatID       *uuid.UUID
	IsActive     bool
	CreatedBy    *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser validates input and builds an active user
func NewUser(name, email, phone string, role Role, passwordHash string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	if name == "" || email == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Name and email are required")
	}
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Phone number is required")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid role")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Password is required")
	}

	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Phone:        phone,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Deactivate blocks the user from authenticating
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now()
}
