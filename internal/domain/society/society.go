// Package society models the master registry of societies (tenants) and the
// platform operators that provision them.
package society

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/shared"
)

// Society is the tenant descriptor held by the master registry. It is
// immutable once registered.
type Society struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	DSN       string    `json:"dsn"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSociety validates and builds a descriptor. Codes are stored lowercase.
func NewSociety(name, code, dsn, address string) (*Society, error) {
	name = strings.TrimSpace(name)
	code = NormalizeCode(code)
	dsn = strings.TrimSpace(dsn)

	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Society name is required")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Society code is required")
	}
	if strings.ContainsAny(code, " /:") {
		return nil, shared.NewDomainError("INVALID_INPUT", "Society code may not contain spaces, '/' or ':'")
	}
	if dsn == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Society DSN is required")
	}

	return &Society{
		ID:        uuid.New(),
		Name:      name,
		Code:      code,
		DSN:       dsn,
		Address:   strings.TrimSpace(address),
		CreatedAt: time.Now(),
	}, nil
}

// NormalizeCode returns the canonical form of a society code
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// HasEndpoint reports whether the descriptor carries connection data
func (s *Society) HasEndpoint() bool {
	return s != nil && s.DSN != ""
}

// Registry is the master registry lookup. FindSociety accepts either the
// society UUID or its code and returns shared.ErrNotFound on a miss.
type Registry interface {
	FindSociety(ctx context.Context, identifier string) (*Society, error)
	Register(ctx context.Context, s *Society) error
	List(ctx context.Context) ([]Society, error)
}

// SuperUser is a platform operator stored in the master registry
type SuperUser struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// SuperUserRepository persists platform operators
type SuperUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*SuperUser, error)
	Create(ctx context.Context, u *SuperUser) error
}
