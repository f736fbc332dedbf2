// Package audit exposes the society audit trail to admins.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/application/scope"
	"go.uber.org/zap"
)

// DefaultLimit caps audit listings when the caller asks for none
const DefaultLimit = 100

// MaxLimit is the largest page the service returns
const MaxLimit = 500

// EntryResponse is the API view of an audit entry
type EntryResponse struct {
	ID         uuid.UUID      `json:"id"`
	Action     string         `json:"action"`
	Collection string         `json:"collection"`
	RecordID   uuid.UUID      `json:"record_id"`
	UserID     uuid.UUID      `json:"user_id"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Service lists audit entries
type Service struct {
	logger *zap.Logger
}

// NewService creates a new audit Service
func NewService(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// List returns the newest entries
func (s *Service) List(ctx context.Context, t scope.Tenant, limit int) ([]EntryResponse, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	entries, err := t.Store.Audit().List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryResponse{
			ID: e.ID, Action: string(e.Action), Collection: e.Collection, RecordID: e.RecordID,
			UserID: e.UserID, Details: e.Details, CreatedAt: e.CreatedAt,
		}
	}
	return out, nil
}
