package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// InboxLimit is the number of notifications a user sees
const InboxLimit = 50

// InboxService serves a user's notifications
type InboxService struct {
	logger *zap.Logger
}

// NewInboxService creates an InboxService
func NewInboxService(logger *zap.Logger) *InboxService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InboxService{logger: logger}
}

// List returns the newest notifications of the caller
func (s *InboxService) List(ctx context.Context, t scope.Tenant, actor scope.Actor) ([]NotificationResponse, error) {
	items, err := t.Store.Notifications().ListForUser(ctx, actor.UserID, InboxLimit)
	if err != nil {
		return nil, err
	}
	return toNotificationResponses(items), nil
}

// UnreadCount counts the caller's unread notifications
func (s *InboxService) UnreadCount(ctx context.Context, t scope.Tenant, actor scope.Actor) (int64, error) {
	return t.Store.Notifications().CountUnread(ctx, actor.UserID)
}

// MarkRead marks one of the caller's notifications read
func (s *InboxService) MarkRead(ctx context.Context, t scope.Tenant, actor scope.Actor, id uuid.UUID) error {
	return t.Store.Notifications().MarkRead(ctx, actor.UserID, id)
}

// MarkAllRead marks every unread notification of the caller read
func (s *InboxService) MarkAllRead(ctx context.Context, t scope.Tenant, actor scope.Actor) (int64, error) {
	n, err := t.Store.Notifications().MarkAllRead(ctx, actor.UserID)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("Marked notifications read",
		zap.String("user_id", actor.UserID.String()),
		zap.Int64("count", n))
	return n, nil
}

func toNotificationResponses(items []notification.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(items))
	for i := range items {
		out[i] = ToNotificationResponse(&items[i])
	}
	return out
}
