package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/notification"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/testutil"
	"github.com/societyhub/backend/internal/testutil/tenanttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInboxService(t *testing.T) {
	tn := tenanttest.New(t, "acme")
	f := testutil.Faker(t)
	owner := tenanttest.Actor(tn.User(t, f, resident.RoleOwner, nil))
	other := tenanttest.Actor(tn.User(t, f, resident.RoleTenant, nil))
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	records := make([]notification.Notification, 0, InboxLimit+5)
	for i := 0; i < InboxLimit+5; i++ {
		records = append(records, notification.Notification{
			ID:        uuid.New(),
			UserID:    owner.UserID,
			Category:  notification.CategoryAnnouncement,
			Title:     f.Sentence(3),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	require.NoError(t, tn.Store.Notifications().CreateBatch(ctx, records))

	svc := NewInboxService(zap.NewNop())

	items, err := svc.List(ctx, tn.Tenant, owner)
	require.NoError(t, err)
	require.Len(t, items, InboxLimit)
	assert.Equal(t, records[len(records)-1].ID, items[0].ID)
	assert.Equal(t, "announcement", items[0].Type)

	unread, err := svc.UnreadCount(ctx, tn.Tenant, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(InboxLimit+5), unread)

	assert.ErrorIs(t, svc.MarkRead(ctx, tn.Tenant, other, records[0].ID), shared.ErrNotFound)
	require.NoError(t, svc.MarkRead(ctx, tn.Tenant, owner, records[0].ID))

	n, err := svc.MarkAllRead(ctx, tn.Tenant, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(InboxLimit+4), n)

	unread, err = svc.UnreadCount(ctx, tn.Tenant, owner)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
