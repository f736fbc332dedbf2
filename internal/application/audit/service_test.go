package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/audit"
	"github.com/societyhub/backend/internal/testutil/tenanttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_List(t *testing.T) {
	tn := tenanttest.New(t, "acme")
	ctx := context.Background()
	user := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, tn.Store.Audit().Record(ctx, audit.NewEntry(audit.ActionCreate, "flats", uuid.New(), user, map[string]any{"n": i})))
	}

	svc := NewService(zap.NewNop())

	all, err := svc.List(ctx, tn.Tenant, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "create", all[0].Action)
	assert.Equal(t, user, all[0].UserID)
	assert.False(t, all[0].CreatedAt.Before(all[2].CreatedAt))

	two, err := svc.List(ctx, tn.Tenant, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}
