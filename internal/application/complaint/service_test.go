package complaint

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/complaint"
	"github.com/societyhub/backend/internal/domain/notification"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/testutil"
	"github.com/societyhub/backend/internal/testutil/tenanttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sent struct {
	event notification.Event
	rules []notification.Rule
}

type recordingNotifier struct {
	sent []sent
}

func (n *recordingNotifier) NotifyAfterCommit(_ context.Context, event notification.Event, rules ...notification.Rule) int {
	n.sent = append(n.sent, sent{event: event, rules: rules})
	return len(rules)
}

type fixture struct {
	tn       *tenanttest.Tenant
	flat     *resident.Flat
	admin    *resident.User
	admin2   *resident.User
	owner    *resident.User
	tenant   *resident.User
	notifier *recordingNotifier
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tn := tenanttest.New(t, "acme")
	f := testutil.Faker(t)
	flat := tn.Flat(t, f)
	fx := &fixture{
		tn:       tn,
		flat:     flat,
		admin:    tn.User(t, f, resident.RoleAdmin, nil),
		admin2:   tn.User(t, f, resident.RoleAdmin, nil),
		owner:    tn.User(t, f, resident.RoleOwner, flat),
		tenant:   tn.User(t, f, resident.RoleTenant, flat),
		notifier: &recordingNotifier{},
	}
	fx.svc = NewService(fx.notifier, zap.NewNop())
	return fx
}

// recipients evaluates the rules of the i-th notification against the store
func (fx *fixture) recipients(t *testing.T, i int) []uuid.UUID {
	t.Helper()
	require.Greater(t, len(fx.notifier.sent), i)
	s := fx.notifier.sent[i]
	set, err := notification.Collect(context.Background(), fx.tn.Store.Directory(), s.event.Actor, s.rules...)
	require.NoError(t, err)
	return set.IDs()
}

func TestService_Create(t *testing.T) {
	t.Run("resident raises for own flat and admins hear about it", func(t *testing.T) {
		fx := newFixture(t)
		other := uuid.New()
		c, err := fx.svc.Create(context.Background(), fx.tn.Tenant, tenanttest.Actor(fx.owner), CreateComplaintInput{
			Title: "Leak", Description: "Bathroom ceiling leaks", FlatID: &other,
		})
		require.NoError(t, err)
		assert.Equal(t, fx.flat.ID, c.FlatID)
		assert.Equal(t, "open", c.Status)
		assert.Equal(t, "other", c.Category)

		assert.Equal(t, notification.CategoryComplaintCreated, fx.notifier.sent[0].event.Category)
		assert.ElementsMatch(t, []uuid.UUID{fx.admin.ID, fx.admin2.ID}, fx.recipients(t, 0))
	})

	t.Run("admin raises for a flat and members plus other admins hear", func(t *testing.T) {
		fx := newFixture(t)
		_, err := fx.svc.Create(context.Background(), fx.tn.Tenant, tenanttest.Actor(fx.admin), CreateComplaintInput{
			Title: "Parking", Description: "Car parked in visitor slot", FlatID: &fx.flat.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{fx.owner.ID, fx.tenant.ID, fx.admin2.ID}, fx.recipients(t, 0))
	})

	t.Run("admin must name a flat", func(t *testing.T) {
		fx := newFixture(t)
		_, err := fx.svc.Create(context.Background(), fx.tn.Tenant, tenanttest.Actor(fx.admin), CreateComplaintInput{Title: "x", Description: "y"})
		assert.Error(t, err)
		assert.Empty(t, fx.notifier.sent)
	})

	t.Run("resident without a flat is refused", func(t *testing.T) {
		fx := newFixture(t)
		homeless := fx.tn.User(t, testutil.Faker(t), resident.RoleOwner, nil)
		_, err := fx.svc.Create(context.Background(), fx.tn.Tenant, tenanttest.Actor(homeless), CreateComplaintInput{Title: "x", Description: "y"})
		assert.Error(t, err)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	c, err := fx.svc.Create(ctx, fx.tn.Tenant, tenanttest.Actor(fx.tenant), CreateComplaintInput{Title: "Lift", Description: "Lift stuck"})
	require.NoError(t, err)

	_, err = fx.svc.UpdateStatus(ctx, fx.tn.Tenant, tenanttest.Actor(fx.owner), c.ID, complaint.StatusResolved)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	updated, err := fx.svc.UpdateStatus(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), c.ID, complaint.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", updated.Status)
	assert.Equal(t, fx.admin.ID, updated.LastUpdatedBy)

	last := len(fx.notifier.sent) - 1
	assert.Contains(t, fx.notifier.sent[last].event.Message, "in progress")
	// creator first, then the other flat member
	assert.Equal(t, []uuid.UUID{fx.tenant.ID, fx.owner.ID}, fx.recipients(t, last))

	_, err = fx.svc.UpdateStatus(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), c.ID, "reopened")
	assert.Error(t, err)
}

func TestService_Comments(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	c, err := fx.svc.Create(ctx, fx.tn.Tenant, tenanttest.Actor(fx.owner), CreateComplaintInput{Title: "Noise", Description: "Loud music"})
	require.NoError(t, err)

	_, err = fx.svc.AddComment(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), c.ID, "Looking into it")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{fx.owner.ID}, fx.recipients(t, 1))

	_, err = fx.svc.AddComment(ctx, fx.tn.Tenant, tenanttest.Actor(fx.owner), c.ID, "Still loud")
	require.NoError(t, err)
	// the creator is the commenter, so only admins remain
	assert.Equal(t, []uuid.UUID{fx.admin.ID, fx.admin2.ID}, fx.recipients(t, 2))

	_, err = fx.svc.AddComment(ctx, fx.tn.Tenant, tenanttest.Actor(fx.owner), c.ID, "   ")
	assert.Error(t, err)

	comments, err := fx.svc.Comments(ctx, fx.tn.Tenant, tenanttest.Actor(fx.tenant), c.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Looking into it", comments[0].Message)
}

func TestService_Visibility(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := testutil.Faker(t)
	otherFlat := fx.tn.Flat(t, f)
	neighbour := fx.tn.User(t, f, resident.RoleOwner, otherFlat)

	shared1, err := fx.svc.Create(ctx, fx.tn.Tenant, tenanttest.Actor(fx.owner), CreateComplaintInput{Title: "Water", Description: "No water"})
	require.NoError(t, err)
	private, err := fx.svc.Create(ctx, fx.tn.Tenant, tenanttest.Actor(fx.owner), CreateComplaintInput{Title: "Private", Description: "Personal", IsPrivate: true})
	require.NoError(t, err)
	_, err = fx.svc.Create(ctx, fx.tn.Tenant, tenanttest.Actor(neighbour), CreateComplaintInput{Title: "Other", Description: "Elsewhere"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		actor *resident.User
		want  int
	}{
		{"admin sees all", fx.admin, 3},
		{"creator sees own including private", fx.owner, 2},
		{"flat member sees shared flat complaints", fx.tenant, 1},
		{"neighbour sees only theirs", neighbour, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := fx.svc.List(ctx, fx.tn.Tenant, tenanttest.Actor(tt.actor))
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}

	_, err = fx.svc.Get(ctx, fx.tn.Tenant, tenanttest.Actor(fx.tenant), private.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	_, err = fx.svc.Get(ctx, fx.tn.Tenant, tenanttest.Actor(neighbour), shared1.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	t.Run("assignment grants access", func(t *testing.T) {
		_, err := fx.svc.Assign(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), private.ID, AssignInput{
			Admins: []uuid.UUID{fx.admin2.ID}, Users: []uuid.UUID{neighbour.ID, neighbour.ID},
		})
		require.NoError(t, err)
		got, err := fx.svc.Get(ctx, fx.tn.Tenant, tenanttest.Actor(neighbour), private.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{neighbour.ID}, got.AssignedUsers)

		_, err = fx.svc.Assign(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), private.ID, AssignInput{Admins: []uuid.UUID{neighbour.ID}})
		assert.Error(t, err)
	})

	t.Run("only admins and the creator delete", func(t *testing.T) {
		assert.ErrorIs(t, fx.svc.Delete(ctx, fx.tn.Tenant, tenanttest.Actor(fx.tenant), shared1.ID), shared.ErrForbidden)
		require.NoError(t, fx.svc.Delete(ctx, fx.tn.Tenant, tenanttest.Actor(fx.owner), shared1.ID))
		_, err := fx.svc.Get(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), shared1.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
