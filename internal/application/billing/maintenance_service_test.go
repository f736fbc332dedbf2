package billing

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/societyhub/backend/internal/domain/billing"
	"github.com/societyhub/backend/internal/domain/notification"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/testutil"
	"github.com/societyhub/backend/internal/testutil/tenanttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSlipSequencer is a mock implementation of billing.SlipSequencer
type MockSlipSequencer struct {
	mock.Mock
}

func (m *MockSlipSequencer) Next(ctx context.Context, society string, year int) (billing.SlipNumber, error) {
	args := m.Called(ctx, society, year)
	return args.Get(0).(billing.SlipNumber), args.Error(1)
}

// slowSequencer holds every call so concurrent payers overlap
type slowSequencer struct {
	hold  time.Duration
	calls atomic.Int64
}

func (s *slowSequencer) Next(_ context.Context, _ string, year int) (billing.SlipNumber, error) {
	n := s.calls.Add(1)
	time.Sleep(s.hold)
	return billing.SlipNumber{Year: year, Counter: n}, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
	rules  [][]notification.Rule
}

func (n *recordingNotifier) NotifyAfterCommit(_ context.Context, event notification.Event, rules ...notification.Rule) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	n.rules = append(n.rules, rules)
	return len(rules)
}

type fixture struct {
	tn       *tenanttest.Tenant
	flat     *resident.Flat
	admin    *resident.User
	owner    *resident.User
	seq      *MockSlipSequencer
	notifier *recordingNotifier
	svc      *MaintenanceService
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
		owner:    tn.User(t, f, resident.RoleOwner, flat),
		seq:      &MockSlipSequencer{},
		notifier: &recordingNotifier{},
	}
	fx.svc = NewMaintenanceService(fx.seq, fx.notifier, zap.NewNop())
	return fx
}

func (fx *fixture) create(t *testing.T, status billing.Status) *MaintenanceResponse {
	t.Helper()
	resp, err := fx.svc.Create(context.Background(), fx.tn.Tenant, tenanttest.Actor(fx.admin), CreateMaintenanceInput{
		FlatID:  fx.flat.ID,
		Amount:  decimal.NewFromInt(1500),
		DueDate: testutil.DueDate(2025, time.March),
		Status:  status,
	})
	require.NoError(t, err)
	return resp
}

func TestMaintenanceService_PayIssuesSlipOnce(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	society := fx.tn.Key()

	m := fx.create(t, billing.StatusPending)
	assert.Empty(t, m.SlipNumber)
	fx.seq.AssertNotCalled(t, "Next", mock.Anything, mock.Anything, mock.Anything)

	fx.seq.On("Next", mock.Anything, society, 2025).Return(billing.SlipNumber{Year: 2025, Counter: 1}, nil).Once()

	paid, err := fx.svc.Pay(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	assert.Equal(t, "2025-01", paid.SlipNumber)
	assert.True(t, paid.ReceiptGenerated)

	again, err := fx.svc.Pay(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01", again.SlipNumber)

	// Back to pending and paid again still reuses the slip.
	_, err = fx.svc.Update(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), m.ID, UpdateMaintenanceInput{Status: billing.StatusPending})
	require.NoError(t, err)
	again, err = fx.svc.Pay(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01", again.SlipNumber)

	fx.seq.AssertNumberOfCalls(t, "Next", 1)
	fx.seq.AssertExpectations(t)

	slips, err := fx.svc.Slips(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), ListFilter{})
	require.NoError(t, err)
	require.Len(t, slips, 1)
	assert.Equal(t, "2025-01", slips[0].SlipNumber)
	assert.Equal(t, fx.owner.ID, slips[0].OwnerID)
	assert.Equal(t, 3, slips[0].Month)
}

func TestMaintenanceService_CreatePaid(t *testing.T) {
	fx := newFixture(t)
	fx.seq.On("Next", mock.Anything, fx.tn.Key(), 2025).Return(billing.SlipNumber{Year: 2025, Counter: 7}, nil).Once()

	m := fx.create(t, billing.StatusPaid)
	assert.Equal(t, "2025-07", m.SlipNumber)
	fx.seq.AssertExpectations(t)

	slips, err := fx.tn.Store.Slips().List(context.Background(), billing.SlipFilter{SocietyID: fx.tn.ID()})
	require.NoError(t, err)
	require.Len(t, slips, 1)
	assert.Equal(t, m.ID, slips[0].MaintenanceID)
}

func TestMaintenanceService_SequenceFailureLeavesChargeUnpaid(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	m := fx.create(t, billing.StatusPending)

	writeErr := fmt.Errorf("%w: connection reset", shared.ErrSequenceWriteFailed)
	fx.seq.On("Next", mock.Anything, fx.tn.Key(), 2025).Return(billing.SlipNumber{}, writeErr).Once()

	_, err := fx.svc.Pay(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), m.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrSequenceWriteFailed)

	stored, err := fx.tn.Store.Maintenance().FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPending, stored.Status)
	assert.Empty(t, stored.SlipNumber)

	slips, err := fx.tn.Store.Slips().List(ctx, billing.SlipFilter{})
	require.NoError(t, err)
	assert.Empty(t, slips)
}

func TestMaintenanceService_ConcurrentPayIssuesOneSlip(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	seq := &slowSequencer{hold: 200 * time.Millisecond}
	fx.svc = NewMaintenanceService(seq, fx.notifier, zap.NewNop())
	m := fx.create(t, billing.StatusPending)

	const payers = 4
	var wg sync.WaitGroup
	errs := make([]error, payers)
	for i := 0; i < payers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.svc.Pay(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), m.ID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), seq.calls.Load())

	stored, err := fx.tn.Store.Maintenance().FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, stored.Status)
	assert.Equal(t, "2025-01", stored.SlipNumber)

	slips, err := fx.tn.Store.Slips().List(ctx, billing.SlipFilter{SocietyID: fx.tn.ID()})
	require.NoError(t, err)
	require.Len(t, slips, 1)
	assert.Equal(t, stored.SlipNumber, slips[0].SlipNumber)
	assert.Equal(t, m.ID, slips[0].MaintenanceID)

	// Only the request that moved the charge to paid notifies.
	assert.Len(t, fx.notifier.events, 2)
}

func TestMaintenanceService_NotifiesFlatOccupants(t *testing.T) {
	fx := newFixture(t)
	fx.seq.On("Next", mock.Anything, mock.Anything, 2025).Return(billing.SlipNumber{Year: 2025, Counter: 2}, nil)

	m := fx.create(t, billing.StatusPending)
	_, err := fx.svc.Pay(context.Background(), fx.tn.Tenant, tenanttest.Actor(fx.admin), m.ID)
	require.NoError(t, err)

	require.Len(t, fx.notifier.events, 2)
	due, paid := fx.notifier.events[0], fx.notifier.events[1]
	assert.Equal(t, notification.CategoryMaintenance, due.Category)
	assert.Equal(t, "Maintenance due", due.Title)
	assert.Contains(t, due.Message, "1,500.00")
	assert.Equal(t, fx.admin.ID, due.Actor)
	require.NotNil(t, due.Ref.MaintenanceID)
	assert.Equal(t, m.ID, *due.Ref.MaintenanceID)

	assert.Equal(t, "Maintenance payment received", paid.Title)
	assert.Contains(t, paid.Message, "2025-02")
	assert.Equal(t, "flat_occupants", fx.notifier.rules[1][0].Name)
}

func TestMaintenanceService_RoleScopedListing(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := testutil.Faker(t)
	otherFlat := fx.tn.Flat(t, f)
	tenant := fx.tn.User(t, f, resident.RoleTenant, otherFlat)

	fx.create(t, billing.StatusPending)
	_, err := fx.svc.Create(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), CreateMaintenanceInput{
		FlatID: otherFlat.ID, Amount: decimal.NewFromInt(900), DueDate: testutil.DueDate(2025, time.April),
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		actor *resident.User
		want  int
	}{
		{"admin sees all", fx.admin, 2},
		{"owner sees own flat", fx.owner, 1},
		{"tenant sees rented flat", tenant, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := fx.svc.List(ctx, fx.tn.Tenant, tenanttest.Actor(tt.actor), ListFilter{})
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}

	_, err = fx.svc.ByFlat(ctx, fx.tn.Tenant, tenanttest.Actor(fx.owner), otherFlat.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	items, err := fx.svc.List(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), ListFilter{Year: 2025, Month: 4})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, otherFlat.ID, items[0].FlatID)
}

func TestMaintenanceService_MonthlyReport(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.seq.On("Next", mock.Anything, mock.Anything, 2025).Return(billing.SlipNumber{Year: 2025, Counter: 1}, nil)

	f := testutil.Faker(t)
	second := fx.tn.Flat(t, f)
	fx.create(t, billing.StatusPaid)
	_, err := fx.svc.Create(ctx, fx.tn.Tenant, tenanttest.Actor(fx.admin), CreateMaintenanceInput{
		FlatID: second.ID, Amount: decimal.RequireFromString("999.50"), DueDate: testutil.DueDate(2025, time.March),
	})
	require.NoError(t, err)

	report, err := fx.svc.MonthlyReport(ctx, fx.tn.Tenant, 2025, 3)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2499.50").Equal(report.Total))
	assert.True(t, decimal.NewFromInt(1500).Equal(report.Collected))
	assert.True(t, decimal.RequireFromString("999.50").Equal(report.Pending))
	assert.Len(t, report.Records, 2)

	_, err = fx.svc.MonthlyReport(ctx, fx.tn.Tenant, 2025, 13)
	assert.Error(t, err)
}

func TestMaintenanceService_Validation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	admin := tenanttest.Actor(fx.admin)

	_, err := fx.svc.Create(ctx, fx.tn.Tenant, admin, CreateMaintenanceInput{FlatID: uuid.New(), Amount: decimal.NewFromInt(1), DueDate: time.Now()})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = fx.svc.Create(ctx, fx.tn.Tenant, admin, CreateMaintenanceInput{FlatID: fx.flat.ID, Amount: decimal.NewFromInt(1), DueDate: time.Now(), Status: "overdue"})
	assert.Error(t, err)

	m := fx.create(t, billing.StatusPending)
	require.NoError(t, fx.svc.Delete(ctx, fx.tn.Tenant, admin, m.ID))
	_, err = fx.svc.Get(ctx, fx.tn.Tenant, admin, m.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
