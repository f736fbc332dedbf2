package sequence

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/billing"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/domain/society"
	"github.com/societyhub/backend/internal/infrastructure/config"
	"github.com/societyhub/backend/internal/infrastructure/persistence"
	"github.com/societyhub/backend/internal/infrastructure/persistence/models"
	"github.com/societyhub/backend/internal/infrastructure/telemetry"
	"github.com/societyhub/backend/internal/infrastructure/tenancy"
	"github.com/societyhub/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticResolver struct {
	conn *tenancy.Conn
	err  error
}

func (r staticResolver) Resolve(context.Context, string) (*tenancy.Conn, error) {
	return r.conn, r.err
}

// harness wires a sqlite master registry, a router and a generator
type harness struct {
	registry  *persistence.GormSocietyRegistry
	router    *tenancy.Router
	generator *Generator
	dir       string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	master := testutil.NewSQLiteDB(t, models.MasterSchema()...)
	registry := persistence.NewGormSocietyRegistry(master)
	connector := tenancy.NewGormConnector(
		config.TenancyConfig{MaxOpenConns: 4, MaxIdleConns: 2, ConnectTimeout: 5 * time.Second},
		nil, telemetry.DBTracingConfig{}, nil)
	router := tenancy.NewRouter(registry, connector, tenancy.Options{Schema: models.TenantSchema()})
	t.Cleanup(func() { _ = router.Close() })
	return &harness{
		registry:  registry,
		router:    router,
		generator: NewGenerator(router, telemetry.NewMetrics("test")),
		dir:       t.TempDir(),
	}
}

func (h *harness) register(t *testing.T, code string) *society.Society {
	t.Helper()
	s, err := society.NewSociety(code+" heights", code, tenancy.SQLiteScheme+filepath.Join(h.dir, code+".db"), "")
	require.NoError(t, err)
	require.NoError(t, h.registry.Register(context.Background(), s))
	return s
}

func TestGenerator_Next_IssuesUpsertStatement(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	sid := uuid.New()
	conn := &tenancy.Conn{Society: &society.Society{ID: sid, Code: "acme"}, DB: mdb.DB}

	mdb.Mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO slip_counters (society_id, year, counter) VALUES ($1, $2, 1) ` +
			`ON CONFLICT (society_id, year) DO UPDATE SET counter = slip_counters.counter + 1 ` +
			`RETURNING counter`)).
		WithArgs(sid, 2025).
		WillReturnRows(sqlmock.NewRows([]string{"counter"}).AddRow(3))

	slip, err := NewGenerator(staticResolver{conn: conn}, nil).Next(context.Background(), "acme", 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-03", slip.String())
	mdb.ExpectationsWereMet(t)
}

func TestGenerator_Next_WriteFailure(t *testing.T) {
	mdb := testutil.NewMockDB(t)
	conn := &tenancy.Conn{Society: &society.Society{ID: uuid.New(), Code: "acme"}, DB: mdb.DB}
	cause := errors.New("could not serialize access")

	mdb.Mock.ExpectQuery("INSERT INTO slip_counters").WillReturnError(cause)

	slip, err := NewGenerator(staticResolver{conn: conn}, nil).Next(context.Background(), "acme", 2025)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrSequenceWriteFailed)
	assert.ErrorIs(t, err, cause)
	assert.True(t, slip.IsZero())
	mdb.ExpectationsWereMet(t)
}

func TestGenerator_Next_RouterErrorsPassThrough(t *testing.T) {
	for _, routeErr := range []error{shared.ErrTenantNotFound, shared.ErrTenantUnreachable} {
		t.Run(routeErr.Error(), func(t *testing.T) {
			_, err := NewGenerator(staticResolver{err: routeErr}, nil).Next(context.Background(), "acme", 2025)
			assert.ErrorIs(t, err, routeErr)
			assert.NotErrorIs(t, err, shared.ErrSequenceWriteFailed)
		})
	}
}

func TestGenerator_Next_RejectsYear(t *testing.T) {
	_, err := NewGenerator(staticResolver{err: errors.New("unused")}, nil).Next(context.Background(), "acme", 0)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestGenerator_AcmeScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.generator.Next(ctx, "acme", 2025)
	require.ErrorIs(t, err, shared.ErrTenantNotFound)

	h.register(t, "acme")

	for _, want := range []string{"2025-01", "2025-02", "2025-03"} {
		slip, err := h.generator.Next(ctx, "acme", 2025)
		require.NoError(t, err)
		assert.Equal(t, want, slip.String())
	}
}

func TestGenerator_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	h := newHarness(t)
	acme := h.register(t, "acme")

	const callers = 100
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		slips = make([]billing.SlipNumber, callers)
		errs  = make([]error, callers)
	)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			id := "acme"
			if i%3 == 0 {
				id = acme.ID.String()
			}
			slips[i], errs[i] = h.generator.Next(context.Background(), id, 2025)
		}()
	}
	close(start)
	wg.Wait()

	seen := make(map[int64]bool, callers)
	for i := range callers {
		require.NoError(t, errs[i])
		assert.False(t, seen[slips[i].Counter], "duplicate counter %d", slips[i].Counter)
		seen[slips[i].Counter] = true
	}
	for n := int64(1); n <= callers; n++ {
		assert.True(t, seen[n], "missing counter %d", n)
	}
}

func TestGenerator_IsolatedBySocietyAndYear(t *testing.T) {
	h := newHarness(t)
	h.register(t, "acme")
	h.register(t, "zenith")
	ctx := context.Background()

	next := func(code string, year int) string {
		slip, err := h.generator.Next(ctx, code, year)
		require.NoError(t, err)
		return slip.String()
	}

	assert.Equal(t, "2025-01", next("acme", 2025))
	assert.Equal(t, "2025-02", next("acme", 2025))
	assert.Equal(t, "2025-01", next("zenith", 2025))
	assert.Equal(t, "2026-01", next("acme", 2026))
	assert.Equal(t, "2025-03", next("acme", 2025))
	assert.Equal(t, "2025-02", next("zenith", 2025))
}

func TestGenerator_WidthGrowsPastTwoDigits(t *testing.T) {
	h := newHarness(t)
	acme := h.register(t, "acme")
	ctx := context.Background()

	conn, err := h.router.Resolve(ctx, "acme")
	require.NoError(t, err)
	require.NoError(t, conn.DB.Create(&models.SlipCounterModel{SocietyID: acme.ID, Year: 2025, Counter: 99}).Error)

	slip, err := h.generator.Next(ctx, "acme", 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-100", slip.String())
}

func TestIncrement_CreatesThenIncrements(t *testing.T) {
	db := testutil.NewSQLiteDB(t, &models.SlipCounterModel{})
	sid := uuid.New()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		slip, err := increment(ctx, db, sid, 2025)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("2025-%02d", i), slip.String())
	}

	var row models.SlipCounterModel
	require.NoError(t, db.First(&row, "society_id = ? AND year = ?", sid, 2025).Error)
	assert.Equal(t, int64(3), row.Counter)
}
