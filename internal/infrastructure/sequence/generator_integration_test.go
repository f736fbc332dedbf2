//go:build integration

package sequence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/domain/society"
	"github.com/societyhub/backend/internal/infrastructure/config"
	"github.com/societyhub/backend/internal/infrastructure/persistence/models"
	"github.com/societyhub/backend/internal/infrastructure/telemetry"
	"github.com/societyhub/backend/internal/infrastructure/tenancy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type memRegistry map[string]*society.Society

func (r memRegistry) FindSociety(_ context.Context, id string) (*society.Society, error) {
	if s, ok := r[society.NormalizeCode(id)]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (r memRegistry) Register(context.Context, *society.Society) error { return nil }
func (r memRegistry) List(context.Context) ([]society.Society, error) { return nil, nil }

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("acme"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestGenerator_Postgres_ConcurrentCallers(t *testing.T) {
	dsn := startPostgres(t)

	acme, err := society.NewSociety("Acme Heights", "acme", dsn, "")
	require.NoError(t, err)
	registry := memRegistry{"acme": acme}

	connector := tenancy.NewGormConnector(
		config.TenancyConfig{MaxOpenConns: 16, MaxIdleConns: 4, ConnectTimeout: 10 * time.Second},
		nil, telemetry.DBTracingConfig{}, nil)
	router := tenancy.NewRouter(registry, connector, tenancy.Options{Schema: models.TenantSchema()})
	t.Cleanup(func() { _ = router.Close() })
	gen := NewGenerator(router, nil)

	const callers = 200
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		counters = make(map[int64]int, callers)
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			slip, err := gen.Next(context.Background(), "acme", 2025)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			counters[slip.Counter]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, counters, callers)
	for n := int64(1); n <= callers; n++ {
		assert.Equal(t, 1, counters[n], "counter %d", n)
	}

	assert.Equal(t, 1, router.Stats().Connections)
}
