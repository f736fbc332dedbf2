package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/societyhub/backend/internal/infrastructure/persistence"
	"github.com/societyhub/backend/internal/infrastructure/tenancy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type fixedStats tenancy.Stats

func (s fixedStats) Stats() tenancy.Stats { return tenancy.Stats(s) }

type pooledMaster struct{ open int }

func (pooledMaster) Ping(context.Context) error { return nil }

func (m pooledMaster) Stats() (persistence.ConnectionStats, error) {
	return persistence.ConnectionStats{OpenConnections: m.open}, nil
}

func stringsReader(s string) *strings.Reader { return strings.NewReader(s) }

func TestSystemHandler_Health(t *testing.T) {
	stats := fixedStats{Connections: 2, Unhealthy: 1}

	t.Run("healthy master", func(t *testing.T) {
		h := NewSystemHandler("societyhub", pingFunc(func(context.Context) error { return nil }), stats)
		c, w := newContext(http.MethodGet, "/health")
		h.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w).Data.(map[string]any)
		assert.Equal(t, "ok", data["status"])
		tenants := data["tenants"].(map[string]any)
		assert.EqualValues(t, 2, tenants["connections"])
		assert.EqualValues(t, 1, tenants["unhealthy"], "unhealthy tenants do not fail the check")
	})

	t.Run("master unreachable", func(t *testing.T) {
		h := NewSystemHandler("societyhub", pingFunc(func(context.Context) error { return assert.AnError }), stats)
		c, w := newContext(http.MethodGet, "/health")
		h.Health(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		data := decode(t, w).Data.(map[string]any)
		assert.Equal(t, "degraded", data["status"])
		assert.Equal(t, "unreachable", data["master"])
	})

	t.Run("ping is bounded", func(t *testing.T) {
		var hasDeadline bool
		h := NewSystemHandler("societyhub", pingFunc(func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		}), nil)
		c, _ := newContext(http.MethodGet, "/health")
		h.Health(c)
		assert.True(t, hasDeadline)
	})
}

func TestSystemHandler_HealthReportsMasterPool(t *testing.T) {
	h := NewSystemHandler("societyhub", pooledMaster{open: 3}, nil)
	c, w := newContext(http.MethodGet, "/health")
	h.Health(c)

	require.Equal(t, http.StatusOK, w.Code)
	pool := decode(t, w).Data.(map[string]any)["master_pool"].(map[string]any)
	assert.EqualValues(t, 3, pool["open_connections"])
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("societyhub", nil, nil)
	c, w := newContext(http.MethodGet, "/ping")
	h.Ping(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "pong", data["message"])
	assert.Equal(t, "societyhub", data["service"])
}
