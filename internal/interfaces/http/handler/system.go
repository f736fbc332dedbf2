package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/societyhub/backend/internal/infrastructure/logger"
	"github.com/societyhub/backend/internal/infrastructure/persistence"
	"github.com/societyhub/backend/internal/infrastructure/tenancy"
	"github.com/societyhub/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// Pinger checks the master store
type Pinger interface {
	Ping(ctx context.Context) error
}

// PoolStatser is implemented by masters that expose connection pool figures
type PoolStatser interface {
	Stats() (persistence.ConnectionStats, error)
}

// ConnStatser reports the tenant connections held by the router
type ConnStatser interface {
	Stats() tenancy.Stats
}

// SystemHandler serves liveness and system information
type SystemHandler struct {
	BaseHandler
	name      string
	master    Pinger
	router    ConnStatser
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name string, master Pinger, router ConnStatser) *SystemHandler {
	return &SystemHandler{
		name:      name,
		master:    master,
		router:    router,
		startTime: time.Now(),
	}
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Status    string        `json:"status"`
	Master    string        `json:"master"`
	Uptime    string        `json:"uptime"`
	GoVersion string        `json:"go_version"`
	Tenants   tenancy.Stats `json:"tenants"`

	MasterPool *persistence.ConnectionStats `json:"master_pool,omitempty"`
}

// Health handles GET /health. A failing master store yields 503; unhealthy
// tenant connections are reported but do not fail the check.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Master:    "ok",
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		GoVersion: runtime.Version(),
	}
	if h.router != nil {
		resp.Tenants = h.router.Stats()
	}

	status := http.StatusOK
	if h.master != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := h.master.Ping(ctx); err != nil {
			logger.L(c.Request.Context()).Warn("Master store ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Master = "unreachable"
			status = http.StatusServiceUnavailable
		}
		if ps, ok := h.master.(PoolStatser); ok {
			if pool, err := ps.Stats(); err == nil {
				resp.MasterPool = &pool
			}
		}
	}
	c.JSON(status, dto.NewSuccessResponse(resp))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// Ping handles GET /ping
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Service:   h.name,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
