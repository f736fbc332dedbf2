package router

import (
	"github.com/gin-gonic/gin"
	_ "github.com/societyhub/backend/docs"
	"github.com/societyhub/backend/internal/infrastructure/logger"
	"github.com/societyhub/backend/internal/infrastructure/telemetry"
	"github.com/societyhub/backend/internal/interfaces/http/handler"
	"github.com/societyhub/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// EngineConfig configures the global middleware and the operational routes
type EngineConfig struct {
	Logger         *zap.Logger
	Metrics        *telemetry.Metrics // nil disables /metrics and request metrics
	MetricsPath    string
	Tracing        middleware.TracingConfig
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	MaxBodySize    int64
	TrustedProxies []string
	Swagger        middleware.SwaggerConfig
	// SwaggerAuth runs when Swagger.RequireAuth is set, usually the JWT middleware
	SwaggerAuth    gin.HandlerFunc
}

// NewEngine builds the gin engine with the global middleware and the
// /health, /ping, metrics and /swagger routes. API routes are added through
// a Router.
func NewEngine(cfg EngineConfig, system *handler.SystemHandler) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	if cfg.Tracing.Enabled {
		engine.Use(middleware.SpanErrorMarker())
	}
	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics.GinMiddleware())
	}
	engine.Use(middleware.SecureWithConfig(cfg.Security))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	engine.GET("/health", system.Health)
	engine.GET("/ping", system.Ping)
	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(cfg.Metrics.Handler()))
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, cfg.SwaggerAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler))
	return engine, nil
}
