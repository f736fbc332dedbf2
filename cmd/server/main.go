package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	auditapp "github.com/societyhub/backend/internal/application/audit"
	billingapp "github.com/societyhub/backend/internal/application/billing"
	complaintapp "github.com/societyhub/backend/internal/application/complaint"
	identityapp "github.com/societyhub/backend/internal/application/identity"
	noticeapp "github.com/societyhub/backend/internal/application/notice"
	notificationapp "github.com/societyhub/backend/internal/application/notification"
	propertyapp "github.com/societyhub/backend/internal/application/property"
	"github.com/societyhub/backend/internal/infrastructure/auth"
	"github.com/societyhub/backend/internal/infrastructure/cache"
	"github.com/societyhub/backend/internal/infrastructure/config"
	"github.com/societyhub/backend/internal/infrastructure/logger"
	"github.com/societyhub/backend/internal/infrastructure/messaging"
	"github.com/societyhub/backend/internal/infrastructure/persistence"
	"github.com/societyhub/backend/internal/infrastructure/persistence/models"
	"github.com/societyhub/backend/internal/infrastructure/sequence"
	"github.com/societyhub/backend/internal/infrastructure/telemetry"
	"github.com/societyhub/backend/internal/infrastructure/tenancy"
	"github.com/societyhub/backend/internal/interfaces/http/handler"
	"github.com/societyhub/backend/internal/interfaces/http/middleware"
	"github.com/societyhub/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			SocietyHub API
//	@version		1.0
//	@description	Multi-tenant housing society backend. Every society is served from its own database.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting society backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}

	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		metrics = telemetry.NewMetrics("societyhub")
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	dbTracing := telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.App.Env == "development",
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}

	master, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	if err := telemetry.RegisterDBTracing(master.DB, dbTracing, log); err != nil {
		log.Warn("Master database tracing disabled", zap.Error(err))
	}
	log.Info("Master database connected")

	registry, redisClient, err := cache.NewRegistryFactory(cfg.Redis, cfg.Tenancy, cache.WithLogger(log)).
		Wrap(ctx, persistence.NewGormSocietyRegistry(master.DB))
	if err != nil {
		return err
	}

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}

	connRouter := tenancy.NewRouter(registry,
		tenancy.NewGormConnector(cfg.Tenancy, gormLog, dbTracing, log),
		tenancy.Options{
			Schema:         models.TenantSchema(),
			IdleTimeout:    cfg.Tenancy.IdleTimeout,
			ConnectTimeout: cfg.Tenancy.ConnectTimeout,
			Logger:         log,
			Metrics:        metrics,
		})
	go connRouter.Monitor(ctx, cfg.Tenancy.HealthInterval)

	fanoutOpts := []notificationapp.Option{notificationapp.WithMetrics(metrics)}
	var publisher *messaging.NATSPublisher
	if cfg.NATS.Enabled {
		publisher, err = messaging.NewNATSPublisher(cfg.NATS, log)
		if err != nil {
			log.Warn("NATS unavailable, notifications are stored only", zap.Error(err))
		} else {
			fanoutOpts = append(fanoutOpts, notificationapp.WithPublisher(publisher))
		}
	}

	tenants := persistence.NewTenantOpener(connRouter)
	jwtService := auth.NewJWTService(cfg.JWT)
	fanout := notificationapp.NewEngine(connRouter, log, fanoutOpts...)

	authService := identityapp.NewAuthService(tenants, persistence.NewGormSuperUserRepository(master.DB), jwtService, blacklist, log)
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Provisioning: handler.NewProvisioningHandler(identityapp.NewProvisioningService(registry, tenants, log)),
		Flat:         handler.NewFlatHandler(propertyapp.NewFlatService(log)),
		User:         handler.NewUserHandler(propertyapp.NewUserService(blacklist, cfg.JWT.Expiration, log)),
		Maintenance: handler.NewMaintenanceHandler(
			billingapp.NewMaintenanceService(sequence.NewGenerator(connRouter, metrics), fanout, log)),
		Complaint:    handler.NewComplaintHandler(complaintapp.NewService(fanout, log)),
		Notice:       handler.NewNoticeHandler(noticeapp.NewService(fanout, log)),
		Notification: handler.NewNotificationHandler(notificationapp.NewInboxService(log)),
		Audit:        handler.NewAuditHandler(auditapp.NewService(log)),
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	secCfg := middleware.DefaultSecurityConfig()
	secCfg.HSTSEnabled = cfg.App.Env == "production"

	jwtCfg := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	}

	engineCfg := router.EngineConfig{
		Logger: log,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tp.IsEnabled(),
		},
		CORS:           corsCfg,
		Security:       secCfg,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Swagger: middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		},
		SwaggerAuth: middleware.JWTAuthMiddlewareWithConfig(jwtCfg),
	}
	if metrics != nil {
		engineCfg.Metrics = metrics
		engineCfg.MetricsPath = cfg.Metrics.Path
	}
	engine, err := router.NewEngine(engineCfg, handler.NewSystemHandler(cfg.App.Name, master, connRouter))
	if err != nil {
		return err
	}

	loginLimiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateWindow)
	go loginLimiter.Run(ctx)

	router.NewRouter(engine).Register(router.SocietyAPI(handlers, router.Chain{
		JWT:          jwtCfg,
		Tenants:      tenants,
		LoginLimiter: loginLimiter,
		Logger:       log,
	})...).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		stop()
		shutdown(log, cfg.HTTP.ShutdownTimeout, nil, connRouter, publisher, redisClient, master, tp)
		return err
	}

	shutdown(log, cfg.HTTP.ShutdownTimeout, srv, connRouter, publisher, redisClient, master, tp)
	log.Info("Server exited gracefully")
	return nil
}

// shutdown drains in-flight requests before releasing the society
// connections, the publisher and the master database.
func shutdown(
	log *zap.Logger,
	timeout time.Duration,
	srv *http.Server,
	connRouter *tenancy.Router,
	publisher *messaging.NATSPublisher,
	redisClient *redis.Client,
	master *persistence.Database,
	tp *telemetry.TracerProvider,
) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
		}
	}
	if err := connRouter.Close(); err != nil {
		log.Error("Error closing society connections", zap.Error(err))
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error("Error closing NATS publisher", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}
	if err := master.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
}
