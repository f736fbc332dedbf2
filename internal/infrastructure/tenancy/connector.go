package tenancy

import (
	"context"
	"fmt"
	"strings"

	"github.com/societyhub/backend/internal/domain/society"
	"github.com/societyhub/backend/internal/infrastructure/config"
	"github.com/societyhub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLiteScheme prefixes DSNs served by the embedded sqlite driver
const SQLiteScheme = "sqlite://"

// Connector opens the data store of a society
type Connector interface {
	Open(ctx context.Context, s *society.Society) (*gorm.DB, error)
}

// GormConnector opens postgres or sqlite connections with bounded pools
type GormConnector struct {
	cfg     config.TenancyConfig
	log     gormlogger.Interface
	tracing telemetry.DBTracingConfig
	logger  *zap.Logger
}

// NewGormConnector creates a connector. log may be nil for a silent GORM logger.
func NewGormConnector(cfg config.TenancyConfig, log gormlogger.Interface, tracing telemetry.DBTracingConfig, logger *zap.Logger) *GormConnector {
	if log == nil {
		log = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormConnector{cfg: cfg, log: log, tracing: tracing, logger: logger}
}

// Dialector picks the GORM driver from the DSN. "sqlite://path" selects
// sqlite; anything else is handed to the postgres driver.
func Dialector(dsn string) gorm.Dialector {
	if path, ok := strings.CutPrefix(dsn, SQLiteScheme); ok {
		return sqlite.Open(path)
	}
	return postgres.New(postgres.Config{DSN: dsn})
}

// Open connects to the society store and verifies it answers within the
// configured connect timeout.
func (c *GormConnector) Open(ctx context.Context, s *society.Society) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(s.DSN), &gorm.Config{
		Logger:                 c.log,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Code, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Code, err)
	}

	maxOpen := c.cfg.MaxOpenConns
	if strings.HasPrefix(s.DSN, SQLiteScheme) {
		// sqlite serializes writers; one connection avoids SQLITE_BUSY.
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(min(c.cfg.MaxIdleConns, maxOpen))
	sqlDB.SetConnMaxLifetime(c.cfg.ConnMaxLifetime)

	pingCtx := ctx
	if c.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, c.cfg.ConnectTimeout)
		defer cancel()
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", s.Code, err)
	}

	tracing := c.tracing
	tracing.DBName = s.Code
	if err := telemetry.RegisterDBTracing(db, tracing, c.logger); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("trace %s: %w", s.Code, err)
	}
	return db, nil
}
