package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/societyhub/backend/internal/domain/society"
	"github.com/societyhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// RegistryFactory decides whether the master registry is fronted by Redis
type RegistryFactory struct {
	redisConfig   config.RedisConfig
	tenancyConfig config.TenancyConfig
	logger        *zap.Logger
	allowFallback bool
}

// RegistryFactoryOption is a functional option for configuring the factory
type RegistryFactoryOption func(*RegistryFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RegistryFactoryOption {
	return func(f *RegistryFactory) {
		f.logger = logger
	}
}

// WithFallback controls whether an unreachable Redis falls back to the
// uncached registry. Default is true.
func WithFallback(allow bool) RegistryFactoryOption {
	return func(f *RegistryFactory) {
		f.allowFallback = allow
	}
}

// NewRegistryFactory creates a new factory
func NewRegistryFactory(redisCfg config.RedisConfig, tenancyCfg config.TenancyConfig, opts ...RegistryFactoryOption) *RegistryFactory {
	f := &RegistryFactory{
		redisConfig:   redisCfg,
		tenancyConfig: tenancyCfg,
		logger:        zap.NewNop(),
		allowFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Wrap returns the registry to use and the Redis client backing it, if any.
// The caller owns the returned client.
func (f *RegistryFactory) Wrap(ctx context.Context, registry society.Registry) (society.Registry, *redis.Client, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Registry cache disabled")
		return registry, nil, nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		if !f.allowFallback {
			return nil, nil, fmt.Errorf("redis required for registry cache but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, serving registry lookups from the master database", zap.Error(err))
		return registry, nil, nil
	}

	f.logger.Info("Using Redis registry cache", zap.Duration("ttl", f.tenancyConfig.RegistryTTL))
	return NewCachedRegistry(registry, client, f.tenancyConfig.RegistryTTL, f.logger), client, nil
}
