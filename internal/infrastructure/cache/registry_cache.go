package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/societyhub/backend/internal/domain/society"
	"go.uber.org/zap"
)

const registryKeyPrefix = "society:registry:"

// CachedRegistry is a read-through Redis cache in front of the master
// registry. Descriptors are immutable, so entries are only ever expired by
// TTL. Misses are never cached: a society registered after a failed lookup
// must become visible immediately. Redis errors degrade to the underlying
// registry.
type CachedRegistry struct {
	next   society.Registry
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRegistry wraps next with a Redis cache
func NewCachedRegistry(next society.Registry, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRegistry{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// FindSociety serves from Redis when possible and populates it on a hit in
// the master registry under both the id and the code.
func (r *CachedRegistry) FindSociety(ctx context.Context, identifier string) (*society.Society, error) {
	key := registryKeyPrefix + society.NormalizeCode(identifier)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var s society.Society
		if jsonErr := json.Unmarshal(data, &s); jsonErr == nil {
			return &s, nil
		}
		r.logger.Warn("Discarding undecodable registry cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("Registry cache read failed", zap.String("key", key), zap.Error(err))
	}

	s, err := r.next.FindSociety(ctx, identifier)
	if err != nil {
		return nil, err
	}
	r.store(ctx, s)
	return s, nil
}

// Register writes through to the master registry
func (r *CachedRegistry) Register(ctx context.Context, s *society.Society) error {
	if err := r.next.Register(ctx, s); err != nil {
		return err
	}
	r.store(ctx, s)
	return nil
}

// List is not cached
func (r *CachedRegistry) List(ctx context.Context) ([]society.Society, error) {
	return r.next.List(ctx)
}

func (r *CachedRegistry) store(ctx context.Context, s *society.Society) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	pipe := r.client.Pipeline()
	pipe.Set(ctx, registryKeyPrefix+s.ID.String(), data, r.ttl)
	pipe.Set(ctx, registryKeyPrefix+s.Code, data, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("Registry cache write failed", zap.String("society_id", s.ID.String()), zap.Error(err))
	}
}
