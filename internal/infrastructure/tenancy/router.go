package tenancy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/domain/society"
	"github.com/societyhub/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrRouterClosed is returned by Resolve after Close
var ErrRouterClosed = errors.New("tenancy: router closed")

// Options configures a Router
type Options struct {
	// Schema is migrated into every society store on first open.
	Schema []any
	// IdleTimeout closes connections unused for this long. 0 disables it.
	IdleTimeout time.Duration
	// ConnectTimeout bounds lookup, open and migration of a new connection.
	ConnectTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *telemetry.Metrics
}

// Router maps society identifiers to live connections. Identifiers may be
// the society UUID or its code; both resolve to the same Conn.
//
// The first resolution of a society looks it up in the registry, opens the
// store, migrates the schema and installs the connection. Later resolutions
// are a map lookup. Failures are not remembered, so the next call retries
// from scratch.
type Router struct {
	registry  society.Registry
	connector Connector
	opts      Options
	logger    *zap.Logger
	now       func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	aliases map[string]uuid.UUID
	entries map[uuid.UUID]*Conn
	closed  bool
}

// NewRouter creates a Router
func NewRouter(registry society.Registry, connector Connector, opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		registry:  registry,
		connector: connector,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
		aliases:   make(map[string]uuid.UUID),
		entries:   make(map[uuid.UUID]*Conn),
	}
}

// Resolve returns the connection of the society named by identifier.
//
// It fails with shared.ErrTenantNotFound when the registry has no usable
// descriptor and with shared.ErrTenantUnreachable when the store cannot be
// opened or migrated.
func (r *Router) Resolve(ctx context.Context, identifier string) (*Conn, error) {
	key := society.NormalizeCode(identifier)
	if key == "" {
		return nil, fmt.Errorf("%w: empty identifier", shared.ErrTenantNotFound)
	}

	if c, ok := r.cached(key); ok {
		r.opts.Metrics.ObserveResolve(telemetry.ResolveHit)
		return c, nil
	}

	ctx, span := telemetry.StartSpan(ctx, "tenancy.resolve", telemetry.AttrSociety, key)
	defer span.End()

	c, joined, err := r.resolveSlow(ctx, key)
	if err != nil {
		telemetry.RecordError(span, err)
		r.observeFailure(err)
		return nil, err
	}
	if joined {
		r.opts.Metrics.ObserveResolve(telemetry.ResolveShared)
	}
	telemetry.SetAttributes(span, telemetry.AttrSocietyID, c.ID().String())
	return c, nil
}

func (r *Router) cached(key string) (*Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sid, ok := r.aliases[key]
	if !ok {
		return nil, false
	}
	c, ok := r.entries[sid]
	if ok {
		c.touch(r.now())
	}
	return c, ok
}

func (r *Router) resolveSlow(ctx context.Context, key string) (*Conn, bool, error) {
	if r.IsClosed() {
		return nil, false, fmt.Errorf("%w: %w", shared.ErrTenantUnreachable, ErrRouterClosed)
	}

	// Waiters share the leader's work, so it must not die with the leader's
	// request. ConnectTimeout bounds it instead.
	work := context.WithoutCancel(ctx)
	if r.opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		work, cancel = context.WithTimeout(work, r.opts.ConnectTimeout)
		defer cancel()
	}

	v, err, _ := r.group.Do("lookup:"+key, func() (any, error) {
		s, err := r.registry.FindSociety(work, key)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			return nil, fmt.Errorf("%w: %s", shared.ErrTenantNotFound, key)
		case err != nil:
			return nil, fmt.Errorf("%w: registry lookup %s: %w", shared.ErrTenantUnreachable, key, err)
		case !s.HasEndpoint():
			return nil, fmt.Errorf("%w: %s has no data store", shared.ErrTenantNotFound, key)
		}
		return s, nil
	})
	if err != nil {
		return nil, false, err
	}
	desc := v.(*society.Society)

	// Another alias of the same society may already be installed.
	if c, ok := r.adopt(key, desc.ID); ok {
		return c, true, nil
	}

	v, err, joined := r.group.Do("connect:"+desc.ID.String(), func() (any, error) {
		if c, ok := r.adopt(key, desc.ID); ok {
			return c, nil
		}
		return r.connect(work, key, desc)
	})
	if err != nil {
		return nil, false, err
	}
	c := v.(*Conn)
	r.alias(key, c)
	return c, joined, nil
}

// adopt returns an installed connection for sid and records key as its alias
func (r *Router) adopt(key string, sid uuid.UUID) (*Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.entries[sid]
	if ok {
		r.aliases[key] = sid
		c.touch(r.now())
	}
	return c, ok
}

func (r *Router) alias(key string, c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[c.ID()] == c {
		r.aliases[key] = c.ID()
	}
}

func (r *Router) connect(ctx context.Context, key string, desc *society.Society) (*Conn, error) {
	start := r.now()
	log := r.logger.With(zap.String("society_id", desc.ID.String()), zap.String("society_code", desc.Code))

	db, err := r.connector.Open(ctx, desc)
	if err != nil {
		log.Warn("Society store unreachable", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", shared.ErrTenantUnreachable, err)
	}

	c := newConn(desc, db, r.now())
	if len(r.opts.Schema) > 0 {
		if err := db.WithContext(ctx).AutoMigrate(r.opts.Schema...); err != nil {
			_ = c.close()
			log.Warn("Society schema migration failed", zap.Error(err))
			return nil, fmt.Errorf("%w: migrate %s: %w", shared.ErrTenantUnreachable, desc.Code, err)
		}
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		_ = c.close()
		return nil, fmt.Errorf("%w: %w", shared.ErrTenantUnreachable, ErrRouterClosed)
	}
	r.entries[desc.ID] = c
	r.aliases[key] = desc.ID
	r.aliases[desc.ID.String()] = desc.ID
	r.aliases[desc.Code] = desc.ID
	total := len(r.entries)
	r.mu.Unlock()

	elapsed := r.now().Sub(start)
	r.opts.Metrics.ObserveResolve(telemetry.ResolveOpened)
	r.opts.Metrics.ObserveOpen(elapsed)
	r.opts.Metrics.SetConnections(total, r.unhealthyCount())
	log.Info("Society connection opened", zap.Duration("elapsed", elapsed), zap.Int("connections", total))
	return c, nil
}

func (r *Router) observeFailure(err error) {
	if errors.Is(err, shared.ErrTenantNotFound) {
		r.opts.Metrics.ObserveResolve(telemetry.ResolveNotFound)
		return
	}
	r.opts.Metrics.ObserveResolve(telemetry.ResolveUnreachable)
}

// Stats describes the held connections
type Stats struct {
	Connections int         `json:"connections"`
	Unhealthy   int         `json:"unhealthy"`
	Societies   []ConnStats `json:"societies"`
}

// Stats returns a snapshot of the held connections
func (r *Router) Stats() Stats {
	conns := r.snapshot()
	st := Stats{Connections: len(conns), Societies: make([]ConnStats, 0, len(conns))}
	for _, c := range conns {
		cs := c.stats()
		if !cs.Healthy {
			st.Unhealthy++
		}
		st.Societies = append(st.Societies, cs)
	}
	return st
}

func (r *Router) snapshot() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Conn, 0, len(r.entries))
	for _, c := range r.entries {
		out = append(out, c)
	}
	return out
}

func (r *Router) unhealthyCount() int {
	n := 0
	for _, c := range r.snapshot() {
		if !c.Healthy() {
			n++
		}
	}
	return n
}

// EvictIdle closes connections not resolved since IdleTimeout before now and
// returns how many were closed. It does nothing when IdleTimeout is 0.
func (r *Router) EvictIdle(now time.Time) int {
	if r.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-r.opts.IdleTimeout)

	r.mu.Lock()
	var evicted []*Conn
	for sid, c := range r.entries {
		if c.LastUsed().Before(cutoff) {
			delete(r.entries, sid)
			evicted = append(evicted, c)
		}
	}
	for key, sid := range r.aliases {
		if _, ok := r.entries[sid]; !ok {
			delete(r.aliases, key)
		}
	}
	total := len(r.entries)
	r.mu.Unlock()

	for _, c := range evicted {
		if err := c.close(); err != nil {
			r.logger.Warn("Closing idle society connection failed", zap.String("society_code", c.Code()), zap.Error(err))
		}
		r.logger.Info("Idle society connection closed", zap.String("society_code", c.Code()))
	}
	r.opts.Metrics.IncEvictions(len(evicted))
	r.opts.Metrics.SetConnections(total, r.unhealthyCount())
	return len(evicted)
}

// Close closes every connection. Resolve fails afterwards.
func (r *Router) Close() error {
	r.mu.Lock()
	r.closed = true
	conns := make([]*Conn, 0, len(r.entries))
	for _, c := range r.entries {
		conns = append(conns, c)
	}
	r.entries = make(map[uuid.UUID]*Conn)
	r.aliases = make(map[string]uuid.UUID)
	r.mu.Unlock()

	var errs []error
	for _, c := range conns {
		if err := c.close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.Code(), err))
		}
	}
	r.opts.Metrics.SetConnections(0, 0)
	return errors.Join(errs...)
}

// IsClosed reports whether Close was called
func (r *Router) IsClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}
