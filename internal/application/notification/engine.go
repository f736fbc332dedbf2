// Package notification fans society events out to in-app notifications and
// serves each user's inbox.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/notification"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/infrastructure/persistence"
	"github.com/societyhub/backend/internal/infrastructure/telemetry"
	"github.com/societyhub/backend/internal/infrastructure/tenancy"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Resolver returns the connection of a society
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (*tenancy.Conn, error)
}

// Publisher forwards delivered notifications to realtime subscribers
type Publisher interface {
	Publish(ctx context.Context, society string, records []notification.Notification) error
}

// StoreFunc binds repositories to a society connection
type StoreFunc func(db *gorm.DB) scope.Repositories

// Option configures an Engine
type Option func(*Engine)

// WithPublisher publishes every delivered batch after it is written
func WithPublisher(p Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithMetrics records delivered and failed fan-outs
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithStores replaces the GORM repositories
func WithStores(fn StoreFunc) Option {
	return func(e *Engine) { e.stores = fn }
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine resolves recipients for an event and writes one unread
// notification per recipient.
type Engine struct {
	router    Resolver
	stores    StoreFunc
	publisher Publisher
	metrics   *telemetry.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewEngine creates a fan-out engine
func NewEngine(router Resolver, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		router: router,
		stores: func(db *gorm.DB) scope.Repositories {
			return persistence.NewGormTransactionScope(db)
		},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Notify evaluates rules in order, drops duplicates and the actor, and
// writes the result: nothing for no recipients, one insert for one, one bulk
// insert otherwise. Every failure is shared.ErrNotifyFailed wrapping the cause.
func (e *Engine) Notify(ctx context.Context, event notification.Event, rules ...notification.Rule) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "notification.notify",
		telemetry.AttrSociety, event.Society,
		telemetry.AttrCategory, string(event.Category),
	)
	defer span.End()

	delivered, err := e.deliver(ctx, event, rules)
	e.metrics.ObserveNotify(string(event.Category), delivered, err)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, fmt.Errorf("%w: %w", shared.ErrNotifyFailed, err)
	}
	telemetry.SetAttributes(span, telemetry.AttrRecipients, delivered)
	return delivered, nil
}

func (e *Engine) deliver(ctx context.Context, event notification.Event, rules []notification.Rule) (int, error) {
	if err := event.Validate(); err != nil {
		return 0, err
	}

	conn, err := e.router.Resolve(ctx, event.Society)
	if err != nil {
		return 0, err
	}
	repos := e.stores(conn.DB)

	set, err := notification.Collect(ctx, repos.Directory(), event.Actor, rules...)
	if err != nil {
		return 0, err
	}

	records := set.Records(event, e.now())
	switch len(records) {
	case 0:
		return 0, nil
	case 1:
		err = repos.Notifications().Create(ctx, &records[0])
	default:
		err = repos.Notifications().CreateBatch(ctx, records)
	}
	if err != nil {
		return 0, err
	}

	e.publish(ctx, event.Society, records)
	return len(records), nil
}

func (e *Engine) publish(ctx context.Context, society string, records []notification.Notification) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, society, records); err != nil {
		e.logger.Warn("Failed to publish notifications",
			zap.String("society", society),
			zap.Int("count", len(records)),
			zap.Error(err))
	}
}

// NotifyAfterCommit is for callers whose action is already committed: a
// failed fan-out is logged at warn level and never returned.
func (e *Engine) NotifyAfterCommit(ctx context.Context, event notification.Event, rules ...notification.Rule) int {
	delivered, err := e.Notify(ctx, event, rules...)
	if err != nil {
		e.logger.Warn("Notification fan-out failed",
			zap.String("society", event.Society),
			zap.String("category", string(event.Category)),
			zap.String("actor", event.Actor.String()),
			zap.Error(err))
	}
	return delivered
}
