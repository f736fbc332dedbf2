// Package sequence issues per-society, per-year slip numbers.
package sequence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/billing"
	"github.com/societyhub/backend/internal/domain/shared"
	"github.com/societyhub/backend/internal/infrastructure/tenancy"
	"github.com/societyhub/backend/internal/infrastructure/telemetry"
	"gorm.io/gorm"
)

// upsertSQL creates the (society, year) counter at 1 or increments it, and
// returns the new value in the same statement. The store serializes
// concurrent callers on the row, so no two callers observe the same value.
const upsertSQL = `INSERT INTO slip_counters (society_id, year, counter) VALUES (?, ?, 1) ` +
	`ON CONFLICT (society_id, year) DO UPDATE SET counter = slip_counters.counter + 1 ` +
	`RETURNING counter`

// Resolver returns the connection of a society
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (*tenancy.Conn, error)
}

// Generator implements billing.SlipSequencer on the society's own store
type Generator struct {
	router  Resolver
	metrics *telemetry.Metrics
}

var _ billing.SlipSequencer = (*Generator)(nil)

// NewGenerator creates a Generator. metrics may be nil.
func NewGenerator(router Resolver, metrics *telemetry.Metrics) *Generator {
	return &Generator{router: router, metrics: metrics}
}

// Next issues the next slip number of society for year. Router errors are
// returned unchanged; a failed counter write is shared.ErrSequenceWriteFailed
// and callers must not assume a number was consumed.
func (g *Generator) Next(ctx context.Context, society string, year int) (billing.SlipNumber, error) {
	if year <= 0 {
		return billing.SlipNumber{}, fmt.Errorf("%w: year %d", shared.ErrInvalidInput, year)
	}

	conn, err := g.router.Resolve(ctx, society)
	if err != nil {
		return billing.SlipNumber{}, err
	}

	ctx, span := telemetry.StartSpan(ctx, "sequence.next",
		telemetry.AttrSocietyID, conn.ID().String(),
		telemetry.AttrSlipYear, year,
	)
	defer span.End()

	slip, err := increment(ctx, conn.DB, conn.ID(), year)
	g.metrics.ObserveSlip(err)
	if err != nil {
		telemetry.RecordError(span, err)
		return billing.SlipNumber{}, err
	}
	telemetry.SetAttributes(span, telemetry.AttrSlipNumber, slip.String())
	return slip, nil
}

// increment runs the counter upsert on the society connection. It is never
// handed a billing transaction: a number, once returned, stays consumed even
// when the caller's own write later rolls back.
func increment(ctx context.Context, db *gorm.DB, societyID uuid.UUID, year int) (billing.SlipNumber, error) {
	var counter int64
	if err := db.WithContext(ctx).Raw(upsertSQL, societyID, year).Row().Scan(&counter); err != nil {
		return billing.SlipNumber{}, fmt.Errorf("%w: %w", shared.ErrSequenceWriteFailed, err)
	}
	return billing.SlipNumber{Year: year, Counter: counter}, nil
}
