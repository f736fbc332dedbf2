package tenancy

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/domain/society"
	"gorm.io/gorm"
)

// Conn is the live connection of one society. It is shared by every caller
// that resolves the society and must not be closed by them.
type Conn struct {
	Society  *society.Society
	DB       *gorm.DB
	OpenedAt time.Time

	lastUsed  atomic.Int64
	unhealthy atomic.Bool
	checkedAt atomic.Int64
}

func newConn(s *society.Society, db *gorm.DB, now time.Time) *Conn {
	c := &Conn{Society: s, DB: db, OpenedAt: now}
	c.touch(now)
	return c
}

// ID returns the society id
func (c *Conn) ID() uuid.UUID {
	return c.Society.ID
}

// Code returns the society code
func (c *Conn) Code() string {
	return c.Society.Code
}

// Healthy reports the result of the last background health check. A
// connection that was never checked is considered healthy.
func (c *Conn) Healthy() bool {
	return !c.unhealthy.Load()
}

// LastUsed returns when the connection was last resolved
func (c *Conn) LastUsed() time.Time {
	return time.Unix(0, c.lastUsed.Load())
}

// CheckedAt returns when health was last observed, or zero
func (c *Conn) CheckedAt() time.Time {
	ns := c.checkedAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

func (c *Conn) touch(now time.Time) {
	c.lastUsed.Store(now.UnixNano())
}

// ping checks the pool and records the outcome. It returns true when the
// health state changed.
func (c *Conn) ping(ctx context.Context, now time.Time) (bool, error) {
	err := c.pingErr(ctx)
	c.checkedAt.Store(now.UnixNano())
	was := c.unhealthy.Swap(err != nil)
	return was != (err != nil), err
}

func (c *Conn) pingErr(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Conn) close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithContext returns the connection's DB bound to ctx
func (c *Conn) WithContext(ctx context.Context) *gorm.DB {
	return c.DB.WithContext(ctx)
}

// ConnStats describes one held connection
type ConnStats struct {
	SocietyID string    `json:"society_id"`
	Code      string    `json:"code"`
	Healthy   bool      `json:"healthy"`
	OpenedAt  time.Time `json:"opened_at"`
	LastUsed  time.Time `json:"last_used"`
	CheckedAt time.Time `json:"checked_at,omitzero"`
}

func (c *Conn) stats() ConnStats {
	return ConnStats{
		SocietyID: c.Society.ID.String(),
		Code:      c.Society.Code,
		Healthy:   c.Healthy(),
		OpenedAt:  c.OpenedAt,
		LastUsed:  c.LastUsed(),
		CheckedAt: c.CheckedAt(),
	}
}
