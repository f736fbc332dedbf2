package tenancy

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	pingTimeout     = 5 * time.Second
	pingParallelism = 8
)

// CheckHealth pings every held connection and records the result on it.
// Broken connections stay installed: reconnecting is the pool's job and the
// next successful check marks them healthy again.
func (r *Router) CheckHealth(ctx context.Context) {
	conns := r.snapshot()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pingParallelism)
	for _, c := range conns {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, pingTimeout)
			defer cancel()

			changed, err := c.ping(pctx, r.now())
			if !changed {
				return nil
			}
			log := r.logger.With(zap.String("society_id", c.ID().String()), zap.String("society_code", c.Code()))
			if err != nil {
				log.Warn("Society connection unhealthy", zap.Error(err))
			} else {
				log.Info("Society connection recovered")
			}
			return nil
		})
	}
	_ = g.Wait()

	r.opts.Metrics.SetConnections(len(conns), r.unhealthyCount())
}

// Monitor runs health checks and idle eviction every interval until ctx is
// done. It returns immediately when interval is not positive.
func (r *Router) Monitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if r.IsClosed() {
				return
			}
			r.CheckHealth(ctx)
			r.EvictIdle(r.now())
		}
	}
}
