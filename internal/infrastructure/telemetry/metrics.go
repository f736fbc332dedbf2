package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resolve outcomes recorded by the tenant router
const (
	ResolveHit         = "hit"
	ResolveOpened      = "opened"
	ResolveShared      = "shared"
	ResolveNotFound    = "not_found"
	ResolveUnreachable = "unreachable"
)

// Metrics is the service's Prometheus registry and instruments. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	routerResolves    *prometheus.CounterVec
	routerOpenSeconds prometheus.Histogram
	routerConnections prometheus.Gauge
	routerUnhealthy   prometheus.Gauge
	routerEvictions   prometheus.Counter

	slipsIssued   prometheus.Counter
	slipFailures  prometheus.Counter
	notifications *prometheus.CounterVec
	notifyErrors  *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewMetrics builds a private registry with runtime collectors and every
// instrument of the service.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		routerResolves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "router", Name: "resolves_total",
			Help: "Society connection resolutions by outcome.",
		}, []string{"result"}),
		routerOpenSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "router", Name: "open_duration_seconds",
			Help:    "Time to open and migrate a society connection.",
			Buckets: prometheus.DefBuckets,
		}),
		routerConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "router", Name: "connections",
			Help: "Society connections currently held.",
		}),
		routerUnhealthy: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "router", Name: "unhealthy_connections",
			Help: "Society connections whose last health check failed.",
		}),
		routerEvictions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "router", Name: "idle_evictions_total",
			Help: "Society connections closed after the idle timeout.",
		}),
		slipsIssued: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sequence", Name: "slips_issued_total",
			Help: "Slip numbers issued.",
		}),
		slipFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sequence", Name: "write_failures_total",
			Help: "Failed slip counter writes.",
		}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "notifications", Name: "delivered_total",
			Help: "Notification records written, by category.",
		}, []string{"category"}),
		notifyErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "notifications", Name: "failures_total",
			Help: "Fan-out attempts that failed, by category.",
		}, []string{"category"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveResolve counts one router resolution
func (m *Metrics) ObserveResolve(result string) {
	if m == nil {
		return
	}
	m.routerResolves.WithLabelValues(result).Inc()
}

// ObserveOpen records how long a connection open took
func (m *Metrics) ObserveOpen(d time.Duration) {
	if m == nil {
		return
	}
	m.routerOpenSeconds.Observe(d.Seconds())
}

// SetConnections reports held and unhealthy connection counts
func (m *Metrics) SetConnections(total, unhealthy int) {
	if m == nil {
		return
	}
	m.routerConnections.Set(float64(total))
	m.routerUnhealthy.Set(float64(unhealthy))
}

// IncEvictions counts idle evictions
func (m *Metrics) IncEvictions(n int) {
	if m == nil || n == 0 {
		return
	}
	m.routerEvictions.Add(float64(n))
}

// ObserveSlip counts an issued slip or a failed counter write
func (m *Metrics) ObserveSlip(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.slipFailures.Inc()
		return
	}
	m.slipsIssued.Inc()
}

// ObserveNotify counts delivered records or a failed fan-out
func (m *Metrics) ObserveNotify(category string, delivered int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.notifyErrors.WithLabelValues(category).Inc()
		return
	}
	m.notifications.WithLabelValues(category).Add(float64(delivered))
}

// GinMiddleware records request counts and latency per matched route
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
