package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worldreports",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "worldreports",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "worldreports",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Report metrics
	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worldreports",
		Subsystem: "reports",
		Name:      "generated_total",
		Help:      "Total reports generated, by outcome",
	}, []string{"family", "scope", "mode", "outcome"})

	ReportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "worldreports",
		Subsystem: "reports",
		Name:      "duration_seconds",
		Help:      "Time to resolve, fetch and assemble a report",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"family"})

	ReportRows = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "worldreports",
		Subsystem: "reports",
		Name:      "rows",
		Help:      "Rows returned per report",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
	}, []string{"family"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worldreports",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Report events handed to the broker, by outcome",
	}, []string{"outcome"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "worldreports",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "worldreports",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "worldreports",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "worldreports",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}

// ObserveReport records one report generation.
func ObserveReport(family, scope, mode, outcome string, rows int, elapsed time.Duration) {
	ReportsGenerated.WithLabelValues(family, scope, mode, outcome).Inc()
	ReportDuration.WithLabelValues(family).Observe(elapsed.Seconds())
	if outcome == "ok" {
		ReportRows.WithLabelValues(family).Observe(float64(rows))
	}
}

// UpdateDBPoolMetrics updates database pool gauges from either a pgxpool.Stat
// or a database/sql DBStats value.
func UpdateDBPoolMetrics(stat any) {
	// pgxpool.Stat, matched structurally so this package does not import pgx
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
	}

	switch s := stat.(type) {
	case poolStat:
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
	case sql.DBStats:
		DBPoolConnsAcquired.Set(float64(s.InUse))
		DBPoolConnsIdle.Set(float64(s.Idle))
		DBPoolConnsOpen.Set(float64(s.OpenConnections))
	}
}
