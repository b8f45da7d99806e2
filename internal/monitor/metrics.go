package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business metrics
var (
	OrderPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_order_placed_total",
		Help: "Total number of successfully placed orders",
	})

	OrderRollbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_order_rollback_total",
		Help: "Total number of order placements that were rolled back",
	})

	OrderCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_order_cancelled_total",
		Help: "Total number of cancelled orders",
	})

	SaleNoticePublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_sale_notice_published_total",
		Help: "Total number of sale notices published to the queue",
	})

	SaleNoticeConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "market_sale_notice_consumed_total",
		Help: "Total number of sale notices consumed from the queue",
	}, []string{"status"})

	GoodsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_goods_published_total",
		Help: "Total number of goods put on sale",
	})
)

// HTTP metrics
var (
	httpRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_request_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// RecordHTTPRequest records one served HTTP request
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Database metrics
var (
	dbConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_active",
		Help: "Number of active database connections",
	})

	dbConnectionsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_idle",
		Help: "Number of idle database connections",
	})
)

// UpdateDBConnections updates database connection gauges
func UpdateDBConnections(active, idle int) {
	dbConnectionsActive.Set(float64(active))
	dbConnectionsIdle.Set(float64(idle))
}
