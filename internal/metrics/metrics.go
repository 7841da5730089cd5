package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	ordersCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Total number of orders created",
		},
		[]string{"customer"},
	)

	orderStatusChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_status_changes_total",
			Help: "Total number of order status updates by target status",
		},
		[]string{"status"},
	)

	stockUnitsDecrementedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_stock_units_decremented_total",
			Help: "Total physical stock units taken by orders",
		},
	)

	orderRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_order_rejections_total",
			Help: "Total number of order creations that failed",
		},
		[]string{"reason"},
	)

	storeTxDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_store_tx_duration_seconds",
			Help:    "Duration of store transactions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(ordersCreatedTotal)
	prometheus.MustRegister(orderStatusChangesTotal)
	prometheus.MustRegister(stockUnitsDecrementedTotal)
	prometheus.MustRegister(orderRejectionsTotal)
	prometheus.MustRegister(storeTxDuration)
}

// GinMiddleware records request counts and latencies by route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordOrderCreated(guest bool, stockUnits int) {
	customer := "user"
	if guest {
		customer = "guest"
	}
	ordersCreatedTotal.WithLabelValues(customer).Inc()
	if stockUnits > 0 {
		stockUnitsDecrementedTotal.Add(float64(stockUnits))
	}
}

func RecordOrderRejected(reason string) {
	orderRejectionsTotal.WithLabelValues(reason).Inc()
}

func RecordStatusChange(status string) {
	orderStatusChangesTotal.WithLabelValues(status).Inc()
}
