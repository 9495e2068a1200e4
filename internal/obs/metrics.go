package obs

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP metrics
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Domain metrics
var (
	SubmissionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submissions_created_total",
			Help: "Submissions created, by policy category.",
		},
		[]string{"category"},
	)

	PaymentsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_recorded_total",
		Help: "Payments recorded with a due-date rollover.",
	})

	DocumentUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_uploads_total",
			Help: "Document uploads to object storage, by result.",
		},
		[]string{"result"},
	)

	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "head_office_emails_total",
			Help: "Head-office notification emails, by result.",
		},
		[]string{"result"},
	)

	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_events_published_total",
			Help: "Domain events handed to the broker, by type and result.",
		},
		[]string{"type", "result"},
	)

	PerformanceCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "performance_cache_lookups_total",
			Help: "Performance report cache lookups, by result.",
		},
		[]string{"result"},
	)

	SerialPoolAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "serial_pool_available",
			Help: "Unissued serials per system pool at the last stock check.",
		},
		[]string{"pool"},
	)
)

var initOnce sync.Once

// Init registers every metric with the default registry. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight, httpRequestsTotal, httpRequestDuration,
			SubmissionsCreated, PaymentsRecorded, DocumentUploads, EmailsSent,
			EventsPublished, PerformanceCache, SerialPoolAvailable,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// GinMiddleware records RPS, latency and in-flight requests. The route
// template is used as the path label so ids do not explode cardinality.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpInFlight.Inc()
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		httpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	}
}

// Result is the label value for an outcome.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
