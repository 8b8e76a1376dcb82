package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Database query latency in seconds.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	// Entity writes by type and operation.
	EntityWriteCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_write_count",
			Help: "Total number of entity create/update/delete operations",
		},
		[]string{"entity", "operation"},
	)

	// Idea-to-goal conversions.
	IdeaConvertedCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "idea_converted_count",
			Help: "Total number of ideas promoted into goals",
		},
	)
)

// RecordHTTPRequestDuration records a single HTTP request observation.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDBQueryDuration records a single database query observation.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// IncrementEntityWrite increments the write counter for an entity type.
func IncrementEntityWrite(entity, operation string) {
	EntityWriteCount.WithLabelValues(entity, operation).Inc()
}

// IncrementIdeaConverted increments the promotion counter.
func IncrementIdeaConverted() {
	IdeaConvertedCount.Inc()
}
