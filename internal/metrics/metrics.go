package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climatewatch_http_requests_total",
			Help: "HTTP requests by method, path and status code.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "climatewatch_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ingestRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "climatewatch_ingest_run_duration_seconds",
			Help:    "End-to-end ingestion run latency per source.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"source", "status"},
	)

	ingestRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climatewatch_ingest_records_total",
			Help: "Records seen by the ingestion pipeline per source and disposition.",
		},
		[]string{"source", "disposition"},
	)

	dbConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "climatewatch_db_connections_active",
			Help: "Currently acquired relational database connections.",
		},
	)

	dbQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climatewatch_db_queries_total",
			Help: "Relational database operations by type and status.",
		},
		[]string{"operation", "status"},
	)
)

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records one served HTTP request
func RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordIngestRun records one ingestion pipeline run
func RecordIngestRun(source, status string, duration time.Duration) {
	ingestRunDuration.WithLabelValues(source, status).Observe(duration.Seconds())
}

// AddIngestRecords counts records by disposition (parsed, inserted, duplicate)
func AddIngestRecords(source, disposition string, n int) {
	if n <= 0 {
		return
	}
	ingestRecordsTotal.WithLabelValues(source, disposition).Add(float64(n))
}

// SetDBConnectionsActive sets the number of acquired database connections
func SetDBConnectionsActive(count float64) {
	dbConnectionsActive.Set(count)
}

// RecordDBQuery records a relational database operation
func RecordDBQuery(operation, status string) {
	dbQueriesTotal.WithLabelValues(operation, status).Inc()
}
