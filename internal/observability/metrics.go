// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	BarsIngested           prometheus.Counter
	DividendEventsIngested prometheus.Counter
	IngestionErrors        *prometheus.CounterVec

	// Analysis metrics
	DividendsAnalyzed   prometheus.Counter
	DividendsSkipped    *prometheus.CounterVec
	CorrelationsFound   prometheus.Counter
	ClusteringRunsTotal *prometheus.CounterVec
	SimilarityQueries   prometheus.Counter

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  prometheus.Histogram
	ReportsGenerated  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulIngestion prometheus.Gauge
	LastSuccessfulAnalysis  prometheus.Gauge
	UptimeSeconds           prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "dividend_recovery_lab"
	}

	return &Metrics{
		// Ingestion metrics
		BarsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "bars_ingested_total",
			Help:      "Total number of daily bars ingested",
		}),
		DividendEventsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "dividend_events_ingested_total",
			Help:      "Total number of dividend events ingested",
		}),
		IngestionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "errors_total",
			Help:      "Total number of ingestion errors by source and type",
		}, []string{"source", "error_type"}),

		// Analysis metrics
		DividendsAnalyzed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "dividends_analyzed_total",
			Help:      "Total number of dividend events analyzed",
		}),
		DividendsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "dividends_skipped_total",
			Help:      "Total number of dividend events skipped by reason",
		}, []string{"reason"}),
		CorrelationsFound: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "correlations_found_total",
			Help:      "Total number of significant correlations found",
		}),
		ClusteringRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "clustering_runs_total",
			Help:      "Total number of clustering runs by method and status",
		}, []string{"method", "status"}),
		SimilarityQueries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "similarity_queries_total",
			Help:      "Total number of similarity queries served",
		}),

		// Pipeline metrics
		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulIngestion: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_ingestion_timestamp",
			Help:      "Unix timestamp of last successful ingestion",
		}),
		LastSuccessfulAnalysis: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_analysis_timestamp",
			Help:      "Unix timestamp of last successful analysis run",
		}),
		UptimeSeconds: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordBarsIngested adds to the bars ingested counter.
func RecordBarsIngested(n int) {
	DefaultMetrics.BarsIngested.Add(float64(n))
}

// RecordDividendsIngested adds to the dividend events ingested counter.
func RecordDividendsIngested(n int) {
	DefaultMetrics.DividendEventsIngested.Add(float64(n))
}

// RecordIngestionError records an ingestion error.
func RecordIngestionError(source, errorType string) {
	DefaultMetrics.IngestionErrors.WithLabelValues(source, errorType).Inc()
}

// RecordDividendAnalyzed increments the dividends analyzed counter.
func RecordDividendAnalyzed() {
	DefaultMetrics.DividendsAnalyzed.Inc()
}

// RecordDividendSkipped records a skipped dividend event.
func RecordDividendSkipped(reason string) {
	DefaultMetrics.DividendsSkipped.WithLabelValues(reason).Inc()
}

// RecordClusteringRun records a clustering run.
func RecordClusteringRun(method, status string) {
	DefaultMetrics.ClusteringRunsTotal.WithLabelValues(method, status).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordPipelineRun records a pipeline run.
func RecordPipelineRun(status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.PipelineDuration.Observe(durationSeconds)
}
