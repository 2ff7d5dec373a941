// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline Stage Metrics
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fashionrec_stage_duration_seconds",
			Help:    "Duration of pipeline stage runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
		[]string{"stage", "status"}, // status: "success", "failure"
	)

	StageRowsIn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fashionrec_stage_rows_in_total",
			Help: "Rows read by pipeline stages",
		},
		[]string{"stage"},
	)

	StageRowsOut = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fashionrec_stage_rows_out_total",
			Help: "Rows written by pipeline stages",
		},
		[]string{"stage"},
	)

	StageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fashionrec_stage_errors_total",
			Help: "Failed pipeline stage runs by error kind",
		},
		[]string{"stage", "kind"},
	)

	StageLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fashionrec_stage_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run of each stage",
		},
		[]string{"stage"},
	)

	ArtifactBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fashionrec_artifact_bytes",
			Help: "Size of the most recently written artifact of each kind",
		},
		[]string{"artifact"},
	)

	// Catalog Metrics
	CatalogQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fashionrec_catalog_query_duration_seconds",
			Help:    "Duration of catalog queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CatalogQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fashionrec_catalog_query_errors_total",
			Help: "Total number of failed catalog queries",
		},
		[]string{"operation"},
	)

	CatalogUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fashionrec_catalog_up",
			Help: "Whether the last catalog probe succeeded (1) or failed (0)",
		},
	)

	CatalogRowsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fashionrec_catalog_rows_ingested_total",
			Help: "Recommendation rows committed to the catalog",
		},
	)

	// Object Storage Metrics
	ObjectTransfers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fashionrec_object_transfers_total",
			Help: "Object storage transfers by direction and result",
		},
		[]string{"direction", "status"}, // direction: "upload", "download"
	)

	ObjectTransferBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fashionrec_object_transfer_bytes_total",
			Help: "Bytes moved to or from object storage",
		},
		[]string{"direction"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fashionrec_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fashionrec_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fashionrec_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// pipelineCollectors are the series pushed after batch runs.
var pipelineCollectors = []prometheus.Collector{
	StageDuration,
	StageRowsIn,
	StageRowsOut,
	StageErrors,
	StageLastSuccess,
	ArtifactBytes,
	CatalogRowsIngested,
	ObjectTransfers,
	ObjectTransferBytes,
}

// StageOutcome summarizes one stage run.
type StageOutcome struct {
	Stage    string
	Duration time.Duration
	RowsIn   int
	RowsOut  int

	// ErrorKind is empty on success.
	ErrorKind string
}

// RecordStage records a finished stage run.
func RecordStage(o StageOutcome) {
	status := "success"
	if o.ErrorKind != "" {
		status = "failure"
		StageErrors.WithLabelValues(o.Stage, o.ErrorKind).Inc()
	}
	StageDuration.WithLabelValues(o.Stage, status).Observe(o.Duration.Seconds())
	if o.RowsIn > 0 {
		StageRowsIn.WithLabelValues(o.Stage).Add(float64(o.RowsIn))
	}
	if o.RowsOut > 0 {
		StageRowsOut.WithLabelValues(o.Stage).Add(float64(o.RowsOut))
	}
	if status == "success" {
		StageLastSuccess.WithLabelValues(o.Stage).SetToCurrentTime()
	}
}

// RecordArtifact records the size of a written artifact.
func RecordArtifact(artifact string, bytes int64) {
	ArtifactBytes.WithLabelValues(artifact).Set(float64(bytes))
}

// RecordCatalogQuery records a catalog query metric
func RecordCatalogQuery(operation string, duration time.Duration, err error) {
	CatalogQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		CatalogQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordTransfer records an object storage upload or download.
func RecordTransfer(direction string, bytes int64, err error) {
	if err != nil {
		ObjectTransfers.WithLabelValues(direction, "failure").Inc()
		return
	}
	ObjectTransfers.WithLabelValues(direction, "success").Inc()
	ObjectTransferBytes.WithLabelValues(direction).Add(float64(bytes))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
