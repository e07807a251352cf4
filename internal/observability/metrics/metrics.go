package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "vitals_"

	// ResultSuccess labels successful operations.
	ResultSuccess = "success"
	// ResultError labels failed operations.
	ResultError = "error"
)

var (
	registerOnce sync.Once

	ingestRequests  *prometheus.CounterVec
	ingestLatency   *prometheus.HistogramVec
	samplesIngested *prometheus.CounterVec

	queryRequests *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	storedRecords prometheus.Gauge
)

// Init registers observability metrics and the DB-backed record gauge.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		ingestRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ingest_requests_total",
				Help: "Total ingest requests by result",
			},
			[]string{"result"},
		)
		ingestLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "ingest_latency_seconds",
				Help:    "Ingest latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		samplesIngested = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "samples_ingested_total",
				Help: "Total raw samples ingested by kind",
			},
			[]string{"kind"},
		)

		queryRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "query_requests_total",
				Help: "Total range query requests by kind and result",
			},
			[]string{"kind", "result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total export operations by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		storedRecords = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "stored_records",
				Help: "Canonical records currently stored",
			},
		)

		prometheus.MustRegister(
			ingestRequests,
			ingestLatency,
			samplesIngested,
			queryRequests,
			exportTotal,
			exportLatency,
			storedRecords,
		)

		if db != nil {
			go pollStoredRecords(db, logger)
		}
	})
}

// ObserveIngest records ingest request duration and result.
func ObserveIngest(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if ingestRequests != nil {
		ingestRequests.WithLabelValues(result).Inc()
	}
	if ingestLatency != nil {
		ingestLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddSamplesIngested counts raw samples accepted for one kind.
func AddSamplesIngested(kind string, count int) {
	if samplesIngested == nil || count <= 0 {
		return
	}
	samplesIngested.WithLabelValues(kind).Add(float64(count))
}

// ObserveQuery counts a range query by kind and result.
func ObserveQuery(kind, result string) {
	if queryRequests == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	queryRequests.WithLabelValues(kind, result).Inc()
}

// ObserveExport records export duration by format and result.
func ObserveExport(format, result string, duration time.Duration) {
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// pollStoredRecords refreshes the stored-record gauge once a minute.
func pollStoredRecords(db *sql.DB, logger *log.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		var count int64
		if err := db.QueryRow("SELECT COUNT(*) FROM health_records").Scan(&count); err != nil {
			if logger != nil {
				logger.Printf("metrics: record count error: %v", err)
			}
			continue
		}
		storedRecords.Set(float64(count))
	}
}
