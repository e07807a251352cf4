package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	apihttp "vitals-cloud/internal/api/http"
	"vitals-cloud/internal/health/application"
	healthpostgres "vitals-cloud/internal/health/infrastructure/postgres"
	healthhttp "vitals-cloud/internal/health/interfaces/http"
	"vitals-cloud/internal/observability/metrics"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	appCfg, err := application.LoadConfig()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)

	repo := healthpostgres.NewRepository(db)
	query := healthpostgres.NewRecordQuery(db)

	ingestService, err := application.NewIngestService(repo, repo, logger,
		application.WithMaxBatchSize(appCfg.MaxBatchSize))
	if err != nil {
		logger.Fatalf("ingest service error: %v", err)
	}
	queryService, err := application.NewQueryService(repo, query, systemClock{})
	if err != nil {
		logger.Fatalf("query service error: %v", err)
	}

	ingestHandler, err := healthhttp.NewIngestHandler(ingestService, logger)
	if err != nil {
		logger.Fatalf("ingest handler error: %v", err)
	}
	batchHandler, err := healthhttp.NewBatchIngestHandler(ingestService, logger)
	if err != nil {
		logger.Fatalf("batch ingest handler error: %v", err)
	}
	recordsHandler, err := healthhttp.NewRecordsHandler(queryService, logger)
	if err != nil {
		logger.Fatalf("records handler error: %v", err)
	}
	latestHandler, err := healthhttp.NewLatestHandler(queryService, logger)
	if err != nil {
		logger.Fatalf("latest handler error: %v", err)
	}
	exportHandler, err := healthhttp.NewExportHandler(queryService, appCfg.ExportTitle, logger)
	if err != nil {
		logger.Fatalf("export handler error: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ingest/health/samples", ingestHandler)
	mux.Handle("/ingest/health/samples/batch", batchHandler)
	mux.Handle("/api/v1/records", recordsHandler)
	mux.Handle("/api/v1/records/latest", latestHandler)
	mux.Handle("/api/v1/stats", apihttp.NewStatsHandler(db, query))
	mux.Handle("/api/v1/exports/records.xlsx", exportHandler)
	mux.Handle("/api/v1/exports/records.pdf", exportHandler)
	mux.Handle("/api/v1/exports/records.csv", apihttp.NewExportRecordsCSVHandler(db))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(mux, logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
