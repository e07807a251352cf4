package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"vitals-cloud/internal/health/application"
	health "vitals-cloud/internal/health/domain"
	"vitals-cloud/internal/observability/metrics"
)

// IngestHandler handles health sample ingestion.
type IngestHandler struct {
	service *application.IngestService
	logger  *log.Logger
}

// NewIngestHandler constructs an ingest handler.
func NewIngestHandler(service *application.IngestService, logger *log.Logger) (*IngestHandler, error) {
	if service == nil {
		return nil, errors.New("health ingest: nil service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &IngestHandler{service: service, logger: logger}, nil
}

// ServeHTTP ingests one payload.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Printf("health ingest: read body error: %v", err)
		http.Error(w, "read body error", http.StatusBadRequest)
		metrics.ObserveIngest(metrics.ResultError, time.Since(start))
		return
	}
	defer r.Body.Close()

	var payload health.IngestPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Printf("health ingest: decode error: %v", err)
		http.Error(w, "invalid json", http.StatusBadRequest)
		metrics.ObserveIngest(metrics.ResultError, time.Since(start))
		return
	}

	result, err := h.service.Ingest(r.Context(), payload)
	if err != nil {
		status := http.StatusInternalServerError
		message := "insert error"
		if errors.Is(err, health.ErrMissingOwnerID) {
			status = http.StatusBadRequest
			message = err.Error()
		}
		h.logger.Printf("health ingest: owner=%s error: %v", payload.OwnerID, err)
		http.Error(w, message, status)
		metrics.ObserveIngest(metrics.ResultError, time.Since(start))
		return
	}

	observeSamples(payload)
	metrics.ObserveIngest(metrics.ResultSuccess, time.Since(start))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// BatchIngestHandler handles batch health sample ingestion.
type BatchIngestHandler struct {
	service *application.IngestService
	logger  *log.Logger
}

// NewBatchIngestHandler constructs a batch ingest handler.
func NewBatchIngestHandler(service *application.IngestService, logger *log.Logger) (*BatchIngestHandler, error) {
	if service == nil {
		return nil, errors.New("health batch ingest: nil service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &BatchIngestHandler{service: service, logger: logger}, nil
}

// ServeHTTP ingests a batch of payloads.
func (h *BatchIngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var payloads []health.IngestPayload
	if err := json.NewDecoder(r.Body).Decode(&payloads); err != nil {
		h.logger.Printf("health batch ingest: decode error: %v", err)
		http.Error(w, "invalid json", http.StatusBadRequest)
		metrics.ObserveIngest(metrics.ResultError, time.Since(start))
		return
	}
	defer r.Body.Close()

	result, err := h.service.IngestBatch(r.Context(), payloads)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, application.ErrBatchTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.logger.Printf("health batch ingest: error: %v", err)
		http.Error(w, err.Error(), status)
		metrics.ObserveIngest(metrics.ResultError, time.Since(start))
		return
	}

	for _, payload := range payloads {
		observeSamples(payload)
	}
	metrics.ObserveIngest(metrics.ResultSuccess, time.Since(start))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

func observeSamples(payload health.IngestPayload) {
	for _, kind := range payload.Kinds() {
		metrics.AddSamplesIngested(string(kind), len(payload.SamplesFor(kind)))
	}
}
