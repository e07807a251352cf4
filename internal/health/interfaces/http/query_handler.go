package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"vitals-cloud/internal/health/application"
	health "vitals-cloud/internal/health/domain"
	"vitals-cloud/internal/observability/metrics"
)

// RecordsHandler serves range reads and delete-by-owner.
type RecordsHandler struct {
	service *application.QueryService
	logger  *log.Logger
}

// NewRecordsHandler constructs a records handler.
func NewRecordsHandler(service *application.QueryService, logger *log.Logger) (*RecordsHandler, error) {
	if service == nil {
		return nil, errors.New("health records: nil service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RecordsHandler{service: service, logger: logger}, nil
}

// ServeHTTP handles GET and DELETE on /api/v1/records.
func (h *RecordsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleRange(w, r)
	case http.MethodDelete:
		h.handleDelete(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *RecordsHandler) handleRange(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	kind := r.URL.Query().Get("kind")
	period := r.URL.Query().Get("period")
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	result, err := h.service.Range(r.Context(), ownerID, kind, period, days)
	if err != nil {
		status := http.StatusInternalServerError
		message := "query error"
		switch {
		case errors.Is(err, health.ErrMissingOwnerID),
			errors.Is(err, health.ErrUnknownKind),
			errors.Is(err, health.ErrInvalidPeriod):
			status = http.StatusBadRequest
			message = err.Error()
		}
		h.logger.Printf("health records: range owner=%s kind=%s error: %v", ownerID, kind, err)
		http.Error(w, message, status)
		metrics.ObserveQuery(kind, metrics.ResultError)
		return
	}

	metrics.ObserveQuery(kind, metrics.ResultSuccess)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

func (h *RecordsHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")

	removed, err := h.service.DeleteOwner(r.Context(), ownerID)
	if err != nil {
		status := http.StatusInternalServerError
		message := "delete error"
		if errors.Is(err, health.ErrMissingOwnerID) {
			status = http.StatusBadRequest
			message = err.Error()
		}
		h.logger.Printf("health records: delete owner=%s error: %v", ownerID, err)
		http.Error(w, message, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"deleted": removed})
}

// LatestHandler serves the most recent record per kind.
type LatestHandler struct {
	service *application.QueryService
	logger  *log.Logger
}

// NewLatestHandler constructs a latest handler.
func NewLatestHandler(service *application.QueryService, logger *log.Logger) (*LatestHandler, error) {
	if service == nil {
		return nil, errors.New("health latest: nil service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &LatestHandler{service: service, logger: logger}, nil
}

// ServeHTTP handles GET /api/v1/records/latest.
func (h *LatestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ownerID := r.URL.Query().Get("owner_id")
	kind := r.URL.Query().Get("kind")
	discriminator := r.URL.Query().Get("discriminator")

	record, err := h.service.Latest(r.Context(), ownerID, kind, discriminator)
	if err != nil {
		switch {
		case errors.Is(err, health.ErrRecordNotFound):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"record": nil})
		case errors.Is(err, health.ErrMissingOwnerID), errors.Is(err, health.ErrUnknownKind):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Printf("health latest: owner=%s kind=%s error: %v", ownerID, kind, err)
			http.Error(w, "query error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(recordView(record))
}

// recordView shapes a record for JSON responses.
func recordView(record *health.Record) map[string]any {
	if record == nil {
		return nil
	}
	view := map[string]any{
		"id":        record.ID,
		"ownerId":   record.OwnerID,
		"kind":      record.Kind,
		"timestamp": record.TS,
		"unit":      record.Unit,
	}
	if record.Value != nil {
		view["value"] = *record.Value
	}
	if record.ValueText != nil {
		view["valueText"] = *record.ValueText
	}
	if record.Discriminator != "" {
		view["discriminator"] = record.Discriminator
	}
	if len(record.Meta) > 0 {
		view["meta"] = record.Meta
	}
	return view
}
