package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vitals-cloud/internal/health/application"
	health "vitals-cloud/internal/health/domain"
	"vitals-cloud/internal/observability/metrics"
)

// ExportHandler serves XLSX and PDF exports of a range query.
type ExportHandler struct {
	service *application.QueryService
	title   string
	logger  *log.Logger
}

// NewExportHandler constructs an export handler.
func NewExportHandler(service *application.QueryService, title string, logger *log.Logger) (*ExportHandler, error) {
	if service == nil {
		return nil, errors.New("health export: nil service")
	}
	if title == "" {
		title = "Health Records Export"
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ExportHandler{service: service, title: title, logger: logger}, nil
}

// ServeHTTP handles GET /api/v1/exports/records.xlsx and
// /api/v1/exports/records.pdf.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	format := "xlsx"
	if strings.HasSuffix(r.URL.Path, ".pdf") {
		format = "pdf"
	}

	start := time.Now()
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
		http.Error(w, message, status)
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		return
	}

	var payload []byte
	var contentType string
	switch format {
	case "pdf":
		payload, err = BuildRecordsPDF(h.title, result)
		contentType = "application/pdf"
	default:
		payload, err = BuildRecordsXLSX(h.title, result)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		h.logger.Printf("health export: build %s error: %v", format, err)
		http.Error(w, "export error", http.StatusInternalServerError)
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		return
	}

	metrics.ObserveExport(format, metrics.ResultSuccess, time.Since(start))
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=records."+format)
	_, _ = w.Write(payload)
}
