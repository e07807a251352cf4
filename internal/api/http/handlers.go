package apihttp

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	health "vitals-cloud/internal/health/domain"
)

const timeLayout = time.RFC3339

// KindCounter supplies per-kind record counts for one owner.
type KindCounter interface {
	CountByKind(ctx context.Context, ownerID string) (map[health.Kind]int64, error)
}

// StatsHandler serves per-owner ingestion statistics.
type StatsHandler struct {
	db     *sql.DB
	counts KindCounter
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(db *sql.DB, counts KindCounter) *StatsHandler {
	return &StatsHandler{db: db, counts: counts}
}

type ownerStats struct {
	OwnerID       string           `json:"ownerId"`
	Summaries     int64            `json:"summaries"`
	Records       int64            `json:"records"`
	RecordsByKind map[string]int64 `json:"recordsByKind"`
}

// ServeHTTP handles GET /api/v1/stats.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.db == nil || h.counts == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		http.Error(w, "owner_id is required", http.StatusBadRequest)
		return
	}

	stats, err := queryOwnerStats(r.Context(), h.db, h.counts, ownerID)
	if err != nil {
		http.Error(w, "query stats error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}

func queryOwnerStats(ctx context.Context, db *sql.DB, counts KindCounter, ownerID string) (ownerStats, error) {
	stats := ownerStats{OwnerID: ownerID, RecordsByKind: make(map[string]int64)}

	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM health_summaries WHERE owner_id = $1", ownerID,
	).Scan(&stats.Summaries); err != nil {
		return stats, err
	}

	byKind, err := counts.CountByKind(ctx, ownerID)
	if err != nil {
		return stats, err
	}
	for kind, count := range byKind {
		stats.RecordsByKind[string(kind)] = count
		stats.Records += count
	}
	return stats, nil
}

// ExportRecordsCSVHandler serves canonical record CSV exports.
type ExportRecordsCSVHandler struct {
	db *sql.DB
}

// NewExportRecordsCSVHandler constructs a ExportRecordsCSVHandler.
func NewExportRecordsCSVHandler(db *sql.DB) *ExportRecordsCSVHandler {
	return &ExportRecordsCSVHandler{db: db}
}

// ServeHTTP handles GET /api/v1/exports/records.csv.
func (h *ExportRecordsCSVHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.db == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		http.Error(w, "owner_id is required", http.StatusBadRequest)
		return
	}

	from, err := parseTimeQuery(r, "from")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := parseTimeQuery(r, "to")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !to.After(from) {
		http.Error(w, "to must be after from", http.StatusBadRequest)
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
SELECT kind, ts, value_numeric, value_text, discriminator, unit
FROM health_records
WHERE owner_id = $1
	AND ts >= $2
	AND ts <= $3
ORDER BY ts ASC`, ownerID, from, to)
	if err != nil {
		http.Error(w, "query records error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"kind", "ts", "value", "value_text", "discriminator", "unit"})
	for rows.Next() {
		var kind, discriminator, unit string
		var ts time.Time
		var value sql.NullFloat64
		var text sql.NullString
		if err := rows.Scan(&kind, &ts, &value, &text, &discriminator, &unit); err != nil {
			return
		}
		valueField := ""
		if value.Valid {
			valueField = strconv.FormatFloat(value.Float64, 'f', -1, 64)
		}
		_ = writer.Write([]string{kind, ts.Format(timeLayout), valueField, text.String, discriminator, unit})
	}
	writer.Flush()
}

func parseTimeQuery(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, missingParamError(key)
	}
	parsed, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

type missingParamError string

func (e missingParamError) Error() string { return string(e) + " is required" }
