package health

import (
	"context"
	"time"
)

// Discriminator values for paired series.
const (
	DiscriminatorSystolic  = "systolic"
	DiscriminatorDiastolic = "diastolic"
)

// Record is the canonical, flat representation of one raw sample.
// It is created once during ingestion and never updated.
type Record struct {
	ID      string    `json:"id,omitempty"`
	OwnerID string    `json:"ownerId"`
	Kind    Kind      `json:"kind"`
	TS      time.Time `json:"timestamp"`

	Value         *float64 `json:"value"`
	ValueText     *string  `json:"valueText,omitempty"`
	Discriminator string   `json:"discriminator,omitempty"`
	Unit          string   `json:"unit,omitempty"`

	// Meta carries flattened source fields not captured by canonical
	// extraction.
	Meta map[string]any `json:"meta,omitempty"`
}

var kindUnits = map[Kind]string{
	KindSteps:            "count",
	KindHeartRate:        "bpm",
	KindTotalCalories:    "kcal",
	KindActiveCalories:   "kcal",
	KindDistance:         "m",
	KindOxygenSaturation: "%",
	KindBloodPressure:    "mmHg",
	KindGlucose:          "mg/dL",
	KindBodyTemperature:  "°C",
	KindWeight:           "kg",
	KindHydration:        "L",
	KindSleep:            "min",
	KindExercise:         "min",
}

// UnitFor returns the canonical unit label for a kind.
func UnitFor(kind Kind) string { return kindUnits[kind] }

// SummaryRepository persists per-payload combined summaries.
type SummaryRepository interface {
	// InsertSummary stores one summary and returns its generated id.
	InsertSummary(ctx context.Context, summary Summary) (string, error)
}

// RecordRepository persists canonical records.
type RecordRepository interface {
	// InsertRecords stores records of one payload all-or-nothing.
	InsertRecords(ctx context.Context, records []Record) error
	// FindLatestByKind returns the most recent record for the owner and
	// kind, optionally filtered by discriminator. No match yields
	// ErrRecordNotFound.
	FindLatestByKind(ctx context.Context, ownerID string, kind Kind, discriminator string) (*Record, error)
	// DeleteByOwner removes every record and summary of one owner.
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}

// RecordQuery loads canonical records for range reads.
type RecordQuery interface {
	// QueryRange returns records within [from, to], ascending by
	// timestamp.
	QueryRange(ctx context.Context, ownerID string, kind Kind, from, to time.Time) ([]Record, error)
}
