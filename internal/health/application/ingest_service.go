package application

import (
	"context"
	"errors"
	"log"
	"time"

	health "vitals-cloud/internal/health/domain"
)

// IngestService normalizes and persists health payloads.
type IngestService struct {
	summaries health.SummaryRepository
	records   health.RecordRepository
	clock     health.Clock
	logger    *log.Logger
	maxBatch  int
}

// ServiceOption configures the ingest service.
type ServiceOption func(*IngestService)

// WithMaxBatchSize caps the number of payloads per batch call.
func WithMaxBatchSize(size int) ServiceOption {
	return func(s *IngestService) {
		if size > 0 {
			s.maxBatch = size
		}
	}
}

// WithClock overrides the system clock.
func WithClock(clock health.Clock) ServiceOption {
	return func(s *IngestService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewIngestService constructs an ingest service.
func NewIngestService(summaries health.SummaryRepository, records health.RecordRepository, logger *log.Logger, opts ...ServiceOption) (*IngestService, error) {
	if summaries == nil {
		return nil, errors.New("ingest service: nil summary repository")
	}
	if records == nil {
		return nil, errors.New("ingest service: nil record repository")
	}
	if logger == nil {
		logger = log.Default()
	}
	service := &IngestService{
		summaries: summaries,
		records:   records,
		clock:     health.SystemClock{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// ErrBatchTooLarge is returned when a batch exceeds the configured cap.
var ErrBatchTooLarge = errors.New("ingest service: batch too large")

// IngestResult is the outcome of one successful ingestion.
type IngestResult struct {
	Success   bool             `json:"success"`
	SummaryID string           `json:"summaryId"`
	Timestamp time.Time        `json:"timestamp"`
	Latest    health.LatestMap `json:"latestTimestamps"`
}

// Ingest normalizes one payload, builds its summary and latest map,
// and persists everything. Validation failures happen before any
// write.
func (s *IngestService) Ingest(ctx context.Context, payload health.IngestPayload) (IngestResult, error) {
	if err := payload.Validate(); err != nil {
		return IngestResult{}, err
	}

	now := s.clock.Now()
	summary := health.BuildSummary(payload, now)
	records := health.NormalizeRecords(payload, now)
	latest := health.LatestPerKind(payload, now)

	summaryID, err := s.summaries.InsertSummary(ctx, summary)
	if err != nil {
		return IngestResult{}, err
	}

	// One insert-many per kind; each call is all-or-nothing.
	byKind := make(map[health.Kind][]health.Record)
	for _, record := range records {
		byKind[record.Kind] = append(byKind[record.Kind], record)
	}
	for _, kind := range health.AllKinds() {
		group := byKind[kind]
		if len(group) == 0 {
			continue
		}
		if err := s.records.InsertRecords(ctx, group); err != nil {
			return IngestResult{}, err
		}
	}

	return IngestResult{
		Success:   true,
		SummaryID: summaryID,
		Timestamp: summary.TS,
		Latest:    latest,
	}, nil
}

// BatchItem is the per-payload outcome inside a batch.
type BatchItem struct {
	Index     int       `json:"index"`
	OwnerID   string    `json:"ownerId"`
	SummaryID string    `json:"summaryId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

// BatchResult is the outcome of one batch ingestion.
type BatchResult struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []BatchItem      `json:"items"`
	Latest    health.LatestMap `json:"latestTimestamps"`
}

// IngestBatch processes payloads strictly sequentially. A failing
// payload is reported in its item and does not stop the siblings; the
// merged latest map covers the successful items.
func (s *IngestService) IngestBatch(ctx context.Context, payloads []health.IngestPayload) (BatchResult, error) {
	if s.maxBatch > 0 && len(payloads) > s.maxBatch {
		return BatchResult{}, ErrBatchTooLarge
	}

	result := BatchResult{
		Total:  len(payloads),
		Items:  make([]BatchItem, 0, len(payloads)),
		Latest: make(health.LatestMap),
	}

	for index, payload := range payloads {
		item := BatchItem{Index: index, OwnerID: payload.OwnerID}
		item.Timestamp = health.ResolvePayloadTimestamp(payload, s.clock.Now())

		outcome, err := s.Ingest(ctx, payload)
		if err != nil {
			item.Error = err.Error()
			result.Failed++
			result.Items = append(result.Items, item)
			s.logger.Printf("batch ingest: item %d owner=%s error: %v", index, payload.OwnerID, err)
			continue
		}

		item.SummaryID = outcome.SummaryID
		item.Timestamp = outcome.Timestamp
		result.Succeeded++
		result.Items = append(result.Items, item)
		result.Latest = health.MergeLatest(result.Latest, outcome.Latest)
	}

	return result, nil
}
