package application

import (
	"context"
	"errors"
	"time"

	health "vitals-cloud/internal/health/domain"
)

// QueryService serves range, latest and delete operations over stored
// canonical records.
type QueryService struct {
	records health.RecordRepository
	query   health.RecordQuery
	clock   health.Clock
}

// NewQueryService constructs a query service.
func NewQueryService(records health.RecordRepository, query health.RecordQuery, clock health.Clock) (*QueryService, error) {
	if records == nil {
		return nil, errors.New("query service: nil record repository")
	}
	if query == nil {
		return nil, errors.New("query service: nil record query")
	}
	if clock == nil {
		clock = health.SystemClock{}
	}
	return &QueryService{records: records, query: query, clock: clock}, nil
}

// RangeResult is a downsampled, chart-ready record series. Paired is
// only populated for kinds with a paired-discriminator consumer.
type RangeResult struct {
	OwnerID string               `json:"ownerId"`
	Kind    health.Kind          `json:"kind"`
	Period  health.PeriodClass   `json:"period"`
	From    time.Time            `json:"from"`
	To      time.Time            `json:"to"`
	Records []health.Record      `json:"records"`
	Paired  []health.PairedPoint `json:"paired,omitempty"`
}

// Range loads the window for a period class and reduces it for
// charting. The downsampled series is recomputed on every call.
func (s *QueryService) Range(ctx context.Context, ownerID, kindName, periodName string, customDays int) (RangeResult, error) {
	if ownerID == "" {
		return RangeResult{}, health.ErrMissingOwnerID
	}
	kind, err := health.ParseKind(kindName)
	if err != nil {
		return RangeResult{}, err
	}
	period, err := health.ParsePeriod(periodName, customDays)
	if err != nil {
		return RangeResult{}, err
	}

	now := s.clock.Now()
	from := period.WindowStart(now)
	rows, err := s.query.QueryRange(ctx, ownerID, kind, from, now)
	if err != nil {
		return RangeResult{}, err
	}

	result := RangeResult{
		OwnerID: ownerID,
		Kind:    kind,
		Period:  period.Class,
		From:    from,
		To:      now,
		Records: health.Downsample(rows, period, now),
	}
	if kind == health.KindBloodPressure {
		result.Paired = health.PairByTimestamp(result.Records)
	}
	return result, nil
}

// Latest returns the most recent record for the owner and kind.
func (s *QueryService) Latest(ctx context.Context, ownerID, kindName, discriminator string) (*health.Record, error) {
	if ownerID == "" {
		return nil, health.ErrMissingOwnerID
	}
	kind, err := health.ParseKind(kindName)
	if err != nil {
		return nil, err
	}
	return s.records.FindLatestByKind(ctx, ownerID, kind, discriminator)
}

// DeleteOwner removes every stored record and summary of one owner.
func (s *QueryService) DeleteOwner(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, health.ErrMissingOwnerID
	}
	return s.records.DeleteByOwner(ctx, ownerID)
}
