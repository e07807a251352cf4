package application

import (
	"context"
	"errors"
	"log"
	"testing"
	"time"

	health "vitals-cloud/internal/health/domain"
	"vitals-cloud/internal/health/infrastructure/memory"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var clockNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, store *memory.Store) *IngestService {
	t.Helper()
	service, err := NewIngestService(store, store, log.New(testWriter{t}, "", 0), WithClock(fixedClock{clockNow}))
	if err != nil {
		t.Fatalf("new ingest service: %v", err)
	}
	return service
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestIngest_Success(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(t, store)

	payload := health.IngestPayload{
		OwnerID:   "owner-1",
		Timestamp: "2025-06-10T00:00:00Z",
		Steps: []health.RawSample{
			{"count": 4000.0, "endTime": "2025-06-10T08:00:00Z"},
		},
		Weight: []health.RawSample{
			{"weight": map[string]any{"inKilograms": 72.0}, "time": "2025-06-10T07:00:00Z"},
		},
	}

	result, err := service.Ingest(context.Background(), payload)
	if err != nil {
		t.Fatalf("ingest error: %v", err)
	}
	if !result.Success || result.SummaryID == "" {
		t.Fatalf("expected success with generated id, got %+v", result)
	}
	if result.Timestamp.Day() != 10 {
		t.Fatalf("expected payload timestamp resolved, got %v", result.Timestamp)
	}
	if len(result.Latest) != 2 {
		t.Fatalf("expected latest entries for steps and weight, got %v", result.Latest)
	}

	summaries := store.Summaries()
	if len(summaries) != 1 || summaries[0].StepsTotal != 4000 {
		t.Fatalf("unexpected stored summary %+v", summaries)
	}
	records := store.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 stored records, got %d", len(records))
	}
	for _, record := range records {
		if record.ID == "" {
			t.Fatal("store must assign record ids")
		}
	}
}

func TestIngest_MissingOwnerWritesNothing(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(t, store)

	_, err := service.Ingest(context.Background(), health.IngestPayload{
		Steps: []health.RawSample{{"count": 100.0}},
	})
	if !errors.Is(err, health.ErrMissingOwnerID) {
		t.Fatalf("expected ErrMissingOwnerID, got %v", err)
	}
	if len(store.Summaries()) != 0 || len(store.Records()) != 0 {
		t.Fatal("validation failure must not write")
	}
}

type failingSummaries struct{}

func (failingSummaries) InsertSummary(ctx context.Context, summary health.Summary) (string, error) {
	if summary.OwnerID == "owner-bad" {
		return "", errors.New("store unavailable")
	}
	return "sum-" + summary.OwnerID, nil
}

func TestIngestBatch_FailureDoesNotStopSiblings(t *testing.T) {
	store := memory.NewStore()
	service, err := NewIngestService(failingSummaries{}, store, log.New(testWriter{t}, "", 0), WithClock(fixedClock{clockNow}))
	if err != nil {
		t.Fatalf("new ingest service: %v", err)
	}

	payloads := []health.IngestPayload{
		{
			OwnerID: "owner-a",
			Steps:   []health.RawSample{{"count": 100.0, "endTime": "2025-06-01T00:00:00Z"}},
		},
		{
			OwnerID:   "owner-bad",
			Timestamp: "2025-06-02T00:00:00Z",
			HeartRate: []health.RawSample{{"bpm": 70.0}},
		},
		{
			OwnerID: "owner-a",
			Steps:   []health.RawSample{{"count": 200.0, "endTime": "2025-06-03T00:00:00Z"}},
		},
	}

	result, err := service.IngestBatch(context.Background(), payloads)
	if err != nil {
		t.Fatalf("batch error: %v", err)
	}
	if result.Total != 3 || result.Succeeded != 2 || result.Failed != 1 {
		t.Fatalf("unexpected tally %+v", result)
	}

	failed := result.Items[1]
	if failed.Index != 1 || failed.OwnerID != "owner-bad" || failed.Error == "" {
		t.Fatalf("unexpected failed item %+v", failed)
	}
	if failed.Timestamp.Day() != 2 {
		t.Fatalf("failed item must carry its original timestamp, got %v", failed.Timestamp)
	}

	ts, ok := result.Latest[health.KindSteps]
	if !ok || ts.Day() != 3 {
		t.Fatalf("expected merged steps latest from the later payload, got %v", result.Latest)
	}
	if _, ok := result.Latest[health.KindHeartRate]; ok {
		t.Fatal("failed payload must not contribute to the merged latest map")
	}
}

func TestIngestBatch_CapEnforced(t *testing.T) {
	store := memory.NewStore()
	service, err := NewIngestService(store, store, nil, WithMaxBatchSize(1))
	if err != nil {
		t.Fatalf("new ingest service: %v", err)
	}

	_, err = service.IngestBatch(context.Background(), []health.IngestPayload{
		{OwnerID: "a"}, {OwnerID: "b"},
	})
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}
}
