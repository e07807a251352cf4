package application

import (
	"context"
	"errors"
	"testing"
	"time"

	health "vitals-cloud/internal/health/domain"
	"vitals-cloud/internal/health/infrastructure/memory"
)

func seedBloodPressure(t *testing.T, store *memory.Store, day time.Time) {
	t.Helper()
	sys1, dia1, sys2 := 120.0, 80.0, 118.0
	err := store.InsertRecords(context.Background(), []health.Record{
		{OwnerID: "owner-1", Kind: health.KindBloodPressure, TS: day.Add(8 * time.Hour), Value: &sys1, Discriminator: health.DiscriminatorSystolic, Unit: "mmHg"},
		{OwnerID: "owner-1", Kind: health.KindBloodPressure, TS: day.Add(8 * time.Hour), Value: &dia1, Discriminator: health.DiscriminatorDiastolic, Unit: "mmHg"},
		{OwnerID: "owner-1", Kind: health.KindBloodPressure, TS: day.Add(20 * time.Hour), Value: &sys2, Discriminator: health.DiscriminatorSystolic, Unit: "mmHg"},
	})
	if err != nil {
		t.Fatalf("seed records: %v", err)
	}
}

func TestQueryService_RangeDownsamplesAndPairs(t *testing.T) {
	store := memory.NewStore()
	day := clockNow.AddDate(0, 0, -2)
	seedBloodPressure(t, store, day.Truncate(24*time.Hour))

	service, err := NewQueryService(store, store, fixedClock{clockNow})
	if err != nil {
		t.Fatalf("new query service: %v", err)
	}

	result, err := service.Range(context.Background(), "owner-1", "bloodPressure", "weekly", 0)
	if err != nil {
		t.Fatalf("range error: %v", err)
	}
	if result.Period != health.PeriodWeekly {
		t.Fatalf("expected weekly period, got %v", result.Period)
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected all bp records in a light day, got %d", len(result.Records))
	}
	if len(result.Paired) == 0 {
		t.Fatal("expected paired view for blood pressure")
	}
	first := result.Paired[0]
	if first.Systolic == nil || first.Diastolic == nil {
		t.Fatalf("expected collapsed pair, got %+v", first)
	}
}

func TestQueryService_UnknownKind(t *testing.T) {
	store := memory.NewStore()
	service, err := NewQueryService(store, store, fixedClock{clockNow})
	if err != nil {
		t.Fatalf("new query service: %v", err)
	}

	_, err = service.Range(context.Background(), "owner-1", "bloodSugarr", "", 0)
	if !errors.Is(err, health.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestQueryService_Latest(t *testing.T) {
	store := memory.NewStore()
	day := clockNow.AddDate(0, 0, -1)
	seedBloodPressure(t, store, day.Truncate(24*time.Hour))

	service, err := NewQueryService(store, store, fixedClock{clockNow})
	if err != nil {
		t.Fatalf("new query service: %v", err)
	}

	latest, err := service.Latest(context.Background(), "owner-1", "bloodPressure", health.DiscriminatorSystolic)
	if err != nil {
		t.Fatalf("latest error: %v", err)
	}
	if latest.Value == nil || *latest.Value != 118 {
		t.Fatalf("expected newest systolic record, got %+v", latest)
	}

	_, err = service.Latest(context.Background(), "owner-2", "weight", "")
	if !errors.Is(err, health.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestQueryService_DeleteOwner(t *testing.T) {
	store := memory.NewStore()
	day := clockNow.AddDate(0, 0, -1)
	seedBloodPressure(t, store, day.Truncate(24*time.Hour))

	service, err := NewQueryService(store, store, fixedClock{clockNow})
	if err != nil {
		t.Fatalf("new query service: %v", err)
	}

	removed, err := service.DeleteOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	if len(store.Records()) != 0 {
		t.Fatal("expected no records left")
	}
}
