package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	health "vitals-cloud/internal/health/domain"
)

// Store is an in-memory implementation of the health persistence
// ports for demo/testing.
type Store struct {
	mu        sync.RWMutex
	summaries []health.Summary
	records   []health.Record
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{}
}

// InsertSummary stores one summary and returns its generated id.
func (s *Store) InsertSummary(ctx context.Context, summary health.Summary) (string, error) {
	_ = ctx
	if summary.OwnerID == "" {
		return "", health.ErrMissingOwnerID
	}

	summary.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, summary)
	return summary.ID, nil
}

// InsertRecords stores records all-or-nothing.
func (s *Store) InsertRecords(ctx context.Context, records []health.Record) error {
	_ = ctx
	if len(records) == 0 {
		return nil
	}
	for _, record := range records {
		if record.OwnerID == "" || !record.Kind.IsValid() || record.TS.IsZero() {
			return errors.New("memory store: invalid record")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		record.ID = uuid.NewString()
		s.records = append(s.records, record)
	}
	return nil
}

// FindLatestByKind returns the most recent record for the owner and
// kind, optionally filtered by discriminator.
func (s *Store) FindLatestByKind(ctx context.Context, ownerID string, kind health.Kind, discriminator string) (*health.Record, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *health.Record
	for i := range s.records {
		record := s.records[i]
		if record.OwnerID != ownerID || record.Kind != kind {
			continue
		}
		if discriminator != "" && record.Discriminator != discriminator {
			continue
		}
		if latest == nil || record.TS.After(latest.TS) {
			copied := record
			latest = &copied
		}
	}
	if latest == nil {
		return nil, health.ErrRecordNotFound
	}
	return latest, nil
}

// DeleteByOwner removes every record and summary of one owner.
func (s *Store) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	kept := s.records[:0]
	for _, record := range s.records {
		if record.OwnerID == ownerID {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	s.records = kept

	keptSummaries := s.summaries[:0]
	for _, summary := range s.summaries {
		if summary.OwnerID == ownerID {
			removed++
			continue
		}
		keptSummaries = append(keptSummaries, summary)
	}
	s.summaries = keptSummaries

	return removed, nil
}

// QueryRange returns records within [from, to], ascending by
// timestamp.
func (s *Store) QueryRange(ctx context.Context, ownerID string, kind health.Kind, from, to time.Time) ([]health.Record, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]health.Record, 0)
	for _, record := range s.records {
		if record.OwnerID != ownerID || record.Kind != kind {
			continue
		}
		if record.TS.Before(from) || record.TS.After(to) {
			continue
		}
		result = append(result, record)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].TS.Before(result[j].TS) })
	return result, nil
}

// Summaries returns a copy of the stored summaries, for tests.
func (s *Store) Summaries() []health.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]health.Summary, len(s.summaries))
	copy(out, s.summaries)
	return out
}

// Records returns a copy of the stored records, for tests.
func (s *Store) Records() []health.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]health.Record, len(s.records))
	copy(out, s.records)
	return out
}
