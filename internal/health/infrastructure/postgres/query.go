package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	health "vitals-cloud/internal/health/domain"
)

// RecordQuery is a Postgres query implementation for range reads.
type RecordQuery struct {
	db    *sql.DB
	table string
}

// QueryOption configures the query.
type QueryOption func(*RecordQuery)

// WithQueryTable overrides the default record table name.
func WithQueryTable(table string) QueryOption {
	return func(query *RecordQuery) {
		if table != "" {
			query.table = table
		}
	}
}

// NewRecordQuery constructs a query with the default table name.
func NewRecordQuery(db *sql.DB, opts ...QueryOption) *RecordQuery {
	query := &RecordQuery{db: db, table: defaultRecordTable}
	for _, opt := range opts {
		opt(query)
	}
	return query
}

// QueryRange returns records within [from, to], ascending by
// timestamp.
func (q *RecordQuery) QueryRange(ctx context.Context, ownerID string, kind health.Kind, from, to time.Time) ([]health.Record, error) {
	if q == nil || q.db == nil {
		return nil, errors.New("health query: nil db")
	}
	if ownerID == "" {
		return nil, health.ErrMissingOwnerID
	}
	if !kind.IsValid() {
		return nil, health.ErrUnknownKind
	}
	if from.IsZero() || to.IsZero() {
		return nil, errors.New("health query: invalid window")
	}

	query := fmt.Sprintf(`
SELECT id, owner_id, kind, ts, value_numeric, value_text, discriminator, unit, meta
FROM %s
WHERE owner_id = $1
	AND kind = $2
	AND ts >= $3
	AND ts <= $4
ORDER BY ts ASC`, q.table)

	rows, err := q.db.QueryContext(ctx, query, ownerID, string(kind), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]health.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// CountByKind returns per-kind record counts for one owner.
func (q *RecordQuery) CountByKind(ctx context.Context, ownerID string) (map[health.Kind]int64, error) {
	if q == nil || q.db == nil {
		return nil, errors.New("health query: nil db")
	}
	if ownerID == "" {
		return nil, health.ErrMissingOwnerID
	}

	query := fmt.Sprintf(`
SELECT kind, COUNT(*)
FROM %s
WHERE owner_id = $1
GROUP BY kind`, q.table)

	rows, err := q.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[health.Kind]int64)
	for rows.Next() {
		var kind string
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		counts[health.Kind(kind)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
