package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	health "vitals-cloud/internal/health/domain"
)

const (
	defaultSummaryTable = "health_summaries"
	defaultRecordTable  = "health_records"
)

// Repository is a Postgres implementation of the health persistence
// ports.
type Repository struct {
	db           *sql.DB
	summaryTable string
	recordTable  string
}

// RepositoryOption configures the repository.
type RepositoryOption func(*Repository)

// WithSummaryTable overrides the default summary table name.
func WithSummaryTable(table string) RepositoryOption {
	return func(repo *Repository) {
		if table != "" {
			repo.summaryTable = table
		}
	}
}

// WithRecordTable overrides the default record table name.
func WithRecordTable(table string) RepositoryOption {
	return func(repo *Repository) {
		if table != "" {
			repo.recordTable = table
		}
	}
}

// NewRepository constructs a repository with default table names.
func NewRepository(db *sql.DB, opts ...RepositoryOption) *Repository {
	repo := &Repository{db: db, summaryTable: defaultSummaryTable, recordTable: defaultRecordTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// InsertSummary stores one summary and returns its generated id.
func (r *Repository) InsertSummary(ctx context.Context, summary health.Summary) (string, error) {
	if r == nil || r.db == nil {
		return "", errors.New("health repo: nil db")
	}
	if summary.OwnerID == "" || summary.TS.IsZero() {
		return "", errors.New("health repo: invalid summary")
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	owner_id,
	ts,
	steps_total,
	total_calories_kcal,
	active_calories_kcal,
	distance_meters,
	sleep_minutes,
	heart_rate_avg,
	heart_rate_min,
	heart_rate_max,
	oxygen_saturation_avg
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
)`, r.summaryTable)

	id := uuid.NewString()
	if _, err := r.db.ExecContext(
		ctx,
		query,
		id,
		summary.OwnerID,
		summary.TS,
		summary.StepsTotal,
		summary.TotalCaloriesKcal,
		summary.ActiveCaloriesKcal,
		summary.DistanceMeters,
		summary.SleepMinutes,
		nullInt(summary.HeartRateAvg),
		nullInt(summary.HeartRateMin),
		nullInt(summary.HeartRateMax),
		nullFloatPtr(summary.OxygenSaturationAvg),
	); err != nil {
		return "", err
	}
	return id, nil
}

// InsertRecords stores canonical records in one transaction,
// all-or-nothing.
func (r *Repository) InsertRecords(ctx context.Context, records []health.Record) error {
	if r == nil || r.db == nil {
		return errors.New("health repo: nil db")
	}
	if len(records) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	owner_id,
	kind,
	ts,
	value_numeric,
	value_text,
	discriminator,
	unit,
	meta
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9
)`, r.recordTable)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, record := range records {
		if record.OwnerID == "" || !record.Kind.IsValid() || record.TS.IsZero() {
			_ = tx.Rollback()
			return errors.New("health repo: invalid record")
		}

		meta, err := marshalMeta(record.Meta)
		if err != nil {
			_ = tx.Rollback()
			return err
		}

		if _, err := stmt.ExecContext(
			ctx,
			uuid.NewString(),
			record.OwnerID,
			string(record.Kind),
			record.TS,
			nullFloatPtr(record.Value),
			nullStringPtr(record.ValueText),
			record.Discriminator,
			record.Unit,
			meta,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// FindLatestByKind returns the most recent record for an owner and
// kind, ordered by descending timestamp.
func (r *Repository) FindLatestByKind(ctx context.Context, ownerID string, kind health.Kind, discriminator string) (*health.Record, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("health repo: nil db")
	}
	if ownerID == "" {
		return nil, health.ErrMissingOwnerID
	}
	if !kind.IsValid() {
		return nil, health.ErrUnknownKind
	}

	query := fmt.Sprintf(`
SELECT id, owner_id, kind, ts, value_numeric, value_text, discriminator, unit, meta
FROM %s
WHERE owner_id = $1
	AND kind = $2
	AND ($3 = '' OR discriminator = $3)
ORDER BY ts DESC
LIMIT 1`, r.recordTable)

	row := r.db.QueryRowContext(ctx, query, ownerID, string(kind), discriminator)
	record, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, health.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteByOwner removes every record and summary of one owner and
// returns the combined row count.
func (r *Repository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("health repo: nil db")
	}
	if ownerID == "" {
		return 0, health.ErrMissingOwnerID
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, table := range []string{r.recordTable, r.summaryTable} {
		result, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE owner_id = $1", table), ownerID)
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		total += affected
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

func scanRecord(scan func(dest ...any) error) (*health.Record, error) {
	var record health.Record
	var kind string
	var value sql.NullFloat64
	var text sql.NullString
	var meta []byte

	if err := scan(
		&record.ID,
		&record.OwnerID,
		&kind,
		&record.TS,
		&value,
		&text,
		&record.Discriminator,
		&record.Unit,
		&meta,
	); err != nil {
		return nil, err
	}

	record.Kind = health.Kind(kind)
	if value.Valid {
		v := value.Float64
		record.Value = &v
	}
	if text.Valid {
		t := text.String
		record.ValueText = &t
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &record.Meta); err != nil {
			return nil, err
		}
	}
	return &record, nil
}

func marshalMeta(meta map[string]any) (any, error) {
	if len(meta) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return encoded, nil
}

func nullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func nullFloatPtr(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func nullStringPtr(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
