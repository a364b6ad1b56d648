package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"healthsync/internal/domain"
)

const sampleColumns = `id, user_id, data_type, value, unit, start_date, end_date,
	source_bundle, metadata, is_synced, created_at, time_zone`

// SQLite allows 32766 bound variables per statement.
const maxRowsPerInsert = 500

type sampleRow struct {
	ID           string         `db:"id"`
	UserID       string         `db:"user_id"`
	DataType     string         `db:"data_type"`
	Value        float64        `db:"value"`
	Unit         string         `db:"unit"`
	StartDate    int64          `db:"start_date"`
	EndDate      int64          `db:"end_date"`
	SourceBundle sql.NullString `db:"source_bundle"`
	Metadata     sql.NullString `db:"metadata"`
	IsSynced     bool           `db:"is_synced"`
	CreatedAt    int64          `db:"created_at"`
	TimeZone     string         `db:"time_zone"`
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func (r sampleRow) toDomain() (domain.Sample, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Sample{}, fmt.Errorf("parse sample id %q: %w", r.ID, err)
	}

	s := domain.Sample{
		ID:        id,
		Type:      domain.DataType(r.DataType),
		Value:     r.Value,
		Unit:      r.Unit,
		StartDate: fromNanos(r.StartDate),
		EndDate:   fromNanos(r.EndDate),
		IsSynced:  r.IsSynced,
		CreatedAt: fromNanos(r.CreatedAt),
		TimeZone:  r.TimeZone,
	}
	if r.SourceBundle.Valid {
		src := r.SourceBundle.String
		s.Source = &src
	}
	if r.Metadata.Valid && r.Metadata.String != "" {
		if err := json.Unmarshal([]byte(r.Metadata.String), &s.Metadata); err != nil {
			return domain.Sample{}, fmt.Errorf("decode metadata of %s: %w", r.ID, err)
		}
	}
	return s, nil
}

type SampleStore struct {
	db *sqlx.DB
}

func NewSampleStore(db *sqlx.DB) *SampleStore {
	return &SampleStore{db: db}
}

// SaveSamples upserts samples by id. isSynced is sticky and created_at is
// kept from the first save.
func (s *SampleStore) SaveSamples(ctx context.Context, samples []domain.Sample, userID string) error {
	samples = domain.DedupeByID(samples)
	exec := executor(ctx, s.db)

	for _, chunk := range domain.Chunk(samples, maxRowsPerInsert) {
		query, args, err := buildSampleUpsert(chunk, userID)
		if err != nil {
			return err
		}
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert samples: %w", err)
		}
	}
	return nil
}

func buildSampleUpsert(samples []domain.Sample, userID string) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO samples (")
	sb.WriteString(sampleColumns)
	sb.WriteString(") VALUES ")
	args := make([]any, 0, len(samples)*12)

	for i, sample := range samples {
		var meta sql.NullString
		if len(sample.Metadata) > 0 {
			b, err := json.Marshal(sample.Metadata)
			if err != nil {
				return "", nil, fmt.Errorf("encode metadata of %s: %w", sample.ID, err)
			}
			meta = sql.NullString{String: string(b), Valid: true}
		}
		var source sql.NullString
		if sample.Source != nil {
			source = sql.NullString{String: *sample.Source, Valid: true}
		}

		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			sample.ID.String(),
			userID,
			string(sample.Type),
			sample.Value,
			sample.Unit,
			sample.StartDate.UnixNano(),
			sample.EndDate.UnixNano(),
			source,
			meta,
			sample.IsSynced,
			sample.CreatedAt.UnixNano(),
			sample.TimeZone,
		)
	}

	sb.WriteString(`
		ON CONFLICT (id) DO UPDATE SET
			user_id = excluded.user_id,
			data_type = excluded.data_type,
			value = excluded.value,
			unit = excluded.unit,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			source_bundle = excluded.source_bundle,
			metadata = excluded.metadata,
			is_synced = MAX(samples.is_synced, excluded.is_synced),
			time_zone = excluded.time_zone`)

	return sb.String(), args, nil
}

func (s *SampleStore) FetchUnsynced(ctx context.Context) ([]domain.Sample, error) {
	query := `SELECT ` + sampleColumns + ` FROM samples
		WHERE is_synced = 0
		ORDER BY created_at, id`

	return s.selectSamples(ctx, query)
}

func (s *SampleStore) FetchUnsyncedPage(ctx context.Context, limit, offset int) ([]domain.Sample, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `SELECT ` + sampleColumns + ` FROM samples
		WHERE is_synced = 0
		ORDER BY created_at, id
		LIMIT ? OFFSET ?`

	return s.selectSamples(ctx, query, limit, max(offset, 0))
}

func (s *SampleStore) selectSamples(ctx context.Context, query string, args ...any) ([]domain.Sample, error) {
	var rows []sampleRow
	if err := sqlx.SelectContext(ctx, executor(ctx, s.db), &rows, query, args...); err != nil {
		return nil, err
	}

	samples := make([]domain.Sample, 0, len(rows))
	for _, r := range rows {
		sample, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func (s *SampleStore) CountUnsynced(ctx context.Context) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, executor(ctx, s.db), &count, `SELECT COUNT(*) FROM samples WHERE is_synced = 0`)
	return count, err
}

func (s *SampleStore) MarkSynced(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	query, args, err := sqlx.In(`UPDATE samples SET is_synced = 1 WHERE is_synced = 0 AND id IN (?)`, strIDs)
	if err != nil {
		return fmt.Errorf("build mark synced: %w", err)
	}
	_, err = executor(ctx, s.db).ExecContext(ctx, query, args...)
	return err
}

func (s *SampleStore) DeleteSyncedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := executor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM samples WHERE is_synced = 1 AND created_at < ?`,
		cutoff.UnixNano(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
