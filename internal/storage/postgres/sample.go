package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"healthsync/internal/domain"
)

const (
	sampleColumns = `id, user_id, data_type, value, unit, start_date, end_date,
		source_bundle, metadata, is_synced, created_at, time_zone`
	sampleColumnCount = 12

	// keeps a single INSERT under the 65535 bind parameter limit
	maxRowsPerInsert = 1000
)

type sampleRow struct {
	ID           string         `db:"id"`
	UserID       string         `db:"user_id"`
	DataType     string         `db:"data_type"`
	Value        float64        `db:"value"`
	Unit         string         `db:"unit"`
	StartDate    time.Time      `db:"start_date"`
	EndDate      time.Time      `db:"end_date"`
	SourceBundle sql.NullString `db:"source_bundle"`
	Metadata     sql.NullString `db:"metadata"`
	IsSynced     bool           `db:"is_synced"`
	CreatedAt    time.Time      `db:"created_at"`
	TimeZone     string         `db:"time_zone"`
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
		StartDate: r.StartDate.UTC(),
		EndDate:   r.EndDate.UTC(),
		IsSynced:  r.IsSynced,
		CreatedAt: r.CreatedAt.UTC(),
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

func encodeMetadata(m map[string]string) (sql.NullString, error) {
	if len(m) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

type SampleStore struct {
	db *sqlx.DB
}

func NewSampleStore(db *sqlx.DB) *SampleStore {
	return &SampleStore{db: db}
}

// SaveSamples upserts samples by id. A row already marked synced stays synced
// and keeps its original creation time.
func (s *SampleStore) SaveSamples(ctx context.Context, samples []domain.Sample, userID string) error {
	samples = domain.DedupeByID(samples)
	exec := GetExecutor(ctx, s.db)

	for len(samples) > 0 {
		n := min(len(samples), maxRowsPerInsert)
		query, args, err := buildSampleUpsert(samples[:n], userID)
		if err != nil {
			return err
		}
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert samples: %w", err)
		}
		samples = samples[n:]
	}
	return nil
}

func buildSampleUpsert(samples []domain.Sample, userID string) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO samples (")
	sb.WriteString(sampleColumns)
	sb.WriteString(") VALUES ")
	args := make([]any, 0, len(samples)*sampleColumnCount)

	for i, sample := range samples {
		meta, err := encodeMetadata(sample.Metadata)
		if err != nil {
			return "", nil, fmt.Errorf("encode metadata of %s: %w", sample.ID, err)
		}
		var source sql.NullString
		if sample.Source != nil {
			source = sql.NullString{String: *sample.Source, Valid: true}
		}

		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * sampleColumnCount
		sb.WriteString("(")
		for col := 1; col <= sampleColumnCount; col++ {
			if col > 1 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(itoa(base + col))
			switch col {
			case 1:
				sb.WriteString("::uuid")
			case 9:
				sb.WriteString("::jsonb")
			}
		}
		sb.WriteString(")")

		args = append(args,
			sample.ID.String(),
			userID,
			string(sample.Type),
			sample.Value,
			sample.Unit,
			sample.StartDate,
			sample.EndDate,
			source,
			meta,
			sample.IsSynced,
			sample.CreatedAt,
			sample.TimeZone,
		)
	}

	sb.WriteString(`
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			data_type = EXCLUDED.data_type,
			value = EXCLUDED.value,
			unit = EXCLUDED.unit,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			source_bundle = EXCLUDED.source_bundle,
			metadata = EXCLUDED.metadata,
			is_synced = samples.is_synced OR EXCLUDED.is_synced,
			time_zone = EXCLUDED.time_zone`)

	return sb.String(), args, nil
}

// FetchUnsynced returns every unsynced sample, oldest first.
func (s *SampleStore) FetchUnsynced(ctx context.Context) ([]domain.Sample, error) {
	query := `SELECT ` + sampleColumns + ` FROM samples
		WHERE NOT is_synced
		ORDER BY created_at, id`

	return s.selectSamples(ctx, query)
}

// FetchUnsyncedPage returns one page of unsynced samples in the same order
// as FetchUnsynced.
func (s *SampleStore) FetchUnsyncedPage(ctx context.Context, limit, offset int) ([]domain.Sample, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `SELECT ` + sampleColumns + ` FROM samples
		WHERE NOT is_synced
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`

	return s.selectSamples(ctx, query, limit, max(offset, 0))
}

func (s *SampleStore) selectSamples(ctx context.Context, query string, args ...any) ([]domain.Sample, error) {
	var rows []sampleRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, args...); err != nil {
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
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &count, `SELECT COUNT(*) FROM samples WHERE NOT is_synced`)
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

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE samples SET is_synced = TRUE WHERE id = ANY($1::uuid[]) AND NOT is_synced`,
		pq.Array(strIDs),
	)
	return err
}

// DeleteSyncedOlderThan removes synced rows created before cutoff. Unsynced
// rows are never deleted.
func (s *SampleStore) DeleteSyncedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM samples WHERE is_synced AND created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func itoa(i int) string {
	if i < 10 {
		return string(rune('0' + i))
	}
	return itoa(i/10) + string(rune('0'+i%10))
}
