package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"healthsync/internal/domain"
)

const historyColumns = `id, timestamp, status, synced_count, error_message, duration_ms`

type historyRow struct {
	ID           string         `db:"id"`
	Timestamp    int64          `db:"timestamp"`
	Status       string         `db:"status"`
	SyncedCount  int            `db:"synced_count"`
	ErrorMessage sql.NullString `db:"error_message"`
	DurationMS   int64          `db:"duration_ms"`
}

func (r historyRow) toDomain() (domain.SyncRecord, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.SyncRecord{}, fmt.Errorf("parse record id %q: %w", r.ID, err)
	}
	rec := domain.SyncRecord{
		ID:          id,
		Timestamp:   fromNanos(r.Timestamp),
		Status:      domain.RecordStatus(r.Status),
		SyncedCount: r.SyncedCount,
		Duration:    time.Duration(r.DurationMS) * time.Millisecond,
	}
	if r.ErrorMessage.Valid {
		msg := r.ErrorMessage.String
		rec.ErrorMessage = &msg
	}
	return rec, nil
}

type HistoryStore struct {
	db *sqlx.DB
}

func NewHistoryStore(db *sqlx.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

func (s *HistoryStore) AppendHistory(ctx context.Context, record *domain.SyncRecord) error {
	var msg sql.NullString
	if record.ErrorMessage != nil {
		msg = sql.NullString{String: *record.ErrorMessage, Valid: true}
	}

	_, err := executor(ctx, s.db).ExecContext(ctx,
		`INSERT INTO sync_history (`+historyColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		record.ID.String(),
		record.Timestamp.UnixNano(),
		string(record.Status),
		record.SyncedCount,
		msg,
		record.Duration.Milliseconds(),
	)
	return err
}

func (s *HistoryStore) ListHistory(ctx context.Context, limit int) ([]domain.SyncRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []historyRow
	err := sqlx.SelectContext(ctx, executor(ctx, s.db), &rows,
		`SELECT `+historyColumns+` FROM sync_history ORDER BY timestamp DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}

	records := make([]domain.SyncRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *HistoryStore) LastSuccess(ctx context.Context) (*domain.SyncRecord, error) {
	var row historyRow
	err := sqlx.GetContext(ctx, executor(ctx, s.db), &row,
		`SELECT `+historyColumns+` FROM sync_history WHERE status <> ? ORDER BY timestamp DESC LIMIT 1`,
		string(domain.RecordStatusFailed),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
