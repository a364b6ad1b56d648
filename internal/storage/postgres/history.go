package postgres

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

const defaultHistoryLimit = 50

type historyRow struct {
	ID           string         `db:"id"`
	Timestamp    time.Time      `db:"timestamp"`
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
		Timestamp:   r.Timestamp.UTC(),
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

// AppendHistory inserts record. Records are immutable; appending the same id
// twice is a no-op.
func (s *HistoryStore) AppendHistory(ctx context.Context, record *domain.SyncRecord) error {
	query := `
		INSERT INTO sync_history (id, timestamp, status, synced_count, error_message, duration_ms)
		VALUES ($1::uuid, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`

	var msg sql.NullString
	if record.ErrorMessage != nil {
		msg = sql.NullString{String: *record.ErrorMessage, Valid: true}
	}

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		record.ID.String(),
		record.Timestamp,
		string(record.Status),
		record.SyncedCount,
		msg,
		record.Duration.Milliseconds(),
	)
	return err
}

// ListHistory returns the newest records first.
func (s *HistoryStore) ListHistory(ctx context.Context, limit int) ([]domain.SyncRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	query := `
		SELECT id, timestamp, status, synced_count, error_message, duration_ms
		FROM sync_history
		ORDER BY timestamp DESC, id
		LIMIT $1`

	var rows []historyRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, limit); err != nil {
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

// LastSuccess returns the newest record of a pass that completed, or nil
// when there is none.
func (s *HistoryStore) LastSuccess(ctx context.Context) (*domain.SyncRecord, error) {
	query := `
		SELECT id, timestamp, status, synced_count, error_message, duration_ms
		FROM sync_history
		WHERE status <> $1
		ORDER BY timestamp DESC
		LIMIT 1`

	var row historyRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, string(domain.RecordStatusFailed))
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
