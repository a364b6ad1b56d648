package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"healthsync/internal/domain"
)

type WatermarkStore struct {
	db *sqlx.DB
}

func NewWatermarkStore(db *sqlx.DB) *WatermarkStore {
	return &WatermarkStore{db: db}
}

func (s *WatermarkStore) GetWatermark(ctx context.Context, dataType domain.DataType) (time.Time, error) {
	var nanos int64
	err := sqlx.GetContext(ctx, executor(ctx, s.db), &nanos,
		`SELECT watermark FROM sync_state WHERE data_type = ?`,
		string(dataType),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return fromNanos(nanos), nil
}

func (s *WatermarkStore) SetWatermark(ctx context.Context, dataType domain.DataType, at time.Time) error {
	_, err := executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO sync_state (data_type, watermark, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (data_type) DO UPDATE SET
			watermark = MAX(sync_state.watermark, excluded.watermark),
			updated_at = excluded.updated_at`,
		string(dataType), at.UnixNano(), time.Now().UnixNano(),
	)
	return err
}
