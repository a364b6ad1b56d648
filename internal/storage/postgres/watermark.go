package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"healthsync/internal/domain"
)

// WatermarkStore keeps the per-type lower bound of the next acquisition.
type WatermarkStore struct {
	db *sqlx.DB
}

func NewWatermarkStore(db *sqlx.DB) *WatermarkStore {
	return &WatermarkStore{db: db}
}

// GetWatermark returns the zero time for a type that was never fetched.
func (s *WatermarkStore) GetWatermark(ctx context.Context, dataType domain.DataType) (time.Time, error) {
	var at time.Time
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &at,
		`SELECT watermark FROM sync_state WHERE data_type = $1`,
		string(dataType),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return at.UTC(), nil
}

// SetWatermark moves the watermark forward. An older value never replaces a
// newer one.
func (s *WatermarkStore) SetWatermark(ctx context.Context, dataType domain.DataType, at time.Time) error {
	query := `
		INSERT INTO sync_state (data_type, watermark, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (data_type) DO UPDATE SET
			watermark = GREATEST(sync_state.watermark, EXCLUDED.watermark),
			updated_at = NOW()`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, string(dataType), at)
	return err
}
