// Package sqlite is the on-device ledger. It implements the same stores as
// the postgres package on a single-file SQLite database.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS samples (
	id            TEXT PRIMARY KEY,
	user_id       TEXT    NOT NULL,
	data_type     TEXT    NOT NULL,
	value         REAL    NOT NULL,
	unit          TEXT    NOT NULL,
	start_date    INTEGER NOT NULL,
	end_date      INTEGER NOT NULL,
	source_bundle TEXT,
	metadata      TEXT,
	is_synced     INTEGER NOT NULL DEFAULT 0,
	created_at    INTEGER NOT NULL,
	time_zone     TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_samples_unsynced ON samples (is_synced, created_at, id);

CREATE TABLE IF NOT EXISTS sync_history (
	id            TEXT PRIMARY KEY,
	timestamp     INTEGER NOT NULL,
	status        TEXT    NOT NULL,
	synced_count  INTEGER NOT NULL DEFAULT 0,
	error_message TEXT,
	duration_ms   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_sync_history_timestamp ON sync_history (timestamp DESC);

CREATE TABLE IF NOT EXISTS sync_state (
	data_type  TEXT PRIMARY KEY,
	watermark  INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// one connection serializes writers and keeps :memory: databases shared
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{"PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"}
	if path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
