package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"healthsync/internal/domain"
)

// Syncer is the orchestrator surface exposed over HTTP.
type Syncer interface {
	PerformManualSync(ctx context.Context) (*domain.SyncRecord, error)
	Status() domain.SyncStatus
	History(ctx context.Context, limit int) ([]domain.SyncRecord, error)
	LastSuccessfulSync(ctx context.Context) (time.Time, bool, error)
	StartAutoSync(ctx context.Context) error
	StopAutoSync()
	AutoSyncMode() domain.AutoSyncMode
	NetworkRestored(ctx context.Context) (int, error)
	SetFrequency(ctx context.Context, f domain.SyncFrequency) error
	QueuedSamples() int
}
