package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"healthsync/internal/domain"
)

type SampleStore interface {
	SaveSamples(ctx context.Context, samples []domain.Sample, userID string) error
	FetchUnsynced(ctx context.Context) ([]domain.Sample, error)
	FetchUnsyncedPage(ctx context.Context, limit, offset int) ([]domain.Sample, error)
	CountUnsynced(ctx context.Context) (int, error)
	MarkSynced(ctx context.Context, ids []uuid.UUID) error
	DeleteSyncedOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type HistoryStore interface {
	AppendHistory(ctx context.Context, record *domain.SyncRecord) error
	ListHistory(ctx context.Context, limit int) ([]domain.SyncRecord, error)
	LastSuccess(ctx context.Context) (*domain.SyncRecord, error)
}

type WatermarkStore interface {
	GetWatermark(ctx context.Context, dataType domain.DataType) (time.Time, error)
	SetWatermark(ctx context.Context, dataType domain.DataType, at time.Time) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Acquisition is the sensor-data source. Every implementation provides the
// full contract; sources without push support return
// domain.ErrObservationUnsupported from StartObserving.
type Acquisition interface {
	RequestAuthorization(ctx context.Context, types []domain.DataType) error
	ClearAuthorizationCache()
	Fetch(ctx context.Context, dataType domain.DataType, from, to time.Time, limit int) ([]domain.Sample, error)
	StartObserving(ctx context.Context, types []domain.DataType) error
	StopObserving() error
	SetObservationHandler(fn func(dataType domain.DataType))
}

type Deliverer interface {
	Configure(cfg domain.GatewayConfig) error
	SendHealthData(ctx context.Context, samples []domain.Sample) (*domain.SyncResult, error)
	TestConnection(ctx context.Context) error
}

type RetryQueue interface {
	Add(samples []domain.Sample)
	RemoveAll() [][]domain.Sample
	Count() int
	Samples() int
}

// BackgroundScheduler runs registered handlers outside the foreground
// trigger loop. The handler's context is cancelled when its execution
// window expires.
type BackgroundScheduler interface {
	Register(id string, handler func(ctx context.Context))
	Schedule(id string, earliestDelay time.Duration, requiresNetwork bool) error
	Cancel(id string)
}

// Settings is read at the start of every pass.
type Settings interface {
	Gateway(ctx context.Context) (*domain.GatewayConfig, error)
	EnabledTypes() []domain.DataType
	Frequency() domain.SyncFrequency
	SetFrequency(f domain.SyncFrequency) error
}
