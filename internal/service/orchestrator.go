package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"healthsync/internal/backoff"
	"healthsync/internal/config"
	"healthsync/internal/domain"
	"healthsync/internal/telemetry"
)

// BackgroundTaskID identifies the orchestrator's handler in the BackgroundScheduler.
const BackgroundTaskID = "healthsync.sync"

// Orchestrator drives sync passes and arbitrates the manual, periodic,
// push and background triggers. All mutable state is guarded by mu; at most
// one pass runs at a time.
type Orchestrator struct {
	samples    SampleStore
	history    HistoryStore
	watermarks WatermarkStore
	txManager  TransactionManager
	source     Acquisition
	delivery   Deliverer
	queue      RetryQueue
	background BackgroundScheduler
	settings   Settings
	logger     *slog.Logger
	config     config.SyncConfig

	sleep    backoff.Sleeper
	now      func() time.Time
	metrics  *telemetry.SyncMetrics
	lockFile *flock.Flock

	mu           sync.Mutex
	active       bool
	status       domain.SyncStatus
	lastProgress float64
	subscribers  map[int]chan domain.SyncStatus
	nextSub      int

	// autoMu guards the trigger loop and is never taken by a pass.
	autoMu     sync.Mutex
	autoMode   domain.AutoSyncMode
	autoCancel context.CancelFunc
	autoDone   chan struct{}
	triggers   chan trigger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSleeper replaces the sleeper used for backoff and settle delays.
func WithSleeper(sleep backoff.Sleeper) Option {
	return func(o *Orchestrator) {
		o.sleep = sleep
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func WithMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(o *Orchestrator) {
		o.metrics = metrics
	}
}

// WithProcessLock extends the single-flight guard across processes sharing
// the lock file at path.
func WithProcessLock(path string) Option {
	return func(o *Orchestrator) {
		if path != "" {
			o.lockFile = flock.New(path)
		}
	}
}

func NewOrchestrator(
	samples SampleStore,
	history HistoryStore,
	watermarks WatermarkStore,
	txManager TransactionManager,
	source Acquisition,
	delivery Deliverer,
	queue RetryQueue,
	background BackgroundScheduler,
	settings Settings,
	logger *slog.Logger,
	cfg config.SyncConfig,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		samples:     samples,
		history:     history,
		watermarks:  watermarks,
		txManager:   txManager,
		source:      source,
		delivery:    delivery,
		queue:       queue,
		background:  background,
		settings:    settings,
		logger:      logger.With("component", "orchestrator"),
		config:      withSyncDefaults(cfg),
		sleep:       backoff.Sleep,
		now:         func() time.Time { return time.Now().UTC() },
		status:      domain.IdleStatus(),
		subscribers: make(map[int]chan domain.SyncStatus),
		autoMode:    domain.AutoSyncMode{Kind: domain.AutoSyncStopped},
		triggers:    make(chan trigger, 1),
	}
	for _, opt := range opts {
		opt(o)
	}

	source.SetObservationHandler(o.onNewData)
	if background != nil {
		background.Register(BackgroundTaskID, o.handleBackgroundTask)
	}
	return o
}

func withSyncDefaults(cfg config.SyncConfig) config.SyncConfig {
	if cfg.BatchSize <= 0 || cfg.BatchSize > 100 {
		cfg.BatchSize = 100
	}
	if cfg.QueryLimit <= 0 {
		cfg.QueryLimit = 1000
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = config.RetryConfig{MaxAttempts: 5, InitialBackoff: time.Second}
	}
	if cfg.DefaultLookback <= 0 {
		cfg.DefaultLookback = 24 * time.Hour
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 30
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}
	return cfg
}

// Status returns the most recently published status.
func (o *Orchestrator) Status() domain.SyncStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// IsSyncing reports whether a pass is active in this process.
func (o *Orchestrator) IsSyncing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// Subscribe returns a channel that receives the current status immediately
// and every later change. A slow subscriber loses the oldest pending update,
// never the newest. The returned func unsubscribes and closes the channel.
func (o *Orchestrator) Subscribe(buffer int) (<-chan domain.SyncStatus, func()) {
	ch := make(chan domain.SyncStatus, max(buffer, 1))

	o.mu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subscribers[id] = ch
	ch <- o.status
	o.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subscribers, id)
			o.mu.Unlock()
			close(ch)
		})
	}
}

// setStatusLocked must be called with mu held.
func (o *Orchestrator) setStatusLocked(s domain.SyncStatus) {
	o.status = s
	for _, ch := range o.subscribers {
		select {
		case ch <- s:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

// begin claims the single-flight guard and publishes syncing(0).
func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active {
		return domain.ErrSyncInProgress
	}
	if o.lockFile != nil {
		locked, err := o.lockFile.TryLock()
		if err != nil {
			return fmt.Errorf("acquire sync lock: %w", err)
		}
		if !locked {
			return domain.ErrSyncInProgress
		}
	}

	o.active = true
	o.lastProgress = 0
	o.setStatusLocked(domain.SyncingStatus(0))
	return nil
}

// finish publishes the terminal status and releases the guard.
func (o *Orchestrator) finish(s domain.SyncStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.setStatusLocked(s)
	o.active = false
	if o.lockFile != nil {
		if err := o.lockFile.Unlock(); err != nil {
			o.logger.Warn("failed to release sync lock", "error", err)
		}
	}
}

// progress publishes syncing(p) if p advances the current pass. Nothing is
// published once ctx is cancelled.
func (o *Orchestrator) progress(ctx context.Context, p float64) {
	if ctx.Err() != nil {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.active || p <= o.lastProgress {
		return
	}
	o.lastProgress = min(p, 1)
	o.setStatusLocked(domain.SyncingStatus(o.lastProgress))
}
