package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrUnknownTask is returned when scheduling an id nobody registered.
var ErrUnknownTask = errors.New("background task not registered")

// NetworkStatus reports connectivity for tasks that require the network.
type NetworkStatus interface {
	Online() bool
}

const (
	DefaultWindow         = 30 * time.Second
	DefaultNetworkRecheck = 30 * time.Second
)

// Background runs registered handlers once per Schedule call after the
// requested delay. Each run gets a context cancelled when its execution
// window expires or the scheduler is closed.
type Background struct {
	window  time.Duration
	recheck time.Duration
	network NetworkStatus
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	handlers map[string]func(context.Context)
	pending  map[string]*time.Timer
}

type BackgroundOption func(*Background)

// WithNetwork defers tasks that require the network while status reports
// offline. They are re-checked every recheck interval.
func WithNetwork(status NetworkStatus, recheck time.Duration) BackgroundOption {
	return func(b *Background) {
		b.network = status
		if recheck > 0 {
			b.recheck = recheck
		}
	}
}

func NewBackground(window time.Duration, logger *slog.Logger, opts ...BackgroundOption) *Background {
	if window <= 0 {
		window = DefaultWindow
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &Background{
		window:   window,
		recheck:  DefaultNetworkRecheck,
		logger:   logger.With("component", "background"),
		ctx:      ctx,
		cancel:   cancel,
		handlers: make(map[string]func(context.Context)),
		pending:  make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Background) Register(id string, handler func(ctx context.Context)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[id] = handler
}

// Schedule arms a single invocation of id no earlier than earliestDelay from
// now, replacing any pending one.
func (b *Background) Schedule(id string, earliestDelay time.Duration, requiresNetwork bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctx.Err() != nil {
		return fmt.Errorf("schedule %s: %w", id, b.ctx.Err())
	}
	if _, ok := b.handlers[id]; !ok {
		return fmt.Errorf("schedule %s: %w", id, ErrUnknownTask)
	}

	b.armLocked(id, earliestDelay, requiresNetwork)
	b.logger.Debug("task scheduled", "id", id, "delay", earliestDelay, "requires_network", requiresNetwork)
	return nil
}

// Cancel drops the pending invocation of id. A run already in progress is
// not interrupted.
func (b *Background) Cancel(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if t, ok := b.pending[id]; ok {
		t.Stop()
		delete(b.pending, id)
		b.logger.Debug("task cancelled", "id", id)
	}
}

// armed reports whether id has a pending invocation.
func (b *Background) armed(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.pending[id]
	return ok
}

// Close cancels pending invocations, expires running ones and waits for
// them to return.
func (b *Background) Close() {
	b.mu.Lock()
	b.cancel()
	for id, t := range b.pending {
		t.Stop()
		delete(b.pending, id)
	}
	b.mu.Unlock()

	b.wg.Wait()
}

// armLocked must be called with mu held.
func (b *Background) armLocked(id string, delay time.Duration, requiresNetwork bool) {
	if t, ok := b.pending[id]; ok {
		t.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		b.fire(id, timer, requiresNetwork)
	})
	b.pending[id] = timer
}

func (b *Background) fire(id string, timer *time.Timer, requiresNetwork bool) {
	b.mu.Lock()
	if b.pending[id] != timer || b.ctx.Err() != nil {
		// replaced or cancelled after the timer fired
		b.mu.Unlock()
		return
	}
	if requiresNetwork && b.network != nil && !b.network.Online() {
		b.logger.Info("network unavailable, deferring task", "id", id, "recheck", b.recheck)
		b.armLocked(id, b.recheck, requiresNetwork)
		b.mu.Unlock()
		return
	}

	delete(b.pending, id)
	handler := b.handlers[id]
	b.wg.Add(1)
	b.mu.Unlock()

	defer b.wg.Done()

	ctx, cancel := context.WithTimeout(b.ctx, b.window)
	defer cancel()

	start := time.Now()
	b.logger.Info("running background task", "id", id, "window", b.window)
	handler(ctx)
	b.logger.Info("background task finished", "id", id, "duration", time.Since(start))
}
