// Package network tracks gateway reachability and signals when it returns.
package network

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Monitor probes the gateway periodically. Listeners registered with
// OnRestored run on every offline to online transition.
type Monitor struct {
	prober   Prober
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	online atomic.Bool

	mu        sync.Mutex
	listeners []func(ctx context.Context)
}

func NewMonitor(prober Prober, interval, timeout time.Duration, logger *slog.Logger) *Monitor {
	m := &Monitor{
		prober:   prober,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "network"),
	}
	m.online.Store(true)
	return m
}

// Online reports the result of the last probe. It is true before the first.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

func (m *Monitor) OnRestored(fn func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Run probes immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("network monitor started", "interval", m.interval)

	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("network monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check runs one probe and returns the new state.
func (m *Monitor) Check(ctx context.Context) bool {
	probeCtx := ctx
	if m.timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	err := m.prober.TestConnection(probeCtx)
	if ctx.Err() != nil {
		return m.Online()
	}

	online := err == nil
	was := m.online.Swap(online)

	switch {
	case was && !online:
		m.logger.Warn("gateway unreachable", "error", err)
	case !was && online:
		m.logger.Info("gateway reachable again")
		m.restored(ctx)
	}
	return online
}

func (m *Monitor) restored(ctx context.Context) {
	m.mu.Lock()
	listeners := append([]func(context.Context){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx)
	}
}
