package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"healthsync/internal/api"
	"healthsync/internal/scheduler"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	cleanupTimeout    = time.Minute
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the sync daemon",
		Long: `Run the sync daemon: automatic sync at the configured frequency,
background passes, retention cleanup, the network monitor, status
forwarding to RabbitMQ and the local control API.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, logger, true)
			if err != nil {
				logger.Error("failed to start", "error", err)
				return err
			}
			defer a.Close()

			return a.run(ctx)
		},
	}
}

func (a *app) run(ctx context.Context) error {
	orch := a.orchestrator
	g, gctx := errgroup.WithContext(ctx)

	if a.publisher != nil {
		updates, unsubscribe := orch.Subscribe(32)
		defer unsubscribe()
		g.Go(func() error {
			return a.publisher.Forward(gctx, updates)
		})
	}

	if a.monitor != nil {
		a.monitor.OnRestored(func(ctx context.Context) {
			if _, err := orch.NetworkRestored(ctx); err != nil {
				a.logger.Warn("retry queue drain incomplete", "error", err)
			}
		})
		g.Go(func() error {
			return a.monitor.Run(gctx)
		})
	}

	retention := scheduler.NewScheduler("retention", scheduler.JobFunc(func(ctx context.Context) error {
		_, err := orch.Cleanup(ctx)
		return err
	}), a.cfg.Sync.CleanupInterval, cleanupTimeout, a.logger)
	g.Go(func() error {
		return retention.Start(gctx)
	})

	srv := &http.Server{
		Addr:              a.cfg.API.Listen,
		Handler:           api.NewServer(gctx, orch, a.logger, api.WithMiddlewares(api.LoggingMiddleware(a.logger))),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	g.Go(func() error {
		a.logger.Info("control api listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve control api: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := orch.StartAutoSync(gctx); err != nil {
		a.logger.Warn("automatic sync not started", "error", err)
	}

	a.logger.Info("healthsync daemon started",
		"frequency", a.settings.Frequency(),
		"types", len(a.settings.EnabledTypes()),
		"ledger", a.cfg.Ledger.Driver,
	)

	err := g.Wait()
	orch.StopAutoSync()

	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("daemon stopped with error", "error", err)
		return err
	}
	a.logger.Info("healthsync daemon stopped")
	return nil
}
