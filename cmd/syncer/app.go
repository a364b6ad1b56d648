package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"healthsync/internal/acquisition"
	"healthsync/internal/backoff"
	"healthsync/internal/config"
	"healthsync/internal/credentials"
	"healthsync/internal/delivery"
	"healthsync/internal/network"
	"healthsync/internal/publisher"
	"healthsync/internal/retryqueue"
	"healthsync/internal/scheduler"
	"healthsync/internal/service"
	"healthsync/internal/storage/postgres"
	"healthsync/internal/storage/sqlite"
	"healthsync/internal/telemetry"
)

// app holds the wired components and releases them in Close.
type app struct {
	cfg          *config.Config
	logger       *slog.Logger
	settings     *config.Settings
	delivery     *delivery.Client
	orchestrator *service.Orchestrator

	// daemon-only components
	background *scheduler.Background
	monitor    *network.Monitor
	publisher  *publisher.RabbitMQ

	closers []func() error
}

type ledger struct {
	db         *sqlx.DB
	samples    service.SampleStore
	history    service.HistoryStore
	watermarks service.WatermarkStore
	tx         service.TransactionManager
}

func openLedger(ctx context.Context, cfg config.LedgerConfig) (*ledger, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		return &ledger{
			db:         db,
			samples:    postgres.NewSampleStore(db),
			history:    postgres.NewHistoryStore(db),
			watermarks: postgres.NewWatermarkStore(db),
			tx:         postgres.NewTransactionManager(db),
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return &ledger{
			db:         db,
			samples:    sqlite.NewSampleStore(db),
			history:    sqlite.NewHistoryStore(db),
			watermarks: sqlite.NewWatermarkStore(db),
			tx:         sqlite.NewTransactionManager(db),
		}, nil
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", cfg.Driver)
	}
}

func retryPolicy(r config.RetryConfig) backoff.Policy {
	return backoff.Policy{
		MaxAttempts: r.MaxAttempts,
		Initial:     r.InitialBackoff,
		Max:         r.MaxBackoff,
	}
}

// newApp wires the components. daemon adds the background scheduler, the
// network monitor and the status publisher.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, daemon bool) (*app, error) {
	a := &app{cfg: cfg, logger: logger}
	wired := false
	defer func() {
		if !wired {
			a.Close()
		}
	}()

	var err error
	var secrets config.SecretStore
	if cfg.Credentials.Keyring {
		secrets = credentials.NewKeyring(cfg.Credentials.Service)
	}
	a.settings, err = config.NewSettings(cfg, secrets)
	if err != nil {
		return nil, err
	}

	l, err := openLedger(ctx, cfg.Ledger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, l.db.Close)
	logger.Info("ledger opened", "driver", cfg.Ledger.Driver)

	provider, shutdown, err := telemetry.NewMeterProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		Interval:       cfg.Telemetry.Interval,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Sync.AppVersion,
	}, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { return shutdown(context.Background()) })
	metrics, err := telemetry.NewSyncMetrics(provider)
	if err != nil {
		return nil, err
	}

	a.delivery = delivery.New(delivery.Options{
		Identity: delivery.Identity{
			DeviceID:   cfg.Sync.DeviceID,
			UserID:     cfg.Sync.UserID,
			AppVersion: cfg.Sync.AppVersion,
		},
		Timeout:   cfg.Gateway.Timeout,
		BatchSize: cfg.Gateway.BatchSize,
		Retry:     retryPolicy(cfg.Gateway.Retry),
	}, logger)

	var sourceOpts []acquisition.Option
	if cfg.RabbitMQ.URL != "" {
		sourceOpts = append(sourceOpts, acquisition.WithObserver(acquisition.NewAMQPObserver(acquisition.ObserverConfig{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.NotifyExchange,
			Queue:    cfg.RabbitMQ.NotifyQueue,
		}, logger)))
	}
	source := acquisition.New(acquisition.Config{
		BaseURL: cfg.Acquisition.BaseURL,
		Timeout: cfg.Acquisition.Timeout,
		Retry:   retryPolicy(cfg.Acquisition.Retry),
	}, logger, sourceOpts...)

	var background service.BackgroundScheduler
	if daemon {
		if err := a.startDaemonComponents(ctx); err != nil {
			return nil, err
		}
		background = a.background
	}

	a.orchestrator = service.NewOrchestrator(
		l.samples,
		l.history,
		l.watermarks,
		l.tx,
		source,
		a.delivery,
		retryqueue.New(),
		background,
		a.settings,
		logger,
		cfg.Sync,
		service.WithMetrics(metrics),
		service.WithProcessLock(cfg.Sync.LockFile),
	)
	wired = true
	return a, nil
}

func (a *app) startDaemonComponents(ctx context.Context) error {
	var bgOpts []scheduler.BackgroundOption

	gw, err := a.settings.Gateway(ctx)
	if err != nil {
		return err
	}
	if gw != nil {
		if err := a.delivery.Configure(*gw); err != nil {
			return fmt.Errorf("configure gateway: %w", err)
		}
		a.monitor = network.NewMonitor(a.delivery, a.cfg.Network.Interval, a.cfg.Network.Timeout, a.logger)
		bgOpts = append(bgOpts, scheduler.WithNetwork(a.monitor, a.cfg.Network.Interval))
	}

	a.background = scheduler.NewBackground(a.cfg.Sync.BackgroundWindow, a.logger, bgOpts...)
	a.closers = append(a.closers, func() error {
		a.background.Close()
		return nil
	})

	if a.cfg.RabbitMQ.URL != "" {
		pub, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        a.cfg.RabbitMQ.URL,
			Exchange:   a.cfg.RabbitMQ.Exchange,
			RoutingKey: a.cfg.RabbitMQ.RoutingKey,
			QueueName:  a.cfg.RabbitMQ.QueueName,
		}, publisher.Source{
			DeviceID: a.cfg.Sync.DeviceID,
			UserID:   a.cfg.Sync.UserID,
		}, a.logger)
		if err != nil {
			return err
		}
		a.publisher = pub
		a.closers = append(a.closers, pub.Close)
	}
	return nil
}

// Close releases components in reverse order of creation.
func (a *app) Close() {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("shutdown incomplete", "error", err)
	}
}
