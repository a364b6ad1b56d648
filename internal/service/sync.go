package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"healthsync/internal/backoff"
	"healthsync/internal/domain"
)

// Progress checkpoints of a pass.
const (
	progressStarted  = 0.05
	progressFetched  = 0.2
	progressSaved    = 0.3
	progressDelivery = 0.6
	progressRecorded = 0.95

	maxParallelFetches = 4
)

type passResult struct {
	unsynced int
	synced   int
	parked   int
}

// PerformManualSync runs one pass. It fails with domain.ErrSyncInProgress
// while another pass is active. On failure a failed record is still written
// and returned together with the error.
func (o *Orchestrator) PerformManualSync(ctx context.Context) (*domain.SyncRecord, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}

	start := o.now()
	o.logger.Info("starting sync")

	res, err := o.runPass(ctx)
	duration := o.now().Sub(start)

	// history and the terminal status are written even after cancellation
	detached := context.WithoutCancel(ctx)

	if err != nil {
		return o.fail(detached, err, duration)
	}

	status := domain.RecordStatusSuccess
	if res.synced < res.unsynced {
		status = domain.RecordStatusPartialSuccess
	}
	record := domain.NewSyncRecord(status, res.synced, duration)
	record.Timestamp = o.now()

	if herr := o.history.AppendHistory(detached, record); herr != nil {
		return o.fail(detached, &domain.LedgerError{
			Op:  domain.LedgerSaveFailed,
			Err: fmt.Errorf("record %s pass of %d samples: %w", status, res.synced, herr),
		}, duration)
	}
	o.progress(ctx, progressRecorded)

	if _, cerr := o.Cleanup(detached); cerr != nil {
		o.logger.Warn("retention cleanup failed", "error", cerr)
	}

	o.metrics.RecordPass(detached, string(status), duration, res.synced)
	o.progress(ctx, 1)
	o.finish(domain.SuccessStatus(res.synced, record.Timestamp))

	o.logger.Info("sync completed",
		"status", status,
		"unsynced", res.unsynced,
		"synced", res.synced,
		"parked", res.parked,
		"duration", duration,
	)
	return record, nil
}

// fail records a failed pass, publishes the error status and returns the
// failed record with err.
func (o *Orchestrator) fail(ctx context.Context, err error, duration time.Duration) (*domain.SyncRecord, error) {
	record := domain.NewSyncRecord(domain.RecordStatusFailed, 0, duration)
	record.Timestamp = o.now()
	msg := err.Error()
	record.ErrorMessage = &msg

	if herr := o.history.AppendHistory(ctx, record); herr != nil {
		o.logger.Error("failed to write sync history", "error", herr)
	}
	o.metrics.RecordPass(ctx, string(record.Status), duration, 0)
	o.finish(domain.ErrorStatus(domain.NewErrorInfo(err), o.now()))

	o.logger.Error("sync failed", "error", err, "duration", duration)
	return record, err
}

func (o *Orchestrator) runPass(ctx context.Context) (passResult, error) {
	o.progress(ctx, progressStarted)

	fetched, err := o.acquire(ctx)
	if err != nil {
		return passResult{}, err
	}
	o.progress(ctx, progressFetched)

	if err := o.persist(ctx, fetched); err != nil {
		return passResult{}, err
	}

	if o.config.SettleDelay > 0 {
		if err := o.sleep(ctx, o.config.SettleDelay); err != nil {
			return passResult{}, err
		}
	}
	o.progress(ctx, progressSaved)

	total, err := o.samples.CountUnsynced(ctx)
	if err != nil {
		return passResult{}, &domain.LedgerError{Op: domain.LedgerFetchFailed, Err: err}
	}
	if total == 0 {
		o.logger.Info("no unsynced samples")
		return passResult{}, nil
	}

	send, err := o.sender(ctx)
	if err != nil {
		return passResult{}, err
	}

	res, err := o.drain(ctx, total, send)
	res.unsynced = total
	return res, err
}

type fetchResult struct {
	dataType domain.DataType
	samples  []domain.Sample
	upper    time.Time
}

// acquire pulls new samples for every enabled type concurrently. A failing
// type is logged and skipped. Denied types are left out, and an unreachable
// source skips acquisition so the ledger still drains.
func (o *Orchestrator) acquire(ctx context.Context) ([]fetchResult, error) {
	o.source.ClearAuthorizationCache()
	types, err := o.authorize(ctx, o.settings.EnabledTypes())
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, nil
	}

	now := o.now()
	var (
		mu      sync.Mutex
		results []fetchResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for _, dataType := range types {
		g.Go(func() error {
			from, err := o.watermarks.GetWatermark(gctx, dataType)
			if err != nil {
				o.logger.Warn("failed to read watermark, using default lookback", "type", dataType, "error", err)
			}
			if from.IsZero() {
				from = now.Add(-o.config.DefaultLookback)
			}

			samples, err := o.source.Fetch(gctx, dataType, from, now, o.config.QueryLimit)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				o.logger.Warn("failed to fetch samples, skipping type", "type", dataType, "error", err)
				return nil
			}

			upper := now
			if len(samples) >= o.config.QueryLimit {
				upper = newestStart(samples)
			}

			mu.Lock()
			results = append(results, fetchResult{dataType: dataType, samples: samples, upper: upper})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.logger.Debug("acquisition finished", "types", len(types), "fetched_types", len(results))
	return results, nil
}

// authorize returns the enabled types the source granted. Only cancellation
// is reported as an error.
func (o *Orchestrator) authorize(ctx context.Context, types []domain.DataType) ([]domain.DataType, error) {
	err := o.source.RequestAuthorization(ctx, types)
	if err == nil {
		return types, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var denied *domain.AccessDeniedError
	if !errors.As(err, &denied) {
		o.logger.Warn("sensor data source unavailable, skipping acquisition", "error", err)
		return nil, nil
	}

	granted := make([]domain.DataType, 0, len(types))
	for _, t := range types {
		if !slices.Contains(denied.Types, t) {
			granted = append(granted, t)
		}
	}
	o.logger.Warn("access denied, skipping data types", "types", denied.Types, "granted", len(granted))
	return granted, nil
}

// newestStart returns the latest start date in samples. The next fetch for a
// capped result resumes there; the ledger upsert absorbs the overlap.
func newestStart(samples []domain.Sample) time.Time {
	var latest time.Time
	for _, s := range samples {
		if s.StartDate.After(latest) {
			latest = s.StartDate
		}
	}
	return latest
}

// persist saves fetched samples in batches and then advances the watermarks
// of the types that were fetched.
func (o *Orchestrator) persist(ctx context.Context, fetched []fetchResult) error {
	var all []domain.Sample
	for _, f := range fetched {
		all = append(all, f.samples...)
	}

	batches := domain.Chunk(all, o.config.BatchSize)
	for i, batch := range batches {
		err := o.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			return o.samples.SaveSamples(txCtx, batch, o.config.UserID)
		})
		if err != nil {
			return &domain.LedgerError{Op: domain.LedgerSaveFailed, Err: err}
		}
		o.progress(ctx, progressFetched+(progressSaved-progressFetched)*float64(i+1)/float64(len(batches)))
	}

	if len(fetched) == 0 {
		return nil
	}
	err := o.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, f := range fetched {
			if err := o.watermarks.SetWatermark(txCtx, f.dataType, f.upper); err != nil {
				return fmt.Errorf("set watermark for %s: %w", f.dataType, err)
			}
		}
		return nil
	})
	if err != nil {
		return &domain.LedgerError{Op: domain.LedgerSaveFailed, Err: err}
	}

	o.logger.Debug("samples persisted", "count", len(all), "batches", len(batches))
	return nil
}

// pageSender delivers one page and returns how many leading samples were
// accepted.
type pageSender func(ctx context.Context, page []domain.Sample) (int, error)

// sender picks the delivery path for this pass. Without a configured gateway
// samples are kept locally and counted as synced.
func (o *Orchestrator) sender(ctx context.Context) (pageSender, error) {
	gw, err := o.settings.Gateway(ctx)
	if err != nil {
		return nil, fmt.Errorf("load gateway settings: %w", err)
	}
	if gw == nil {
		o.logger.Info("no gateway configured, keeping samples locally")
		return func(_ context.Context, page []domain.Sample) (int, error) {
			return len(page), nil
		}, nil
	}

	if err := o.delivery.Configure(*gw); err != nil {
		return nil, err
	}
	return o.sendWithRetry, nil
}

// sendWithRetry is the page-level retry around the delivery client.
func (o *Orchestrator) sendWithRetry(ctx context.Context, page []domain.Sample) (int, error) {
	var result *domain.SyncResult
	r := backoff.Retrier{
		Policy: backoff.Policy{
			MaxAttempts: o.config.Retry.MaxAttempts,
			Initial:     o.config.Retry.InitialBackoff,
			Max:         o.config.Retry.MaxBackoff,
		},
		Sleep: o.sleep,
		Stop:  domain.IsPermanent,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			o.logger.Warn("page delivery failed, retrying",
				"attempt", attempt,
				"backoff", delay,
				"samples", len(page),
				"error", err,
			)
		},
	}

	err := r.Do(ctx, func(ctx context.Context, _ int) error {
		var err error
		result, err = o.delivery.SendHealthData(ctx, page)
		return err
	})
	if err != nil {
		return 0, err
	}
	return min(max(result.SyncedCount, 0), len(page)), nil
}

// drain pages through the unsynced rows oldest first. The cursor counts rows
// visited; rows marked synced leave the unsynced set, so the query offset is
// the cursor minus what has been synced so far.
func (o *Orchestrator) drain(ctx context.Context, total int, send pageSender) (passResult, error) {
	var res passResult
	pages := (total + o.config.BatchSize - 1) / o.config.BatchSize
	ceiling := pages + 10
	cursor := 0

	for iter := 0; iter < ceiling && cursor < total; iter++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		page, err := o.samples.FetchUnsyncedPage(ctx, o.config.BatchSize, cursor-res.synced)
		if err != nil {
			return res, &domain.LedgerError{Op: domain.LedgerFetchFailed, Err: err}
		}
		if len(page) == 0 {
			break
		}
		if over := cursor + len(page) - total; over > 0 {
			page = page[:len(page)-over]
		}

		synced, err := send(ctx, page)
		switch {
		case err == nil:
		case domain.IsPermanent(err), ctx.Err() != nil:
			return res, err
		default:
			o.logger.Warn("page delivery exhausted retries, parking batch",
				"samples", len(page),
				"error", err,
			)
			o.queue.Add(page)
			o.metrics.RecordParked(ctx, len(page))
			res.parked++
			synced = 0
		}

		// accepted samples are acknowledged even if the pass was cancelled
		// while the request was in flight
		if synced > 0 {
			if err := o.samples.MarkSynced(context.WithoutCancel(ctx), domain.SampleIDs(page[:synced])); err != nil {
				return res, &domain.LedgerError{Op: domain.LedgerSaveFailed, Err: err}
			}
		}

		res.synced += synced
		cursor += len(page)
		o.progress(ctx, progressSaved+progressDelivery*float64(cursor)/float64(total))

		o.logger.Debug("page processed",
			"page_size", len(page),
			"synced", synced,
			"cursor", cursor,
			"total", total,
		)
	}

	return res, nil
}
