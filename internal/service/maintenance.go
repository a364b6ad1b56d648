package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthsync/internal/domain"
)

// History returns the newest records first. A non-positive limit uses the
// configured default.
func (o *Orchestrator) History(ctx context.Context, limit int) ([]domain.SyncRecord, error) {
	if limit <= 0 {
		limit = o.config.HistoryLimit
	}
	records, err := o.history.ListHistory(ctx, limit)
	if err != nil {
		return nil, &domain.LedgerError{Op: domain.LedgerFetchFailed, Err: err}
	}
	return records, nil
}

// LastSuccessfulSync recovers the time of the last completed pass from
// history. ok is false when no pass has completed yet.
func (o *Orchestrator) LastSuccessfulSync(ctx context.Context) (at time.Time, ok bool, err error) {
	rec, err := o.history.LastSuccess(ctx)
	if err != nil {
		return time.Time{}, false, &domain.LedgerError{Op: domain.LedgerFetchFailed, Err: err}
	}
	if rec == nil {
		return time.Time{}, false, nil
	}
	return rec.Timestamp, true, nil
}

// Cleanup deletes synced samples older than the retention period.
func (o *Orchestrator) Cleanup(ctx context.Context) (int64, error) {
	cutoff := domain.RetentionCutoff(o.now(), o.config.RetentionDays)

	deleted, err := o.samples.DeleteSyncedOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete synced samples: %w", err)
	}
	if deleted > 0 {
		o.logger.Info("retention cleanup", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

// QueuedSamples reports how many samples wait in the retry queue.
func (o *Orchestrator) QueuedSamples() int {
	return o.queue.Samples()
}

// NetworkRestored drains the retry queue through the delivery client and
// marks accepted samples synced. A batch that fails again is not requeued:
// its samples are still unsynced in the ledger and the next pass picks
// them up.
func (o *Orchestrator) NetworkRestored(ctx context.Context) (int, error) {
	queued := o.queue.Samples()
	batches := o.queue.RemoveAll()
	if len(batches) == 0 {
		return 0, nil
	}

	gw, err := o.settings.Gateway(ctx)
	if err == nil && gw != nil {
		err = o.delivery.Configure(*gw)
	}
	if err != nil || gw == nil {
		for _, b := range batches {
			o.queue.Add(b)
		}
		if err != nil {
			return 0, err
		}
		return 0, nil
	}

	o.logger.Info("network restored, draining retry queue", "batches", len(batches), "samples", queued)

	var (
		synced int
		errs   []error
	)
	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			for _, b := range batches[i:] {
				o.queue.Add(b)
			}
			errs = append(errs, err)
			break
		}

		result, err := o.delivery.SendHealthData(ctx, batch)
		if err != nil {
			o.logger.Warn("retry queue batch failed again", "samples", len(batch), "error", err)
			errs = append(errs, err)
			continue
		}

		n := min(max(result.SyncedCount, 0), len(batch))
		if n == 0 {
			continue
		}
		if err := o.samples.MarkSynced(ctx, domain.SampleIDs(batch[:n])); err != nil {
			errs = append(errs, &domain.LedgerError{Op: domain.LedgerSaveFailed, Err: err})
			continue
		}
		synced += n
	}

	o.metrics.RecordDrained(ctx, synced)
	o.logger.Info("retry queue drained", "synced", synced, "failed_batches", len(errs))
	return synced, errors.Join(errs...)
}
