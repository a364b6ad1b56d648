package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthsync/internal/domain"
)

type trigger string

const (
	triggerStart    trigger = "start"
	triggerTimer    trigger = "timer"
	triggerObserver trigger = "observer"
)

// AutoSyncMode reports the automatic trigger mode in effect.
func (o *Orchestrator) AutoSyncMode() domain.AutoSyncMode {
	o.autoMu.Lock()
	defer o.autoMu.Unlock()
	return o.autoMode
}

// StartAutoSync enables the triggers of the configured frequency and runs
// one pass immediately. Calling it while automatic sync is running does
// nothing. The trigger loop stops with StopAutoSync or when ctx is done.
func (o *Orchestrator) StartAutoSync(ctx context.Context) error {
	o.autoMu.Lock()
	defer o.autoMu.Unlock()

	if o.autoMode.Kind != domain.AutoSyncStopped {
		return nil
	}

	freq := o.settings.Frequency()
	var mode domain.AutoSyncMode
	switch freq {
	case domain.FrequencyManual:
		o.logger.Info("manual sync frequency, nothing scheduled")
		return nil
	case domain.FrequencyRealtime:
		mode = domain.AutoSyncMode{Kind: domain.AutoSyncRealtime}
	default:
		mode = domain.AutoSyncMode{Kind: domain.AutoSyncPeriodic, Interval: freq.Interval()}
	}

	loopCtx, cancel := context.WithCancel(ctx)

	switch mode.Kind {
	case domain.AutoSyncRealtime:
		if err := o.source.StartObserving(loopCtx, o.settings.EnabledTypes()); err != nil {
			cancel()
			return fmt.Errorf("start observing: %w", err)
		}
	case domain.AutoSyncPeriodic:
		if o.background != nil {
			if err := o.background.Schedule(BackgroundTaskID, mode.Interval, true); err != nil {
				o.logger.Warn("failed to schedule background sync", "error", err)
			}
		}
	}

	done := make(chan struct{})
	o.autoMode = mode
	o.autoCancel = cancel
	o.autoDone = done

	go o.triggerLoop(loopCtx, mode, done)
	o.enqueue(triggerStart)

	o.logger.Info("auto sync started", "mode", mode.Kind, "interval", mode.Interval)
	return nil
}

// StopAutoSync stops the timer and observation, cancels the background
// invocation and waits for the trigger loop to exit.
func (o *Orchestrator) StopAutoSync() {
	o.autoMu.Lock()
	defer o.autoMu.Unlock()

	if o.autoMode.Kind == domain.AutoSyncStopped {
		return
	}

	mode := o.autoMode
	done := o.autoDone
	o.autoCancel()
	o.autoMode = domain.AutoSyncMode{Kind: domain.AutoSyncStopped}
	o.autoCancel = nil
	o.autoDone = nil

	if mode.Kind == domain.AutoSyncRealtime {
		if err := o.source.StopObserving(); err != nil {
			o.logger.Warn("failed to stop observing", "error", err)
		}
	}
	if o.background != nil {
		o.background.Cancel(BackgroundTaskID)
	}

	<-done
	o.logger.Info("auto sync stopped")
}

// SetFrequency stores a new sync frequency. Running automatic sync is
// restarted under the new mode; a stopped one stays stopped.
func (o *Orchestrator) SetFrequency(ctx context.Context, f domain.SyncFrequency) error {
	if err := o.settings.SetFrequency(f); err != nil {
		return err
	}

	if o.AutoSyncMode().Kind == domain.AutoSyncStopped {
		o.logger.Info("sync frequency changed", "frequency", f)
		return nil
	}

	o.StopAutoSync()
	if err := o.StartAutoSync(ctx); err != nil {
		return fmt.Errorf("restart auto sync: %w", err)
	}
	o.logger.Info("sync frequency changed, auto sync restarted", "frequency", f)
	return nil
}

// enqueue never blocks. A trigger arriving while one is pending is merged
// into it.
func (o *Orchestrator) enqueue(t trigger) {
	select {
	case o.triggers <- t:
	default:
		o.logger.Debug("trigger coalesced", "trigger", t)
	}
}

func (o *Orchestrator) onNewData(dataType domain.DataType) {
	o.logger.Debug("new data observed", "type", dataType)
	o.enqueue(triggerObserver)
}

func (o *Orchestrator) triggerLoop(ctx context.Context, mode domain.AutoSyncMode, done chan<- struct{}) {
	defer close(done)

	var tick <-chan time.Time
	if mode.Kind == domain.AutoSyncPeriodic && mode.Interval > 0 {
		ticker := time.NewTicker(mode.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			o.runTriggered(ctx, triggerTimer)
		case t := <-o.triggers:
			o.runTriggered(ctx, t)
		}
	}
}

func (o *Orchestrator) runTriggered(ctx context.Context, t trigger) {
	o.logger.Debug("sync triggered", "trigger", t)

	if _, err := o.PerformManualSync(ctx); errors.Is(err, domain.ErrSyncInProgress) {
		o.logger.Debug("sync already in progress, trigger dropped", "trigger", t)
	}
}

// handleBackgroundTask is the BackgroundScheduler entry point. ctx is
// cancelled when the execution window expires.
func (o *Orchestrator) handleBackgroundTask(ctx context.Context) {
	mode := o.AutoSyncMode()
	if mode.Kind == domain.AutoSyncPeriodic {
		if err := o.background.Schedule(BackgroundTaskID, mode.Interval, true); err != nil {
			o.logger.Warn("failed to reschedule background sync", "error", err)
		}
	}

	if _, err := o.PerformManualSync(ctx); errors.Is(err, domain.ErrSyncInProgress) {
		o.logger.Debug("background sync skipped, pass in progress")
	}
}
