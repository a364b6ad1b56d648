// Package telemetry provides OpenTelemetry metrics for sync passes.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetricsMeterName is the name used for the sync metrics meter
const SyncMetricsMeterName = "healthsync/sync"

// SyncMetrics holds the instruments recorded by the orchestrator. A nil
// *SyncMetrics is valid and records nothing.
type SyncMetrics struct {
	passDuration  metric.Float64Histogram
	samplesSynced metric.Int64Counter
	batchesParked metric.Int64Counter
	queueDrained  metric.Int64Counter
}

// NewSyncMetrics returns nil metrics when provider is nil.
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	passDuration, err := meter.Float64Histogram(
		"healthsync_pass_duration_seconds",
		metric.WithDescription("Duration of sync passes in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	samplesSynced, err := meter.Int64Counter(
		"healthsync_samples_synced_total",
		metric.WithDescription("Samples acknowledged by the gateway"),
		metric.WithUnit("{sample}"),
	)
	if err != nil {
		return nil, err
	}

	batchesParked, err := meter.Int64Counter(
		"healthsync_batches_parked_total",
		metric.WithDescription("Pages moved to the retry queue after exhausting retries"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, err
	}

	queueDrained, err := meter.Int64Counter(
		"healthsync_retry_queue_drained_total",
		metric.WithDescription("Samples resent from the retry queue"),
		metric.WithUnit("{sample}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		passDuration:  passDuration,
		samplesSynced: samplesSynced,
		batchesParked: batchesParked,
		queueDrained:  queueDrained,
	}, nil
}

// RecordPass records the duration and outcome of one pass.
func (m *SyncMetrics) RecordPass(ctx context.Context, status string, duration time.Duration, synced int) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("status", status))
	m.passDuration.Record(ctx, duration.Seconds(), attrs)
	if synced > 0 {
		m.samplesSynced.Add(ctx, int64(synced), attrs)
	}
}

func (m *SyncMetrics) RecordParked(ctx context.Context, samples int) {
	if m == nil {
		return
	}
	m.batchesParked.Add(ctx, 1, metric.WithAttributes(attribute.Int("samples", samples)))
}

func (m *SyncMetrics) RecordDrained(ctx context.Context, synced int) {
	if m == nil || synced == 0 {
		return
	}
	m.queueDrained.Add(ctx, int64(synced))
}
