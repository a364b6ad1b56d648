package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecordStatus is the outcome stored in a history record.
type RecordStatus string

const (
	RecordStatusSuccess        RecordStatus = "success"
	RecordStatusPartialSuccess RecordStatus = "partialSuccess"
	RecordStatusFailed         RecordStatus = "failed"
)

// SyncRecord is an immutable entry of the sync history log.
type SyncRecord struct {
	ID           uuid.UUID
	Timestamp    time.Time
	Status       RecordStatus
	SyncedCount  int
	ErrorMessage *string
	Duration     time.Duration
}

// NewSyncRecord stamps a record with a fresh ID and the current time.
func NewSyncRecord(status RecordStatus, synced int, duration time.Duration) *SyncRecord {
	return &SyncRecord{
		ID:          uuid.New(),
		Timestamp:   time.Now().UTC(),
		Status:      status,
		SyncedCount: synced,
		Duration:    duration,
	}
}

// SyncResult aggregates a delivery of one or more sub-batches.
type SyncResult struct {
	SyncedCount int
	FailedCount int
}

// Success reports whether every sample was accepted.
func (r SyncResult) Success() bool {
	return r.FailedCount == 0
}

// SyncFrequency selects how automatic syncs are triggered.
type SyncFrequency string

const (
	FrequencyRealtime SyncFrequency = "realtime"
	FrequencyHourly   SyncFrequency = "hourly"
	FrequencyDaily    SyncFrequency = "daily"
	FrequencyManual   SyncFrequency = "manual"
)

// Interval returns the timer period of a periodic frequency, or zero.
func (f SyncFrequency) Interval() time.Duration {
	switch f {
	case FrequencyHourly:
		return time.Hour
	case FrequencyDaily:
		return 24 * time.Hour
	default:
		return 0
	}
}

// Valid reports whether f is a known frequency.
func (f SyncFrequency) Valid() bool {
	switch f {
	case FrequencyRealtime, FrequencyHourly, FrequencyDaily, FrequencyManual:
		return true
	}
	return false
}

// AutoSyncMode is the trigger scheduling currently in effect.
type AutoSyncMode struct {
	Kind     AutoSyncKind
	Interval time.Duration
}

type AutoSyncKind string

const (
	AutoSyncStopped  AutoSyncKind = "stopped"
	AutoSyncRealtime AutoSyncKind = "realtime"
	AutoSyncPeriodic AutoSyncKind = "periodic"
)

// GatewayConfig holds the remote endpoint and its optional credentials.
type GatewayConfig struct {
	BaseURL  string
	Port     int
	APIKey   string
	Username string
	Password string
}

// RetentionCutoff returns the creation time before which synced rows may be dropped.
func RetentionCutoff(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}
