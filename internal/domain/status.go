package domain

import "time"

// SyncState names the phase of a published SyncStatus.
type SyncState string

const (
	SyncStateIdle    SyncState = "idle"
	SyncStateSyncing SyncState = "syncing"
	SyncStateSuccess SyncState = "success"
	SyncStateError   SyncState = "error"
)

// SyncStatus is the transient state published to observers. It is never
// persisted; after a restart it starts over as idle.
type SyncStatus struct {
	State       SyncState  `json:"state"`
	Progress    float64    `json:"progress,omitempty"`
	SyncedCount int        `json:"synced_count,omitempty"`
	Timestamp   time.Time  `json:"timestamp,omitzero"`
	Error       *ErrorInfo `json:"error,omitempty"`
}

func IdleStatus() SyncStatus {
	return SyncStatus{State: SyncStateIdle}
}

func SyncingStatus(progress float64) SyncStatus {
	return SyncStatus{State: SyncStateSyncing, Progress: progress}
}

func SuccessStatus(synced int, at time.Time) SyncStatus {
	return SyncStatus{State: SyncStateSuccess, SyncedCount: synced, Timestamp: at}
}

func ErrorStatus(info ErrorInfo, at time.Time) SyncStatus {
	return SyncStatus{State: SyncStateError, Timestamp: at, Error: &info}
}

// ErrorInfo is the user-facing view of a failure.
type ErrorInfo struct {
	Message       string `json:"message"`
	Underlying    string `json:"underlying,omitempty"`
	Retryable     bool   `json:"retryable"`
	NeedsSettings bool   `json:"needs_settings"`
}

// NewErrorInfo classifies err so a presentation layer can offer the right
// remediation without inspecting error internals.
func NewErrorInfo(err error) ErrorInfo {
	info := ErrorInfo{
		Message:       err.Error(),
		Retryable:     IsRetryable(err),
		NeedsSettings: NeedsSettings(err),
	}
	if cause := unwrapAll(err); cause != err {
		info.Underlying = cause.Error()
	}
	return info
}
