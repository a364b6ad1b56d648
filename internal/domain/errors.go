package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyncInProgress is returned when a pass is requested while another is active.
var ErrSyncInProgress = errors.New("a sync operation is already in progress")

// ErrObservationUnsupported is returned by acquisition sources without a push channel.
var ErrObservationUnsupported = errors.New("data observation is not supported by this source")

type AcquisitionErrorKind string

const (
	AcquisitionUnavailable AcquisitionErrorKind = "unavailable"
	AcquisitionQueryFailed AcquisitionErrorKind = "query_failed"
)

// AcquisitionError reports a failure of the sensor-data source.
type AcquisitionError struct {
	Kind     AcquisitionErrorKind
	DataType DataType
	Err      error
}

func (e *AcquisitionError) Error() string {
	switch e.Kind {
	case AcquisitionUnavailable:
		if e.Err != nil {
			return fmt.Sprintf("sensor data source is not available: %v", e.Err)
		}
		return "sensor data source is not available"
	default:
		return fmt.Sprintf("failed to query %s data: %v", e.DataType, e.Err)
	}
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// AccessDeniedError lists the data types the source refused to share.
type AccessDeniedError struct {
	Types []DataType
}

func (e *AccessDeniedError) Error() string {
	names := make([]string, len(e.Types))
	for i, t := range e.Types {
		names[i] = string(t)
	}
	return "access denied for " + strings.Join(names, ", ")
}

type DeliveryErrorKind string

const (
	DeliveryInvalidConfig       DeliveryErrorKind = "invalid_config"
	DeliveryInsecureConnection  DeliveryErrorKind = "insecure_connection"
	DeliveryAuthFailed          DeliveryErrorKind = "auth_failed"
	DeliveryServerError         DeliveryErrorKind = "server_error"
	DeliveryTimeout             DeliveryErrorKind = "timeout"
	DeliveryTLSValidationFailed DeliveryErrorKind = "tls_validation_failed"
	DeliveryNetwork             DeliveryErrorKind = "network"
)

// DeliveryError reports a failure talking to the remote gateway.
type DeliveryError struct {
	Kind       DeliveryErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *DeliveryError) Error() string {
	switch e.Kind {
	case DeliveryInvalidConfig:
		if e.Message != "" {
			return "gateway configuration is invalid: " + e.Message
		}
		return "gateway configuration is invalid"
	case DeliveryInsecureConnection:
		return "only HTTPS connections are allowed"
	case DeliveryAuthFailed:
		return "authentication failed"
	case DeliveryServerError:
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	case DeliveryTimeout:
		return "request timed out"
	case DeliveryTLSValidationFailed:
		return fmt.Sprintf("TLS certificate validation failed: %v", e.Err)
	default:
		return fmt.Sprintf("network error: %v", e.Err)
	}
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Permanent reports whether retrying cannot help.
func (e *DeliveryError) Permanent() bool {
	switch e.Kind {
	case DeliveryAuthFailed, DeliveryInvalidConfig, DeliveryInsecureConnection:
		return true
	}
	return false
}

type LedgerOp string

const (
	LedgerSaveFailed  LedgerOp = "save"
	LedgerFetchFailed LedgerOp = "fetch"
)

// LedgerError reports a failure of the durable sample store.
type LedgerError struct {
	Op  LedgerOp
	Err error
}

func (e *LedgerError) Error() string {
	if e.Op == LedgerSaveFailed {
		return fmt.Sprintf("failed to save data: %v", e.Err)
	}
	return fmt.Sprintf("failed to fetch data: %v", e.Err)
}

func (e *LedgerError) Unwrap() error { return e.Err }

// IsPermanent reports whether err carries a delivery failure that must not be retried.
func IsPermanent(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de) && de.Permanent()
}

// IsRetryable reports whether err is a transient network failure.
func IsRetryable(err error) bool {
	var de *DeliveryError
	if !errors.As(err, &de) {
		return false
	}
	switch de.Kind {
	case DeliveryNetwork, DeliveryTimeout:
		return true
	case DeliveryServerError:
		return de.StatusCode >= 500
	}
	return false
}

// NeedsSettings reports whether the user must change configuration to recover.
func NeedsSettings(err error) bool {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Permanent()
	}
	var ae *AcquisitionError
	return errors.As(err, &ae) && ae.Kind == AcquisitionUnavailable
}

func unwrapAll(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
