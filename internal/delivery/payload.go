package delivery

import (
	"strings"
	"time"

	"healthsync/internal/domain"
)

// Payload is the request body of POST {endpoint}/health/data.
type Payload struct {
	DeviceID   string       `json:"deviceId"`
	UserID     string       `json:"userId"`
	Samples    []WireSample `json:"samples"`
	Timestamp  time.Time    `json:"timestamp"`
	AppVersion string       `json:"appVersion"`
}

type WireSample struct {
	ID           string            `json:"id"`
	Type         string            `json:"type"`
	Value        float64           `json:"value"`
	Unit         string            `json:"unit"`
	StartDate    time.Time         `json:"startDate"`
	EndDate      time.Time         `json:"endDate"`
	SourceBundle *string           `json:"sourceBundle,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	IsSynced     bool              `json:"isSynced"`
	CreatedAt    time.Time         `json:"createdAt"`
	TimeZone     string            `json:"timeZone,omitempty"`
}

// Response is the gateway's answer to a data upload.
type Response struct {
	Status          string  `json:"status"`
	RequestID       *string `json:"requestId,omitempty"`
	Timestamp       string  `json:"timestamp"`
	SamplesReceived int     `json:"samplesReceived"`
}

// Success reports a case-insensitive "success" status.
func (r Response) Success() bool {
	return strings.EqualFold(r.Status, "success")
}

func newPayload(id Identity, samples []domain.Sample, now time.Time) Payload {
	wire := make([]WireSample, len(samples))
	for i, s := range samples {
		wire[i] = WireSample{
			ID:           s.ID.String(),
			Type:         string(s.Type),
			Value:        s.Value,
			Unit:         s.Unit,
			StartDate:    s.StartDate,
			EndDate:      s.EndDate,
			SourceBundle: s.Source,
			Metadata:     s.Metadata,
			IsSynced:     s.IsSynced,
			CreatedAt:    s.CreatedAt,
			TimeZone:     s.TimeZone,
		}
	}

	return Payload{
		DeviceID:   id.DeviceID,
		UserID:     id.UserID,
		Samples:    wire,
		Timestamp:  now,
		AppVersion: id.AppVersion,
	}
}
