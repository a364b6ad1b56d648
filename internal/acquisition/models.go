package acquisition

import (
	"time"

	"healthsync/internal/domain"
)

// samplesResponse is the bridge's answer to a sample query.
type samplesResponse struct {
	Samples []apiSample `json:"samples"`
}

type apiSample struct {
	ID        string            `json:"id"`
	Value     float64           `json:"value"`
	Unit      string            `json:"unit"`
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
	Source    *string           `json:"source,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	TimeZone  string            `json:"time_zone,omitempty"`
}

type authorizationRequest struct {
	Types []domain.DataType `json:"types"`
}

type authorizationResponse struct {
	Granted []domain.DataType `json:"granted"`
}

// Notification is the new-data message consumed by AMQPObserver.
type Notification struct {
	DataType domain.DataType `json:"data_type"`
	Count    int             `json:"count,omitempty"`
}
