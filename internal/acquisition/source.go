// Package acquisition pulls samples from the on-device sensor bridge and
// listens for its new-data notifications.
package acquisition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"healthsync/internal/backoff"
	"healthsync/internal/domain"
)

const (
	SamplesPath       = "/v1/samples"
	AuthorizationPath = "/v1/authorization"

	userAgent = "HealthSync/1.0"
)

// Config holds the bridge endpoint and request policy.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   backoff.Policy
}

// Observer delivers new-data notifications for the given types until Stop.
type Observer interface {
	Observe(ctx context.Context, types []domain.DataType, handler func(domain.DataType)) error
	Stop() error
}

// Source implements the orchestrator's Acquisition contract over HTTP. Push
// observation is delegated to an optional Observer.
type Source struct {
	httpClient *http.Client
	baseURL    string
	retry      backoff.Policy
	sleep      backoff.Sleeper
	observer   Observer
	now        func() time.Time
	logger     *slog.Logger

	mu         sync.Mutex
	authorized map[domain.DataType]bool
	handler    func(domain.DataType)
}

type Option func(*Source)

func WithObserver(o Observer) Option {
	return func(s *Source) {
		s.observer = o
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) {
		s.httpClient = c
	}
}

func WithSleeper(sleep backoff.Sleeper) Option {
	return func(s *Source) {
		s.sleep = sleep
	}
}

// New creates a bridge source.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Source {
	s := &Source{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		retry:      cfg.Retry,
		sleep:      backoff.Sleep,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger.With("component", "acquisition"),
		authorized: make(map[domain.DataType]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestAuthorization asks the bridge for read access to the types not
// already granted. Grants are cached until ClearAuthorizationCache.
func (s *Source) RequestAuthorization(ctx context.Context, types []domain.DataType) error {
	s.mu.Lock()
	var pending []domain.DataType
	for _, t := range types {
		if !s.authorized[t] {
			pending = append(pending, t)
		}
	}
	s.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	var resp authorizationResponse
	err := s.do(ctx, http.MethodPost, s.baseURL+AuthorizationPath, authorizationRequest{Types: pending}, &resp)
	if err != nil {
		return &domain.AcquisitionError{Kind: domain.AcquisitionUnavailable, Err: err}
	}

	s.mu.Lock()
	for _, t := range resp.Granted {
		s.authorized[t] = true
	}
	var denied []domain.DataType
	for _, t := range pending {
		if !s.authorized[t] {
			denied = append(denied, t)
		}
	}
	s.mu.Unlock()

	if len(denied) > 0 {
		return &domain.AcquisitionError{
			Kind: domain.AcquisitionUnavailable,
			Err:  &domain.AccessDeniedError{Types: denied},
		}
	}

	s.logger.Debug("authorization granted", "types", len(pending))
	return nil
}

// ClearAuthorizationCache forgets every grant so the next pass asks again.
func (s *Source) ClearAuthorizationCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.authorized)
}

// Fetch returns at most limit samples of dataType whose start date lies in
// [from, to), oldest first.
func (s *Source) Fetch(ctx context.Context, dataType domain.DataType, from, to time.Time, limit int) ([]domain.Sample, error) {
	q := url.Values{}
	q.Set("type", string(dataType))
	q.Set("from", from.UTC().Format(time.RFC3339Nano))
	q.Set("to", to.UTC().Format(time.RFC3339Nano))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp samplesResponse
	if err := s.do(ctx, http.MethodGet, s.baseURL+SamplesPath+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, &domain.AcquisitionError{Kind: domain.AcquisitionQueryFailed, DataType: dataType, Err: err}
	}

	samples := s.transform(dataType, resp.Samples)
	if limit > 0 && len(samples) > limit {
		samples = samples[:limit]
	}

	s.logger.Debug("fetched samples",
		"type", dataType,
		"from", from,
		"to", to,
		"count", len(samples),
	)
	return samples, nil
}

// StartObserving fails with domain.ErrObservationUnsupported when no
// Observer is configured.
func (s *Source) StartObserving(ctx context.Context, types []domain.DataType) error {
	if s.observer == nil {
		return domain.ErrObservationUnsupported
	}
	return s.observer.Observe(ctx, types, s.notify)
}

func (s *Source) StopObserving() error {
	if s.observer == nil {
		return nil
	}
	return s.observer.Stop()
}

func (s *Source) SetObservationHandler(fn func(dataType domain.DataType)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = fn
}

func (s *Source) notify(dataType domain.DataType) {
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()

	if handler != nil {
		handler(dataType)
	}
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("unexpected status: %d", e.code)
	}
	return fmt.Sprintf("unexpected status: %d: %s", e.code, e.body)
}

// clientError marks 4xx answers other than 408 and 429; repeating the
// request cannot change them.
func clientError(err error) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return false
	}
	return se.code >= 400 && se.code < 500 &&
		se.code != http.StatusRequestTimeout && se.code != http.StatusTooManyRequests
}

func (s *Source) do(ctx context.Context, method, target string, body, out any) error {
	r := backoff.Retrier{
		Policy: s.retry,
		Sleep:  s.sleep,
		Stop:   clientError,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			s.logger.Warn("request failed, retrying",
				"attempt", attempt,
				"backoff", delay,
				"error", err,
			)
		},
	}
	return r.Do(ctx, func(ctx context.Context, _ int) error {
		return s.doRequest(ctx, method, target, body, out)
	})
}

func (s *Source) doRequest(ctx context.Context, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// transform converts bridge samples. A sample without an id gets one derived
// from its content so that refetching it upserts the same ledger row.
func (s *Source) transform(dataType domain.DataType, in []apiSample) []domain.Sample {
	now := s.now()
	out := make([]domain.Sample, 0, len(in))

	for _, a := range in {
		id, err := sampleID(dataType, a)
		if err != nil {
			s.logger.Warn("skipping sample with invalid id", "type", dataType, "id", a.ID)
			continue
		}
		if a.EndDate.Before(a.StartDate) {
			s.logger.Warn("skipping sample ending before it starts", "type", dataType, "id", id)
			continue
		}

		tz := a.TimeZone
		if tz == "" {
			tz = a.StartDate.Location().String()
		}

		out = append(out, domain.Sample{
			ID:        id,
			Type:      dataType,
			Value:     a.Value,
			Unit:      a.Unit,
			StartDate: a.StartDate,
			EndDate:   a.EndDate,
			Source:    a.Source,
			Metadata:  a.Metadata,
			CreatedAt: now,
			TimeZone:  tz,
		})
	}

	slices.SortStableFunc(out, func(a, b domain.Sample) int {
		return a.StartDate.Compare(b.StartDate)
	})
	return out
}

func sampleID(dataType domain.DataType, a apiSample) (uuid.UUID, error) {
	if a.ID != "" {
		return uuid.Parse(a.ID)
	}
	key := fmt.Sprintf("%s|%d|%d|%g|%s",
		dataType,
		a.StartDate.UnixNano(),
		a.EndDate.UnixNano(),
		a.Value,
		a.Unit,
	)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)), nil
}
