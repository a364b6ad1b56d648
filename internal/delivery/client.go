// Package delivery sends batches of samples to the remote gateway.
package delivery

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"healthsync/internal/backoff"
	"healthsync/internal/domain"
)

const (
	DataPath   = "/health/data"
	HealthPath = "/health"

	DefaultTimeout = 30 * time.Second
	MaxBatchSize   = 100

	UserAgent = "HealthSync/1.0"

	maxErrorBody = 4 * 1024
)

// Identity is stamped on every upload.
type Identity struct {
	DeviceID   string
	UserID     string
	AppVersion string
}

// Options configures a Client.
type Options struct {
	Identity  Identity
	Timeout   time.Duration
	BatchSize int
	Retry     backoff.Policy

	// HTTPClient overrides the transport; its Timeout is replaced by Timeout.
	HTTPClient *http.Client
	Sleep      backoff.Sleeper
}

// Client is the delivery engine: one authenticated request per sub-batch,
// each retried with a capped exponential backoff.
type Client struct {
	httpClient *http.Client
	identity   Identity
	batchSize  int
	retry      backoff.Policy
	sleep      backoff.Sleeper
	logger     *slog.Logger

	mu     sync.RWMutex
	config *domain.GatewayConfig
}

// New creates a delivery client. Configure must be called before sending.
func New(opts Options, logger *slog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := &http.Client{}
	if opts.HTTPClient != nil {
		c := *opts.HTTPClient
		httpClient = &c
	}
	httpClient.Timeout = timeout

	batchSize := opts.BatchSize
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}
	retry := opts.Retry
	if retry.MaxAttempts <= 0 {
		retry = backoff.Policy{MaxAttempts: 5, Initial: time.Second, Max: 16 * time.Second}
	}

	return &Client{
		httpClient: httpClient,
		identity:   opts.Identity,
		batchSize:  batchSize,
		retry:      retry,
		sleep:      opts.Sleep,
		logger:     logger.With("component", "delivery"),
	}
}

// Configure validates cfg and installs it. Any scheme other than https is
// rejected before a connection is attempted.
func (c *Client) Configure(cfg domain.GatewayConfig) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}

	c.mu.Lock()
	c.config = &cfg
	c.mu.Unlock()

	c.logger.Info("gateway configured", "base_url", cfg.BaseURL)
	return nil
}

// ValidateConfig checks the endpoint is a well-formed https URL.
func ValidateConfig(cfg domain.GatewayConfig) error {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return &domain.DeliveryError{Kind: domain.DeliveryInvalidConfig, Message: "base URL is empty"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &domain.DeliveryError{Kind: domain.DeliveryInvalidConfig, Message: "base URL is malformed", Err: err}
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return &domain.DeliveryError{Kind: domain.DeliveryInsecureConnection}
	}
	if u.Host == "" {
		return &domain.DeliveryError{Kind: domain.DeliveryInvalidConfig, Message: "base URL has no host"}
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return &domain.DeliveryError{Kind: domain.DeliveryInvalidConfig, Message: "port out of range"}
	}
	return nil
}

// SendHealthData re-chunks samples into sub-batches and sends each with
// retry. Permanent failures abort immediately. Cancellation stops before the
// next sub-batch; what was already accepted is still reported.
func (c *Client) SendHealthData(ctx context.Context, samples []domain.Sample) (*domain.SyncResult, error) {
	cfg, err := c.currentConfig()
	if err != nil {
		return nil, err
	}

	result := &domain.SyncResult{}
	for i, batch := range domain.Chunk(samples, c.batchSize) {
		if err := ctx.Err(); err != nil {
			if i == 0 {
				return nil, err
			}
			c.logger.Warn("send cancelled", "sent_batches", i, "synced", result.SyncedCount)
			break
		}

		resp, err := c.sendBatchWithRetry(ctx, cfg, batch)
		if err != nil {
			c.logger.Error("failed to send batch", "batch", i+1, "samples", len(batch), "error", err)
			return nil, err
		}

		if resp.Success() {
			result.SyncedCount += min(max(resp.SamplesReceived, 0), len(batch))
		}
	}
	result.FailedCount = len(samples) - result.SyncedCount

	return result, nil
}

// TestConnection probes GET {endpoint}/health and requires a 2xx answer.
func (c *Client) TestConnection(ctx context.Context) error {
	cfg, err := c.currentConfig()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, buildURL(cfg, HealthPath), nil)
	if err != nil {
		return &domain.DeliveryError{Kind: domain.DeliveryInvalidConfig, Err: err}
	}
	c.setHeaders(req, cfg)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.DeliveryError{
			Kind:       domain.DeliveryServerError,
			StatusCode: resp.StatusCode,
			Message:    "connection test failed",
		}
	}

	c.logger.Debug("connection test succeeded")
	return nil
}

func (c *Client) currentConfig() (domain.GatewayConfig, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.config == nil {
		return domain.GatewayConfig{}, &domain.DeliveryError{Kind: domain.DeliveryInvalidConfig, Message: "gateway is not configured"}
	}
	return *c.config, nil
}

func (c *Client) sendBatchWithRetry(ctx context.Context, cfg domain.GatewayConfig, batch []domain.Sample) (*Response, error) {
	var resp *Response
	r := backoff.Retrier{
		Policy: c.retry,
		Sleep:  c.sleep,
		Stop:   domain.IsPermanent,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			c.logger.Warn("request failed, retrying",
				"attempt", attempt,
				"max_attempts", c.retry.MaxAttempts,
				"backoff", delay,
				"error", err,
			)
		},
	}

	err := r.Do(ctx, func(ctx context.Context, _ int) error {
		var err error
		resp, err = c.sendBatch(ctx, cfg, batch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) sendBatch(ctx context.Context, cfg domain.GatewayConfig, batch []domain.Sample) (*Response, error) {
	body, err := json.Marshal(newPayload(c.identity, batch, time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	// A dispatched request runs to completion or timeout even if the pass
	// is cancelled in the meantime.
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, buildURL(cfg, DataPath), bytes.NewReader(body))
	if err != nil {
		return nil, &domain.DeliveryError{Kind: domain.DeliveryInvalidConfig, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req, cfg)

	c.logger.Debug("sending batch", "samples", len(batch), "user_id", c.identity.UserID)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer httpResp.Body.Close()

	if err := checkStatus(httpResp); err != nil {
		return nil, err
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, &domain.DeliveryError{Kind: domain.DeliveryNetwork, Err: fmt.Errorf("decode response: %w", err)}
	}

	c.logger.Debug("batch sent", "status", resp.Status, "samples_received", resp.SamplesReceived)
	return &resp, nil
}

func (c *Client) setHeaders(req *http.Request, cfg domain.GatewayConfig) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if cfg.APIKey != "" {
		req.Header.Set("X-API-Key", cfg.APIKey)
	}
	if cfg.Username != "" && cfg.Password != "" {
		req.SetBasicAuth(cfg.Username, cfg.Password)
	}
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return &domain.DeliveryError{Kind: domain.DeliveryAuthFailed, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusRequestTimeout:
		return &domain.DeliveryError{Kind: domain.DeliveryTimeout, StatusCode: resp.StatusCode}
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := strings.TrimSpace(string(msg))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &domain.DeliveryError{Kind: domain.DeliveryServerError, StatusCode: resp.StatusCode, Message: message}
}

func classifyTransportError(err error) error {
	var (
		netErr     net.Error
		unknownCA  x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
		verifyErr  *tls.CertificateVerificationError
	)
	switch {
	case errors.As(err, &verifyErr), errors.As(err, &unknownCA), errors.As(err, &hostErr), errors.As(err, &invalidErr):
		return &domain.DeliveryError{Kind: domain.DeliveryTLSValidationFailed, Err: err}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return &domain.DeliveryError{Kind: domain.DeliveryTimeout, Err: err}
	}
	return &domain.DeliveryError{Kind: domain.DeliveryNetwork, Err: err}
}

func buildURL(cfg domain.GatewayConfig, path string) string {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Port > 0 {
		if u, err := url.Parse(base); err == nil && u.Port() == "" {
			u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(cfg.Port))
			base = u.String()
		}
	}
	return base + path
}
