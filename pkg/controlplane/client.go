// Package controlplane is the HTTP client for the fleet's REST control
// plane: device registration, status patches, polled metrics, alerts, and
// command delivery when a device has no live channel.
package controlplane

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/config"
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/models"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultRequestsPerSec = 20
	defaultBurst          = 10

	maxErrorBodyBytes = 512
)

// Client implements Service against a base URL. Outbound requests are capped
// by a rate limiter so polling a large fleet cannot stampede the control
// plane.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient builds a Client from configuration, applying defaults for any
// zero tunable.
func NewClient(cfg *config.ControlPlaneConfig) *Client {
	timeout := time.Duration(cfg.RequestTimeout)
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	rps := cfg.RequestsPerSec
	if rps == 0 {
		rps = defaultRequestsPerSec
	}

	burst := cfg.Burst
	if burst == 0 {
		burst = defaultBurst
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// RegisterDevice registers a new playback device and returns its assigned ID.
func (c *Client) RegisterDevice(ctx context.Context, reg *models.DeviceRegistration) (string, error) {
	var resp struct {
		DeviceID string `json:"device_id"`
	}

	if err := c.do(ctx, http.MethodPost, "/devices", nil, reg, &resp); err != nil {
		return "", fmt.Errorf("register device: %w", err)
	}

	return resp.DeviceID, nil
}

// UpdateStatus patches a device's status on the control plane.
func (c *Client) UpdateStatus(ctx context.Context, deviceID string, patch *models.StatusPatch) error {
	path := "/devices/" + url.PathEscape(deviceID) + "/status"

	if err := c.do(ctx, http.MethodPatch, path, nil, patch, nil); err != nil {
		return fmt.Errorf("update status for %s: %w", deviceID, err)
	}

	return nil
}

// GetMetrics fetches the device's metric samples for a named window such as
// "1h" or "24h".
func (c *Client) GetMetrics(ctx context.Context, deviceID, period string) ([]models.MetricSample, error) {
	path := "/devices/" + url.PathEscape(deviceID) + "/metrics"
	query := url.Values{"period": {period}}

	var samples []models.MetricSample
	if err := c.do(ctx, http.MethodGet, path, query, nil, &samples); err != nil {
		return nil, fmt.Errorf("get metrics for %s: %w", deviceID, err)
	}

	return samples, nil
}

// GetMetricsRange fetches samples for an explicit time range; used by export.
func (c *Client) GetMetricsRange(ctx context.Context, deviceID string, from, to time.Time) ([]models.MetricSample, error) {
	path := "/devices/" + url.PathEscape(deviceID) + "/metrics"
	query := url.Values{
		"from": {from.UTC().Format(time.RFC3339)},
		"to":   {to.UTC().Format(time.RFC3339)},
	}

	var samples []models.MetricSample
	if err := c.do(ctx, http.MethodGet, path, query, nil, &samples); err != nil {
		return nil, fmt.Errorf("get metrics range for %s: %w", deviceID, err)
	}

	return samples, nil
}

// GetAlerts fetches the device's outstanding alerts.
func (c *Client) GetAlerts(ctx context.Context, deviceID string) ([]models.Alert, error) {
	path := "/devices/" + url.PathEscape(deviceID) + "/alerts"

	var alerts []models.Alert
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &alerts); err != nil {
		return nil, fmt.Errorf("get alerts for %s: %w", deviceID, err)
	}

	return alerts, nil
}

// ClearAlerts deletes the device's alerts server side. Callers clear the
// local list only after this succeeds.
func (c *Client) ClearAlerts(ctx context.Context, deviceID string) error {
	path := "/devices/" + url.PathEscape(deviceID) + "/alerts"

	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("clear alerts for %s: %w", deviceID, err)
	}

	return nil
}

// SendCommand posts a command for delivery through the control plane.
func (c *Client) SendCommand(ctx context.Context, deviceID string, cmd *models.Command) error {
	path := "/devices/" + url.PathEscape(deviceID) + "/commands"

	if err := c.do(ctx, http.MethodPost, path, nil, cmd, nil); err != nil {
		return fmt.Errorf("send command to %s: %w", deviceID, err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", errRateLimit, err)
	}

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			log.Printf("failed to close response body: %v", err)
		}
	}(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return ErrDeviceNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

		return fmt.Errorf("%w: status=%d body=%s", errUnexpectedStatus, resp.StatusCode, string(snippet))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
