package controlplane

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/config"
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/models"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	body   []byte
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *recordedRequest) {
	t.Helper()

	rec := &recordedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.auth = r.Header.Get("Authorization")

		body, _ := io.ReadAll(r.Body)
		rec.body = body

		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(&config.ControlPlaneConfig{
		BaseURL: srv.URL,
		APIKey:  "secret-key",
	})

	return client, rec
}

func okJSON(v interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
}

func TestClientRegisterDevice(t *testing.T) {
	client, rec := newTestClient(t, okJSON(map[string]string{"device_id": "dev-42"}))

	id, err := client.RegisterDevice(context.Background(), &models.DeviceRegistration{
		Name:     "lobby-screen",
		BranchID: "branch-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "dev-42", id)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/devices", rec.path)
	assert.Equal(t, "Bearer secret-key", rec.auth)
	assert.Contains(t, string(rec.body), "lobby-screen")
}

func TestClientGetMetricsPeriod(t *testing.T) {
	samples := []models.MetricSample{{DeviceID: "dev-1", CPUPercent: 42}}
	client, rec := newTestClient(t, okJSON(samples))

	got, err := client.GetMetrics(context.Background(), "dev-1", "24h")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 42.0, got[0].CPUPercent)
	assert.Equal(t, "/devices/dev-1/metrics", rec.path)
	assert.Equal(t, "period=24h", rec.query)
}

func TestClientGetMetricsRange(t *testing.T) {
	client, rec := newTestClient(t, okJSON([]models.MetricSample{}))

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	_, err := client.GetMetricsRange(context.Background(), "dev-1", from, to)

	require.NoError(t, err)
	assert.Contains(t, rec.query, "from=2026-03-01T00%3A00%3A00Z")
	assert.Contains(t, rec.query, "to=2026-03-02T00%3A00%3A00Z")
}

func TestClientAlerts(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		alerts := []models.Alert{{DeviceID: "dev-1", Message: "storage low", Severity: models.AlertWarning}}
		client, rec := newTestClient(t, okJSON(alerts))

		got, err := client.GetAlerts(context.Background(), "dev-1")

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "storage low", got[0].Message)
		assert.Equal(t, http.MethodGet, rec.method)
		assert.Equal(t, "/devices/dev-1/alerts", rec.path)
	})

	t.Run("clear", func(t *testing.T) {
		client, rec := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		require.NoError(t, client.ClearAlerts(context.Background(), "dev-1"))
		assert.Equal(t, http.MethodDelete, rec.method)
		assert.Equal(t, "/devices/dev-1/alerts", rec.path)
	})
}

func TestClientSendCommand(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	err := client.SendCommand(context.Background(), "dev-1", &models.Command{
		Name: "restart",
		Args: map[string]any{"delay": "5s"},
	})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/devices/dev-1/commands", rec.path)
	assert.Contains(t, string(rec.body), "restart")
}

func TestClientUpdateStatus(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	online := true
	err := client.UpdateStatus(context.Background(), "dev-1", &models.StatusPatch{Online: &online})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, rec.method)
	assert.Equal(t, "/devices/dev-1/status", rec.path)
	assert.Contains(t, string(rec.body), `"online":true`)
}

func TestClientErrorMapping(t *testing.T) {
	t.Run("not_found", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "no such device", http.StatusNotFound)
		})

		_, err := client.GetAlerts(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrDeviceNotFound)
	})

	t.Run("server_error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		_, err := client.GetMetrics(context.Background(), "dev-1", "1h")
		require.Error(t, err)
		assert.ErrorContains(t, err, "status=500")
	})

	t.Run("canceled_context_stops_before_request", func(t *testing.T) {
		client, rec := newTestClient(t, okJSON(nil))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.GetAlerts(ctx, "dev-1")
		require.Error(t, err)
		assert.Empty(t, rec.method, "request must not be sent with a dead context")
	})
}
