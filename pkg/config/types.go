package config

import (
	"encoding/json"
	"fmt"
	"time"
)

type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

// ChannelConfig configures the realtime device channel.
type ChannelConfig struct {
	Endpoint          string   `json:"endpoint"`           // e.g., ws://media.example.com/ws
	HeartbeatInterval Duration `json:"heartbeat_interval"` // default 30s
	ReconnectDelay    Duration `json:"reconnect_delay"`    // default 5s
	MaxReconnects     int      `json:"max_reconnects"`     // default 5
}

// ControlPlaneConfig configures the REST control-plane client.
type ControlPlaneConfig struct {
	BaseURL        string   `json:"base_url"` // e.g., https://media.example.com/api/v1
	APIKey         string   `json:"api_key,omitempty"`
	RequestTimeout Duration `json:"request_timeout"` // default 10s
	RequestsPerSec float64  `json:"requests_per_sec"`
	Burst          int      `json:"burst"`
}

// StatusConfig configures the status store's control-plane polling.
type StatusConfig struct {
	PollInterval Duration `json:"poll_interval"` // default 60s
	MetricPeriod string   `json:"metric_period"` // default "1h"
}

// DevicelinkConfig is the top-level configuration for devicelinkd.
type DevicelinkConfig struct {
	ListenAddr   string             `json:"listen_addr"` // HTTP API address, e.g., :8090
	DBPath       string             `json:"db_path"`
	Devices      []string           `json:"devices"` // device IDs to keep channels open for
	Channel      ChannelConfig      `json:"channel"`
	ControlPlane ControlPlaneConfig `json:"control_plane"`
	Status       StatusConfig       `json:"status"`
}

// Validate implements the Validator interface.
func (c *DevicelinkConfig) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}

	if c.Channel.Endpoint == "" {
		return fmt.Errorf("channel endpoint is required")
	}

	if c.ControlPlane.BaseURL == "" {
		return fmt.Errorf("control plane base_url is required")
	}

	if time.Duration(c.Channel.HeartbeatInterval) == 0 {
		c.Channel.HeartbeatInterval = Duration(30 * time.Second)
	}

	if time.Duration(c.Channel.ReconnectDelay) == 0 {
		c.Channel.ReconnectDelay = Duration(5 * time.Second)
	}

	if c.Channel.MaxReconnects == 0 {
		c.Channel.MaxReconnects = 5
	}

	if time.Duration(c.Status.PollInterval) == 0 {
		c.Status.PollInterval = Duration(60 * time.Second)
	}

	if c.Status.MetricPeriod == "" {
		c.Status.MetricPeriod = "1h"
	}

	return nil
}
