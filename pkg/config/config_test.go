package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "devicelinkd.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestLoadAndValidateAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"listen_addr": ":8090",
		"devices": ["screen-1", "screen-2"],
		"channel": {"endpoint": "ws://media.example.com/ws"},
		"control_plane": {"base_url": "https://media.example.com/api/v1"}
	}`)

	var cfg DevicelinkConfig
	require.NoError(t, LoadAndValidate(path, &cfg))

	assert.Equal(t, []string{"screen-1", "screen-2"}, cfg.Devices)
	assert.Equal(t, 30*time.Second, time.Duration(cfg.Channel.HeartbeatInterval))
	assert.Equal(t, 5*time.Second, time.Duration(cfg.Channel.ReconnectDelay))
	assert.Equal(t, 5, cfg.Channel.MaxReconnects)
	assert.Equal(t, 60*time.Second, time.Duration(cfg.Status.PollInterval))
	assert.Equal(t, "1h", cfg.Status.MetricPeriod)
}

func TestLoadAndValidateRejectsIncompleteConfig(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{
			name:     "missing listen addr",
			contents: `{"channel": {"endpoint": "ws://x/ws"}, "control_plane": {"base_url": "https://x"}}`,
		},
		{
			name:     "missing channel endpoint",
			contents: `{"listen_addr": ":8090", "control_plane": {"base_url": "https://x"}}`,
		},
		{
			name:     "missing control plane base url",
			contents: `{"listen_addr": ":8090", "channel": {"endpoint": "ws://x/ws"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg DevicelinkConfig
			assert.Error(t, LoadAndValidate(writeConfig(t, tt.contents), &cfg))
		})
	}
}

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{name: "string form", raw: `"45s"`, want: 45 * time.Second},
		{name: "numeric nanoseconds", raw: `1000000000`, want: time.Second},
		{name: "garbage string", raw: `"soon"`, wantErr: true},
		{name: "wrong type", raw: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := d.UnmarshalJSON([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	var cfg DevicelinkConfig
	assert.Error(t, LoadAndValidate(filepath.Join(t.TempDir(), "nope.json"), &cfg))
}
