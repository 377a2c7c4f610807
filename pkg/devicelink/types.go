// Package devicelink implements the realtime device channel: a persistent
// per-device websocket connection with heartbeats, bounded reconnection, and
// type-based message routing.
//
// Liveness is judged purely by the socket's own close/error events. The
// heartbeat ping exists to keep intermediary network infrastructure from
// idling the channel; no pong reply is awaited, so half-open connections are
// not detected. This is a known gap carried over from the deployed protocol.
package devicelink

import (
	"encoding/json"
	"time"

	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/config"
)

// Envelope is the wire unit exchanged over the channel, both directions.
type Envelope struct {
	Type     string          `json:"type"`
	DeviceID string          `json:"deviceId"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Reserved envelope types emitted by this side of the channel. Any other type
// is application-defined and opaque to the core.
const (
	TypeConnect = "connect"
	TypePing    = "ping"
	TypeStatus  = "status"
	TypeAlert   = "alert"
	TypeCommand = "command"
)

// State is a connection's lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateDisconnecting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateDisconnecting:
		return "disconnecting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// HandlerFunc receives the data payload of a routed envelope. Handlers for
// one connection never run concurrently with each other.
type HandlerFunc func(data json.RawMessage)

// ConnectFunc is invoked each time the connection (re-)enters Connected.
type ConnectFunc func()

// ErrorFunc is invoked once per failure cycle when reconnection gives up.
type ErrorFunc func(err error)

type handshake struct {
	DeviceID string `json:"deviceId"`
}

// Options carries the channel tunables, normally derived from
// config.ChannelConfig. Zero values fall back to the defaults.
type Options struct {
	HeartbeatInterval time.Duration
	ReconnectDelay    time.Duration
	MaxReconnects     int
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.HeartbeatInterval == 0 {
		out.HeartbeatInterval = defaultHeartbeatInterval
	}

	if out.ReconnectDelay == 0 {
		out.ReconnectDelay = defaultReconnectDelay
	}

	if out.MaxReconnects == 0 {
		out.MaxReconnects = defaultMaxReconnects
	}

	return out
}

// OptionsFromConfig converts the JSON channel configuration into Options.
func OptionsFromConfig(cfg *config.ChannelConfig) Options {
	return (&Options{
		HeartbeatInterval: time.Duration(cfg.HeartbeatInterval),
		ReconnectDelay:    time.Duration(cfg.ReconnectDelay),
		MaxReconnects:     cfg.MaxReconnects,
	}).withDefaults()
}
