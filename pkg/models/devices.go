// Package models pkg/models/devices.go holds the shared device types used
// across the connectivity layer, the status store, and the control-plane client.
package models

import "time"

// SystemInfo describes the hardware/OS profile a device reports about itself.
type SystemInfo struct {
	OS        string `json:"os"`
	MemoryMB  int64  `json:"memory_mb"`
	StorageGB int64  `json:"storage_gb"`
}

// DeviceStatus is the last-known state of a single device. All fields except
// DeviceID are reconciled from channel envelopes and control-plane responses.
type DeviceStatus struct {
	DeviceID   string     `json:"device_id"`
	Online     bool       `json:"online"`
	LastSeen   time.Time  `json:"last_seen"`
	IP         string     `json:"ip,omitempty"`
	Version    string     `json:"version,omitempty"`
	SystemInfo SystemInfo `json:"system_info"`
}

// StatusPatch carries a partial status update. Nil fields are left untouched
// when the patch is merged into a stored DeviceStatus.
type StatusPatch struct {
	Online     *bool       `json:"online,omitempty"`
	IP         *string     `json:"ip,omitempty"`
	Version    *string     `json:"version,omitempty"`
	SystemInfo *SystemInfo `json:"system_info,omitempty"`
}

type AlertSeverity string

const (
	AlertInfo     AlertSeverity = "info"
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)

// Alert is a single outstanding device alert. Per-device alert lists keep
// insertion order; arrival order is the only ordering contract.
type Alert struct {
	DeviceID  string        `json:"device_id"`
	Severity  AlertSeverity `json:"severity"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
}

// MetricSample is one polled metrics snapshot for a device. Only the most
// recent sample per device is kept in memory; ranges come from the control
// plane on demand.
type MetricSample struct {
	DeviceID      string    `json:"device_id"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryUsedMB  int64     `json:"memory_used_mb"`
	StorageUsedGB int64     `json:"storage_used_gb"`
	NetworkInKB   int64     `json:"network_in_kb"`
	NetworkOutKB  int64     `json:"network_out_kb"`
	Timestamp     time.Time `json:"timestamp"`
}

// DeviceRegistration is the payload for registering a new playback device
// with the control plane.
type DeviceRegistration struct {
	Name     string `json:"name"`
	BranchID string `json:"branch_id"`
	IP       string `json:"ip,omitempty"`
	Version  string `json:"version,omitempty"`
}

// Command is an operator instruction pushed to a device, either over its live
// channel or through the control plane when the channel is down.
type Command struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}
