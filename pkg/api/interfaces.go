// Package api pkg/api/interfaces.go
package api

import (
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/db"
	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/models"
)

// ChannelSender pushes a message over a device's realtime channel.
// devicelink.Registry satisfies it.
type ChannelSender interface {
	Send(deviceID, msgType string, data interface{}) error
}

// HistoryReader reads journaled status transitions. db.Service satisfies it;
// deployments that run without a journal pass nil and the history endpoint
// reports 501.
type HistoryReader interface {
	GetStatusHistory(deviceID string, limit int) ([]db.StatusTransition, error)
}

// StatusReader is the slice of the status store the API needs.
type StatusReader interface {
	Statuses() []models.DeviceStatus
	GetStatus(deviceID string) (models.DeviceStatus, bool)
	GetAlerts(deviceID string) []models.Alert
	ClearAlerts(deviceID string)
	GetMetricSample(deviceID string) (models.MetricSample, bool)
}
