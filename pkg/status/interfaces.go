// Package status pkg/status/interfaces.go
package status

import (
	"context"

	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/models"
)

//go:generate mockgen -destination=mock_status.go -package=status github.com/spectrerace1/test-cloudmedia-sub000/pkg/status ControlPlane,Journal

// ControlPlane is the slice of the REST control plane the store polls:
// metrics snapshots and outstanding alerts per device.
type ControlPlane interface {
	GetMetrics(ctx context.Context, deviceID, period string) ([]models.MetricSample, error)
	GetAlerts(ctx context.Context, deviceID string) ([]models.Alert, error)
}

// Journal persists status transitions and alerts for the history endpoints.
// Journal writes are best effort; failures are logged, never propagated.
type Journal interface {
	UpdateDeviceStatus(status *models.DeviceStatus) error
	RecordAlert(alert *models.Alert) error
}
