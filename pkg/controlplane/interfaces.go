// Package controlplane pkg/controlplane/interfaces.go
package controlplane

import (
	"context"
	"time"

	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/models"
)

//go:generate mockgen -destination=mock_controlplane.go -package=controlplane github.com/spectrerace1/test-cloudmedia-sub000/pkg/controlplane Service

// Service is the typed surface of the fleet's REST control plane. The
// realtime channel is deliberately not part of it; everything here is plain
// request/response.
type Service interface {
	RegisterDevice(ctx context.Context, reg *models.DeviceRegistration) (string, error)
	UpdateStatus(ctx context.Context, deviceID string, patch *models.StatusPatch) error
	GetMetrics(ctx context.Context, deviceID, period string) ([]models.MetricSample, error)
	GetMetricsRange(ctx context.Context, deviceID string, from, to time.Time) ([]models.MetricSample, error)
	GetAlerts(ctx context.Context, deviceID string) ([]models.Alert, error)
	ClearAlerts(ctx context.Context, deviceID string) error
	SendCommand(ctx context.Context, deviceID string, cmd *models.Command) error
}
