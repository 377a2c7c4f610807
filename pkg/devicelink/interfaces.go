// Package devicelink pkg/devicelink/interfaces.go
package devicelink

import "github.com/spectrerace1/test-cloudmedia-sub000/pkg/models"

//go:generate mockgen -destination=mock_devicelink.go -package=devicelink github.com/spectrerace1/test-cloudmedia-sub000/pkg/devicelink StatusSink

// StatusSink is the registry's view of the device status store. A device's
// store entry lives exactly as long as its registry entry: Track on create,
// Forget when the last interest is released.
type StatusSink interface {
	Track(deviceID string)
	Forget(deviceID string)
	ApplyStatusUpdate(deviceID string, patch *models.StatusPatch)
	AppendAlert(deviceID string, alert models.Alert)
	MarkOffline(deviceID string)
}
