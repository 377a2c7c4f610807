package controlplane

import "errors"

var (
	errUnexpectedStatus = errors.New("control plane returned unexpected status")
	errRateLimit        = errors.New("rate limiter rejected request")

	// ErrDeviceNotFound maps a 404 from any device-scoped endpoint.
	ErrDeviceNotFound = errors.New("device not found")
)
