package devicelink

import "errors"

var (
	errRetriesExhausted = errors.New("reconnect attempts exhausted")
	errNotTracked       = errors.New("device not tracked by registry")

	// ErrNoActiveConnection is returned by Registry.Send when the device has
	// no connection in the Connected state. Callers are expected to fall back
	// to the control plane.
	ErrNoActiveConnection = errors.New("no active connection for device")
)
