package devicelink

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/spectrerace1/test-cloudmedia-sub000/pkg/models"
)

// Registry is the process-wide map from device ID to its live Connection.
// Connections are created lazily on first interest and torn down when the
// last interest is released. Create/release are serialized so two callers can
// never race a second socket into existence for one device.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	opts    Options
	base    string
	sink    StatusSink
}

type registryEntry struct {
	conn *Connection
	refs int
}

// NewRegistry creates a registry dialing endpoints under base, e.g.
// ws://host/ws yields ws://host/ws/<deviceID> per device. The sink's Track
// and Forget are kept in lockstep with entry creation and removal.
func NewRegistry(base string, opts Options, sink StatusSink) *Registry {
	return &Registry{
		entries: make(map[string]*registryEntry),
		opts:    opts,
		base:    strings.TrimRight(base, "/"),
		sink:    sink,
	}
}

// GetOrCreate returns the live Connection for deviceID, creating and dialing
// one if none exists. Each call takes one reference; pair it with Release.
func (r *Registry) GetOrCreate(deviceID string) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[deviceID]; ok {
		e.refs++
		return e.conn
	}

	conn := r.newConnectionLocked(deviceID)
	r.entries[deviceID] = &registryEntry{conn: conn, refs: 1}

	conn.Connect()

	return conn
}

// Release drops one reference to the device's connection. At zero the
// connection is disconnected, removed, and the sink told to forget the device.
func (r *Registry) Release(deviceID string) error {
	r.mu.Lock()

	e, ok := r.entries[deviceID]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", errNotTracked, deviceID)
	}

	e.refs--
	if e.refs > 0 {
		r.mu.Unlock()
		return nil
	}

	delete(r.entries, deviceID)
	r.mu.Unlock()

	e.conn.Disconnect()
	r.sink.Forget(deviceID)

	return nil
}

// Send pushes an application message over the device's live channel. It
// returns ErrNoActiveConnection when the device has no Connected channel.
func (r *Registry) Send(deviceID, msgType string, data interface{}) error {
	r.mu.Lock()
	e, ok := r.entries[deviceID]
	r.mu.Unlock()

	if !ok || e.conn.State() != StateConnected {
		return fmt.Errorf("%w: %s", ErrNoActiveConnection, deviceID)
	}

	return e.conn.SendMessage(msgType, data)
}

// Len returns the number of tracked devices.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Close disconnects every tracked device. Used on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*registryEntry)
	r.mu.Unlock()

	for deviceID, e := range entries {
		e.conn.Disconnect()
		r.sink.Forget(deviceID)
	}
}

// newConnectionLocked builds a Connection with the store reconciliation
// handlers pre-registered. Consumers may re-register the same types; the
// router's last-write-wins contract makes that an override, not a leak.
func (r *Registry) newConnectionLocked(deviceID string) *Connection {
	r.sink.Track(deviceID)

	conn := NewConnection(deviceID, r.base+"/"+deviceID, r.opts)

	conn.RegisterHandler(TypeStatus, func(data json.RawMessage) {
		var patch models.StatusPatch
		if err := json.Unmarshal(data, &patch); err != nil {
			log.Printf("Device %s: dropping malformed status update: %v", deviceID, err)
			return
		}

		r.sink.ApplyStatusUpdate(deviceID, &patch)
	})

	conn.RegisterHandler(TypeAlert, func(data json.RawMessage) {
		var alert models.Alert
		if err := json.Unmarshal(data, &alert); err != nil {
			log.Printf("Device %s: dropping malformed alert: %v", deviceID, err)
			return
		}

		alert.DeviceID = deviceID
		if alert.Timestamp.IsZero() {
			alert.Timestamp = time.Now()
		}

		r.sink.AppendAlert(deviceID, alert)
	})

	conn.OnError(func(err error) {
		log.Printf("Device %s: marking offline: %v", deviceID, err)
		r.sink.MarkOffline(deviceID)
	})

	return conn
}
