package devicelink

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultHeartbeatInterval = 30 * time.Second
	defaultReconnectDelay    = 5 * time.Second
	defaultMaxReconnects     = 5

	dialHandshakeTimeout = 10 * time.Second
	writeWait            = 10 * time.Second
)

var emptyPayload = json.RawMessage(`{}`)

// Connection is one bidirectional channel bound to exactly one device. It
// owns the socket lifecycle, the heartbeat timer, and the bounded
// reconnection cycle.
//
// Every socket callback, heartbeat tick, and retry timer is tagged with the
// connection generation current when it was armed. Disconnecting or redialing
// bumps the generation, so a stale callback firing after the fact is a
// provable no-op.
type Connection struct {
	deviceID string
	endpoint string
	dialer   *websocket.Dialer
	opts     Options

	mu            sync.Mutex
	state         State
	gen           uint64
	ws            *websocket.Conn
	attempts      int
	retryTimer    *time.Timer
	stopHeartbeat chan struct{}
	connObservers []ConnectFunc
	errObservers  []ErrorFunc

	// writeMu serializes frames onto the socket; gorilla connections allow
	// at most one concurrent writer.
	writeMu sync.Mutex

	router *router
}

// NewConnection creates a Connection in Idle. It does not dial; call Connect.
func NewConnection(deviceID, endpoint string, opts Options) *Connection {
	return &Connection{
		deviceID: deviceID,
		endpoint: endpoint,
		opts:     opts.withDefaults(),
		dialer: &websocket.Dialer{
			HandshakeTimeout: dialHandshakeTimeout,
		},
		state:  StateIdle,
		router: newRouter(),
	}
}

// DeviceID returns the device this connection is bound to.
func (c *Connection) DeviceID() string {
	return c.deviceID
}

// State returns the current lifecycle state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// ReconnectAttempts returns the current retry counter. It resets to zero on a
// successful open and on a manual Reconnect from Failed.
func (c *Connection) ReconnectAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.attempts
}

// RegisterHandler routes inbound envelopes of msgType to handler. At most one
// handler per type per connection; the last registration wins.
func (c *Connection) RegisterHandler(msgType string, handler HandlerFunc) {
	c.router.register(msgType, handler)
}

// OnConnectionEstablished registers an observer fired on every successful
// open, including reconnects.
func (c *Connection) OnConnectionEstablished(cb ConnectFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.connObservers = append(c.connObservers, cb)
}

// OnError registers an observer fired once when the reconnection cycle gives
// up and the connection turns terminal.
func (c *Connection) OnError(cb ErrorFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errObservers = append(c.errObservers, cb)
}

// Connect starts dialing. It is a no-op unless the connection is Idle.
func (c *Connection) Connect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return
	}

	c.connectLocked()
}

// Reconnect recovers a Failed connection by resetting the retry counter and
// dialing again. While Reconnecting it coalesces into the pending retry cycle
// instead of starting a second one.
func (c *Connection) Reconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateFailed, StateIdle:
		c.attempts = 0
		c.connectLocked()
	case StateReconnecting, StateConnecting, StateConnected, StateDisconnecting:
		// Reconnecting already has exactly one pending retry timer; the
		// remaining states need no recovery.
	}
}

// Disconnect tears the connection down from any state: cancels timers, closes
// the socket, clears all handler and observer registrations, and returns to
// Idle. It is idempotent.
func (c *Connection) Disconnect() {
	c.mu.Lock()

	c.state = StateDisconnecting
	c.gen++
	c.cancelRetryLocked()
	c.stopHeartbeatLocked()

	if c.ws != nil {
		if err := c.ws.Close(); err != nil {
			log.Printf("Device %s: error closing socket: %v", c.deviceID, err)
		}

		c.ws = nil
	}

	c.connObservers = nil
	c.errObservers = nil
	c.attempts = 0
	c.state = StateIdle

	c.mu.Unlock()

	c.router.clear()
}

// SendMessage sends an application envelope. Unless the connection is
// Connected the message is silently dropped; callers must not assume
// delivery.
func (c *Connection) SendMessage(msgType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %q payload: %w", msgType, err)
	}

	c.send(&Envelope{Type: msgType, DeviceID: c.deviceID, Data: payload})

	return nil
}

func (c *Connection) connectLocked() {
	c.state = StateConnecting
	c.gen++

	go c.dial(c.gen)
}

func (c *Connection) dial(gen uint64) {
	ws, _, err := c.dialer.Dial(c.endpoint, nil) //nolint:bodyclose // gorilla owns the response body

	c.mu.Lock()

	if c.gen != gen || c.state != StateConnecting {
		c.mu.Unlock()

		if err == nil {
			_ = ws.Close()
		}

		return
	}

	if err != nil {
		log.Printf("Device %s: dial %s failed: %v", c.deviceID, c.endpoint, err)
		c.socketClosedLocked(fmt.Errorf("dial %s: %w", c.endpoint, err))

		return
	}

	c.ws = ws
	c.mu.Unlock()

	// The connect handshake is always the first outbound frame; state is
	// still Connecting here, so SendMessage cannot get a frame in ahead of it.
	if err := c.writeEnvelope(ws, &Envelope{
		Type:     TypeConnect,
		DeviceID: c.deviceID,
		Data:     mustMarshal(handshake{DeviceID: c.deviceID}),
	}); err != nil {
		log.Printf("Device %s: handshake failed: %v", c.deviceID, err)

		c.mu.Lock()

		if c.gen != gen {
			c.mu.Unlock()
			_ = ws.Close()

			return
		}

		c.socketClosedLocked(fmt.Errorf("handshake: %w", err))

		return
	}

	c.mu.Lock()

	if c.gen != gen {
		c.mu.Unlock()
		_ = ws.Close()

		return
	}

	c.state = StateConnected
	c.attempts = 0
	stop := make(chan struct{})
	c.stopHeartbeat = stop
	observers := append([]ConnectFunc(nil), c.connObservers...)

	c.mu.Unlock()

	log.Printf("Device %s: connected to %s", c.deviceID, c.endpoint)

	go c.readLoop(gen, ws)
	go c.heartbeatLoop(stop)

	for _, cb := range observers {
		cb()
	}
}

// readLoop pumps inbound envelopes off the socket in arrival order. It is the
// only goroutine that invokes handlers, which keeps dispatch FIFO and
// serialized per connection.
func (c *Connection) readLoop(gen uint64, ws *websocket.Conn) {
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			c.mu.Lock()

			if c.gen != gen {
				c.mu.Unlock()
				return
			}

			c.socketClosedLocked(fmt.Errorf("read: %w", err))

			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("Device %s: dropping malformed envelope: %v", c.deviceID, err)
			continue
		}

		if env.Type == "" {
			log.Printf("Device %s: dropping envelope with empty type", c.deviceID)
			continue
		}

		if env.DeviceID != c.deviceID {
			log.Printf("Device %s: dropping envelope for %q (device mismatch)", c.deviceID, env.DeviceID)
			continue
		}

		if !c.router.dispatch(&env) {
			log.Printf("Device %s: no handler for message type %q, dropping", c.deviceID, env.Type)
		}
	}
}

func (c *Connection) heartbeatLoop(stop chan struct{}) {
	ticker := time.NewTicker(c.opts.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.send(&Envelope{Type: TypePing, DeviceID: c.deviceID, Data: emptyPayload})
		}
	}
}

// socketClosedLocked handles one socket-close event: a failed dial, a failed
// handshake, or a read error while Connected. The caller holds c.mu; the lock
// is released before observers run.
func (c *Connection) socketClosedLocked(reason error) {
	c.stopHeartbeatLocked()

	if c.ws != nil {
		_ = c.ws.Close()
		c.ws = nil
	}

	c.attempts++

	if c.attempts >= c.opts.MaxReconnects {
		c.state = StateFailed
		c.cancelRetryLocked()
		observers := append([]ErrorFunc(nil), c.errObservers...)
		attempts := c.attempts
		c.mu.Unlock()

		err := fmt.Errorf("%w: device %s unreachable after %d attempts: %w",
			errRetriesExhausted, c.deviceID, attempts, reason)
		log.Printf("%v", err)

		for _, cb := range observers {
			cb(err)
		}

		return
	}

	c.state = StateReconnecting

	if c.retryTimer == nil {
		gen := c.gen
		c.retryTimer = time.AfterFunc(c.opts.ReconnectDelay, func() {
			c.retryElapsed(gen)
		})
	}

	c.mu.Unlock()
}

func (c *Connection) retryElapsed(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.retryTimer = nil

	if c.gen != gen || c.state != StateReconnecting {
		return
	}

	c.connectLocked()
}

func (c *Connection) cancelRetryLocked() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}

func (c *Connection) stopHeartbeatLocked() {
	if c.stopHeartbeat != nil {
		close(c.stopHeartbeat)
		c.stopHeartbeat = nil
	}
}

func (c *Connection) send(env *Envelope) {
	c.mu.Lock()

	if c.state != StateConnected || c.ws == nil {
		c.mu.Unlock()
		return
	}

	ws := c.ws
	c.mu.Unlock()

	if err := c.writeEnvelope(ws, env); err != nil {
		// The read pump will observe the broken socket and drive recovery.
		log.Printf("Device %s: write %q failed: %v", c.deviceID, env.Type, err)
	}
}

func (c *Connection) writeEnvelope(ws *websocket.Conn, env *Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return ws.WriteJSON(env)
}

func mustMarshal(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return data
}
