package devicelink

import "sync"

// router maps envelope types to handlers for one connection. Registration is
// last-write-wins per type: re-registering a type replaces the previous
// handler, it never becomes additive.
type router struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

func newRouter() *router {
	return &router{
		handlers: make(map[string]HandlerFunc),
	}
}

func (r *router) register(msgType string, handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[msgType] = handler
}

// dispatch invokes the handler registered for the envelope's type with the
// data payload only. It reports whether a handler was found; an unroutable
// envelope is the caller's to log and drop.
func (r *router) dispatch(env *Envelope) bool {
	r.mu.RLock()
	handler, ok := r.handlers[env.Type]
	r.mu.RUnlock()

	if !ok {
		return false
	}

	handler(env.Data)

	return true
}

func (r *router) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers = make(map[string]HandlerFunc)
}
