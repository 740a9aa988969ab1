package service

import (
	"sync"

	"github.com/playgrid/relay-service/internal/protocol"
)

// Conn is the live connection handle for one session. The transport owns the
// underlying socket; the registry only references it.
type Conn interface {
	SessionID() string
	Send(env protocol.Envelope) error
}

// Registry tracks which sessions currently hold an open connection and is the
// only component that sends on their behalf. Delivery is best-effort: a
// session that is gone, or a write that fails, is a silent skip.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

func (r *Registry) Register(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[c.SessionID()] = c
}

// Unregister drops the session's handle and reports whether it was present,
// so teardown racing a duplicate disconnect runs only once.
func (r *Registry) Unregister(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[sessionID]; !ok {
		return false
	}
	delete(r.conns, sessionID)
	return true
}

func (r *Registry) Contains(sessionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.conns[sessionID]
	return ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}

// Send unicasts to one session; a no-op if its connection is not open.
func (r *Registry) Send(sessionID string, env protocol.Envelope) {
	r.mu.RLock()
	c, ok := r.conns[sessionID]
	r.mu.RUnlock()

	if !ok {
		return
	}
	_ = c.Send(env) // best-effort
}

// BroadcastTo delivers to the listed sessions, skipping excludeID and any
// connection that has gone away in the meantime.
func (r *Registry) BroadcastTo(sessionIDs []string, env protocol.Envelope, excludeID string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range sessionIDs {
		if id == excludeID {
			continue
		}
		if c, ok := r.conns[id]; ok {
			_ = c.Send(env)
		}
	}
}

// BroadcastAll delivers to every open connection server-wide except excludeID.
func (r *Registry) BroadcastAll(env protocol.Envelope, excludeID string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, c := range r.conns {
		if id == excludeID {
			continue
		}
		_ = c.Send(env)
	}
}
