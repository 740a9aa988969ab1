package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/playgrid/relay-service/internal/domain"
	"github.com/playgrid/relay-service/internal/protocol"
)

// fakeConn records everything sent to it; closing it makes Send fail the way
// a dead socket would.
type fakeConn struct {
	id string

	mu     sync.Mutex
	msgs   []protocol.Envelope
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) SessionID() string { return c.id }

func (c *fakeConn) Send(env protocol.Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.New("connection closed")
	}
	c.msgs = append(c.msgs, env)
	return nil
}

func (c *fakeConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) cmds() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.msgs))
	for _, m := range c.msgs {
		out = append(out, m.Cmd)
	}
	return out
}

func (c *fakeConn) byCmd(cmd string) []protocol.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []protocol.Envelope
	for _, m := range c.msgs {
		if m.Cmd == cmd {
			out = append(out, m)
		}
	}
	return out
}

// fakeStore is an in-memory PlayerStore.
type fakeStore struct {
	mu      sync.Mutex
	players map[string]domain.Player

	addErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{players: make(map[string]domain.Player)}
}

func (s *fakeStore) Add(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.addErr != nil {
		return s.addErr
	}
	s.players[id] = domain.Player{ID: id}
	return nil
}

func (s *fakeStore) Get(ctx context.Context, id string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	return &p, nil
}

func (s *fakeStore) GetAll(ctx context.Context) ([]domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeStore) Update(ctx context.Context, id string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players[id] = domain.Player{ID: id, X: x, Y: y}
	return nil
}

func (s *fakeStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.players, id)
	return nil
}

func (s *fakeStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.players[id]
	return ok
}

// scriptedRandom returns queued codes first, then unique fallbacks.
type scriptedRandom struct {
	codes []string
	i     int
}

func (r *scriptedRandom) Intn(n int) int { return 0 }

func (r *scriptedRandom) String(length int, alphabet string) string {
	defer func() { r.i++ }()
	if r.i < len(r.codes) {
		return r.codes[r.i]
	}
	return fmt.Sprintf("FALL%02d", r.i)
}
