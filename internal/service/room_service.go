package service

import (
	"sync"
	"time"

	"github.com/playgrid/relay-service/internal/domain"
	"github.com/playgrid/relay-service/internal/random"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RoomService owns the room directory: code -> membership in join order.
// A room exists iff it has at least one member, and a session belongs to at
// most one room at a time.
type RoomService struct {
	mu       sync.Mutex
	rooms    map[string]*domain.Room
	byMember map[string]string // sessionID -> room code

	capacity   int
	codeLength int
	rng        random.Random
}

func NewRoomService(capacity, codeLength int, rng random.Random) *RoomService {
	if capacity <= 0 {
		capacity = 2
	}
	if codeLength <= 0 {
		codeLength = 6
	}
	if rng == nil {
		rng = random.New()
	}

	return &RoomService{
		rooms:      make(map[string]*domain.Room),
		byMember:   make(map[string]string),
		capacity:   capacity,
		codeLength: codeLength,
		rng:        rng,
	}
}

// Create opens a room containing only the creator and returns its code.
// A creator already in a room leaves it first.
func (s *RoomService) Create(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leaveLocked(sessionID)

	code := s.generateCodeLocked()
	s.rooms[code] = &domain.Room{
		Code:      code,
		Members:   []string{sessionID},
		CreatedAt: time.Now(),
	}
	s.byMember[sessionID] = code

	return code
}

// generateCodeLocked regenerates until the code is unused, so a disposed
// room's code becomes reusable immediately.
func (s *RoomService) generateCodeLocked() string {
	for {
		code := s.rng.String(s.codeLength, codeAlphabet)
		if _, taken := s.rooms[code]; !taken {
			return code
		}
	}
}

// Join appends the session to the room and returns the updated membership.
// Failures never mutate the directory.
func (s *RoomService) Join(code, sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	if s.byMember[sessionID] == code {
		return nil, domain.ErrAlreadyInRoom
	}
	if len(room.Members) >= s.capacity {
		return nil, domain.ErrRoomFull
	}

	s.leaveLocked(sessionID)
	room.Members = append(room.Members, sessionID)
	s.byMember[sessionID] = code

	return append([]string(nil), room.Members...), nil
}

// Leave removes the session from its current room, if any, and reports the
// room code and the members that remain. An emptied room is deleted on the
// spot.
func (s *RoomService) Leave(sessionID string) (code string, remaining []string, left bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.byMember[sessionID]
	if !ok {
		return "", nil, false
	}
	s.leaveLocked(sessionID)

	if room, ok := s.rooms[code]; ok {
		remaining = append([]string(nil), room.Members...)
	}
	return code, remaining, true
}

// Disband disposes the whole room the session occupies: a match cannot
// outlive a member, so the remaining members are evicted and the code is
// freed for reuse. Returns the evicted members.
func (s *RoomService) Disband(sessionID string) (code string, evicted []string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok = s.byMember[sessionID]
	if !ok {
		return "", nil, false
	}
	room := s.rooms[code]
	for _, m := range room.Members {
		delete(s.byMember, m)
		if m != sessionID {
			evicted = append(evicted, m)
		}
	}
	delete(s.rooms, code)

	return code, evicted, true
}

func (s *RoomService) leaveLocked(sessionID string) {
	code, ok := s.byMember[sessionID]
	if !ok {
		return
	}
	delete(s.byMember, sessionID)

	room, ok := s.rooms[code]
	if !ok {
		return
	}
	for i, m := range room.Members {
		if m == sessionID {
			room.Members = append(room.Members[:i], room.Members[i+1:]...)
			break
		}
	}
	if len(room.Members) == 0 {
		delete(s.rooms, code)
	}
}

// Members returns the room's membership in join order, or nil for an unknown code.
func (s *RoomService) Members(code string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil
	}
	return append([]string(nil), room.Members...)
}

func (s *RoomService) RoomOf(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.byMember[sessionID]
	return code, ok
}

func (s *RoomService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.rooms)
}

func (s *RoomService) Capacity() int { return s.capacity }
