package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playgrid/relay-service/internal/domain"
	"github.com/playgrid/relay-service/internal/protocol"
)

// PlayerStore is the external store holding per-session game state. The relay
// only calls it; it never caches positions on its own.
type PlayerStore interface {
	Add(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Player, error)
	GetAll(ctx context.Context) ([]domain.Player, error)
	Update(ctx context.Context, id string, x, y float64) error
	Remove(ctx context.Context, id string) error
}

// Client-facing messages, kept in the language of the original game client.
const (
	msgWelcome      = "Bem-vindo ao servidor!"
	msgRoomNotFound = "Sala não encontrada!"
	msgRoomFull     = "Sala cheia!"
	msgInternal     = "Erro interno do servidor."
)

// RelayService orchestrates session lifecycle and the semantics behind every
// inbound command. It holds no game logic.
type RelayService struct {
	registry *Registry
	rooms    *RoomService
	store    PlayerStore
}

func NewRelayService(registry *Registry, rooms *RoomService, store PlayerStore) *RelayService {
	return &RelayService{
		registry: registry,
		rooms:    rooms,
		store:    store,
	}
}

// Connect provisions the session's player record and, once that succeeds,
// registers the connection, assigns identity, announces the newcomer to every
// peer and sends it a snapshot of the players already online. If provisioning
// fails the session is never registered nor announced; the caller closes the
// connection.
func (s *RelayService) Connect(ctx context.Context, c Conn) error {
	id := c.SessionID()
	if err := s.store.Add(ctx, id); err != nil {
		return fmt.Errorf("store.Add: %w", err)
	}

	s.registry.Register(c)

	s.registry.Send(id, protocol.Envelope{
		Cmd:     protocol.CmdJoinedServer,
		Content: protocol.WelcomeContent{Msg: msgWelcome, UUID: id},
	})

	s.registry.BroadcastAll(protocol.Envelope{
		Cmd:     protocol.CmdSpawnNewPlayer,
		Content: protocol.SpawnContent{Player: protocol.PlayerInfo{UUID: id}},
	}, id)

	players, err := s.store.GetAll(ctx)
	if err != nil {
		// the session stays up, it just starts without a snapshot
		slog.Warn("relay: player snapshot failed", "session", id, "err", err)
		return nil
	}
	infos := make([]protocol.PlayerInfo, 0, len(players))
	for _, p := range players {
		if p.ID == id {
			continue
		}
		infos = append(infos, protocol.PlayerInfo{UUID: p.ID, X: p.X, Y: p.Y})
	}
	s.registry.Send(id, protocol.Envelope{
		Cmd:     protocol.CmdSpawnNetworkPlayers,
		Content: protocol.NetworkPlayersContent{Players: infos},
	})

	return nil
}

// Disconnect tears the session down: unregister first so no later fan-out can
// reach the dead handle, then disband the room, drop the store record and
// tell the remaining peers. A repeated or never-connected session id is a
// no-op.
func (s *RelayService) Disconnect(ctx context.Context, sessionID string) {
	if !s.registry.Unregister(sessionID) {
		return
	}

	if code, evicted, ok := s.rooms.Disband(sessionID); ok {
		slog.Debug("relay: room disbanded", "session", sessionID, "room", code, "evicted", len(evicted))
	}

	if err := s.store.Remove(ctx, sessionID); err != nil {
		slog.Warn("relay: player remove failed", "session", sessionID, "err", err)
	}

	s.registry.BroadcastAll(protocol.Envelope{
		Cmd:     protocol.CmdPlayerDisconnected,
		Content: protocol.PlayerRefContent{UUID: sessionID},
	}, sessionID)
}

// CreateRoom opens a fresh room for the session and returns its code.
func (s *RelayService) CreateRoom(ctx context.Context, sessionID string) string {
	code := s.rooms.Create(sessionID)

	s.registry.Send(sessionID, protocol.Envelope{
		Cmd:     protocol.CmdRoomCreated,
		Content: protocol.RoomContent{Code: code},
	})
	s.registry.Send(sessionID, protocol.Envelope{
		Cmd:     protocol.CmdSpawnLocalPlayer,
		Content: protocol.SpawnContent{Player: s.playerInfo(ctx, sessionID)},
	})

	return code
}

// JoinRoom adds the session to an existing room. Room errors go back to the
// requester as typed envelopes and leave the directory untouched.
func (s *RelayService) JoinRoom(ctx context.Context, sessionID, code string) {
	members, err := s.rooms.Join(code, sessionID)
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		s.registry.Send(sessionID, protocol.Envelope{
			Cmd:     protocol.CmdServerError,
			Content: protocol.ErrorContent{Msg: msgRoomNotFound},
		})
		return
	case errors.Is(err, domain.ErrRoomFull):
		s.registry.Send(sessionID, protocol.Envelope{
			Cmd:     protocol.CmdError,
			Content: protocol.ErrorContent{Msg: msgRoomFull},
		})
		return
	case errors.Is(err, domain.ErrAlreadyInRoom):
		return
	case err != nil:
		slog.Error("relay: join room", "session", sessionID, "room", code, "err", err)
		s.registry.Send(sessionID, protocol.Envelope{
			Cmd:     protocol.CmdServerError,
			Content: protocol.ErrorContent{Msg: msgInternal},
		})
		return
	}

	s.registry.BroadcastTo(members, protocol.Envelope{
		Cmd:     protocol.CmdRoomJoined,
		Content: protocol.RoomContent{Code: code},
	}, "")

	joiner := s.playerInfo(ctx, sessionID)
	s.registry.Send(sessionID, protocol.Envelope{
		Cmd:     protocol.CmdSpawnLocalPlayer,
		Content: protocol.SpawnContent{Player: joiner},
	})
	for _, m := range members {
		if m == sessionID {
			continue
		}
		s.registry.Send(m, protocol.Envelope{
			Cmd:     protocol.CmdSpawnNewPlayer,
			Content: protocol.SpawnContent{Player: joiner},
		})
		s.registry.Send(sessionID, protocol.Envelope{
			Cmd:     protocol.CmdSpawnNewPlayer,
			Content: protocol.SpawnContent{Player: s.playerInfo(ctx, m)},
		})
	}

	if len(members) >= s.rooms.Capacity() {
		s.registry.BroadcastTo(members, protocol.Envelope{
			Cmd:     protocol.CmdStartGame,
			Content: struct{}{},
		}, "")
	}
}

// UpdatePosition writes the authoritative record and fans the move out to the
// sender's room, never back to the sender. A roomless session only updates
// the store.
func (s *RelayService) UpdatePosition(ctx context.Context, sessionID string, x, y float64) {
	if err := s.store.Update(ctx, sessionID, x, y); err != nil {
		slog.Warn("relay: position update failed", "session", sessionID, "err", err)
	}

	code, ok := s.rooms.RoomOf(sessionID)
	if !ok {
		return
	}
	s.registry.BroadcastTo(s.rooms.Members(code), protocol.Envelope{
		Cmd:     protocol.CmdUpdatePosition,
		Content: protocol.PositionContent{UUID: sessionID, X: x, Y: y},
	}, sessionID)
}

// Chat is room-scoped, sender included. Sessions outside any room talk on the
// server-wide lobby instead.
func (s *RelayService) Chat(ctx context.Context, sessionID, msg string) {
	env := protocol.Envelope{
		Cmd:     protocol.CmdNewChatMessage,
		Content: protocol.ChatContent{Msg: msg},
	}

	if code, ok := s.rooms.RoomOf(sessionID); ok {
		s.registry.BroadcastTo(s.rooms.Members(code), env, "")
		return
	}
	s.registry.BroadcastAll(env, "")
}

func (s *RelayService) playerInfo(ctx context.Context, sessionID string) protocol.PlayerInfo {
	info := protocol.PlayerInfo{UUID: sessionID}
	if p, err := s.store.Get(ctx, sessionID); err == nil {
		info.X, info.Y = p.X, p.Y
	}
	return info
}
