package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/playgrid/relay-service/internal/protocol"
	"github.com/playgrid/relay-service/internal/service"
)

type Server struct {
	upgrader websocket.Upgrader
	relay    *service.RelayService

	pingEvery time.Duration
}

func NewServer(relay *service.RelayService) *Server {
	return &Server{
		relay: relay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
	}
}

// WS endpoint: GET /ws
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn, uuid.NewString())
	slog.Info("ws connected", "session", c.sessionID)

	if err := s.relay.Connect(r.Context(), c); err != nil {
		slog.Error("ws session provisioning failed", "session", c.sessionID, "err", err)
		_ = c.Send(protocol.Envelope{
			Cmd:     protocol.CmdServerError,
			Content: protocol.ErrorContent{Msg: "Erro interno do servidor."},
		})
		_ = c.Close()
		return
	}

	go s.writeLoop(r.Context(), c)
	s.readLoop(r.Context(), c)

	s.relay.Disconnect(r.Context(), c.sessionID)
	_ = c.Close()
	slog.Info("ws disconnected", "session", c.sessionID)
}

func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			// a bad frame costs the frame, not the connection
			slog.Warn("ws frame dropped", "session", c.sessionID, "err", err)
			continue
		}
		s.dispatch(ctx, c, env)
	}
}

func (s *Server) dispatch(ctx context.Context, c *wsConn, env protocol.Envelope) {
	switch env.Cmd {
	case protocol.CmdCreateRoom:
		code := s.relay.CreateRoom(ctx, c.sessionID)
		slog.Info("room created", "session", c.sessionID, "room", code)

	case protocol.CmdJoinRoom:
		var p protocol.RoomContent
		if err := protocol.Decode(env.Content, &p); err != nil || p.Code == "" {
			slog.Warn("ws join_room dropped", "session", c.sessionID, "err", err)
			return
		}
		s.relay.JoinRoom(ctx, c.sessionID, p.Code)

	case protocol.CmdPosition:
		var p protocol.PositionContent
		if err := protocol.Decode(env.Content, &p); err != nil {
			slog.Warn("ws position dropped", "session", c.sessionID, "err", err)
			return
		}
		s.relay.UpdatePosition(ctx, c.sessionID, p.X, p.Y)

	case protocol.CmdChat:
		var p protocol.ChatContent
		if err := protocol.Decode(env.Content, &p); err != nil {
			slog.Warn("ws chat dropped", "session", c.sessionID, "err", err)
			return
		}
		if strings.TrimSpace(p.Msg) == "" {
			return
		}
		s.relay.Chat(ctx, c.sessionID, p.Msg)

	default:
		slog.Warn("ws unknown cmd", "session", c.sessionID, "cmd", env.Cmd)
	}
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}
