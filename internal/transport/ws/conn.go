package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/playgrid/relay-service/internal/protocol"
)

type wsConn struct {
	conn      *websocket.Conn
	sessionID string
	sendMu    chan struct{}
	closed    chan struct{}
}

func newWsConn(c *websocket.Conn, sessionID string) *wsConn {
	return &wsConn{
		conn:      c,
		sessionID: sessionID,
		sendMu:    make(chan struct{}, 1),
		closed:    make(chan struct{}),
	}
}

func (c *wsConn) Send(env protocol.Envelope) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(env)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}

func (c *wsConn) SessionID() string { return c.sessionID }
