package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgrid/relay-service/internal/protocol"
)

func env(cmd string) protocol.Envelope {
	return protocol.Envelope{Cmd: cmd, Content: struct{}{}}
}

func TestRegistryTracksLiveSet(t *testing.T) {
	r := NewRegistry()
	a := newFakeConn("a")
	b := newFakeConn("b")

	r.Register(a)
	r.Register(b)
	assert.Equal(t, 2, r.Count())
	assert.True(t, r.Contains("a"))

	require.True(t, r.Unregister("a"))
	assert.False(t, r.Contains("a"))
	assert.Equal(t, 1, r.Count())

	// a second unregister reports nothing removed
	assert.False(t, r.Unregister("a"))
}

func TestSendToUnknownSessionIsNoop(t *testing.T) {
	r := NewRegistry()

	r.Send("ghost", env("update_position"))
}

func TestSendSkipsClosedConnection(t *testing.T) {
	r := NewRegistry()
	a := newFakeConn("a")
	r.Register(a)
	a.close()

	r.Send("a", env("new_chat_message"))
	assert.Empty(t, a.cmds())
}

func TestBroadcastToExcludesSender(t *testing.T) {
	r := NewRegistry()
	a := newFakeConn("a")
	b := newFakeConn("b")
	c := newFakeConn("c")
	r.Register(a)
	r.Register(b)
	r.Register(c)

	r.BroadcastTo([]string{"a", "b"}, env("update_position"), "a")

	assert.Empty(t, a.cmds())
	assert.Equal(t, []string{"update_position"}, b.cmds())
	assert.Empty(t, c.cmds(), "not in scope")
}

func TestBroadcastToSkipsDepartedMembers(t *testing.T) {
	r := NewRegistry()
	b := newFakeConn("b")
	r.Register(b)

	// "a" left between the membership snapshot and the fan-out
	r.BroadcastTo([]string{"a", "b"}, env("room_joined"), "")
	assert.Equal(t, []string{"room_joined"}, b.cmds())
}

func TestBroadcastAllExcludesSender(t *testing.T) {
	r := NewRegistry()
	a := newFakeConn("a")
	b := newFakeConn("b")
	r.Register(a)
	r.Register(b)

	r.BroadcastAll(env("player_disconnected"), "a")

	assert.Empty(t, a.cmds())
	assert.Equal(t, []string{"player_disconnected"}, b.cmds())
}
