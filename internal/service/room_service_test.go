package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgrid/relay-service/internal/domain"
)

func TestCreateOpensRoomWithCreator(t *testing.T) {
	s := NewRoomService(2, 6, nil)

	code := s.Create("a")

	require.Len(t, code, 6)
	for _, r := range code {
		assert.Contains(t, codeAlphabet, string(r))
	}
	assert.Equal(t, []string{"a"}, s.Members(code))

	got, ok := s.RoomOf("a")
	require.True(t, ok)
	assert.Equal(t, code, got)
	assert.Equal(t, 1, s.Count())
}

func TestJoinPreservesJoinOrder(t *testing.T) {
	s := NewRoomService(3, 6, nil)

	code := s.Create("a")
	members, err := s.Join(code, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, members)

	members, err = s.Join(code, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, members)
}

func TestJoinUnknownCode(t *testing.T) {
	s := NewRoomService(2, 6, nil)
	s.Create("a")

	_, err := s.Join("ZZZZZZ", "b")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
	assert.Equal(t, 1, s.Count())

	_, ok := s.RoomOf("b")
	assert.False(t, ok)
}

func TestJoinFullRoomDoesNotMutate(t *testing.T) {
	s := NewRoomService(2, 6, nil)

	code := s.Create("a")
	_, err := s.Join(code, "b")
	require.NoError(t, err)

	_, err = s.Join(code, "c")
	require.ErrorIs(t, err, domain.ErrRoomFull)
	assert.Equal(t, []string{"a", "b"}, s.Members(code))

	_, ok := s.RoomOf("c")
	assert.False(t, ok)
}

func TestJoinOwnRoom(t *testing.T) {
	s := NewRoomService(2, 6, nil)

	code := s.Create("a")
	_, err := s.Join(code, "a")
	require.ErrorIs(t, err, domain.ErrAlreadyInRoom)
	assert.Equal(t, []string{"a"}, s.Members(code))
}

func TestLeaveDeletesEmptyRoom(t *testing.T) {
	s := NewRoomService(2, 6, nil)

	code := s.Create("a")
	gone, remaining, left := s.Leave("a")
	require.True(t, left)
	assert.Equal(t, code, gone)
	assert.Empty(t, remaining)
	assert.Equal(t, 0, s.Count())
	assert.Nil(t, s.Members(code))
}

func TestLeaveKeepsRemainingMembers(t *testing.T) {
	s := NewRoomService(3, 6, nil)

	code := s.Create("a")
	_, err := s.Join(code, "b")
	require.NoError(t, err)
	_, err = s.Join(code, "c")
	require.NoError(t, err)

	_, remaining, left := s.Leave("a")
	require.True(t, left)
	assert.Equal(t, []string{"b", "c"}, remaining)
	assert.Equal(t, []string{"b", "c"}, s.Members(code))
}

func TestLeaveWithoutRoom(t *testing.T) {
	s := NewRoomService(2, 6, nil)

	_, _, left := s.Leave("ghost")
	assert.False(t, left)
}

func TestDisbandEvictsEveryone(t *testing.T) {
	s := NewRoomService(2, 6, nil)

	code := s.Create("a")
	_, err := s.Join(code, "b")
	require.NoError(t, err)

	gone, evicted, ok := s.Disband("a")
	require.True(t, ok)
	assert.Equal(t, code, gone)
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, 0, s.Count())

	_, inRoom := s.RoomOf("b")
	assert.False(t, inRoom)
}

func TestCodeReusableAfterDisposal(t *testing.T) {
	rng := &scriptedRandom{codes: []string{"AB12CD", "AB12CD"}}
	s := NewRoomService(2, 6, rng)

	code := s.Create("a")
	require.Equal(t, "AB12CD", code)

	s.Leave("a")
	assert.Equal(t, "AB12CD", s.Create("b"))
}

func TestCodeCollisionRegenerates(t *testing.T) {
	rng := &scriptedRandom{codes: []string{"AB12CD", "AB12CD", "EF34GH"}}
	s := NewRoomService(2, 6, rng)

	require.Equal(t, "AB12CD", s.Create("a"))
	assert.Equal(t, "EF34GH", s.Create("b"))
	assert.Equal(t, 2, s.Count())
}

func TestSessionHoldsAtMostOneRoom(t *testing.T) {
	s := NewRoomService(2, 6, nil)

	first := s.Create("a")
	second := s.Create("a")
	require.NotEqual(t, first, second)

	got, ok := s.RoomOf("a")
	require.True(t, ok)
	assert.Equal(t, second, got)
	// the first room emptied and must be gone
	assert.Equal(t, 1, s.Count())
	assert.Nil(t, s.Members(first))
}

func TestJoinSwitchesRooms(t *testing.T) {
	s := NewRoomService(2, 6, nil)

	first := s.Create("a")
	second := s.Create("b")

	members, err := s.Join(second, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, members)
	assert.Nil(t, s.Members(first))
	assert.Equal(t, 1, s.Count())
}

func TestGeneratedCodesAreUppercaseAlphanumeric(t *testing.T) {
	s := NewRoomService(2, 6, nil)

	for i := 0; i < 20; i++ {
		code := s.Create("a")
		require.Len(t, code, 6)
		require.Equal(t, strings.ToUpper(code), code)
	}
}
