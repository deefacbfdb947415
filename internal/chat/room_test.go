package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinOrCreate(t *testing.T) {
	d := NewDirectory()

	created, room, err := d.JoinOrCreate("general", Member{ClientID: "c1", Username: "alice"})
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, room.Users(), 1)

	created, room, err = d.JoinOrCreate("general", Member{ClientID: "c2", Username: "bob"})
	require.NoError(t, err)
	assert.False(t, created)

	// join order is preserved
	users := room.Users()
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func TestJoinOrCreateRejectsBannedRoomName(t *testing.T) {
	d := NewDirectory()

	created, room, err := d.JoinOrCreate("robots-only", Member{ClientID: "c1", Username: "alice"})
	require.ErrorIs(t, err, ErrRoomNameInvalid)
	assert.False(t, created)
	assert.Nil(t, room)
	assert.Empty(t, d.Snapshot())
}

func TestLeaveDeletesEmptyRoom(t *testing.T) {
	d := NewDirectory()
	_, _, err := d.JoinOrCreate("general", Member{ClientID: "c1", Username: "alice"})
	require.NoError(t, err)
	_, _, err = d.JoinOrCreate("general", Member{ClientID: "c2", Username: "bob"})
	require.NoError(t, err)

	deleted, room := d.Leave("general", "c1")
	assert.False(t, deleted)
	require.NotNil(t, room)
	require.Len(t, room.Users(), 1)
	assert.Equal(t, "bob", room.Users()[0].Username)

	deleted, room = d.Leave("general", "c2")
	assert.True(t, deleted)
	assert.Nil(t, room)

	// room existence is derived from membership
	_, ok := d.Room("general")
	assert.False(t, ok)
}

func TestLeaveAbsentRoomOrMemberIsNoOp(t *testing.T) {
	d := NewDirectory()

	deleted, room := d.Leave("nowhere", "c1")
	assert.False(t, deleted)
	assert.Nil(t, room)

	_, _, err := d.JoinOrCreate("general", Member{ClientID: "c1", Username: "alice"})
	require.NoError(t, err)

	deleted, room = d.Leave("general", "stranger")
	assert.False(t, deleted)
	require.NotNil(t, room)
	assert.Len(t, room.Users(), 1)
}

func TestDirectorySnapshot(t *testing.T) {
	d := NewDirectory()
	_, room, err := d.JoinOrCreate("general", Member{ClientID: "c1", Username: "alice"})
	require.NoError(t, err)
	room.append(Message{From: "alice", Text: "hi", When: 1})

	snap := d.Snapshot()
	require.Contains(t, snap, "general")
	assert.Equal(t, []User{{ClientID: "c1", Username: "alice"}}, snap["general"].Users)
	require.Len(t, snap["general"].Messages, 1)
	assert.Equal(t, "hi", snap["general"].Messages[0].Text)
}
