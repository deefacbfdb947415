package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient registers a pump-less client so frames can be read
// straight off the send channel.
func testClient(t *testing.T, h *Hub, id string) *client {
	t.Helper()
	c := newClient(id, nil)
	h.add(c)
	return c
}

func drain(t *testing.T, c *client) []envelope {
	t.Helper()
	var out []envelope
	for {
		select {
		case frame := <-c.send:
			var env envelope
			require.NoError(t, json.Unmarshal(frame, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func TestToConn(t *testing.T) {
	h := NewHub()
	a := testClient(t, h, "a")
	b := testClient(t, h, "b")

	h.ToConn("a", "login", map[string]string{"username": "alice"})

	frames := drain(t, a)
	require.Len(t, frames, 1)
	assert.Equal(t, "login", frames[0].Event)
	assert.Empty(t, drain(t, b))

	// unknown connection is a no-op
	h.ToConn("nobody", "login", nil)
}

func TestGroupDelivery(t *testing.T) {
	h := NewHub()
	a := testClient(t, h, "a")
	b := testClient(t, h, "b")
	c := testClient(t, h, "c")

	h.JoinGroup("general", "a")
	h.JoinGroup("general", "b")

	h.ToGroup("general", "message", map[string]string{"text": "hi"})
	assert.Len(t, drain(t, a), 1)
	assert.Len(t, drain(t, b), 1)
	assert.Empty(t, drain(t, c))

	h.ToGroupExcept("general", "a", "typing", nil)
	assert.Empty(t, drain(t, a))
	assert.Len(t, drain(t, b), 1)

	// sends to a group nobody joined go nowhere
	h.ToGroup("ghost", "message", nil)
	assert.Empty(t, drain(t, a))
	assert.Empty(t, drain(t, b))
}

func TestLeaveGroupStopsDelivery(t *testing.T) {
	h := NewHub()
	a := testClient(t, h, "a")
	b := testClient(t, h, "b")

	h.JoinGroup("general", "a")
	h.JoinGroup("general", "b")
	h.LeaveGroup("general", "a")

	h.ToGroup("general", "userLeftRoom", nil)
	assert.Empty(t, drain(t, a))
	assert.Len(t, drain(t, b), 1)
}

func TestBroadcastAll(t *testing.T) {
	h := NewHub()
	a := testClient(t, h, "a")
	b := testClient(t, h, "b")

	h.ToAll("roomDeleted", nil)
	assert.Len(t, drain(t, a), 1)
	assert.Len(t, drain(t, b), 1)

	h.ToAllExcept("a", "roomCreated", nil)
	assert.Empty(t, drain(t, a))
	assert.Len(t, drain(t, b), 1)
}

func TestRemoveDropsClientEverywhere(t *testing.T) {
	h := NewHub()
	a := testClient(t, h, "a")
	b := testClient(t, h, "b")
	h.JoinGroup("general", "a")
	h.JoinGroup("general", "b")

	h.remove(a)

	// send channel is closed exactly once; double remove is safe
	_, open := <-a.send
	assert.False(t, open)
	h.remove(a)

	h.ToGroup("general", "message", nil)
	h.ToAll("roomDeleted", nil)
	assert.Len(t, drain(t, b), 2)
}

func TestFullBufferDropsFrame(t *testing.T) {
	h := NewHub()
	c := testClient(t, h, "a")

	for i := 0; i < sendBuffer+10; i++ {
		h.ToConn("a", "message", i)
	}
	assert.Len(t, drain(t, c), sendBuffer)
}

func TestEnvelopeShape(t *testing.T) {
	h := NewHub()
	c := testClient(t, h, "a")

	h.ToConn("a", "logout", nil)

	frame := <-c.send
	assert.JSONEq(t, `{"event":"logout"}`, string(frame))
}
