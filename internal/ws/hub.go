package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub is the connection registry. It tracks every live client plus the
// named groups the broker assigns them to (one group per room), and
// implements the chat.Sender delivery primitives on top of them.
//
// Marshaling happens inside the sending call, not in the writer
// goroutine: the broker invokes these primitives while holding its own
// lock, so every frame captures the snapshot that produced it.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	groups  map[string]map[string]*client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		groups:  make(map[string]map[string]*client),
	}
}

// Envelope wraps every outbound WS frame.
type envelope struct {
	Event string `json:"event"`
	Body  any    `json:"body,omitempty"`
}

func encodeFrame(event string, payload any) ([]byte, bool) {
	frame, err := json.Marshal(envelope{Event: event, Body: payload})
	if err != nil {
		zap.L().Error("ws.encode", zap.String("event", event), zap.Error(err))
		return nil, false
	}
	return frame, true
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

// remove unregisters the client and closes its send channel, which
// stops the write pump. The client is also dropped from every group it
// is still in, so a vanished connection cannot linger as an audience.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	for group, members := range h.groups {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.groups, group)
		}
	}
	h.mu.Unlock()
	close(c.send)
}

// JoinGroup subscribes connID to group, creating the group on first use.
func (h *Hub) JoinGroup(group, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}
	members, ok := h.groups[group]
	if !ok {
		members = make(map[string]*client)
		h.groups[group] = members
	}
	members[connID] = c
}

// LeaveGroup unsubscribes connID from group; empty groups are removed.
func (h *Hub) LeaveGroup(group, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.groups, group)
	}
}

// ToConn delivers to a single connection.
func (h *Hub) ToConn(connID, event string, payload any) {
	frame, ok := encodeFrame(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	c, found := h.clients[connID]
	h.mu.RUnlock()
	if found {
		c.enqueue(frame)
	}
}

// ToGroup delivers to every member of group. Unknown groups have an
// empty audience.
func (h *Hub) ToGroup(group, event string, payload any) {
	h.toGroup(group, "", event, payload)
}

// ToGroupExcept delivers to every member of group but exceptConnID.
func (h *Hub) ToGroupExcept(group, exceptConnID, event string, payload any) {
	h.toGroup(group, exceptConnID, event, payload)
}

// ToAll delivers to every live connection.
func (h *Hub) ToAll(event string, payload any) {
	h.toAll("", event, payload)
}

// ToAllExcept delivers to every live connection but exceptConnID.
func (h *Hub) ToAllExcept(exceptConnID, event string, payload any) {
	h.toAll(exceptConnID, event, payload)
}

func (h *Hub) toGroup(group, exceptConnID, event string, payload any) {
	frame, ok := encodeFrame(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.groups[group] {
		if id == exceptConnID {
			continue
		}
		c.enqueue(frame)
	}
}

func (h *Hub) toAll(exceptConnID, event string, payload any) {
	frame, ok := encodeFrame(event, payload)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		if id == exceptConnID {
			continue
		}
		c.enqueue(frame)
	}
}
