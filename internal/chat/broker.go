// Package chat implements the broker core: display-name reservation,
// the room directory, per-connection sessions, and the event fan-out
// rules that tie them together. All state lives in memory and is
// discarded on shutdown.
package chat

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sender is the transport collaborator the broker fans events out
// through. Group membership mirrors room membership and is maintained
// by the broker via JoinGroup/LeaveGroup. Delivery is fire-and-forget:
// a dropped connection loses the frame, nothing is retried.
type Sender interface {
	ToConn(connID, event string, payload any)
	ToGroup(group, event string, payload any)
	ToGroupExcept(group, exceptConnID, event string, payload any)
	ToAll(event string, payload any)
	ToAllExcept(exceptConnID, event string, payload any)
	JoinGroup(group, connID string)
	LeaveGroup(group, connID string)
}

// session is the broker-side state of one live connection.
type session struct {
	connID     string
	username   string // empty until login succeeds
	activeRoom string // non-empty implies username is non-empty
}

// Broker is the single serialization domain for all chat state. Every
// operation takes mu for its full duration, including computing the
// payloads and handing them to the Sender, so each broadcast reflects
// exactly the state produced by its own mutation. Per-room locking
// would not give that: room creation and deletion touch the whole
// directory and ship directory-wide snapshots.
type Broker struct {
	mu       sync.Mutex
	sender   Sender
	names    *Registry
	rooms    *Directory
	sessions map[string]*session
	now      func() time.Time
}

func NewBroker(sender Sender) *Broker {
	return &Broker{
		sender:   sender,
		names:    NewRegistry(),
		rooms:    NewDirectory(),
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Connect registers a fresh session for connID.
func (b *Broker) Connect(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sessions[connID] = &session{connID: connID}
	zap.L().Debug("chat.connected", zap.String("conn", connID))
}

// Disconnect runs the full logout cascade (leave room, possible room
// deletion, name release) and discards the session. Safe to call for
// sessions that never logged in.
func (b *Broker) Disconnect(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sess, ok := b.sessions[connID]
	if !ok {
		return
	}
	b.logout(sess)
	delete(b.sessions, connID)
	zap.L().Debug("chat.disconnected", zap.String("conn", connID))
}

// Login validates and reserves username for the session. Failures are
// reported only to the caller's connection as an error event; success
// answers with the directory snapshot and the accepted name.
func (b *Broker) Login(connID, username string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sess, ok := b.sessions[connID]
	if !ok {
		return
	}
	if err := b.names.Reserve(username); err != nil {
		b.sender.ToConn(connID, EventError, ErrorPayload{Message: err.Error()})
		zap.L().Warn("chat.login_rejected",
			zap.String("conn", connID),
			zap.String("username", username),
			zap.Error(err),
		)
		return
	}
	sess.username = username
	b.sender.ToConn(connID, EventLogin, LoginPayload{Rooms: b.rooms.Snapshot(), Username: username})
	zap.L().Info("chat.logged_in", zap.String("conn", connID), zap.String("username", username))
}

// Logout is a no-op for sessions with no reserved name.
func (b *Broker) Logout(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sess, ok := b.sessions[connID]; ok {
		b.logout(sess)
	}
}

// JoinOrCreateRoom puts the session into roomName, creating the room
// if needed. Ignored for sessions without a name.
func (b *Broker) JoinOrCreateRoom(connID, roomName string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sess, ok := b.sessions[connID]
	if !ok || sess.username == "" {
		return
	}

	created, room, err := b.rooms.JoinOrCreate(roomName, Member{ClientID: connID, Username: sess.username})
	if err != nil {
		b.sender.ToConn(connID, EventError, ErrorPayload{Message: err.Error()})
		zap.L().Warn("chat.join_rejected",
			zap.String("conn", connID),
			zap.String("room", roomName),
			zap.Error(err),
		)
		return
	}
	if created {
		b.sender.ToAllExcept(connID, EventRoomCreated, RoomCreatedPayload{
			RoomName: roomName,
			Rooms:    b.rooms.Snapshot(),
		})
	}

	sess.activeRoom = roomName
	b.sender.JoinGroup(roomName, connID)
	b.sender.ToConn(connID, EventJoinedRoom, JoinedRoomPayload{RoomName: roomName, Room: room.Snapshot()})
	b.sender.ToGroupExcept(roomName, connID, EventUserJoinRoom, UserJoinRoomPayload{
		Username: sess.username,
		Users:    room.Users(),
	})
	zap.L().Info("chat.joined_room",
		zap.String("conn", connID),
		zap.String("username", sess.username),
		zap.String("room", roomName),
		zap.Bool("created", created),
	)
}

// LeaveRoom removes the session from its active room. Ignored for
// sessions without one.
func (b *Broker) LeaveRoom(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sess, ok := b.sessions[connID]
	if !ok || sess.activeRoom == "" {
		return
	}
	b.leaveRoom(sess)
}

// SendMessage appends text to the active room's log and delivers the
// new message plus the full log to every member, sender included.
// Ignored unless the session has both a name and an active room.
func (b *Broker) SendMessage(connID, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sess, ok := b.sessions[connID]
	if !ok || sess.username == "" || sess.activeRoom == "" {
		return
	}
	room, ok := b.rooms.Room(sess.activeRoom)
	if !ok {
		return
	}

	msg := Message{From: sess.username, Text: text, When: b.now().UnixMilli()}
	log := room.append(msg)
	b.sender.ToGroup(sess.activeRoom, EventMessage, MessagePayload{Message: msg, Messages: log})
	zap.L().Debug("chat.message",
		zap.String("room", sess.activeRoom),
		zap.String("from", sess.username),
	)
}

// Typing relays the typing flag to the other members of the active
// room. No typing state is kept server-side.
func (b *Broker) Typing(connID string, typing bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sess, ok := b.sessions[connID]
	if !ok || sess.username == "" || sess.activeRoom == "" {
		return
	}
	b.sender.ToGroupExcept(sess.activeRoom, connID, EventTyping, TypingPayload{
		Username: sess.username,
		Typing:   typing,
	})
}

// Snapshot returns the current directory in wire shape.
func (b *Broker) Snapshot() DirectorySnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rooms.Snapshot()
}

// RoomSnapshot returns one room's state, if the room exists.
func (b *Broker) RoomSnapshot(name string) (RoomSnapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	room, ok := b.rooms.Room(name)
	if !ok {
		return RoomSnapshot{}, false
	}
	return room.Snapshot(), true
}

// logout runs the cascade with b.mu held: leave the active room first,
// then confirm to the client, release the name, clear the session.
func (b *Broker) logout(sess *session) {
	if sess.username == "" {
		return
	}
	if sess.activeRoom != "" {
		b.leaveRoom(sess)
	}
	b.sender.ToConn(sess.connID, EventLogout, nil)
	b.names.Release(sess.username)
	zap.L().Info("chat.logged_out", zap.String("conn", sess.connID), zap.String("username", sess.username))
	sess.username = ""
}

// leaveRoom removes sess from its active room with b.mu held. Deleting
// the last member drops the room and announces roomDeleted to everyone;
// otherwise the remaining members get userLeftRoom.
func (b *Broker) leaveRoom(sess *session) {
	roomName := sess.activeRoom
	deleted, room := b.rooms.Leave(roomName, sess.connID)
	if deleted {
		b.sender.ToAll(EventRoomDeleted, RoomDeletedPayload{
			ActiveRoomName: roomName,
			Rooms:          b.rooms.Snapshot(),
		})
		zap.L().Info("chat.room_deleted", zap.String("room", roomName))
	}

	b.sender.LeaveGroup(roomName, sess.connID)
	b.sender.ToConn(sess.connID, EventLeaveRoom, LeaveRoomPayload{Rooms: b.rooms.Snapshot()})
	if room != nil {
		b.sender.ToGroup(roomName, EventUserLeftRoom, UserLeftRoomPayload{
			Username: sess.username,
			Users:    room.Users(),
		})
	}
	sess.activeRoom = ""
	zap.L().Debug("chat.left_room",
		zap.String("conn", sess.connID),
		zap.String("username", sess.username),
		zap.String("room", roomName),
	)
}
