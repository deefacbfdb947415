package chat

// Outbound event names. These are the wire contract with the web client,
// so renaming any of them is a breaking change.
const (
	EventError        = "error"
	EventLogin        = "login"
	EventLogout       = "logout"
	EventJoinedRoom   = "joinedRoom"
	EventRoomCreated  = "roomCreated"
	EventRoomDeleted  = "roomDeleted"
	EventUserJoinRoom = "userJoinRoom"
	EventUserLeftRoom = "userLeftRoom"
	EventLeaveRoom    = "leaveRoom"
	EventMessage      = "message"
	EventTyping       = "typing"
)

// User is a room membership entry as seen by clients.
type User struct {
	ClientID string `json:"clientId"`
	Username string `json:"username"`
}

// Message is one chat message. Immutable once appended to a room log.
type Message struct {
	From string `json:"from"`
	Text string `json:"text"`
	When int64  `json:"when"` // unix milliseconds, display only
}

// RoomSnapshot is the client-facing view of a single room.
type RoomSnapshot struct {
	Users    []User    `json:"users"`
	Messages []Message `json:"messages"`
}

// DirectorySnapshot maps every existing room name to its current state.
// It is sent wholesale on login and on every room lifecycle event.
type DirectorySnapshot map[string]RoomSnapshot

// ─────────────────────────── Outbound payloads ──────────────────────────

type ErrorPayload struct {
	Message string `json:"message"`
}

type LoginPayload struct {
	Rooms    DirectorySnapshot `json:"rooms"`
	Username string            `json:"username"`
}

type JoinedRoomPayload struct {
	RoomName string       `json:"roomName"`
	Room     RoomSnapshot `json:"room"`
}

type RoomCreatedPayload struct {
	RoomName string            `json:"roomName"`
	Rooms    DirectorySnapshot `json:"rooms"`
}

type UserJoinRoomPayload struct {
	Username string `json:"username"`
	Users    []User `json:"users"`
}

type LeaveRoomPayload struct {
	Rooms DirectorySnapshot `json:"rooms"`
}

type RoomDeletedPayload struct {
	ActiveRoomName string            `json:"activeRoomName"`
	Rooms          DirectorySnapshot `json:"rooms"`
}

type UserLeftRoomPayload struct {
	Username string `json:"username"`
	Users    []User `json:"users"`
}

type MessagePayload struct {
	Message  Message   `json:"message"`
	Messages []Message `json:"messages"`
}

type TypingPayload struct {
	Username string `json:"username"`
	Typing   bool   `json:"typing"`
}
