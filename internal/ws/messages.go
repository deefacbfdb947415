package ws

import "encoding/json"

// InboundEnvelope wraps every WS frame coming from a client.
type InboundEnvelope struct {
	Event string          `json:"event"`
	Body  json.RawMessage `json:"body,omitempty"`
}

// ──────────────────────────── Request DTOs ────────────────────────────

// LoginRequest is the body for "login".
type LoginRequest struct {
	Username string `json:"username"`
}

// JoinOrCreateRoomRequest is the body for "joinOrCreateRoom".
type JoinOrCreateRoomRequest struct {
	RoomName string `json:"roomName"`
}

// MessageRequest is the body for "message".
type MessageRequest struct {
	Message string `json:"message"`
}

// TypingRequest is the body for "typing".
type TypingRequest struct {
	Typing bool `json:"typing"`
}

// Empty body for "logout" and "leaveRoom".
type EmptyRequest struct{}
