package chat

import (
	"errors"
	"strings"
)

// bannedNames rejects both usernames and room names. The match is a
// case-insensitive substring check, so e.g. "RoBot" is rejected by "bot".
var bannedNames = []string{"bot", "cu", "pau", "foder", "ass", "fuckyou", "fuck"}

// Error messages double as the client-facing error{message} text.
var (
	ErrUsernameInvalid = errors.New("Invalid username. Try another")
	ErrUsernameTaken   = errors.New("Username already taken. Try another")
	ErrRoomNameInvalid = errors.New("Invalid room name. Try another")
)

func isBannedName(name string) bool {
	lower := strings.ToLower(name)
	for _, banned := range bannedNames {
		if strings.Contains(lower, banned) {
			return true
		}
	}
	return false
}

// Registry tracks which display names are currently reserved,
// process-wide. Not safe for concurrent use on its own: the Broker
// serializes all access (see Broker.mu).
type Registry struct {
	reserved map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{reserved: make(map[string]struct{})}
}

// Reserve claims name until Release. The validity check is a
// case-insensitive substring match against the banned list, while the
// conflict check is case-sensitive exact equality. The asymmetry is
// part of the protocol contract: "Alice" and "alice" can coexist.
func (r *Registry) Reserve(name string) error {
	if isBannedName(name) {
		return ErrUsernameInvalid
	}
	if _, taken := r.reserved[name]; taken {
		return ErrUsernameTaken
	}
	r.reserved[name] = struct{}{}
	return nil
}

// Release frees name. Releasing a name that is not reserved is a no-op.
func (r *Registry) Release(name string) {
	delete(r.reserved, name)
}

// Reserved reports whether name is currently claimed.
func (r *Registry) Reserved(name string) bool {
	_, ok := r.reserved[name]
	return ok
}
