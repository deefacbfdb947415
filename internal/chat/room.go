package chat

// Member is one session's participation record in a room.
type Member struct {
	ClientID string
	Username string
}

// Room holds the join-ordered member list and the append-only message
// log for one named room. A Room only ever exists inside a Directory,
// and only while it has at least one member.
type Room struct {
	name     string
	members  []Member
	messages []Message
}

func (r *Room) append(msg Message) []Message {
	r.messages = append(r.messages, msg)
	return r.messages
}

// Users returns the member list in join order, in wire shape.
func (r *Room) Users() []User {
	users := make([]User, 0, len(r.members))
	for _, m := range r.members {
		users = append(users, User{ClientID: m.ClientID, Username: m.Username})
	}
	return users
}

// Snapshot returns the client-facing view of the room.
func (r *Room) Snapshot() RoomSnapshot {
	return RoomSnapshot{Users: r.Users(), Messages: r.messages}
}

// Directory owns the room-name → room mapping. Room existence is
// derived from membership: the last leave deletes the room in the same
// step, so an empty room is never observable. Like Registry, access is
// serialized by the Broker.
type Directory struct {
	rooms map[string]*Room
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[string]*Room)}
}

// JoinOrCreate appends member to an existing room, or validates
// roomName and creates the room with member as its sole occupant.
// There is no duplicate-membership check; the Broker guarantees at
// most one active room per session.
func (d *Directory) JoinOrCreate(roomName string, member Member) (created bool, room *Room, err error) {
	if room, ok := d.rooms[roomName]; ok {
		room.members = append(room.members, member)
		return false, room, nil
	}
	if isBannedName(roomName) {
		return false, nil, ErrRoomNameInvalid
	}
	room = &Room{name: roomName, members: []Member{member}}
	d.rooms[roomName] = room
	return true, room, nil
}

// Leave removes the member with clientID from the room. Removing the
// last member deletes the room synchronously and returns deleted=true
// with room=nil. Absent rooms or members are a no-op.
func (d *Directory) Leave(roomName, clientID string) (deleted bool, room *Room) {
	room, ok := d.rooms[roomName]
	if !ok {
		return false, nil
	}
	kept := room.members[:0]
	for _, m := range room.members {
		if m.ClientID != clientID {
			kept = append(kept, m)
		}
	}
	room.members = kept
	if len(room.members) == 0 {
		delete(d.rooms, roomName)
		return true, nil
	}
	return false, room
}

// Room looks up a room by name.
func (d *Directory) Room(name string) (*Room, bool) {
	room, ok := d.rooms[name]
	return room, ok
}

// Snapshot returns the full directory in wire shape.
func (d *Directory) Snapshot() DirectorySnapshot {
	snap := make(DirectorySnapshot, len(d.rooms))
	for name, room := range d.rooms {
		snap[name] = room.Snapshot()
	}
	return snap
}
