package app

import (
	"github.com/rs/zerolog/log"

	"github.com/connectsphere/server/internal/domain"
)

// Lifecycle drives the per-connection state machine: unjoined until
// the first successful join, joined to exactly one room at a time,
// gone after disconnect. It owns all registry mutation for join,
// room switch, and disconnect.
type Lifecycle struct {
	reg *Registry
}

func NewLifecycle(reg *Registry) *Lifecycle {
	return &Lifecycle{reg: reg}
}

// Join validates and executes join-room. A connection already in a
// room (the same one included) is fully detached first, with a
// user-left to the old room, before it appears in the new one. The
// joiner alone receives the room-data snapshot; everyone else in the
// new room receives user-joined.
func (l *Lifecycle) Join(cid domain.ConnID, roomID domain.RoomID, username string) {
	if roomID == "" || username == "" {
		log.Warn().Str("module", "app.lifecycle").Str("cid", string(cid)).Msg("join rejected, missing room or username")
		sendError(l.reg, cid, evJoinError, "Room ID and username are required")
		return
	}

	l.leave(cid)

	p := l.reg.AddMember(roomID, cid, username)
	if p == nil {
		sendError(l.reg, cid, evError, "Failed to join room")
		return
	}
	log.Info().Str("module", "app.lifecycle").Str("cid", string(cid)).Str("room", string(roomID)).Str("username", username).Msg("joined room")

	if conn, ok := l.reg.Conn(cid); ok {
		if snap, ok := l.reg.Snapshot(roomID); ok {
			emit(conn, roomDataEvent{Type: evRoomData, RoomSnapshot: snap})
		}
	}

	fanout(l.reg.MembersOf(roomID), cid, presenceEvent{Type: evUserJoined, User: *p})
}

// Disconnect runs the leave sequence and forgets the connection.
// Safe to call any number of times, including for connections that
// never joined.
func (l *Lifecycle) Disconnect(cid domain.ConnID) {
	l.leave(cid)
	l.reg.Unbind(cid)
}

// leave detaches the connection from its current room, if any, and
// notifies the remaining members. No-op for unjoined connections.
func (l *Lifecycle) leave(cid domain.ConnID) {
	p, roomID, ok := l.reg.RemoveMember(cid)
	if !ok {
		return
	}
	log.Info().Str("module", "app.lifecycle").Str("cid", string(cid)).Str("room", string(roomID)).Msg("left room")
	// The leaver is already out of the membership set, so this
	// reaches only the others.
	fanout(l.reg.MembersOf(roomID), cid, presenceEvent{Type: evUserLeft, User: *p})
}
