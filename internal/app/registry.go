package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/connectsphere/server/internal/core"
	"github.com/connectsphere/server/internal/domain"
)

type roomState struct {
	room    domain.Room
	members map[domain.ConnID]*domain.Participant
	history []domain.Message
}

type connEntry struct {
	conn core.SignalConnection
	sess *domain.Session // nil until the connection joins a room
}

// MemberConn is a fan-out target: one member's identity plus its
// transport endpoint, snapshotted under the read lock.
type MemberConn struct {
	ID   domain.ConnID
	Conn core.SignalConnection
}

// RoomSnapshot is the read-only view sent to a joining connection and
// served by the HTTP API.
type RoomSnapshot struct {
	Users     []domain.Participant `json:"users"`
	Messages  []domain.Message     `json:"messages"`
	RoomID    domain.RoomID        `json:"roomId"`
	CreatedAt time.Time            `json:"createdAt"`
}

// Registry is the authoritative in-memory store of rooms, their
// members, and per-connection sessions. One lock covers both maps so
// a reader never observes a half-applied join or leave.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*roomState
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[domain.RoomID]*roomState),
		conns: make(map[domain.ConnID]*connEntry),
	}
}

// Bind attaches a live connection's transport endpoint. Called by the
// adapter on accept, before any join.
func (r *Registry) Bind(cid domain.ConnID, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[cid] = &connEntry{conn: conn}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("bound connection")
}

// Unbind forgets a connection entirely. Membership must already be
// cleaned up via RemoveMember.
func (r *Registry) Unbind(cid domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, cid)
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("unbound connection")
}

// Conn returns the transport endpoint for one connection.
func (r *Registry) Conn(cid domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[cid]
	if !ok || e.conn == nil {
		return nil, false
	}
	return e.conn, true
}

// AddMember attaches a bound connection to a room, creating the room
// lazily. Re-adding the same connection overwrites its entry, it
// never duplicates. Returns nil for an unbound connection.
func (r *Registry) AddMember(roomID domain.RoomID, cid domain.ConnID, username string) *domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.conns[cid]
	if !ok {
		log.Warn().Str("module", "app.registry").Str("cid", string(cid)).Msg("add member for unbound connection")
		return nil
	}

	rs, ok := r.rooms[roomID]
	if !ok {
		rs = &roomState{
			room:    domain.Room{ID: roomID, CreatedAt: time.Now()},
			members: make(map[domain.ConnID]*domain.Participant),
		}
		r.rooms[roomID] = rs
		log.Info().Str("module", "app.registry").Str("room", string(roomID)).Msg("room created")
	}

	p := domain.NewParticipant(cid, username)
	rs.members[cid] = p
	e.sess = &domain.Session{ConnID: cid, Username: username, RoomID: roomID}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("room", string(roomID)).Str("username", username).Msg("member added")
	return p
}

// RemoveMember detaches a connection from its current room via its
// session, destroys the session, and deletes the room the moment it
// becomes empty. A connection with no session is a no-op.
func (r *Registry) RemoveMember(cid domain.ConnID) (*domain.Participant, domain.RoomID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.conns[cid]
	if !ok || e.sess == nil {
		return nil, "", false
	}
	roomID := e.sess.RoomID
	e.sess = nil

	rs, ok := r.rooms[roomID]
	if !ok {
		return nil, "", false
	}
	p := rs.members[cid]
	delete(rs.members, cid)
	if len(rs.members) == 0 {
		delete(r.rooms, roomID)
		log.Info().Str("module", "app.registry").Str("room", string(roomID)).Msg("room removed, last member left")
	}
	if p == nil {
		return nil, "", false
	}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("room", string(roomID)).Msg("member removed")
	return p, roomID, true
}

// GetSession returns a copy of the connection's session, if joined.
func (r *Registry) GetSession(cid domain.ConnID) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[cid]
	if !ok || e.sess == nil {
		return domain.Session{}, false
	}
	return *e.sess, true
}

// AppendMessage stores a chat message in the room's bounded history.
// The oldest entry is evicted once the log passes domain.HistoryLimit.
// Returns ErrRoomNotFound when the room is gone (caller treats the
// message as dropped) and ErrMessageTooLong for an over-cap body.
func (r *Registry) AppendMessage(roomID domain.RoomID, msg domain.Message) (domain.Message, error) {
	if len(msg.Body) > domain.MaxMessageLen {
		return domain.Message{}, domain.ErrMessageTooLong
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	rs, ok := r.rooms[roomID]
	if !ok {
		return domain.Message{}, domain.ErrRoomNotFound
	}
	rs.history = append(rs.history, msg)
	if len(rs.history) > domain.HistoryLimit {
		rs.history = rs.history[len(rs.history)-domain.HistoryLimit:]
	}
	return msg, nil
}

// ListMembers returns the room's current participants.
func (r *Registry) ListMembers(roomID domain.RoomID) []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	return lo.Map(lo.Values(rs.members), func(p *domain.Participant, _ int) domain.Participant {
		return *p
	})
}

// MembersOf snapshots the fan-out targets of a room. Entries without
// a live transport are skipped.
func (r *Registry) MembersOf(roomID domain.RoomID) []MemberConn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]MemberConn, 0, len(rs.members))
	for cid := range rs.members {
		if e, ok := r.conns[cid]; ok && e.conn != nil {
			out = append(out, MemberConn{ID: cid, Conn: e.conn})
		}
	}
	return out
}

// Snapshot builds the full room view for room-data and the HTTP API.
func (r *Registry) Snapshot(roomID domain.RoomID) (RoomSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rs, ok := r.rooms[roomID]
	if !ok {
		return RoomSnapshot{}, false
	}
	snap := RoomSnapshot{
		Users: lo.Map(lo.Values(rs.members), func(p *domain.Participant, _ int) domain.Participant {
			return *p
		}),
		Messages:  append([]domain.Message(nil), rs.history...),
		RoomID:    rs.room.ID,
		CreatedAt: rs.room.CreatedAt,
	}
	if snap.Messages == nil {
		snap.Messages = []domain.Message{}
	}
	return snap, true
}

// Counts reports active rooms and joined users for observability.
func (r *Registry) Counts() (rooms, users int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms = len(r.rooms)
	for _, e := range r.conns {
		if e.sess != nil {
			users++
		}
	}
	return rooms, users
}
