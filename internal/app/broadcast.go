package app

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/connectsphere/server/internal/domain"
)

// Broadcaster delivers chat messages and typing indicators. Chat goes
// to the whole room, sender included, so the echo doubles as a
// delivery acknowledgment; typing goes to everyone but the sender.
type Broadcaster struct {
	reg *Registry
}

func NewBroadcaster(reg *Registry) *Broadcaster {
	return &Broadcaster{reg: reg}
}

// SendChat validates, stores, and fans out one chat message. Missing
// fields and over-cap bodies are reported to the sender only; a room
// that vanished mid-flight drops the message silently.
func (b *Broadcaster) SendChat(cid domain.ConnID, roomID domain.RoomID, username, body, id, timestamp string) {
	if roomID == "" || username == "" || body == "" {
		sendError(b.reg, cid, evError, "Invalid message data")
		return
	}
	if len(body) > domain.MaxMessageLen {
		sendError(b.reg, cid, evError, "Message too long")
		return
	}

	msg, err := domain.NewMessage(id, username, body, timestamp)
	if err != nil {
		sendError(b.reg, cid, evError, "Invalid message data")
		return
	}

	stored, err := b.reg.AppendMessage(roomID, msg)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			// Race between a disconnect and an in-flight send:
			// the room is gone, the message is dropped without
			// a word to the sender.
			log.Debug().Str("module", "app.broadcast").Str("room", string(roomID)).Msg("message dropped, room gone")
			return
		}
		sendError(b.reg, cid, evError, "Failed to send message")
		return
	}

	fanout(b.reg.MembersOf(roomID), "", chatEvent{Type: evReceiveMessage, Message: stored})
	log.Debug().Str("module", "app.broadcast").Str("room", string(roomID)).Str("username", username).Msg("message broadcast")
}

// TypingStart fans a typing indicator out to the other room members.
// Stateless: there is no server-side timeout, the client is expected
// to send the matching stop.
func (b *Broadcaster) TypingStart(cid domain.ConnID, roomID domain.RoomID, username string) {
	b.typing(cid, roomID, username, evTypingStart)
}

// TypingStop fans the matching stop indicator out.
func (b *Broadcaster) TypingStop(cid domain.ConnID, roomID domain.RoomID, username string) {
	b.typing(cid, roomID, username, evTypingStop)
}

func (b *Broadcaster) typing(cid domain.ConnID, roomID domain.RoomID, username, event string) {
	if roomID == "" || username == "" {
		return
	}
	fanout(b.reg.MembersOf(roomID), cid, typingEvent{Type: event, Username: username})
}
