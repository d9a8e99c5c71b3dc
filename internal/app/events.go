package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/connectsphere/server/internal/core"
	"github.com/connectsphere/server/internal/domain"
)

// Server -> client event names, one per row of the outbound protocol.
const (
	evRoomData        = "room-data"
	evUserJoined      = "user-joined"
	evUserLeft        = "user-left"
	evReceiveMessage  = "receive-message"
	evTypingStart     = "typing-start"
	evTypingStop      = "typing-stop"
	evUserStartedCall = "user-started-call"
	evCallEnded       = "call-ended"
	evJoinError       = "join-error"
	evError           = "error"
)

type roomDataEvent struct {
	Type string `json:"type"`
	RoomSnapshot
}

type presenceEvent struct {
	Type string             `json:"type"`
	User domain.Participant `json:"user"`
}

type chatEvent struct {
	Type    string         `json:"type"`
	Message domain.Message `json:"message"`
}

type typingEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

type callStartedEvent struct {
	Type     string        `json:"type"`
	UserID   domain.ConnID `json:"userId"`
	Username string        `json:"username"`
	CallType string        `json:"callType"`
}

type callEndedEvent struct {
	Type     string        `json:"type"`
	UserID   domain.ConnID `json:"userId"`
	Username string        `json:"username"`
}

type relayEvent struct {
	Type    string          `json:"type"`
	Sender  domain.ConnID   `json:"sender"`
	Payload json.RawMessage `json:"payload"`
}

type errorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// emit marshals and fires one event at one connection. Delivery is
// fire-and-forget: a refused send is logged and forgotten.
func emit(conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.events").Msg("emit marshal")
		return
	}
	if err := conn.TrySend(b); err != nil {
		log.Debug().Err(err).Str("module", "app.events").Msg("emit dropped")
	}
}

// fanout delivers one event to every member except the excluded
// connection. Pass an empty ConnID to reach the whole room. A slow
// receiver is skipped, it never delays the others.
func fanout(members []MemberConn, except domain.ConnID, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.events").Msg("fanout marshal")
		return
	}
	for _, m := range members {
		if except != "" && m.ID == except {
			continue
		}
		if err := m.Conn.TrySend(b); err != nil {
			log.Debug().Err(err).Str("module", "app.events").Str("cid", string(m.ID)).Msg("fanout dropped")
		}
	}
}

// sendError reports a failure back to the originating connection only.
func sendError(reg *Registry, cid domain.ConnID, event, reason string) {
	conn, ok := reg.Conn(cid)
	if !ok {
		return
	}
	emit(conn, errorEvent{Type: event, Error: reason})
}
