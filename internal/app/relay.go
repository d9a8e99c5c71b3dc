package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/connectsphere/server/internal/domain"
)

// Relay forwards call-lifecycle notices and WebRTC negotiation
// payloads. It never parses a payload and keeps no call state; any
// bookkeeping about who is in a call belongs to the clients.
type Relay struct {
	reg *Registry
}

func NewRelay(reg *Registry) *Relay {
	return &Relay{reg: reg}
}

// StartCall tells the other room members that a call began.
func (r *Relay) StartCall(cid domain.ConnID, roomID domain.RoomID, username, callType string) {
	log.Info().Str("module", "app.relay").Str("cid", string(cid)).Str("room", string(roomID)).Str("call_type", callType).Msg("call started")
	fanout(r.reg.MembersOf(roomID), cid, callStartedEvent{
		Type:     evUserStartedCall,
		UserID:   cid,
		Username: username,
		CallType: callType,
	})
}

// EndCall tells the whole room, the ender included, that the call is
// over.
func (r *Relay) EndCall(cid domain.ConnID, roomID domain.RoomID, username string) {
	log.Info().Str("module", "app.relay").Str("cid", string(cid)).Str("room", string(roomID)).Msg("call ended")
	fanout(r.reg.MembersOf(roomID), "", callEndedEvent{
		Type:     evCallEnded,
		UserID:   cid,
		Username: username,
	})
}

// Forward passes an offer, answer, or ice-candidate payload to exactly
// the addressed connection. Fire-and-forget: a missing target, an
// empty payload, or a target that already disconnected drops the
// message silently.
func (r *Relay) Forward(kind string, cid, target domain.ConnID, payload json.RawMessage) {
	if target == "" || len(payload) == 0 {
		return
	}
	conn, ok := r.reg.Conn(target)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("kind", kind).Str("target", string(target)).Msg("relay target gone, dropped")
		return
	}
	emit(conn, relayEvent{Type: kind, Sender: cid, Payload: payload})
	log.Debug().Str("module", "app.relay").Str("kind", kind).Str("from", string(cid)).Str("to", string(target)).Msg("relayed")
}
