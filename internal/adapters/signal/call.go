package signal

import (
	"encoding/json"

	"github.com/connectsphere/server/internal/domain"
)

func (ctl *SignalWSController) handleStartCall(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type startCallPayload struct {
		Type     string `json:"type"`
		RoomID   string `json:"roomId"`
		Username string `json:"username"`
		CallType string `json:"callType"`
	}
	var p startCallPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, err)
		return
	}

	ctl.Co.Relay.StartCall(cid, domain.RoomID(p.RoomID), p.Username, p.CallType)
}

func (ctl *SignalWSController) handleEndCall(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type endCallPayload struct {
		Type     string `json:"type"`
		RoomID   string `json:"roomId"`
		Username string `json:"username"`
	}
	var p endCallPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, err)
		return
	}

	ctl.Co.Relay.EndCall(cid, domain.RoomID(p.RoomID), p.Username)
}

// handleRelay forwards offer/answer/ice-candidate to the addressed
// peer. The negotiation payload is passed through untouched.
func (ctl *SignalWSController) handleRelay(
	cid domain.ConnID,
	conn *WsSignalConn,
	kind string,
	data []byte,
) {
	type relayPayload struct {
		Type      string          `json:"type"`
		Target    string          `json:"target"`
		RoomID    string          `json:"roomId"`
		Offer     json.RawMessage `json:"offer,omitempty"`
		Answer    json.RawMessage `json:"answer,omitempty"`
		Candidate json.RawMessage `json:"candidate,omitempty"`
	}
	var p relayPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, err)
		return
	}

	var payload json.RawMessage
	switch kind {
	case "offer":
		payload = p.Offer
	case "answer":
		payload = p.Answer
	case "ice-candidate":
		payload = p.Candidate
	}

	ctl.Co.Relay.Forward(kind, cid, domain.ConnID(p.Target), payload)
}
