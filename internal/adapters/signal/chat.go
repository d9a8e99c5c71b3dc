package signal

import (
	"encoding/json"

	"github.com/connectsphere/server/internal/domain"
)

func (ctl *SignalWSController) handleSendMessage(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type messagePayload struct {
		Type      string `json:"type"`
		RoomID    string `json:"roomId"`
		Username  string `json:"username"`
		Message   string `json:"message"`
		ID        string `json:"id,omitempty"`
		Timestamp string `json:"timestamp,omitempty"`
	}
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, err)
		return
	}

	ctl.Co.Broadcast.SendChat(cid, domain.RoomID(p.RoomID), p.Username, p.Message, p.ID, p.Timestamp)
}

func (ctl *SignalWSController) handleTyping(
	cid domain.ConnID,
	conn *WsSignalConn,
	event string,
	data []byte,
) {
	type typingPayload struct {
		Type     string `json:"type"`
		RoomID   string `json:"roomId"`
		Username string `json:"username"`
	}
	var p typingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, err)
		return
	}

	if event == "typing-start" {
		ctl.Co.Broadcast.TypingStart(cid, domain.RoomID(p.RoomID), p.Username)
		return
	}
	ctl.Co.Broadcast.TypingStop(cid, domain.RoomID(p.RoomID), p.Username)
}
