package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/connectsphere/server/internal/domain"
)

func (ctl *SignalWSController) handleJoinRoom(
	cid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type     string `json:"type"`
		RoomID   string `json:"roomId"`
		Username string `json:"username"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(conn, err)
		return
	}

	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("room", p.RoomID).Str("username", p.Username).Msg("join-room")
	ctl.Co.Lifecycle.Join(cid, domain.RoomID(p.RoomID), p.Username)
}
