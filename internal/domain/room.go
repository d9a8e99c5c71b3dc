package domain

import (
	"errors"
	"time"
)

type RoomID string

// HistoryLimit bounds a room's message log; the oldest entry is
// evicted before the append that would exceed it.
const HistoryLimit = 100

var (
	ErrRoomRequired     = errors.New("room id required")
	ErrUsernameRequired = errors.New("username required")
	ErrRoomNotFound     = errors.New("room not found")
)

// Room holds the identity and birth time of a room. Membership and
// history live in the registry; a room exists exactly as long as it
// has members.
type Room struct {
	ID        RoomID    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
