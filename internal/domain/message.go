package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxMessageLen caps the chat body; longer messages are rejected,
// never truncated.
const MaxMessageLen = 1000

var (
	ErrMessageEmpty   = errors.New("message empty")
	ErrMessageTooLong = errors.New("message too long")
)

// Message is one chat entry in a room's history. Body keeps the
// original wire name "message".
type Message struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Body      string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewMessage validates and normalizes a chat message. Empty id and
// timestamp are defaulted; a client-supplied pair is kept as-is so the
// sender can correlate the echo.
func NewMessage(id, username, body, timestamp string) (Message, error) {
	if body == "" {
		return Message{}, ErrMessageEmpty
	}
	if len(body) > MaxMessageLen {
		return Message{}, ErrMessageTooLong
	}
	if id == "" {
		id = uuid.NewString()
	}
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	return Message{
		ID:        id,
		Username:  username,
		Body:      strings.TrimSpace(body),
		Timestamp: timestamp,
	}, nil
}
