package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroadcaster_SendChat_WholeRoomIncludingSender(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	lc := NewLifecycle(reg)
	bc := NewBroadcaster(reg)
	c1 := bind(reg, "c1")
	c2 := bind(reg, "c2")
	c3 := bind(reg, "c3")
	lc.Join("c1", "r1", "alice")
	lc.Join("c2", "r1", "bob")
	lc.Join("c3", "other", "carol")

	// When alice sends a message in r1
	bc.SendChat("c1", "r1", "alice", "hello room", "", "")

	// Then alice and bob both receive it
	for _, c := range []*fakeConn{c1, c2} {
		events := c.events(t)
		last := events[len(events)-1]
		req.Equal("receive-message", last["type"])
		msg := last["message"].(map[string]any)
		req.Equal("hello room", msg["message"])
		req.Equal("alice", msg["username"])
		req.NotEmpty(msg["id"])
		req.NotEmpty(msg["timestamp"])
	}

	// And nobody outside r1 does
	req.NotContains(c3.eventTypes(t), "receive-message")

	// And the message landed in history
	snap, _ := reg.Snapshot("r1")
	req.Len(snap.Messages, 1)
}

func TestBroadcaster_SendChat_KeepsClientIDAndTimestamp(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	lc := NewLifecycle(reg)
	bc := NewBroadcaster(reg)
	c1 := bind(reg, "c1")
	lc.Join("c1", "r1", "alice")

	bc.SendChat("c1", "r1", "alice", "hi", "client-id-7", "2026-08-29T10:00:00Z")

	events := c1.events(t)
	msg := events[len(events)-1]["message"].(map[string]any)
	req.Equal("client-id-7", msg["id"])
	req.Equal("2026-08-29T10:00:00Z", msg["timestamp"])
}

func TestBroadcaster_SendChat_ValidationErrorsToSenderOnly(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	lc := NewLifecycle(reg)
	bc := NewBroadcaster(reg)
	c1 := bind(reg, "c1")
	c2 := bind(reg, "c2")
	lc.Join("c1", "r1", "alice")
	lc.Join("c2", "r1", "bob")

	bc.SendChat("c1", "", "alice", "hello", "", "")
	bc.SendChat("c1", "r1", "", "hello", "", "")
	bc.SendChat("c1", "r1", "alice", "", "", "")
	bc.SendChat("c1", "r1", "alice", strings.Repeat("x", 1001), "", "")

	aliceTypes := c1.eventTypes(t)
	req.Equal([]string{"error", "error", "error", "error"}, aliceTypes[len(aliceTypes)-4:])
	req.NotContains(c2.eventTypes(t), "error")
	req.NotContains(c2.eventTypes(t), "receive-message")

	// History untouched
	snap, _ := reg.Snapshot("r1")
	req.Empty(snap.Messages)
}

func TestBroadcaster_SendChat_RoomGone_SilentDrop(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	bc := NewBroadcaster(reg)
	c1 := bind(reg, "c1")

	// Room never existed: the send vanishes without an error
	bc.SendChat("c1", "ghost-room", "alice", "anyone here?", "", "")
	req.Empty(c1.eventTypes(t))
}

func TestBroadcaster_SendChat_TrimsBody(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	lc := NewLifecycle(reg)
	bc := NewBroadcaster(reg)
	c1 := bind(reg, "c1")
	lc.Join("c1", "r1", "alice")

	bc.SendChat("c1", "r1", "alice", "  padded  ", "", "")

	events := c1.events(t)
	msg := events[len(events)-1]["message"].(map[string]any)
	req.Equal("padded", msg["message"])
}

func TestBroadcaster_Typing_OthersOnly(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	lc := NewLifecycle(reg)
	bc := NewBroadcaster(reg)
	c1 := bind(reg, "c1")
	c2 := bind(reg, "c2")
	lc.Join("c1", "r1", "alice")
	lc.Join("c2", "r1", "bob")

	bc.TypingStart("c1", "r1", "alice")
	bc.TypingStop("c1", "r1", "alice")

	req.NotContains(c1.eventTypes(t), "typing-start")
	bobTypes := c2.eventTypes(t)
	req.Equal([]string{"typing-start", "typing-stop"}, bobTypes[len(bobTypes)-2:])

	bobEvents := c2.events(t)
	req.Equal("alice", bobEvents[len(bobEvents)-1]["username"])
}

func TestBroadcaster_Typing_MissingFieldsIgnored(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	lc := NewLifecycle(reg)
	bc := NewBroadcaster(reg)
	c1 := bind(reg, "c1")
	c2 := bind(reg, "c2")
	lc.Join("c1", "r1", "alice")
	lc.Join("c2", "r1", "bob")
	before := len(c2.eventTypes(t))

	bc.TypingStart("c1", "", "alice")
	bc.TypingStart("c1", "r1", "")

	req.Len(c2.eventTypes(t), before)
	req.NotContains(c1.eventTypes(t), "error") // no error back either
}
