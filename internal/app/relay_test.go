package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func relayRoom(t *testing.T, reg *Registry) (c1, c2, c3 *fakeConn) {
	t.Helper()
	lc := NewLifecycle(reg)
	c1 = bind(reg, "c1")
	c2 = bind(reg, "c2")
	c3 = bind(reg, "c3")
	lc.Join("c1", "r1", "alice")
	lc.Join("c2", "r1", "bob")
	lc.Join("c3", "r1", "carol")
	return c1, c2, c3
}

func TestRelay_Forward_ReachesOnlyTheTarget(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	rl := NewRelay(reg)
	c1, c2, c3 := relayRoom(t, reg)

	sdp := json.RawMessage(`{"type":"offer","sdp":"v=0..."}`)
	rl.Forward("offer", "c1", "c2", sdp)

	bobEvents := c2.events(t)
	last := bobEvents[len(bobEvents)-1]
	req.Equal("offer", last["type"])
	req.Equal("c1", last["sender"])
	req.Equal("v=0...", last["payload"].(map[string]any)["sdp"])

	req.NotContains(c1.eventTypes(t), "offer")
	req.NotContains(c3.eventTypes(t), "offer")
}

func TestRelay_Forward_AnswerAndCandidate(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	rl := NewRelay(reg)
	_, c2, _ := relayRoom(t, reg)

	rl.Forward("answer", "c1", "c2", json.RawMessage(`{"sdp":"a"}`))
	rl.Forward("ice-candidate", "c1", "c2", json.RawMessage(`{"candidate":"cand"}`))

	types := c2.eventTypes(t)
	req.Equal([]string{"answer", "ice-candidate"}, types[len(types)-2:])
}

func TestRelay_Forward_MissingTargetOrPayloadDrops(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	rl := NewRelay(reg)
	c1, c2, _ := relayRoom(t, reg)
	before := len(c2.eventTypes(t))

	rl.Forward("offer", "c1", "", json.RawMessage(`{"sdp":"a"}`))
	rl.Forward("offer", "c1", "c2", nil)
	rl.Forward("offer", "c1", "gone-peer", json.RawMessage(`{"sdp":"a"}`))

	req.Len(c2.eventTypes(t), before)
	// Fire-and-forget: no error event to the sender either
	req.NotContains(c1.eventTypes(t), "error")
}

func TestRelay_StartCall_ExcludesStarter(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	rl := NewRelay(reg)
	c1, c2, c3 := relayRoom(t, reg)

	rl.StartCall("c1", "r1", "alice", "video")

	req.NotContains(c1.eventTypes(t), "user-started-call")
	for _, c := range []*fakeConn{c2, c3} {
		events := c.events(t)
		last := events[len(events)-1]
		req.Equal("user-started-call", last["type"])
		req.Equal("c1", last["userId"])
		req.Equal("alice", last["username"])
		req.Equal("video", last["callType"])
	}
}

func TestRelay_EndCall_WholeRoom(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	rl := NewRelay(reg)
	c1, c2, c3 := relayRoom(t, reg)

	rl.EndCall("c1", "r1", "alice")

	for _, c := range []*fakeConn{c1, c2, c3} {
		events := c.events(t)
		last := events[len(events)-1]
		req.Equal("call-ended", last["type"])
		req.Equal("c1", last["userId"])
		req.Equal("alice", last["username"])
	}
}

func TestRelay_SlowReceiverDoesNotBlockOthers(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	rl := NewRelay(reg)
	_, c2, c3 := relayRoom(t, reg)
	c2.reject = true

	rl.StartCall("c1", "r1", "alice", "audio")

	// c2 dropped the frame; c3 still got it
	types := c3.eventTypes(t)
	req.Equal("user-started-call", types[len(types)-1])
}
