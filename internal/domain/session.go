package domain

// Session is the ephemeral per-connection record kept while a
// connection is joined to a room. It dies with the connection, which
// cascades into membership removal.
type Session struct {
	ConnID   ConnID
	Username string
	RoomID   RoomID
}
