// Package domain contains entity without logic, just meta-data
package domain

import "time"

// ConnID is the transport-assigned identity of one live connection.
// Opaque, unique per connection, never chosen by the user.
type ConnID string

// Participant is one member of a room. The ID is the ConnID of the
// connection that joined; Username is client-supplied and not unique.
type Participant struct {
	ID       ConnID    `json:"id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joinedAt"`
}

func NewParticipant(id ConnID, username string) *Participant {
	return &Participant{ID: id, Username: username, JoinedAt: time.Now()}
}
