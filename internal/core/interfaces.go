package core

import "github.com/lobbywire/lobbywire/internal/domain"

// ConnID identifies one participant connection for the lifetime of the process.
type ConnID string

// Sender is the outbound half of the per-connection transport contract.
// Send is asynchronous and must preserve ordering relative to other sends on
// the same connection. Owned by the adapter; the adapter must close it.
type Sender interface {
	Send(event string, payload any) error
}

// Member binds a roster slot to its connection endpoint.
// This is what a session stores and what broadcasts fan out to.
type Member struct {
	Player domain.Player
	Sender Sender
}

// SessionStarter is the capability handed the finished lobby: the final roster
// and the live member connections. The game layer plugs in here by composition.
type SessionStarter interface {
	SessionStart(roomID domain.RoomID, names []string, members []Member)
}

// NopStarter is the default when no game layer is attached.
type NopStarter struct{}

func (NopStarter) SessionStart(domain.RoomID, []string, []Member) {}
