// Package domain contains entity types without logic, just meta-data.
package domain

type (
	// RoomID is the short join code, the only externally visible name for a room.
	RoomID string

	// PlayerID is a player's zero-based position in the join order.
	// It is stable for the lifetime of the room and never reused.
	PlayerID int
)

// HostID is the PlayerID of the room creator.
const HostID PlayerID = 0

// Player binds a roster slot to its display name.
type Player struct {
	ID   PlayerID `json:"playerID"`
	Name string   `json:"name"`
}
