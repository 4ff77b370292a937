// Package protocol defines the named events and payloads exchanged between the
// coordinator and participants. Both endpoints encode and decode through this
// package, so field names cannot drift between the two sides.
package protocol

import (
	"encoding/json"

	"github.com/lobbywire/lobbywire/internal/domain"
)

// Event names. The -ok/-no pairs are single-shot responses correlated to the
// request that triggered them; new-player and ready are standing notifications.
const (
	EventCreateRoom   = "create-room"
	EventCreateRoomOK = "create-room-ok"
	EventCreateRoomNo = "create-room-no"
	EventJoinRoom     = "join-room"
	EventJoinRoomOK   = "join-room-ok"
	EventJoinRoomNo   = "join-room-no"
	EventNewPlayer    = "new-player"
	EventAllJoined    = "all-joined"
	EventReady        = "ready"
)

// Envelope frames every message on the wire.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type CreateRoom struct {
	Name string `json:"name"`
}

type CreateRoomOK struct {
	RoomID domain.RoomID `json:"roomID"`
}

type JoinRoom struct {
	RoomID domain.RoomID `json:"roomID"`
	Name   string        `json:"name"`
}

// JoinRoomOK carries the joiner's assigned ID and the names of everyone who
// joined before it, indexed by PlayerID. The joiner's own slot is not echoed.
type JoinRoomOK struct {
	PlayerID domain.PlayerID `json:"playerID"`
	Roster   []string        `json:"roster"`
}

type NewPlayer struct {
	PlayerID domain.PlayerID `json:"playerID"`
	Name     string          `json:"name"`
}

type Ready struct {
	Roster []string `json:"roster"`
}

// Failure is the payload of every -no event.
type Failure struct {
	Reason string `json:"reason"`
}

// Encode frames payload under event. A nil payload produces an envelope with no
// data, as used by all-joined.
func Encode(event string, payload any) ([]byte, error) {
	env := Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Data = data
	}
	return json.Marshal(env)
}

// Decode parses a raw frame into its envelope.
func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}
