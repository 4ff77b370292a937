package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lobbywire/lobbywire/internal/domain"
	"github.com/lobbywire/lobbywire/internal/protocol"
)

// Callbacks are the standing listeners armed once a handshake succeeds. They
// stay registered for the remaining lifetime of the pre-game session.
type Callbacks struct {
	// PlayerJoined fires for every new-player notification. The host learns
	// of joiners only through this channel.
	PlayerJoined func(id domain.PlayerID, name string)

	// Ready hands the live connection, the final roster, and the caller's own
	// PlayerID (0 for the host) to the next phase.
	Ready func(conn *Conn, roster []string, self domain.PlayerID)
}

// Host creates a room. On success it returns the assigned room code and a
// trigger the caller may invoke later to signal that everyone has joined.
// On rejection the coordinator's reason is returned as a *ServerError and no
// standing listeners are armed.
func (c *Conn) Host(ctx context.Context, name string, cb Callbacks) (domain.RoomID, func() error, error) {
	w := c.arm(protocol.EventCreateRoomOK, protocol.EventCreateRoomNo)
	if err := c.send(protocol.EventCreateRoom, protocol.CreateRoom{Name: name}); err != nil {
		c.disarm(w)
		return "", nil, err
	}
	env, err := c.wait(ctx, w)
	if err != nil {
		return "", nil, err
	}
	defer w.releaseReader()

	if env.Event == protocol.EventCreateRoomNo {
		return "", nil, rejection(env.Data)
	}

	var ok protocol.CreateRoomOK
	if err := json.Unmarshal(env.Data, &ok); err != nil {
		return "", nil, fmt.Errorf("bad create-room-ok payload: %w", err)
	}

	c.armStanding(cb, domain.HostID)
	log.Info().Str("module", "client").Str("room", string(ok.RoomID)).Str("name", name).Msg("hosting room")

	start := func() error {
		return c.send(protocol.EventAllJoined, nil)
	}
	return ok.RoomID, start, nil
}

// Join enters an existing room by code. On success it returns the assigned
// PlayerID and the roster known so far, each name placed at its numeric index;
// indices never delivered are left absent rather than defaulted.
func (c *Conn) Join(ctx context.Context, roomID domain.RoomID, name string, cb Callbacks) (domain.PlayerID, *domain.Roster, error) {
	w := c.arm(protocol.EventJoinRoomOK, protocol.EventJoinRoomNo)
	if err := c.send(protocol.EventJoinRoom, protocol.JoinRoom{RoomID: roomID, Name: name}); err != nil {
		c.disarm(w)
		return 0, nil, err
	}
	env, err := c.wait(ctx, w)
	if err != nil {
		return 0, nil, err
	}
	defer w.releaseReader()

	if env.Event == protocol.EventJoinRoomNo {
		return 0, nil, rejection(env.Data)
	}

	var ok protocol.JoinRoomOK
	if err := json.Unmarshal(env.Data, &ok); err != nil {
		return 0, nil, fmt.Errorf("bad join-room-ok payload: %w", err)
	}

	roster := domain.NewRoster()
	for i, n := range ok.Roster {
		roster.Place(domain.PlayerID(i), n)
	}

	c.armStanding(cb, ok.PlayerID)
	log.Info().Str("module", "client").Str("room", string(roomID)).Int("player", int(ok.PlayerID)).Msg("joined room")
	return ok.PlayerID, roster, nil
}

func (c *Conn) armStanding(cb Callbacks, self domain.PlayerID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.standing[protocol.EventNewPlayer] = func(data json.RawMessage) {
		var p protocol.NewPlayer
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn().Err(err).Str("module", "client").Msg("bad new-player payload")
			return
		}
		if cb.PlayerJoined != nil {
			cb.PlayerJoined(p.PlayerID, p.Name)
		}
	}
	c.standing[protocol.EventReady] = func(data json.RawMessage) {
		var p protocol.Ready
		if err := json.Unmarshal(data, &p); err != nil {
			log.Warn().Err(err).Str("module", "client").Msg("bad ready payload")
			return
		}
		if cb.Ready != nil {
			cb.Ready(c, p.Roster, self)
		}
	}
}

func rejection(data json.RawMessage) error {
	var f protocol.Failure
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("bad failure payload: %w", err)
	}
	return &ServerError{Reason: f.Reason}
}
