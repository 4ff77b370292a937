package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/lobbywire/lobbywire/internal/domain"
	"github.com/lobbywire/lobbywire/internal/protocol"
)

// reject answers the requester, and only the requester, with the reason for a
// failed operation.
func (r *Router) reject(in inbound, event string, err error) {
	if sendErr := in.sender.Send(event, protocol.Failure{Reason: domain.ReasonFor(err)}); sendErr != nil {
		log.Error().Err(sendErr).Str("module", "signal").Str("cid", string(in.cid)).Str("event", event).Msg("reject send")
	}
}

func (r *Router) handleCreate(in inbound) {
	var p protocol.CreateRoom
	if err := json.Unmarshal(in.env.Data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(in.cid)).Msg("bad create payload")
		r.reject(in, protocol.EventCreateRoomNo, domain.ErrMalformedRequest)
		return
	}

	roomID, _, err := r.Registry.CreateRoom(p.Name, in.cid, in.sender)
	if err != nil {
		r.reject(in, protocol.EventCreateRoomNo, err)
		return
	}

	if err := in.sender.Send(protocol.EventCreateRoomOK, protocol.CreateRoomOK{RoomID: roomID}); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Msg("create reply send")
	}
}

func (r *Router) handleJoin(in inbound) {
	var p protocol.JoinRoom
	if err := json.Unmarshal(in.env.Data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("cid", string(in.cid)).Msg("bad join payload")
		r.reject(in, protocol.EventJoinRoomNo, domain.ErrMalformedRequest)
		return
	}

	session, ok := r.Registry.Lookup(p.RoomID)
	if !ok {
		r.reject(in, protocol.EventJoinRoomNo, domain.ErrRoomNotFound)
		return
	}

	playerID, err := session.AddPlayer(in.sender, p.Name)
	if err != nil {
		r.reject(in, protocol.EventJoinRoomNo, err)
		return
	}

	// Reply first, then tell the rest of the room. The reply roster covers
	// everyone who joined before this player, and the broadcast excludes the
	// joiner; in both cases the joiner already knows its own name.
	if err := in.sender.Send(protocol.EventJoinRoomOK, protocol.JoinRoomOK{
		PlayerID: playerID,
		Roster:   session.Names()[:playerID],
	}); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("room", string(p.RoomID)).Msg("join reply send")
	}

	notice := protocol.NewPlayer{PlayerID: playerID, Name: p.Name}
	for _, m := range session.Members() {
		if m.Player.ID == playerID {
			continue
		}
		if err := m.Sender.Send(protocol.EventNewPlayer, notice); err != nil {
			log.Error().Err(err).Str("module", "signal").Str("room", string(p.RoomID)).Int("player", int(m.Player.ID)).Msg("new-player send")
		}
	}

	r.Registry.Bind(in.cid, p.RoomID)
}

func (r *Router) handleAllJoined(in inbound) {
	roomID, ok := r.Registry.RoomOf(in.cid)
	if !ok {
		log.Debug().Str("module", "signal").Str("cid", string(in.cid)).Msg("all-joined without membership")
		return
	}
	session, ok := r.Registry.Lookup(roomID)
	if !ok {
		log.Debug().Str("module", "signal").Str("room", string(roomID)).Msg("all-joined for missing room")
		return
	}

	// Any member may close the room, not just the host; see DESIGN.md.
	if session.Host().Sender != in.sender {
		log.Warn().Str("module", "signal").Str("room", string(roomID)).Str("cid", string(in.cid)).Msg("all-joined from non-host member")
	}

	session.FinishSetup()

	names := session.Names()
	ready := protocol.Ready{Roster: names}
	for _, m := range session.Members() {
		if err := m.Sender.Send(protocol.EventReady, ready); err != nil {
			log.Error().Err(err).Str("module", "signal").Str("room", string(roomID)).Int("player", int(m.Player.ID)).Msg("ready send")
		}
	}

	r.Starter.SessionStart(roomID, names, session.Members())
}

// handleDisconnect is a placeholder: no leave or reconnect protocol exists, so
// room state is untouched.
func (r *Router) handleDisconnect(in inbound) {
	log.Info().Str("module", "signal").Str("cid", string(in.cid)).Msg("disconnect")
}
