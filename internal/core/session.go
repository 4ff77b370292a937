package core

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lobbywire/lobbywire/internal/domain"
)

// Session owns one room's roster and accept state. It is a pure state machine:
// no I/O, and not safe for concurrent use. The router goroutine is its only
// writer, so every mutation is atomic with respect to all connections.
//
// The roster is append-only. A member's PlayerID equals its append index,
// permanently; entries are never removed or reordered. The accept state moves
// open → closed exactly once and never back.
type Session struct {
	id         domain.RoomID
	members    []Member
	accepting  bool
	capacity   int
	lastActive time.Time
}

// NewSession seeds the roster with the host as player 0.
func NewSession(id domain.RoomID, hostName string, host Sender, capacity int) *Session {
	return &Session{
		id: id,
		members: []Member{{
			Player: domain.Player{ID: domain.HostID, Name: hostName},
			Sender: host,
		}},
		accepting:  true,
		capacity:   capacity,
		lastActive: time.Now(),
	}
}

// AddPlayer appends a participant and returns its assigned PlayerID.
// Rejections are checked in a fixed order: closed, then full, then duplicate.
// Name comparison is exact; case-variant names are distinct players.
func (s *Session) AddPlayer(sender Sender, name string) (domain.PlayerID, error) {
	s.lastActive = time.Now()

	if !s.accepting {
		return 0, domain.ErrRoomClosed
	}
	if len(s.members) >= s.capacity {
		return 0, domain.ErrRoomFull
	}
	for _, m := range s.members {
		if m.Player.Name == name {
			return 0, domain.ErrDuplicateName
		}
	}

	id := domain.PlayerID(len(s.members))
	s.members = append(s.members, Member{
		Player: domain.Player{ID: id, Name: name},
		Sender: sender,
	})
	log.Info().Str("module", "core.session").Str("room", string(s.id)).Int("player", int(id)).Str("name", name).Msg("player added")
	return id, nil
}

// FinishSetup closes the room to new players. Idempotent; there is no way back.
func (s *Session) FinishSetup() {
	s.lastActive = time.Now()
	if !s.accepting {
		return
	}
	s.accepting = false
	log.Info().Str("module", "core.session").Str("room", string(s.id)).Int("players", len(s.members)).Msg("setup finished")
}

func (s *Session) ID() domain.RoomID { return s.id }

func (s *Session) Accepting() bool { return s.accepting }

func (s *Session) Len() int { return len(s.members) }

// Names returns the roster's display names indexed by PlayerID.
func (s *Session) Names() []string {
	names := make([]string, len(s.members))
	for i, m := range s.members {
		names[i] = m.Player.Name
	}
	return names
}

// Members returns the roster entries in join order. Callers must not mutate.
func (s *Session) Members() []Member { return s.members }

// Host returns the creator's entry, roster slot 0.
func (s *Session) Host() Member { return s.members[0] }

// LastActive reports when the session last accepted a mutation.
func (s *Session) LastActive() time.Time { return s.lastActive }
