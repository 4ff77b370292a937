package core

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lobbywire/lobbywire/internal/domain"
)

// allocationBudget bounds how many candidate codes CreateRoom draws before
// giving up with ErrAllocationExhausted.
const allocationBudget = 50

// CodeFunc draws one candidate room code. Injectable so tests can force
// collisions deterministically.
type CodeFunc func() domain.RoomID

// Registry maps room codes to sessions and connections to their room.
// Like Session it has a single writer, the router goroutine, and therefore
// no lock. Mutations must never be split across a suspension point.
type Registry struct {
	capacity   int
	newCode    CodeFunc
	rooms      map[domain.RoomID]*Session
	membership map[ConnID]domain.RoomID
}

func NewRegistry(capacity int, newCode CodeFunc) *Registry {
	if newCode == nil {
		newCode = NewCode
	}
	return &Registry{
		capacity:   capacity,
		newCode:    newCode,
		rooms:      make(map[domain.RoomID]*Session),
		membership: make(map[ConnID]domain.RoomID),
	}
}

// CreateRoom allocates a free code, registers a session seeded with the host
// as player 0, and records the host connection's membership. The first free
// candidate wins; exhausting the budget is the only failure mode.
func (r *Registry) CreateRoom(hostName string, cid ConnID, host Sender) (domain.RoomID, *Session, error) {
	for i := 0; i < allocationBudget; i++ {
		id := r.newCode()
		if _, taken := r.rooms[id]; taken {
			continue
		}
		session := NewSession(id, hostName, host, r.capacity)
		r.rooms[id] = session
		r.membership[cid] = id
		log.Info().Str("module", "core.registry").Str("room", string(id)).Str("host", hostName).Msg("room created")
		return id, session, nil
	}
	log.Warn().Str("module", "core.registry").Int("rooms", len(r.rooms)).Msg("room code allocation exhausted")
	return "", nil, domain.ErrAllocationExhausted
}

func (r *Registry) Lookup(id domain.RoomID) (*Session, bool) {
	session, ok := r.rooms[id]
	return session, ok
}

// Bind records which room a connection belongs to.
func (r *Registry) Bind(cid ConnID, id domain.RoomID) {
	r.membership[cid] = id
}

// RoomOf returns the room a connection joined, if any.
func (r *Registry) RoomOf(cid ConnID) (domain.RoomID, bool) {
	id, ok := r.membership[cid]
	return id, ok
}

func (r *Registry) Len() int { return len(r.rooms) }

// Evict removes a room and every membership binding that points at it.
func (r *Registry) Evict(id domain.RoomID) {
	if _, ok := r.rooms[id]; !ok {
		return
	}
	delete(r.rooms, id)
	for cid, roomID := range r.membership {
		if roomID == id {
			delete(r.membership, cid)
		}
	}
	log.Info().Str("module", "core.registry").Str("room", string(id)).Msg("room evicted")
}

// EvictIdleBefore removes every room whose last activity predates cutoff and
// returns the evicted codes.
func (r *Registry) EvictIdleBefore(cutoff time.Time) []domain.RoomID {
	var evicted []domain.RoomID
	for id, session := range r.rooms {
		if session.LastActive().Before(cutoff) {
			evicted = append(evicted, id)
		}
	}
	for _, id := range evicted {
		r.Evict(id)
	}
	return evicted
}
