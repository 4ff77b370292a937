package domain

import "sort"

// Roster is a participant-side view of a room's players: names placed at their
// numeric PlayerID. Placement may be sparse: an index that was never delivered
// stays absent rather than being defaulted, exactly as transmitted.
type Roster struct {
	names map[PlayerID]string
}

func NewRoster() *Roster {
	return &Roster{names: make(map[PlayerID]string)}
}

// Place records a name at its PlayerID slot.
func (r *Roster) Place(id PlayerID, name string) {
	r.names[id] = name
}

// Name returns the name at id, and whether that slot was ever delivered.
func (r *Roster) Name(id PlayerID) (string, bool) {
	name, ok := r.names[id]
	return name, ok
}

func (r *Roster) Len() int {
	return len(r.names)
}

// Each visits placed entries in ascending PlayerID order.
func (r *Roster) Each(fn func(id PlayerID, name string)) {
	ids := make([]PlayerID, 0, len(r.names))
	for id := range r.names {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(id, r.names[id])
	}
}
