package domain

import "testing"

func TestRosterSparsePlacement(t *testing.T) {
	r := NewRoster()
	r.Place(0, "Alice")
	r.Place(2, "Carol")

	if got := r.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if name, ok := r.Name(0); !ok || name != "Alice" {
		t.Errorf("Name(0) = %q, %v; want Alice, true", name, ok)
	}
	if _, ok := r.Name(1); ok {
		t.Error("Name(1) should be absent, not defaulted")
	}
	if name, ok := r.Name(2); !ok || name != "Carol" {
		t.Errorf("Name(2) = %q, %v; want Carol, true", name, ok)
	}
}

func TestRosterEachOrdered(t *testing.T) {
	r := NewRoster()
	r.Place(3, "Dave")
	r.Place(0, "Alice")
	r.Place(1, "Bob")

	var ids []PlayerID
	var names []string
	r.Each(func(id PlayerID, name string) {
		ids = append(ids, id)
		names = append(names, name)
	})

	wantIDs := []PlayerID{0, 1, 3}
	wantNames := []string{"Alice", "Bob", "Dave"}
	if len(ids) != len(wantIDs) {
		t.Fatalf("visited %d entries, want %d", len(ids), len(wantIDs))
	}
	for i := range wantIDs {
		if ids[i] != wantIDs[i] || names[i] != wantNames[i] {
			t.Errorf("entry %d = (%d, %q), want (%d, %q)", i, ids[i], names[i], wantIDs[i], wantNames[i])
		}
	}
}

func TestReasonFor(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{ErrAllocationExhausted, ReasonAllocationExhausted},
		{ErrRoomNotFound, ReasonRoomNotFound},
		{ErrRoomClosed, ReasonRoomClosed},
		{ErrRoomFull, ReasonRoomFull},
		{ErrDuplicateName, ReasonDuplicateName},
		{ErrMalformedRequest, ReasonMalformedRequest},
	}
	for _, tc := range cases {
		if got := ReasonFor(tc.err); got != tc.want {
			t.Errorf("ReasonFor(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
