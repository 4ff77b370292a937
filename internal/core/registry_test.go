package core

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lobbywire/lobbywire/internal/domain"
)

// scriptedCodes returns codes from the list, repeating the last one forever.
func scriptedCodes(codes ...domain.RoomID) (CodeFunc, *int) {
	calls := new(int)
	return func() domain.RoomID {
		i := *calls
		*calls++
		if i >= len(codes) {
			i = len(codes) - 1
		}
		return codes[i]
	}, calls
}

func TestRegistryCreateRoom(t *testing.T) {
	codeFn, _ := scriptedCodes("ab12c")
	r := NewRegistry(4, codeFn)

	id, session, err := r.CreateRoom("Alice", "conn-1", nopSender{})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if id != "ab12c" {
		t.Errorf("room code = %q, want ab12c", id)
	}
	if session.Host().Player.Name != "Alice" {
		t.Errorf("host = %q, want Alice", session.Host().Player.Name)
	}

	if got, ok := r.Lookup(id); !ok || got != session {
		t.Error("Lookup did not return the registered session")
	}
	if roomID, ok := r.RoomOf("conn-1"); !ok || roomID != id {
		t.Errorf("RoomOf(host) = %q, %v; want %q, true", roomID, ok, id)
	}
}

func TestRegistryCollisionRetry(t *testing.T) {
	codeFn, calls := scriptedCodes("taken", "taken", "free1")
	r := NewRegistry(4, codeFn)

	if _, _, err := r.CreateRoom("Alice", "conn-1", nopSender{}); err != nil {
		t.Fatalf("first CreateRoom failed: %v", err)
	}
	*calls = 0

	id, _, err := r.CreateRoom("Bob", "conn-2", nopSender{})
	if err != nil {
		t.Fatalf("CreateRoom with collisions failed: %v", err)
	}
	if id != "free1" {
		t.Errorf("room code = %q, want free1 (first non-colliding draw)", id)
	}
	if *calls != 3 {
		t.Errorf("code source drawn %d times, want 3", *calls)
	}
}

func TestRegistryAllocationExhausted(t *testing.T) {
	codeFn, calls := scriptedCodes("only1")
	r := NewRegistry(4, codeFn)

	if _, _, err := r.CreateRoom("Alice", "conn-1", nopSender{}); err != nil {
		t.Fatalf("first CreateRoom failed: %v", err)
	}
	*calls = 0

	_, _, err := r.CreateRoom("Bob", "conn-2", nopSender{})
	if !errors.Is(err, domain.ErrAllocationExhausted) {
		t.Fatalf("CreateRoom on full space = %v, want ErrAllocationExhausted", err)
	}
	if *calls != allocationBudget {
		t.Errorf("code source drawn %d times, want the full budget of %d", *calls, allocationBudget)
	}

	// The failed creation must leave the registry untouched.
	if got := r.Len(); got != 1 {
		t.Errorf("Len() = %d after failed creation, want 1", got)
	}
	if _, ok := r.RoomOf("conn-2"); ok {
		t.Error("membership recorded for failed creation")
	}
}

func TestRegistryLiveCodesUnique(t *testing.T) {
	r := NewRegistry(4, nil)

	seen := make(map[domain.RoomID]bool)
	for i := 0; i < 20; i++ {
		id, _, err := r.CreateRoom("Alice", ConnID(fmt.Sprintf("conn-%d", i)), nopSender{})
		if err != nil {
			t.Fatalf("CreateRoom %d failed: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("room code %q assigned twice", id)
		}
		seen[id] = true
	}
}

func TestRegistryEvict(t *testing.T) {
	codeFn, _ := scriptedCodes("ab12c")
	r := NewRegistry(4, codeFn)

	id, _, err := r.CreateRoom("Alice", "conn-1", nopSender{})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	r.Bind("conn-2", id)

	r.Evict(id)

	if _, ok := r.Lookup(id); ok {
		t.Error("Lookup found evicted room")
	}
	if _, ok := r.RoomOf("conn-1"); ok {
		t.Error("host membership survived eviction")
	}
	if _, ok := r.RoomOf("conn-2"); ok {
		t.Error("member membership survived eviction")
	}
}

func TestRegistryEvictIdleBefore(t *testing.T) {
	codeFn, _ := scriptedCodes("room1", "room2")
	r := NewRegistry(4, codeFn)

	if _, _, err := r.CreateRoom("Alice", "conn-1", nopSender{}); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if _, _, err := r.CreateRoom("Bob", "conn-2", nopSender{}); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	// Nothing is older than a cutoff in the past.
	if evicted := r.EvictIdleBefore(time.Now().Add(-time.Hour)); len(evicted) != 0 {
		t.Errorf("evicted %d rooms with past cutoff, want 0", len(evicted))
	}

	// Everything is older than a cutoff in the future.
	evicted := r.EvictIdleBefore(time.Now().Add(time.Hour))
	if len(evicted) != 2 {
		t.Errorf("evicted %d rooms with future cutoff, want 2", len(evicted))
	}
	if got := r.Len(); got != 0 {
		t.Errorf("Len() = %d after eviction, want 0", got)
	}
}
