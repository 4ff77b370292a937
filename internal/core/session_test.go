package core

import (
	"errors"
	"testing"

	"github.com/lobbywire/lobbywire/internal/domain"
)

type nopSender struct{}

func (nopSender) Send(string, any) error { return nil }

func TestSessionJoinOrderIDs(t *testing.T) {
	s := NewSession("ab12c", "Alice", nopSender{}, 4)

	if got := s.Host().Player.ID; got != domain.HostID {
		t.Errorf("host PlayerID = %d, want 0", got)
	}

	for i, name := range []string{"Bob", "Carol", "Dave"} {
		id, err := s.AddPlayer(nopSender{}, name)
		if err != nil {
			t.Fatalf("AddPlayer(%q) failed: %v", name, err)
		}
		if want := domain.PlayerID(i + 1); id != want {
			t.Errorf("AddPlayer(%q) = %d, want %d", name, id, want)
		}
	}

	want := []string{"Alice", "Bob", "Carol", "Dave"}
	got := s.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSessionClosedRejectsJoins(t *testing.T) {
	s := NewSession("ab12c", "Alice", nopSender{}, 4)
	s.FinishSetup()

	if s.Accepting() {
		t.Error("Accepting() = true after FinishSetup")
	}
	// Capacity remains, but the room is closed.
	if _, err := s.AddPlayer(nopSender{}, "Bob"); !errors.Is(err, domain.ErrRoomClosed) {
		t.Errorf("AddPlayer after close = %v, want ErrRoomClosed", err)
	}
}

func TestSessionFinishSetupIdempotent(t *testing.T) {
	s := NewSession("ab12c", "Alice", nopSender{}, 4)
	s.FinishSetup()
	s.FinishSetup()
	if s.Accepting() {
		t.Error("room reopened after repeated FinishSetup")
	}
}

func TestSessionCapacity(t *testing.T) {
	s := NewSession("ab12c", "Alice", nopSender{}, 3)

	for _, name := range []string{"Bob", "Carol"} {
		if _, err := s.AddPlayer(nopSender{}, name); err != nil {
			t.Fatalf("AddPlayer(%q) failed: %v", name, err)
		}
	}
	if _, err := s.AddPlayer(nopSender{}, "Dave"); !errors.Is(err, domain.ErrRoomFull) {
		t.Errorf("AddPlayer over capacity = %v, want ErrRoomFull", err)
	}
	if got := s.Len(); got != 3 {
		t.Errorf("Len() = %d after rejected join, want 3", got)
	}
}

func TestSessionDuplicateName(t *testing.T) {
	s := NewSession("ab12c", "Alice", nopSender{}, 4)

	if _, err := s.AddPlayer(nopSender{}, "Alice"); !errors.Is(err, domain.ErrDuplicateName) {
		t.Errorf("duplicate of host name = %v, want ErrDuplicateName", err)
	}
	// Exact comparison only: case variants are distinct players.
	if _, err := s.AddPlayer(nopSender{}, "alice"); err != nil {
		t.Errorf("case-variant name rejected: %v", err)
	}
}

func TestSessionRejectionPrecedence(t *testing.T) {
	// A closed room that is also full and has the name: closed wins.
	s := NewSession("ab12c", "Alice", nopSender{}, 1)
	s.FinishSetup()

	if _, err := s.AddPlayer(nopSender{}, "Alice"); !errors.Is(err, domain.ErrRoomClosed) {
		t.Errorf("closed+full+duplicate = %v, want ErrRoomClosed", err)
	}
}
