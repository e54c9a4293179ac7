package state

import "testing"

func TestMemoryManagerStateLifecycle(t *testing.T) {
	m := NewMemoryManager()
	const userID = int64(42)

	if got := m.GetState(userID); got != StateIdle {
		t.Fatalf("initial state = %q, expected idle", got)
	}
	if m.InProgress(userID) {
		t.Fatal("fresh user should not be in progress")
	}

	m.SetState(userID, State("awaiting_contact"))
	if got := m.GetState(userID); got != State("awaiting_contact") {
		t.Fatalf("state = %q after set", got)
	}
	if !m.InProgress(userID) {
		t.Fatal("expected in progress after set")
	}

	m.ClearState(userID)
	if got := m.GetState(userID); got != StateIdle {
		t.Fatalf("state = %q after clear, expected idle", got)
	}
}

func TestMemoryManagerSetIdleClears(t *testing.T) {
	m := NewMemoryManager()
	const userID = int64(7)

	m.SetState(userID, State("mode_select"))
	m.SetState(userID, StateIdle)
	if m.InProgress(userID) {
		t.Fatal("setting idle must end the conversation")
	}
}

func TestMemoryManagerIsolatesUsers(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(1, State("a"))
	m.SetState(2, State("b"))

	if got := m.GetState(1); got != State("a") {
		t.Fatalf("user 1 state = %q", got)
	}
	if got := m.GetState(2); got != State("b") {
		t.Fatalf("user 2 state = %q", got)
	}
	m.ClearState(1)
	if got := m.GetState(2); got != State("b") {
		t.Fatalf("clearing user 1 must not touch user 2, got %q", got)
	}
}
