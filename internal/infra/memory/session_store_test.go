package memory

import "testing"

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	live := store.Register("conn-1", "1")
	if live.ID != "conn-1" || live.LevelID != "1" {
		t.Fatalf("unexpected live session %+v", live)
	}
	if again := store.Register("conn-1", "2"); again.LevelID != "1" {
		t.Fatalf("expected existing registration kept, got %+v", again)
	}
	if _, ok := store.Get("conn-1"); !ok {
		t.Fatalf("expected session present")
	}
	if store.Active() != 1 {
		t.Fatalf("expected 1 active session, got %d", store.Active())
	}

	store.Release("conn-1")
	if _, ok := store.Get("conn-1"); ok {
		t.Fatalf("expected session removed on release")
	}
	if store.Active() != 0 {
		t.Fatalf("expected no active sessions, got %d", store.Active())
	}
}
