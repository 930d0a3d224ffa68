package state

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func testCatalog() []Achievement {
	return []Achievement{
		{ID: "first_checkin", Title: "First Steps", Description: "Complete your first check-in", Icon: "star"},
		{ID: "streak_3", Title: "Building Momentum", Description: "3-day check-in streak", Icon: "flame"},
		{ID: "hp_50", Title: "Halfway There", Description: "Reach 50 HP", Icon: "heart"},
	}
}

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(path, testCatalog())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFreshStoreStartsWithDefaults(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))

	snap := store.Snapshot()
	if snap.Streak != 0 {
		t.Errorf("expected streak 0, got %d", snap.Streak)
	}
	if snap.HPMax != 100 {
		t.Errorf("expected hp_max 100, got %d", snap.HPMax)
	}
	if len(snap.Achievements) != 3 {
		t.Fatalf("expected full catalog, got %d achievements", len(snap.Achievements))
	}
	for _, a := range snap.Achievements {
		if a.Unlocked {
			t.Errorf("achievement %s should start locked", a.ID)
		}
	}
	if snap.CheckInHistory == nil || snap.Suggestions == nil {
		t.Error("collections should start empty, not nil")
	}
}

func TestUpdatePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store := openTestStore(t, path)
	now := time.Now()
	err := store.Update(func(st *AppState) {
		st.Streak = 7
		st.HP = 64
		st.LastCheckIn = &now
		st.CheckInHistory = append(st.CheckInHistory, CheckInEntry{ID: "c1", Date: now, SleepQuality: 8})
		st.ChatMessages = append(st.ChatMessages, ChatMessage{ID: "m1", Role: RoleUser, Content: "hi"})
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	store.Close()

	reopened := openTestStore(t, path)
	snap := reopened.Snapshot()
	if snap.Streak != 7 || snap.HP != 64 {
		t.Errorf("expected streak 7 hp 64 after reopen, got %d %d", snap.Streak, snap.HP)
	}
	if len(snap.CheckInHistory) != 1 || snap.CheckInHistory[0].ID != "c1" {
		t.Errorf("check-in history did not survive reopen: %+v", snap.CheckInHistory)
	}
	if snap.LastCheckIn == nil {
		t.Error("last check-in should survive reopen")
	}
	if snap.UserMessageCount() != 1 {
		t.Errorf("expected 1 user message, got %d", snap.UserMessageCount())
	}
}

func TestOlderBlobGetsDefaultsFilled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	// Create the schema, then plant a version-1 blob that predates hp_max,
	// today_check_ins and medications, with a stale achievement id.
	store := openTestStore(t, path)
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	oldBlob := `{
		"streak": 3,
		"hp": 40,
		"check_in_history": [],
		"achievements": [
			{"id": "first_checkin", "title": "Old Title", "unlocked": true},
			{"id": "retired_badge", "unlocked": true}
		]
	}`
	_, err = db.Exec(
		`INSERT INTO app_state (id, version, state_json, updated_at_ms) VALUES (?, 1, ?, 0)`,
		stateRowID, oldBlob,
	)
	db.Close()
	if err != nil {
		t.Fatalf("plant old blob: %v", err)
	}

	reopened := openTestStore(t, path)
	snap := reopened.Snapshot()

	if snap.Streak != 3 || snap.HP != 40 {
		t.Errorf("stored fields should survive, got streak %d hp %d", snap.Streak, snap.HP)
	}
	if snap.HPMax != 100 {
		t.Errorf("missing hp_max should be filled with 100, got %d", snap.HPMax)
	}
	if snap.Medications == nil {
		t.Error("missing medications should default to empty, not nil")
	}

	if len(snap.Achievements) != 3 {
		t.Fatalf("achievements should be reconciled onto the catalog, got %d", len(snap.Achievements))
	}
	if !snap.Achievements[0].Unlocked {
		t.Error("stored unlock state should survive reconciliation")
	}
	if snap.Achievements[0].Title != "First Steps" {
		t.Errorf("catalog metadata should win, got title %q", snap.Achievements[0].Title)
	}
	for _, a := range snap.Achievements {
		if a.ID == "retired_badge" {
			t.Error("unknown achievement ids should be dropped")
		}
	}
}

func TestSetPersistenceSuspendsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store := openTestStore(t, path)
	if err := store.Update(func(st *AppState) { st.Streak = 2 }); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	store.SetPersistence(false)
	if err := store.Update(func(st *AppState) { st.Streak = 99 }); err != nil {
		t.Fatalf("Update in sample mode failed: %v", err)
	}
	if got := store.Snapshot().Streak; got != 99 {
		t.Errorf("in-memory record should still update, got streak %d", got)
	}
	store.Close()

	reopened := openTestStore(t, path)
	if got := reopened.Snapshot().Streak; got != 2 {
		t.Errorf("suspended update should not reach disk, got streak %d", got)
	}
}

func TestSessionIDStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store := openTestStore(t, path)
	first, err := store.SessionID()
	if err != nil {
		t.Fatalf("SessionID failed: %v", err)
	}
	if first == "" {
		t.Fatal("expected a generated session id")
	}
	second, err := store.SessionID()
	if err != nil {
		t.Fatalf("SessionID failed: %v", err)
	}
	if first != second {
		t.Errorf("session id changed within one process: %s vs %s", first, second)
	}
	store.Close()

	reopened := openTestStore(t, path)
	third, err := reopened.SessionID()
	if err != nil {
		t.Fatalf("SessionID failed: %v", err)
	}
	if third != first {
		t.Errorf("session id changed across reopen: %s vs %s", third, first)
	}
}

func TestSampleStateShape(t *testing.T) {
	st := SampleState(testCatalog(), time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC))

	if st.Streak != 5 || st.HP != 72 {
		t.Errorf("unexpected sample vitals: streak %d hp %d", st.Streak, st.HP)
	}
	if len(st.CheckInHistory) != 2 {
		t.Errorf("expected 2 sample check-ins, got %d", len(st.CheckInHistory))
	}
	if len(st.Suggestions) != 3 {
		t.Errorf("expected 3 sample suggestions, got %d", len(st.Suggestions))
	}
	if len(st.Medications) != 1 {
		t.Errorf("expected 1 sample medication, got %d", len(st.Medications))
	}
}
