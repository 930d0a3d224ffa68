package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// schemaVersion is bumped whenever the persisted shape grows new fields.
// Older blobs are decoded over a fully-populated default state so missing
// nested fields are filled per field instead of shallow-merged away.
const schemaVersion = 2

const stateRowID = 1

// Store is the canonical persistence for the single AppState record plus
// the generated session id. All mutation goes through Update, which
// serializes read-modify-write of the whole record; that single-writer
// discipline is what keeps the three flows coordination-free.
type Store struct {
	db      *sql.DB
	mu      sync.Mutex
	cur     *AppState
	catalog []Achievement
	persist bool
}

// Open creates/opens the state database at path. catalog is the fixed
// achievement catalog used to reconcile older persisted blobs.
func Open(path string, catalog []Achievement) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Single-process app. One shared connection avoids writer lock
	// contention with SQLite under concurrent goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db, catalog: catalog, persist: true}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA synchronous=NORMAL;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS app_state (
			id INTEGER PRIMARY KEY,
			version INTEGER NOT NULL,
			state_json TEXT NOT NULL,
			updated_at_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init state db: %w", err)
		}
	}
	return nil
}

// DefaultState returns the all-empty starting record with the given
// achievement catalog, all locked.
func DefaultState(catalog []Achievement) *AppState {
	achs := make([]Achievement, len(catalog))
	copy(achs, catalog)
	return &AppState{
		HPMax:          100,
		CheckInHistory: []CheckInEntry{},
		PatternHistory: []PatternInsight{},
		Suggestions:    []Suggestion{},
		ChatMessages:   []ChatMessage{},
		Achievements:   achs,
		Medications:    []MedicationEntry{},
	}
}

func (s *Store) load() error {
	st := DefaultState(s.catalog)

	var version int
	var raw string
	err := s.db.QueryRow(
		`SELECT version, state_json FROM app_state WHERE id = ?`, stateRowID,
	).Scan(&version, &raw)
	switch {
	case err == sql.ErrNoRows:
		s.cur = st
		return nil
	case err != nil:
		return fmt.Errorf("load app state: %w", err)
	}

	// Decoding over the default record gives per-field default filling:
	// fields absent from an older blob keep their default value instead of
	// being zeroed or dropped.
	if err := json.Unmarshal([]byte(raw), st); err != nil {
		return fmt.Errorf("decode app state (version %d): %w", version, err)
	}
	st.Achievements = reconcileAchievements(s.catalog, st.Achievements)
	if st.HPMax <= 0 {
		st.HPMax = 100
	}
	s.cur = st
	return nil
}

// reconcileAchievements maps stored unlock state onto the fixed catalog:
// catalog order and metadata win, unlock state and timestamps survive, and
// ids unknown to the catalog are dropped.
func reconcileAchievements(catalog, stored []Achievement) []Achievement {
	byID := make(map[string]Achievement, len(stored))
	for _, a := range stored {
		byID[a.ID] = a
	}
	out := make([]Achievement, len(catalog))
	for i, c := range catalog {
		out[i] = c
		if prev, ok := byID[c.ID]; ok && prev.Unlocked {
			out[i].Unlocked = true
			out[i].UnlockedAt = prev.UnlockedAt
		}
	}
	return out
}

// Snapshot returns a copy of the current record. Callers must treat the
// contained slices as read-only; writes go through Update.
func (s *Store) Snapshot() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.cur
}

// Update applies fn to the whole record under the store lock and persists
// the result, unless persistence is suspended (sample mode).
func (s *Store) Update(fn func(*AppState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.cur)

	if !s.persist {
		return nil
	}
	return s.save()
}

// SetPersistence toggles writing to disk. Sample mode suspends persistence
// entirely; the in-memory record keeps working.
func (s *Store) SetPersistence(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist = enabled
}

func (s *Store) save() error {
	raw, err := json.Marshal(s.cur)
	if err != nil {
		return fmt.Errorf("encode app state: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO app_state (id, version, state_json, updated_at_ms)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			state_json = excluded.state_json,
			updated_at_ms = excluded.updated_at_ms`,
		stateRowID, schemaVersion, string(raw), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("persist app state: %w", err)
	}
	return nil
}

// SessionID returns the stable session identifier, generating and storing
// one on first use.
func (s *Store) SessionID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = 'session_id'`).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		id = uuid.NewString()
		if _, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES ('session_id', ?)`, id); err != nil {
			return "", fmt.Errorf("store session id: %w", err)
		}
		return id, nil
	case err != nil:
		return "", fmt.Errorf("load session id: %w", err)
	}
	return id, nil
}

// NewEntryID generates a random id for history entries and chat messages.
// Collisions are irrelevant at this scale.
func NewEntryID() string {
	return uuid.NewString()
}
