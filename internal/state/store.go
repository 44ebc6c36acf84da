package state

import (
	"fmt"
	"sync"
	"time"

	"pillbox/internal/medhub"
)

// Record is the profile plus address, the unit of commit. All fields are
// value types, so struct assignment is a deep copy.
type Record struct {
	User    medhub.Profile
	Address medhub.Address
}

// Snapshot is an independent view of the committed record plus sync health.
type Snapshot struct {
	Record              Record
	Loaded              bool // a backend fetch has ever succeeded
	Dirty               bool // committed locally, not yet acknowledged remotely
	LastError           error
	LastSynced          time.Time
	ConsecutiveFailures int
}

// Offline reports whether the backend has been unreachable for multiple
// consecutive attempts.
func (s Snapshot) Offline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store owns the committed copy of the profile record. Edit sessions fork
// from Snapshot and hand their working copy back through Commit, so no
// uncommitted change is ever visible here.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewStore returns a store pre-seeded with the built-in placeholder record,
// so the UI has something to render before (or instead of) the first fetch.
func NewStore() *Store {
	s := &Store{}
	s.snap.Record = PlaceholderRecord()
	return s
}

// Load replaces the committed copy wholesale after a successful fetch or a
// reconciled save echo.
func (s *Store) Load(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Record = rec
	s.snap.Loaded = true
	s.snap.Dirty = false
	s.snap.LastError = nil
	s.snap.LastSynced = time.Now()
	s.snap.ConsecutiveFailures = 0
}

// Commit replaces the committed copy with a validated working copy. The
// record is locally authoritative but not yet persisted remotely, so the
// store is marked dirty until a push is acknowledged.
func (s *Store) Commit(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Record = rec
	s.snap.Dirty = true
}

// Snapshot returns an independent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snap
	if s.snap.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snap.LastError)
	}
	return snap
}

// RecordFailure notes a failed fetch or push. Previous data is kept; the
// error is recorded for visibility.
func (s *Store) RecordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.LastError = err
	s.snap.ConsecutiveFailures++
}

// Reconcile applies a backend echo of a saved record, but only when it still
// identifies the record currently held (email is immutable and serves as the
// key). A stale echo from an abandoned request is dropped.
func (s *Store) Reconcile(rec Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.User.Email == "" || rec.User.Email != s.snap.Record.User.Email {
		return false
	}
	s.snap.Record = rec
	s.snap.Loaded = true
	s.snap.Dirty = false
	s.snap.LastError = nil
	s.snap.LastSynced = time.Now()
	s.snap.ConsecutiveFailures = 0
	return true
}

// MarkPersisted records a plain acknowledgement for the given record key.
// Returns false when the ack no longer matches the committed copy.
func (s *Store) MarkPersisted(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if email == "" || email != s.snap.Record.User.Email {
		return false
	}
	s.snap.Dirty = false
	s.snap.LastError = nil
	s.snap.LastSynced = time.Now()
	s.snap.ConsecutiveFailures = 0
	return true
}
