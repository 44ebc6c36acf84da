package state

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"pillbox/internal/medhub"
)

// ReminderSnapshot is an independent view of the reminder list plus sync
// health. Reminders are always sorted ascending by time-of-day; the sort is
// stable, so ties keep their prior relative order.
type ReminderSnapshot struct {
	Reminders           []medhub.Reminder
	Loaded              bool
	LastError           error
	LastSynced          time.Time
	ConsecutiveFailures int
}

// Offline reports whether the backend has been unreachable for multiple
// consecutive attempts.
func (s ReminderSnapshot) Offline() bool {
	return s.ConsecutiveFailures >= 2
}

// ReminderStore owns the committed reminder list.
type ReminderStore struct {
	mu   sync.RWMutex
	snap ReminderSnapshot
}

// NewReminderStore returns a store pre-seeded with the placeholder list.
func NewReminderStore() *ReminderStore {
	s := &ReminderStore{}
	s.snap.Reminders = sortReminders(PlaceholderReminders())
	return s
}

// Load replaces the list wholesale after a successful fetch.
func (s *ReminderStore) Load(items []medhub.Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Reminders = sortReminders(cloneReminders(items))
	s.snap.Loaded = true
	s.snap.LastError = nil
	s.snap.LastSynced = time.Now()
	s.snap.ConsecutiveFailures = 0
}

// Snapshot returns an independent, sorted copy of the current state.
func (s *ReminderStore) Snapshot() ReminderSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snap
	snap.Reminders = cloneReminders(s.snap.Reminders)
	if s.snap.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snap.LastError)
	}
	return snap
}

// Append adds a backend-assigned record to the list, keeping sort order.
func (s *ReminderStore) Append(r medhub.Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Reminders = sortReminders(append(s.snap.Reminders, r))
}

// Remove deletes the reminder with the given identifier. Returns false when
// no such reminder is held.
func (s *ReminderStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.snap.Reminders {
		if r.ID == id {
			s.snap.Reminders = append(s.snap.Reminders[:i], s.snap.Reminders[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle flips the completion flag of one reminder. This is a local-only
// state change; it is never persisted to the backend.
func (s *ReminderStore) Toggle(id string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snap.Reminders {
		if s.snap.Reminders[i].ID == id {
			s.snap.Reminders[i].Done = !s.snap.Reminders[i].Done
			return s.snap.Reminders[i].Done, true
		}
	}
	return false, false
}

// RecordFailure notes a failed fetch. Previous data is kept.
func (s *ReminderStore) RecordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.LastError = err
	s.snap.ConsecutiveFailures++
}

func cloneReminders(items []medhub.Reminder) []medhub.Reminder {
	if len(items) == 0 {
		return nil
	}
	dup := make([]medhub.Reminder, len(items))
	copy(dup, items)
	return dup
}

func sortReminders(items []medhub.Reminder) []medhub.Reminder {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].MinutesOfDay() < items[j].MinutesOfDay()
	})
	return items
}
