// Package reminders implements CRUD over the reminder list: validated adds
// with a re-entrancy guard, confirmed deletes, and the deliberately
// local-only completion toggle.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"pillbox/internal/medhub"
	"pillbox/internal/state"
	"pillbox/internal/validate"
)

// Sentinel errors for locally rejected operations. None of them issue a
// network call.
var (
	ErrAddInFlight = errors.New("an add is already in flight")
	ErrMissingID   = errors.New("cannot delete a reminder without an id")
	ErrDeclined    = errors.New("delete not confirmed")
)

// ValidationError carries the per-field failures of a rejected add.
type ValidationError struct {
	Result validate.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid reminder: %d field(s) failed", len(e.Result))
}

// Backend is the subset of the API client the manager needs.
type Backend interface {
	FetchReminders(ctx context.Context) ([]medhub.Reminder, error)
	AddReminder(ctx context.Context, medicineName, dosage, timeOfDay string) (medhub.Reminder, error)
	DeleteReminder(ctx context.Context, id string) error
}

// Manager coordinates the reminder store with the backend.
type Manager struct {
	store   *state.ReminderStore
	backend Backend
	log     *zap.Logger

	adding atomic.Bool
}

// NewManager builds a manager over the given store and backend.
func NewManager(store *state.ReminderStore, backend Backend, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, backend: backend, log: log}
}

// List returns the current reminders sorted ascending by time-of-day.
func (m *Manager) List() []medhub.Reminder {
	return m.store.Snapshot().Reminders
}

// Snapshot returns the full reminder snapshot including sync health.
func (m *Manager) Snapshot() state.ReminderSnapshot {
	return m.store.Snapshot()
}

// Refresh re-fetches the list from the backend. On failure the previous list
// is kept and the error recorded.
func (m *Manager) Refresh(ctx context.Context) error {
	items, err := m.backend.FetchReminders(ctx)
	if err != nil {
		m.store.RecordFailure(err)
		m.log.Warn("reminder refresh failed", zap.Error(err))
		return err
	}
	m.store.Load(items)
	return nil
}

// AddInFlight reports whether a create request is outstanding, so the UI can
// keep the submit action disabled.
func (m *Manager) AddInFlight() bool {
	return m.adding.Load()
}

// Add validates the fields, sends the create request, and applies the
// backend-assigned record. A second Add while one is in flight is rejected
// before any request is sent; the guard is released whether the first
// succeeds or fails.
func (m *Manager) Add(ctx context.Context, medicineName, dosage, timeOfDay string) (medhub.Reminder, error) {
	if result := validate.Reminder(medicineName, dosage, timeOfDay); !result.OK() {
		return medhub.Reminder{}, &ValidationError{Result: result}
	}
	if !m.adding.CompareAndSwap(false, true) {
		return medhub.Reminder{}, ErrAddInFlight
	}
	defer m.adding.Store(false)

	created, err := m.backend.AddReminder(ctx, strings.TrimSpace(medicineName), strings.TrimSpace(dosage), strings.TrimSpace(timeOfDay))
	if err != nil {
		m.log.Warn("add reminder failed", zap.String("medicine", medicineName), zap.Error(err))
		return medhub.Reminder{}, err
	}

	if created.ID != "" {
		m.store.Append(created)
	} else if err := m.Refresh(ctx); err != nil {
		// The create succeeded; surface the list as-is and let the next
		// refresh pick the record up.
		m.log.Warn("post-add refresh failed", zap.Error(err))
	}
	m.log.Info("reminder added", zap.String("id", created.ID), zap.String("medicine", created.MedicineName))
	return created, nil
}

// Delete removes a reminder after confirmation. An empty identifier fails
// fast with a local error, since the record cannot be addressed server-side.
// On backend failure the list is left untouched.
func (m *Manager) Delete(ctx context.Context, id string, confirm func() bool) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if confirm != nil && !confirm() {
		return ErrDeclined
	}
	if err := m.backend.DeleteReminder(ctx, id); err != nil {
		m.log.Warn("delete reminder failed", zap.String("id", id), zap.Error(err))
		return err
	}
	m.store.Remove(id)
	m.log.Info("reminder deleted", zap.String("id", id))
	return nil
}

// ToggleDone flips the completion flag locally. The change is never
// persisted to the backend.
func (m *Manager) ToggleDone(id string) (bool, error) {
	done, ok := m.store.Toggle(id)
	if !ok {
		return false, fmt.Errorf("no reminder with id %q", id)
	}
	return done, nil
}

// Stats buckets the current list by time of day.
type Stats struct {
	Total     int
	Morning   int // 05:00-11:59
	Afternoon int // 12:00-16:59
	Evening   int // 17:00-20:59
	Night     int
}

// Stats computes the daypart distribution of the current list.
func (m *Manager) Stats() Stats {
	items := m.store.Snapshot().Reminders
	stats := Stats{Total: len(items)}
	for _, r := range items {
		min, ok := medhub.ParseTimeOfDay(r.Time)
		if !ok {
			continue
		}
		switch hour := min / 60; {
		case hour >= 5 && hour < 12:
			stats.Morning++
		case hour >= 12 && hour < 17:
			stats.Afternoon++
		case hour >= 17 && hour < 21:
			stats.Evening++
		default:
			stats.Night++
		}
	}
	return stats
}
