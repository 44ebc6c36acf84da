package reminders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pillbox/internal/medhub"
	"pillbox/internal/state"
)

type fakeBackend struct {
	mu sync.Mutex

	fetchOut []medhub.Reminder
	fetchErr error
	addOut   medhub.Reminder
	addErr   error
	delErr   error

	fetchCalls int
	addCalls   int
	delCalls   int

	addStarted chan struct{}
	addRelease chan struct{}
}

var _ Backend = (*fakeBackend)(nil)

func (f *fakeBackend) FetchReminders(context.Context) ([]medhub.Reminder, error) {
	f.mu.Lock()
	f.fetchCalls++
	f.mu.Unlock()
	return append([]medhub.Reminder(nil), f.fetchOut...), f.fetchErr
}

func (f *fakeBackend) AddReminder(_ context.Context, name, dosage, timeOfDay string) (medhub.Reminder, error) {
	f.mu.Lock()
	f.addCalls++
	f.mu.Unlock()
	if f.addStarted != nil {
		close(f.addStarted)
		f.addStarted = nil
		<-f.addRelease
	}
	return f.addOut, f.addErr
}

func (f *fakeBackend) DeleteReminder(context.Context, string) error {
	f.mu.Lock()
	f.delCalls++
	f.mu.Unlock()
	return f.delErr
}

func (f *fakeBackend) calls() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls, f.addCalls, f.delCalls
}

func loadedStore(items ...medhub.Reminder) *state.ReminderStore {
	s := state.NewReminderStore()
	s.Load(items)
	return s
}

func TestManager_ListSorted(t *testing.T) {
	store := loadedStore(
		medhub.Reminder{ID: "a", Time: "09:00 PM"},
		medhub.Reminder{ID: "b", Time: "08:00 AM"},
		medhub.Reminder{ID: "c", Time: "01:00 PM"},
	)
	m := NewManager(store, &fakeBackend{}, nil)

	list := m.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestManager_AddValidatesBeforeNetwork(t *testing.T) {
	backend := &fakeBackend{}
	m := NewManager(loadedStore(), backend, nil)

	_, err := m.Add(context.Background(), "", "500 mg", "08:00")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Result)

	_, adds, _ := backend.calls()
	assert.Zero(t, adds, "invalid input must not reach the backend")
}

func TestManager_AddAppendsCreatedRecord(t *testing.T) {
	backend := &fakeBackend{addOut: medhub.Reminder{ID: "new-1", MedicineName: "Amoxicillin", Dosage: "500 mg", Time: "08:00"}}
	m := NewManager(loadedStore(medhub.Reminder{ID: "a", Time: "21:00"}), backend, nil)

	created, err := m.Add(context.Background(), "Amoxicillin", "500 mg", "08:00")
	require.NoError(t, err)
	assert.Equal(t, "new-1", created.ID)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, "new-1", list[0].ID, "new record sorts into place")
	assert.False(t, m.AddInFlight())
}

func TestManager_AddWithoutEchoRefetches(t *testing.T) {
	backend := &fakeBackend{
		addOut:   medhub.Reminder{},
		fetchOut: []medhub.Reminder{{ID: "server-1", Time: "08:00"}},
	}
	m := NewManager(loadedStore(), backend, nil)

	_, err := m.Add(context.Background(), "Amoxicillin", "500 mg", "08:00")
	require.NoError(t, err)

	fetches, _, _ := backend.calls()
	assert.Equal(t, 1, fetches)
	require.Len(t, m.List(), 1)
	assert.Equal(t, "server-1", m.List()[0].ID)
}

func TestManager_AddReentrancyGuard(t *testing.T) {
	backend := &fakeBackend{
		addOut:     medhub.Reminder{ID: "new-1", Time: "08:00"},
		addStarted: make(chan struct{}),
		addRelease: make(chan struct{}),
	}
	started := backend.addStarted
	m := NewManager(loadedStore(), backend, nil)

	done := make(chan error, 1)
	go func() {
		_, err := m.Add(context.Background(), "Amoxicillin", "500 mg", "08:00")
		done <- err
	}()

	<-started
	assert.True(t, m.AddInFlight())

	// Second submit while the first is pending: rejected, no second request.
	_, err := m.Add(context.Background(), "Ibuprofen", "200 mg", "09:00")
	assert.ErrorIs(t, err, ErrAddInFlight)

	close(backend.addRelease)
	require.NoError(t, <-done)

	_, adds, _ := backend.calls()
	assert.Equal(t, 1, adds, "only one create request may be sent")
	assert.False(t, m.AddInFlight(), "guard released after completion")
}

func TestManager_AddGuardReleasedOnFailure(t *testing.T) {
	backend := &fakeBackend{addErr: errors.New("backend down")}
	m := NewManager(loadedStore(), backend, nil)

	_, err := m.Add(context.Background(), "Amoxicillin", "500 mg", "08:00")
	require.Error(t, err)
	assert.False(t, m.AddInFlight())

	// The trigger is usable again.
	backend.addErr = nil
	backend.addOut = medhub.Reminder{ID: "new-1", Time: "08:00"}
	_, err = m.Add(context.Background(), "Amoxicillin", "500 mg", "08:00")
	assert.NoError(t, err)
}

func TestManager_DeleteEmptyIDFailsFast(t *testing.T) {
	backend := &fakeBackend{}
	m := NewManager(loadedStore(medhub.Reminder{ID: "a", Time: "08:00"}), backend, nil)

	err := m.Delete(context.Background(), "", func() bool { return true })
	assert.ErrorIs(t, err, ErrMissingID)

	_, _, dels := backend.calls()
	assert.Zero(t, dels, "empty id must never issue a network call")
	assert.Len(t, m.List(), 1)
}

func TestManager_DeleteRequiresConfirmation(t *testing.T) {
	backend := &fakeBackend{}
	m := NewManager(loadedStore(medhub.Reminder{ID: "a", Time: "08:00"}), backend, nil)

	err := m.Delete(context.Background(), "a", func() bool { return false })
	assert.ErrorIs(t, err, ErrDeclined)
	_, _, dels := backend.calls()
	assert.Zero(t, dels)
	assert.Len(t, m.List(), 1)
}

func TestManager_DeleteFailureLeavesList(t *testing.T) {
	backend := &fakeBackend{delErr: errors.New("backend down")}
	m := NewManager(loadedStore(medhub.Reminder{ID: "a", Time: "08:00"}), backend, nil)

	err := m.Delete(context.Background(), "a", func() bool { return true })
	require.Error(t, err)
	assert.Len(t, m.List(), 1, "failed delete leaves the list untouched")

	backend.delErr = nil
	require.NoError(t, m.Delete(context.Background(), "a", func() bool { return true }))
	assert.Empty(t, m.List())
}

func TestManager_ToggleDoneIsLocalOnly(t *testing.T) {
	backend := &fakeBackend{}
	m := NewManager(loadedStore(medhub.Reminder{ID: "a", Time: "08:00"}), backend, nil)

	done, err := m.ToggleDone("a")
	require.NoError(t, err)
	assert.True(t, done)

	done, err = m.ToggleDone("a")
	require.NoError(t, err)
	assert.False(t, done)

	_, err = m.ToggleDone("missing")
	assert.Error(t, err)

	fetches, adds, dels := backend.calls()
	assert.Zero(t, fetches+adds+dels, "toggle never touches the network")
}

func TestManager_RefreshFailureKeepsList(t *testing.T) {
	backend := &fakeBackend{fetchErr: errors.New("unreachable")}
	m := NewManager(loadedStore(medhub.Reminder{ID: "a", Time: "08:00"}), backend, nil)

	require.Error(t, m.Refresh(context.Background()))
	assert.Len(t, m.List(), 1)
	assert.NotNil(t, m.Snapshot().LastError)
}

func TestManager_Stats(t *testing.T) {
	m := NewManager(loadedStore(
		medhub.Reminder{ID: "a", Time: "08:00"},
		medhub.Reminder{ID: "b", Time: "01:00 PM"},
		medhub.Reminder{ID: "c", Time: "18:30"},
		medhub.Reminder{ID: "d", Time: "11:45 PM"},
		medhub.Reminder{ID: "e", Time: "junk"},
	), &fakeBackend{}, nil)

	stats := m.Stats()
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Morning)
	assert.Equal(t, 1, stats.Afternoon)
	assert.Equal(t, 1, stats.Evening)
	assert.Equal(t, 1, stats.Night)
}
