package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pillbox/internal/medhub"
	"pillbox/internal/state"
)

const defaultPollInterval = 30 * time.Second

// ProfileBackend is the subset of the API client the syncer needs.
type ProfileBackend interface {
	FetchProfile(ctx context.Context) (*medhub.ProfileBundle, error)
	SaveProfile(ctx context.Context, user medhub.Profile, addr medhub.Address) (*medhub.ProfileBundle, error)
}

// Syncer moves records between the backend and the local stores. Reads
// degrade to whatever the stores already hold; writes follow the optimistic
// commit that already happened and are never rolled back.
type Syncer struct {
	backend   ProfileBackend
	profile   *state.Store
	reminders *state.ReminderStore
	log       *zap.Logger
}

// NewSyncer builds a syncer over the given stores.
func NewSyncer(backend ProfileBackend, profile *state.Store, reminders *state.ReminderStore, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{backend: backend, profile: profile, reminders: reminders, log: log}
}

// FetchInitial loads the profile, address, and reminders in one request. On
// failure the stores keep their last-loaded (or placeholder) data and the
// error is recorded; the UI stays usable.
func (s *Syncer) FetchInitial(ctx context.Context) error {
	bundle, err := s.backend.FetchProfile(ctx)
	if err != nil {
		s.profile.RecordFailure(err)
		s.reminders.RecordFailure(err)
		s.log.Warn("initial fetch failed, rendering local data", zap.Error(err))
		return fmt.Errorf("fetch profile: %w", err)
	}
	s.profile.Load(state.Record{User: bundle.User, Address: bundle.Address})
	s.reminders.Load(bundle.Reminders)
	s.log.Info("profile loaded", zap.String("email", bundle.User.Email), zap.Int("reminders", len(bundle.Reminders)))
	return nil
}

// PushUpdate persists a committed record. The local commit stands whatever
// happens here. A normalized echo is reconciled into the store only when it
// still keys to the record currently held; a stale echo is dropped. The
// returned error is a non-blocking warning: local changes were kept but may
// not be persisted remotely.
func (s *Syncer) PushUpdate(ctx context.Context, rec state.Record) error {
	echo, err := s.backend.SaveProfile(ctx, rec.User, rec.Address)
	if err != nil {
		s.profile.RecordFailure(err)
		s.log.Warn("profile push failed, local changes retained", zap.Error(err))
		return fmt.Errorf("save profile: %w", err)
	}
	if echo != nil {
		if !s.profile.Reconcile(state.Record{User: echo.User, Address: echo.Address}) {
			s.log.Info("dropping stale save echo", zap.String("echo_email", echo.User.Email))
		}
		return nil
	}
	if !s.profile.MarkPersisted(rec.User.Email) {
		s.log.Info("dropping stale save ack", zap.String("email", rec.User.Email))
	}
	return nil
}
