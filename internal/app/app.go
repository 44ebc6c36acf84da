package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"pillbox/internal/config"
	"pillbox/internal/logging"
	"pillbox/internal/medhub"
	"pillbox/internal/prefs"
	"pillbox/internal/reminders"
	"pillbox/internal/session"
	"pillbox/internal/state"
	"pillbox/internal/ui"
)

// Options configure the pillbox application.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/pillbox/prefs.toml
	SessionPath string // empty uses default ~/.config/pillbox/token.json
	PollEvery   int    // seconds; zero uses the configured value
}

// Run boots the pillbox TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	log := logging.New(cfg.LogPath)
	defer func() { _ = log.Sync() }()

	client, err := medhub.NewClient(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("init medhub client: %w", err)
	}

	sessionPath := opts.SessionPath
	if strings.TrimSpace(sessionPath) == "" {
		sessionPath = session.DefaultPath()
	}
	if sess, err := session.Load(sessionPath); err == nil {
		client.SetToken(sess.Token)
		log.Info("session restored", zap.String("email", sess.Email))
	} else {
		log.Info("no stored session, login required")
	}

	profileStore := state.NewStore()
	reminderStore := state.NewReminderStore()
	syncer := NewSyncer(client, profileStore, reminderStore, log)
	manager := reminders.NewManager(reminderStore, client, log)

	interval := defaultPollInterval
	if cfg.PollSeconds > 0 {
		interval = time.Duration(cfg.PollSeconds) * time.Second
	}
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Populate the stores before the UI starts; on failure the UI renders
	// the placeholder data and keeps retrying via the poller.
	if client.Authenticated() {
		initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		_ = syncer.FetchInitial(initCtx)
		cancel()
	}

	StartPoller(ctx, manager, client.Authenticated, interval, log)

	uiOpts := ui.Options{
		Context:     ctx,
		Client:      client,
		Syncer:      syncer,
		Profile:     profileStore,
		Reminders:   manager,
		Prefs:       userPrefs,
		PrefsPath:   opts.PrefsPath,
		SessionPath: sessionPath,
		PollTick:    interval,
		Logger:      log,
	}
	return ui.Run(uiOpts)
}
