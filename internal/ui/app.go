// Package ui provides the Bubble Tea TUI for pillbox.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"pillbox/internal/form"
	"pillbox/internal/medhub"
	"pillbox/internal/prefs"
	"pillbox/internal/reminders"
	"pillbox/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewDashboard
	ViewReminders
)

// Syncer pushes profile records to the backend and pulls fresh ones. The
// concrete implementation lives in the app package.
type Syncer interface {
	FetchInitial(ctx context.Context) error
	PushUpdate(ctx context.Context, rec state.Record) error
}

// Options configures the UI.
type Options struct {
	Context     context.Context
	Client      *medhub.Client
	Syncer      Syncer
	Profile     *state.Store
	Reminders   *reminders.Manager
	Prefs       prefs.Prefs
	PrefsPath   string
	SessionPath string
	PollTick    time.Duration
	Logger      *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	client      *medhub.Client
	syncer      Syncer
	profile     *state.Store
	reminders   *reminders.Manager
	prefs       prefs.Prefs
	prefsPath   string
	sessionPath string
	pollTick    time.Duration
	log         *zap.Logger

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	status      statusLine

	// Data state
	snapshot    state.Snapshot
	remSnapshot state.ReminderSnapshot
	lastUpdated time.Time

	// Auth state
	auth authState

	// Dashboard state
	editor     *form.Controller
	fields     []textinput.Model
	fieldFocus int

	// Reminder state
	selectedRow    int
	addForm        *reminderForm
	pendingDelete  string
	showStats      bool
	timeFormat24h  bool
	confirmDeletes bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	view := ViewLogin
	if opts.Client.Authenticated() {
		view = ViewDashboard
	}

	m := Model{
		ctx:            ctx,
		client:         opts.Client,
		syncer:         opts.Syncer,
		profile:        opts.Profile,
		reminders:      opts.Reminders,
		prefs:          opts.Prefs,
		prefsPath:      prefsPath,
		sessionPath:    opts.SessionPath,
		pollTick:       pollTick,
		log:            log,
		theme:          GetTheme(opts.Prefs.Theme),
		currentView:    view,
		editor:         form.NewController(opts.Profile),
		timeFormat24h:  opts.Prefs.TimeFormat == "24h",
		confirmDeletes: opts.Prefs.ConfirmDeletes(),
	}
	m.auth = newAuthState()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		textinput.Blink,
	}
	if m.profile != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.profile))
	}
	if m.reminders != nil {
		cmds = append(cmds, fetchRemindersCmd(m.reminders))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		return m, nil

	case remindersMsg:
		m.remSnapshot = state.ReminderSnapshot(msg)
		if max := len(m.remSnapshot.Reminders) - 1; m.selectedRow > max && max >= 0 {
			m.selectedRow = max
		}
		return m, nil

	case authResultMsg:
		return m.handleAuthResult(msg)

	case initialFetchMsg:
		return m.handleInitialFetch(msg)

	case pushResultMsg:
		if msg.err != nil {
			m.status = warnStatus("Saved locally; server update failed: " + msg.err.Error())
		} else {
			m.status = okStatus("Profile saved")
		}
		return m, tea.Batch(fetchSnapshotCmd(m.profile), expireStatusCmd())

	case addResultMsg:
		return m.handleAddResult(msg)

	case deleteResultMsg:
		if msg.err != nil {
			m.status = warnStatus("Delete failed: " + msg.err.Error())
		} else {
			m.status = okStatus("Reminder deleted")
		}
		return m, tea.Batch(fetchRemindersCmd(m.reminders), expireStatusCmd())

	case statusExpireMsg:
		if time.Time(msg).After(m.status.setAt) || time.Time(msg).Equal(m.status.setAt) {
			m.status = statusLine{}
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.currentView {
	case ViewLogin:
		b.WriteString(m.renderLogin())
	case ViewRegister:
		b.WriteString(m.renderRegister())
	case ViewDashboard:
		b.WriteString(m.renderDashboard())
	case ViewReminders:
		b.WriteString(m.renderReminders())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// handleKey dispatches keyboard input to the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits; everything else is view-specific because most
	// views own text inputs that need plain letters.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.currentView {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewRegister:
		return m.handleRegisterKey(msg)
	case ViewDashboard:
		return m.handleDashboardKey(msg)
	case ViewReminders:
		return m.handleRemindersKey(msg)
	}
	return m, nil
}

// handleTick refreshes snapshots and schedules the next tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.profile != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.profile))
	}
	if m.reminders != nil {
		cmds = append(cmds, fetchRemindersCmd(m.reminders))
	}
	return m, tea.Batch(cmds...)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type remindersMsg state.ReminderSnapshot

type statusExpireMsg time.Time

type authResultMsg struct {
	register bool
	email    string
	token    string
	err      error
}

type initialFetchMsg struct {
	err error
}

type pushResultMsg struct {
	err error
}

type addResultMsg struct {
	err error
}

type deleteResultMsg struct {
	id  string
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func fetchRemindersCmd(manager *reminders.Manager) tea.Cmd {
	return func() tea.Msg {
		return remindersMsg(manager.Snapshot())
	}
}

func initialFetchCmd(ctx context.Context, syncer Syncer) tea.Cmd {
	return func() tea.Msg {
		fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return initialFetchMsg{err: syncer.FetchInitial(fetchCtx)}
	}
}

func pushCmd(ctx context.Context, syncer Syncer, rec state.Record) tea.Cmd {
	return func() tea.Msg {
		pushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return pushResultMsg{err: syncer.PushUpdate(pushCtx, rec)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
