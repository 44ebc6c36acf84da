package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"pillbox/internal/medhub"
	"pillbox/internal/session"
	"pillbox/internal/validate"
)

// authState holds the sign-in and registration forms.
type authState struct {
	login      []textinput.Model // email, password
	register   []textinput.Model // name, email, password, confirm
	focus      int
	errors     validate.Result
	submitting bool
	lastError  string
}

func newAuthState() authState {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	name := textinput.New()
	name.Placeholder = "full name"
	name.CharLimit = 120

	regEmail := textinput.New()
	regEmail.Placeholder = "email"
	regEmail.CharLimit = 120

	regPassword := textinput.New()
	regPassword.Placeholder = "password (8+ characters)"
	regPassword.EchoMode = textinput.EchoPassword
	regPassword.CharLimit = 120

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.EchoMode = textinput.EchoPassword
	confirm.CharLimit = 120

	return authState{
		login:    []textinput.Model{email, password},
		register: []textinput.Model{name, regEmail, regPassword, confirm},
	}
}

func (a *authState) focusLogin(idx int) {
	a.focus = idx
	for i := range a.login {
		if i == idx {
			a.login[i].Focus()
		} else {
			a.login[i].Blur()
		}
	}
}

func (a *authState) focusRegister(idx int) {
	a.focus = idx
	for i := range a.register {
		if i == idx {
			a.register[i].Focus()
		} else {
			a.register[i].Blur()
		}
	}
}

// handleLoginKey processes keyboard input for the sign-in form.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.auth.focusLogin((m.auth.focus + 1) % len(m.auth.login))
		return m, nil
	case "shift+tab", "up":
		m.auth.focusLogin((m.auth.focus + len(m.auth.login) - 1) % len(m.auth.login))
		return m, nil
	case "ctrl+n":
		m.currentView = ViewRegister
		m.auth.errors = nil
		m.auth.lastError = ""
		m.auth.focusRegister(0)
		return m, nil
	case "enter":
		return m.submitLogin()
	}

	var cmd tea.Cmd
	m.auth.login[m.auth.focus], cmd = m.auth.login[m.auth.focus].Update(msg)
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	if m.auth.submitting {
		return m, nil
	}
	email := strings.TrimSpace(m.auth.login[0].Value())
	password := m.auth.login[1].Value()

	errors := validate.Result{}
	if msg := validate.Email(email); msg != "" {
		errors[validate.FieldEmail] = msg
	}
	if password == "" {
		errors[validate.FieldPassword] = "Password is required"
	}
	if !errors.OK() {
		m.auth.errors = errors
		return m, nil
	}

	m.auth.errors = nil
	m.auth.lastError = ""
	m.auth.submitting = true
	return m, loginCmd(m.ctx, m.client, email, password)
}

// handleRegisterKey processes keyboard input for the registration form.
func (m Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.auth.focusRegister((m.auth.focus + 1) % len(m.auth.register))
		return m, nil
	case "shift+tab", "up":
		m.auth.focusRegister((m.auth.focus + len(m.auth.register) - 1) % len(m.auth.register))
		return m, nil
	case "esc":
		m.currentView = ViewLogin
		m.auth.errors = nil
		m.auth.lastError = ""
		m.auth.focusLogin(0)
		return m, nil
	case "enter":
		return m.submitRegister()
	}

	var cmd tea.Cmd
	m.auth.register[m.auth.focus], cmd = m.auth.register[m.auth.focus].Update(msg)
	return m, cmd
}

func (m Model) submitRegister() (tea.Model, tea.Cmd) {
	if m.auth.submitting {
		return m, nil
	}
	name := strings.TrimSpace(m.auth.register[0].Value())
	email := strings.TrimSpace(m.auth.register[1].Value())
	password := m.auth.register[2].Value()
	confirm := m.auth.register[3].Value()

	if errors := validate.Registration(name, email, password, confirm); !errors.OK() {
		m.auth.errors = errors
		return m, nil
	}

	m.auth.errors = nil
	m.auth.lastError = ""
	m.auth.submitting = true
	return m, registerCmd(m.ctx, m.client, name, email, password)
}

// handleAuthResult finishes a login or registration round trip.
func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	m.auth.submitting = false
	if msg.err != nil {
		m.auth.lastError = msg.err.Error()
		m.log.Warn("auth failed", zap.Bool("register", msg.register), zap.Error(msg.err))
		return m, nil
	}

	m.client.SetToken(msg.token)
	if err := session.Save(m.sessionPath, msg.token, msg.email); err != nil {
		m.log.Warn("session save failed", zap.Error(err))
	}

	m.currentView = ViewDashboard
	if msg.register {
		m.status = okStatus("Account created, welcome!")
	} else {
		m.status = okStatus("Signed in")
	}
	return m, tea.Batch(initialFetchCmd(m.ctx, m.syncer), expireStatusCmd())
}

// handleInitialFetch lands the post-login profile load.
func (m Model) handleInitialFetch(msg initialFetchMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = warnStatus("Could not reach server; showing local data")
		return m, tea.Batch(fetchSnapshotCmd(m.profile), fetchRemindersCmd(m.reminders), expireStatusCmd())
	}
	return m, tea.Batch(fetchSnapshotCmd(m.profile), fetchRemindersCmd(m.reminders))
}

// renderLogin draws the sign-in form.
func (m Model) renderLogin() string {
	st := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(st.AccentText.Render("  Sign in"))
	b.WriteString("\n\n")
	for i, in := range m.auth.login {
		b.WriteString("  " + in.View() + "\n")
		field := validate.FieldEmail
		if i == 1 {
			field = validate.FieldPassword
		}
		if msg := m.auth.errors.Message(field); msg != "" {
			b.WriteString(st.FieldError.Render("  "+msg) + "\n")
		}
	}
	if m.auth.submitting {
		b.WriteString("\n" + st.MutedText.Render("  Signing in..."))
	}
	if m.auth.lastError != "" {
		b.WriteString("\n" + st.DangerText.Render("  "+m.auth.lastError))
	}
	return b.String()
}

// renderRegister draws the registration form with the strength meter.
func (m Model) renderRegister() string {
	st := m.theme.Styles()
	fields := []string{
		validate.FieldName,
		validate.FieldEmail,
		validate.FieldPassword,
		validate.FieldConfirmPassword,
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(st.AccentText.Render("  Create account"))
	b.WriteString("\n\n")
	for i, in := range m.auth.register {
		b.WriteString("  " + in.View() + "\n")
		if i == 2 {
			score := validate.PasswordStrength(in.Value())
			b.WriteString(st.MutedText.Render("  strength: "+strengthBar(score)) + "\n")
		}
		if msg := m.auth.errors.Message(fields[i]); msg != "" {
			b.WriteString(st.FieldError.Render("  "+msg) + "\n")
		}
	}
	if m.auth.submitting {
		b.WriteString("\n" + st.MutedText.Render("  Creating account..."))
	}
	if m.auth.lastError != "" {
		b.WriteString("\n" + st.DangerText.Render("  "+m.auth.lastError))
	}
	return b.String()
}

// Commands

func loginCmd(ctx context.Context, client *medhub.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		token, err := client.Login(callCtx, email, password)
		return authResultMsg{email: email, token: token, err: err}
	}
}

func registerCmd(ctx context.Context, client *medhub.Client, name, email, password string) tea.Cmd {
	return func() tea.Msg {
		callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		token, err := client.Register(callCtx, name, email, password)
		return authResultMsg{register: true, email: email, token: token, err: err}
	}
}
