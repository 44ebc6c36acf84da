package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pillbox/internal/form"
	"pillbox/internal/prefs"
	"pillbox/internal/validate"
)

// profileField binds one edit input to its session slot and validator key.
type profileField struct {
	label string
	key   string
	get   func(*form.Session) string
	set   func(*form.Session, string)
}

var profileFields = []profileField{
	{"Full name", validate.FieldFullName,
		func(s *form.Session) string { return s.FullName },
		func(s *form.Session, v string) { s.FullName = v }},
	{"Mobile number", validate.FieldMobileNumber,
		func(s *form.Session) string { return s.MobileNumber },
		func(s *form.Session, v string) { s.MobileNumber = v }},
	{"Gender", validate.FieldGender,
		func(s *form.Session) string { return s.Gender },
		func(s *form.Session, v string) { s.Gender = v }},
	{"Birth date", validate.FieldBirthDate,
		func(s *form.Session) string { return s.BirthDate },
		func(s *form.Session, v string) { s.BirthDate = v }},
	{"Blood group", validate.FieldBloodGroup,
		func(s *form.Session) string { return s.BloodGroup },
		func(s *form.Session, v string) { s.BloodGroup = v }},
	{"Emergency contact", validate.FieldEmergencyContact,
		func(s *form.Session) string { return s.EmergencyContact },
		func(s *form.Session, v string) { s.EmergencyContact = v }},
	{"Allergies", "",
		func(s *form.Session) string { return s.Allergies },
		func(s *form.Session, v string) { s.Allergies = v }},
	{"Medical conditions", "",
		func(s *form.Session) string { return s.MedicalConditions },
		func(s *form.Session, v string) { s.MedicalConditions = v }},
	{"Street address", validate.FieldStreetAddress,
		func(s *form.Session) string { return s.StreetAddress },
		func(s *form.Session, v string) { s.StreetAddress = v }},
	{"City", validate.FieldCity,
		func(s *form.Session) string { return s.City },
		func(s *form.Session, v string) { s.City = v }},
	{"State", validate.FieldState,
		func(s *form.Session) string { return s.State },
		func(s *form.Session, v string) { s.State = v }},
	{"PIN code", validate.FieldPinCode,
		func(s *form.Session) string { return s.PinCode },
		func(s *form.Session, v string) { s.PinCode = v }},
}

func (m Model) editing() bool {
	return m.editor != nil && m.editor.Mode() == form.Editing
}

// enterEdit forks the working copy and builds one input per field.
func (m *Model) enterEdit() {
	m.editor.Edit()
	sess := m.editor.Session()

	m.fields = make([]textinput.Model, len(profileFields))
	for i, f := range profileFields {
		in := textinput.New()
		in.Placeholder = f.label
		in.CharLimit = 200
		in.SetValue(f.get(sess))
		m.fields[i] = in
	}
	m.fieldFocus = 0
	m.fields[0].Focus()
}

func (m *Model) focusField(idx int) {
	m.fieldFocus = idx
	for i := range m.fields {
		if i == idx {
			m.fields[i].Focus()
		} else {
			m.fields[i].Blur()
		}
	}
}

// applyFields copies the input values back into the working session.
func (m *Model) applyFields() {
	sess := m.editor.Session()
	for i, f := range profileFields {
		f.set(sess, m.fields[i].Value())
	}
}

// handleDashboardKey processes keyboard input for the profile view.
func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing() {
		switch msg.String() {
		case "tab", "down":
			m.focusField((m.fieldFocus + 1) % len(m.fields))
			return m, nil
		case "shift+tab", "up":
			m.focusField((m.fieldFocus + len(m.fields) - 1) % len(m.fields))
			return m, nil
		case "esc":
			m.editor.Cancel()
			m.fields = nil
			return m, nil
		case "ctrl+s", "enter":
			m.applyFields()
			rec, ok := m.editor.Save()
			if !ok {
				return m, nil
			}
			m.fields = nil
			m.status = okStatus("Saving...")
			return m, tea.Batch(
				fetchSnapshotCmd(m.profile),
				pushCmd(m.ctx, m.syncer, rec),
			)
		}

		var cmd tea.Cmd
		m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "e":
		m.enterEdit()
		return m, nil
	case "r":
		m.currentView = ViewReminders
		return m, fetchRemindersCmd(m.reminders)
	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, m.prefs)
		}
		return m, nil
	}
	return m, nil
}

// renderDashboard draws the profile, read-only or as the edit form.
func (m Model) renderDashboard() string {
	if m.editing() {
		return m.renderProfileEdit()
	}
	return m.renderProfileView()
}

func (m Model) renderProfileView() string {
	st := m.theme.Styles()
	rec := m.snapshot.Record

	row := func(label, value string) string {
		return st.Label.Render(label) + st.Text.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(st.AccentText.Render("  Profile"))
	b.WriteString("\n\n")
	b.WriteString(row("  Name", rec.User.FullName()))
	b.WriteString(row("  Email", rec.User.Email))
	b.WriteString(row("  Mobile", rec.User.MobileNumber))
	b.WriteString(row("  Gender", rec.User.Gender))
	b.WriteString(row("  Birth date", rec.User.BirthDate))
	b.WriteString(row("  Blood group", rec.User.BloodGroup))
	b.WriteString(row("  Emergency", rec.User.EmergencyContactNumber))
	b.WriteString(row("  Allergies", rec.User.Allergies))
	b.WriteString(row("  Conditions", rec.User.MedicalConditions))
	b.WriteString("\n")
	b.WriteString(st.AccentText.Render("  Address"))
	b.WriteString("\n\n")
	b.WriteString(row("  Street", rec.Address.StreetAddress))
	b.WriteString(row("  City", rec.Address.City))
	b.WriteString(row("  State", rec.Address.State))
	b.WriteString(row("  PIN", rec.Address.PinCode))

	if !m.snapshot.LastSynced.IsZero() {
		b.WriteString("\n")
		b.WriteString(st.FaintText.Render("  last synced " + m.snapshot.LastSynced.Format("15:04:05")))
	}
	return b.String()
}

func (m Model) renderProfileEdit() string {
	st := m.theme.Styles()
	errors := m.editor.Errors()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(st.AccentText.Render("  Edit profile"))
	b.WriteString(st.MutedText.Render("  (email cannot be changed)"))
	b.WriteString("\n\n")
	for i, f := range profileFields {
		b.WriteString(st.Label.Render("  " + f.label))
		b.WriteString(m.fields[i].View())
		b.WriteString("\n")
		if f.key != "" {
			if msg := errors.Message(f.key); msg != "" {
				b.WriteString(st.FieldError.Render("    "+msg) + "\n")
			}
		}
	}
	return b.String()
}
