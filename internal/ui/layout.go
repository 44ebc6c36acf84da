package ui

import (
	"fmt"
	"strings"
)

// renderHeader draws the top bar: logo, signed-in user, connection state.
func (m Model) renderHeader() string {
	st := m.theme.Styles()

	var b strings.Builder
	b.WriteString(st.Logo.Render("pillbox"))
	b.WriteString(st.MutedText.Render("  medicine reminders"))

	if m.currentView == ViewDashboard || m.currentView == ViewReminders {
		b.WriteString(st.Text.Render("  " + m.snapshot.Record.User.FullName()))
		switch {
		case m.snapshot.Offline():
			b.WriteString(st.DangerText.Render("  [offline]"))
		case !m.snapshot.Loaded:
			b.WriteString(st.WarningText.Render("  [local data]"))
		case m.snapshot.Dirty:
			b.WriteString(st.WarningText.Render("  [unsaved on server]"))
		default:
			b.WriteString(st.SuccessText.Render("  [synced]"))
		}
	}

	return st.Header.Width(max(m.width, 0)).Render(b.String())
}

// renderStatusBar draws the footer: transient status or key hints.
func (m Model) renderStatusBar() string {
	st := m.theme.Styles()

	if m.status.level != statusNone {
		line := m.status.text
		if m.status.level == statusWarn {
			return st.Footer.Width(max(m.width, 0)).Render(st.WarningText.Render(line))
		}
		return st.Footer.Width(max(m.width, 0)).Render(st.SuccessText.Render(line))
	}

	var hints string
	switch m.currentView {
	case ViewLogin:
		hints = "enter: sign in • ctrl+n: create account • ctrl+c: quit"
	case ViewRegister:
		hints = "enter: create account • esc: back to sign in • ctrl+c: quit"
	case ViewDashboard:
		if m.editing() {
			hints = "tab: next field • ctrl+s: save • esc: cancel"
		} else {
			hints = "e: edit profile • r: reminders • T: theme • ctrl+c: quit"
		}
	case ViewReminders:
		switch {
		case m.addForm != nil:
			hints = "tab: next field • enter: add • esc: cancel"
		case m.pendingDelete != "":
			hints = fmt.Sprintf("delete %q? y/n", m.deleteLabel())
		default:
			hints = "a: add • d: delete • space: done • s: stats • p: profile • ctrl+c: quit"
		}
	}
	return st.Footer.Width(max(m.width, 0)).Render(hints)
}

// deleteLabel names the reminder pending deletion for the confirm prompt.
func (m Model) deleteLabel() string {
	for _, r := range m.remSnapshot.Reminders {
		if r.ID == m.pendingDelete {
			return truncate(r.MedicineName, 24)
		}
	}
	return m.pendingDelete
}
