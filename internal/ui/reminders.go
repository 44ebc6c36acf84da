package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pillbox/internal/reminders"
	"pillbox/internal/validate"
)

// reminderForm is the add-reminder entry form.
type reminderForm struct {
	inputs [3]textinput.Model // medicine, dosage, time
	focus  int
	errors validate.Result
}

var reminderFormKeys = [3]string{
	validate.FieldMedicineName,
	validate.FieldDosage,
	validate.FieldTime,
}

func newReminderForm() *reminderForm {
	medicine := textinput.New()
	medicine.Placeholder = "medicine name"
	medicine.CharLimit = 120
	medicine.Focus()

	dosage := textinput.New()
	dosage.Placeholder = "dosage (e.g. 250mg)"
	dosage.CharLimit = 60

	at := textinput.New()
	at.Placeholder = "time (08:00 AM or 20:00)"
	at.CharLimit = 20

	return &reminderForm{inputs: [3]textinput.Model{medicine, dosage, at}}
}

func (f *reminderForm) focusInput(idx int) {
	f.focus = idx
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// handleRemindersKey processes keyboard input for the reminders view.
func (m Model) handleRemindersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.addForm != nil {
		return m.handleAddFormKey(msg)
	}

	if m.pendingDelete != "" {
		switch msg.String() {
		case "y", "Y":
			id := m.pendingDelete
			m.pendingDelete = ""
			return m, deleteReminderCmd(m.ctx, m.reminders, id)
		case "n", "N", "esc":
			m.pendingDelete = ""
		}
		return m, nil
	}

	items := m.remSnapshot.Reminders
	switch msg.String() {
	case "j", "down":
		if m.selectedRow < len(items)-1 {
			m.selectedRow++
		}
	case "k", "up":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "g", "home":
		m.selectedRow = 0
	case "G", "end":
		if len(items) > 0 {
			m.selectedRow = len(items) - 1
		}
	case "a":
		if m.reminders.AddInFlight() {
			m.status = warnStatus("An add is already in progress")
			return m, expireStatusCmd()
		}
		m.addForm = newReminderForm()
	case "d", "delete":
		if m.selectedRow < len(items) {
			id := items[m.selectedRow].ID
			if m.confirmDeletes {
				m.pendingDelete = id
				return m, nil
			}
			return m, deleteReminderCmd(m.ctx, m.reminders, id)
		}
	case " ", "x":
		if m.selectedRow < len(items) {
			if _, err := m.reminders.ToggleDone(items[m.selectedRow].ID); err == nil {
				return m, fetchRemindersCmd(m.reminders)
			}
		}
	case "s":
		m.showStats = !m.showStats
	case "p", "esc":
		m.currentView = ViewDashboard
	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
	}
	return m, nil
}

func (m Model) handleAddFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.addForm.focusInput((m.addForm.focus + 1) % len(m.addForm.inputs))
		return m, nil
	case "shift+tab", "up":
		m.addForm.focusInput((m.addForm.focus + len(m.addForm.inputs) - 1) % len(m.addForm.inputs))
		return m, nil
	case "esc":
		m.addForm = nil
		return m, nil
	case "enter":
		medicine := strings.TrimSpace(m.addForm.inputs[0].Value())
		dosage := strings.TrimSpace(m.addForm.inputs[1].Value())
		at := strings.TrimSpace(m.addForm.inputs[2].Value())
		if result := validate.Reminder(medicine, dosage, at); !result.OK() {
			m.addForm.errors = result
			return m, nil
		}
		m.addForm.errors = nil
		return m, addReminderCmd(m.ctx, m.reminders, medicine, dosage, at)
	}

	var cmd tea.Cmd
	m.addForm.inputs[m.addForm.focus], cmd = m.addForm.inputs[m.addForm.focus].Update(msg)
	return m, cmd
}

// handleAddResult lands the add round trip; validation problems keep the
// form open with messages, everything else closes it.
func (m Model) handleAddResult(msg addResultMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		m.addForm = nil
		m.status = okStatus("Reminder added")
		return m, tea.Batch(fetchRemindersCmd(m.reminders), expireStatusCmd())
	}

	var verr *reminders.ValidationError
	if errors.As(msg.err, &verr) && m.addForm != nil {
		m.addForm.errors = verr.Result
		return m, nil
	}
	if errors.Is(msg.err, reminders.ErrAddInFlight) {
		m.status = warnStatus("An add is already in progress")
		return m, expireStatusCmd()
	}
	m.addForm = nil
	m.status = warnStatus("Add failed: " + msg.err.Error())
	return m, tea.Batch(fetchRemindersCmd(m.reminders), expireStatusCmd())
}

// renderReminders draws the reminder list, stats, and add form.
func (m Model) renderReminders() string {
	st := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(st.AccentText.Render("  Reminders"))
	if m.remSnapshot.Offline() {
		b.WriteString(st.DangerText.Render("  [offline]"))
	} else if !m.remSnapshot.Loaded {
		b.WriteString(st.WarningText.Render("  [local data]"))
	}
	b.WriteString("\n\n")

	items := m.remSnapshot.Reminders
	if len(items) == 0 {
		b.WriteString(st.MutedText.Render("  No reminders yet. Press 'a' to add one."))
		b.WriteString("\n")
	}
	for i, r := range items {
		marker := "[ ]"
		if r.Done {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %-9s %-24s %s",
			marker,
			formatTimeOfDay(r.Time, m.timeFormat24h),
			truncate(r.MedicineName, 24),
			truncate(r.Dosage, 16))
		if i == m.selectedRow && m.addForm == nil {
			b.WriteString(st.AccentText.Render("  ▸ " + line))
		} else if r.Done {
			b.WriteString(st.FaintText.Render("    " + line))
		} else {
			b.WriteString(st.Text.Render("    " + line))
		}
		b.WriteString("\n")
	}

	if m.showStats {
		stats := m.reminders.Stats()
		b.WriteString("\n")
		b.WriteString(st.MutedText.Render(fmt.Sprintf(
			"  %d total  •  %d morning  •  %d afternoon  •  %d evening  •  %d night",
			stats.Total, stats.Morning, stats.Afternoon, stats.Evening, stats.Night)))
		b.WriteString("\n")
	}

	if m.addForm != nil {
		b.WriteString("\n")
		b.WriteString(st.AccentText.Render("  Add reminder"))
		b.WriteString("\n\n")
		for i := range m.addForm.inputs {
			b.WriteString("  " + m.addForm.inputs[i].View() + "\n")
			if msg := m.addForm.errors.Message(reminderFormKeys[i]); msg != "" {
				b.WriteString(st.FieldError.Render("  "+msg) + "\n")
			}
		}
	}
	return b.String()
}

// Commands

func addReminderCmd(ctx context.Context, manager *reminders.Manager, medicine, dosage, at string) tea.Cmd {
	return func() tea.Msg {
		callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		_, err := manager.Add(callCtx, medicine, dosage, at)
		return addResultMsg{err: err}
	}
}

func deleteReminderCmd(ctx context.Context, manager *reminders.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		err := manager.Delete(callCtx, id, func() bool { return true })
		return deleteResultMsg{id: id, err: err}
	}
}
