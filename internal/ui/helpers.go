package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pillbox/internal/medhub"
)

const statusTTL = 5 * time.Second

// statusLine is a transient message shown in the footer.
type statusLine struct {
	text  string
	level statusLevel
	setAt time.Time
}

type statusLevel int

const (
	statusNone statusLevel = iota
	statusOK
	statusWarn
)

func okStatus(text string) statusLine {
	return statusLine{text: text, level: statusOK, setAt: time.Now()}
}

func warnStatus(text string) statusLine {
	return statusLine{text: text, level: statusWarn, setAt: time.Now()}
}

// expireStatusCmd clears the status line once its TTL passes. The message
// carries the deadline so a newer status is not wiped by an older timer.
func expireStatusCmd() tea.Cmd {
	return tea.Tick(statusTTL, func(t time.Time) tea.Msg {
		return statusExpireMsg(t.Add(-statusTTL))
	})
}

// formatTimeOfDay renders a reminder time in the preferred clock format.
// Unparseable times are shown as stored.
func formatTimeOfDay(raw string, use24h bool) string {
	minutes, ok := medhub.ParseTimeOfDay(raw)
	if !ok {
		return raw
	}
	t := time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC)
	if use24h {
		return t.Format("15:04")
	}
	return t.Format("03:04 PM")
}

// strengthBar renders a password strength meter for scores 0 through 4.
func strengthBar(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 4 {
		score = 4
	}
	labels := []string{"very weak", "weak", "fair", "good", "strong"}
	return fmt.Sprintf("[%s%s] %s",
		strings.Repeat("#", score),
		strings.Repeat("-", 4-score),
		labels[score])
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
