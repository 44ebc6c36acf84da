// Package ui implements the pillbox terminal interface with Bubble Tea.
//
// The model owns four views: sign in, registration, the profile dashboard,
// and the reminder list. All network work happens inside tea.Cmd functions
// so the update loop never blocks; results come back as typed messages.
// Data is always rendered from store snapshots, which keep serving the last
// known (or placeholder) records when the backend is unreachable.
package ui
