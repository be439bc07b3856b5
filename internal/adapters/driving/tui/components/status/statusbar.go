// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/certprobe/internal/core/domain"
)

// State represents the current check state for display.
type State string

const (
	StateReady     State = "ready"
	StateRunning   State = "running"
	StateDone      State = "done"
	StateCancelled State = "cancelled"
	StateError     State = "error"
)

// Bar displays check progress and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	summary domain.BatchSummary
	skipped int
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state and running totals.
func (s *Bar) renderLeft() string {
	counts := fmt.Sprintf("Total: %d, Found: %d, Missing: %d", s.summary.Total, s.summary.Found, s.summary.Missing)
	if s.skipped > 0 {
		counts += fmt.Sprintf(", Skipped: %d", s.skipped)
	}

	switch s.state {
	case StateRunning:
		label := "Checking"
		if s.message != "" {
			label = s.message
		}
		return s.styles.Warning.Render(label+"...") + " " + s.styles.Normal.Render(counts)
	case StateDone:
		return s.styles.Success.Render("Done") + " " + s.styles.Normal.Render(counts)
	case StateCancelled:
		return s.styles.Warning.Render("Cancelled") + " " + s.styles.Normal.Render(counts)
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateReady:
	}
	return s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StateRunning:
		bindings = s.keymap.RunningHelp()
	case StateDone, StateCancelled:
		bindings = s.keymap.FinishedHelp()
	case StateReady, StateError:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// Count adds one record to the running totals.
func (s *Bar) Count(rec domain.OutcomeRecord) {
	s.summary.Total++
	if rec.Outcome.Found() {
		s.summary.Found++
	} else {
		s.summary.Missing++
	}
}

// CountSkipped adds one skipped entry to the running totals.
func (s *Bar) CountSkipped() {
	s.skipped++
}

// Summary returns the running totals.
func (s *Bar) Summary() domain.BatchSummary {
	return s.summary
}

// Skipped returns the number of skipped entries.
func (s *Bar) Skipped() int {
	return s.skipped
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.summary = domain.BatchSummary{}
	s.skipped = 0
}
