// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/certprobe/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewProgress shows a running or finished check.
	ViewProgress
	// ViewHistory lists past runs.
	ViewHistory
	// ViewSettings is the settings editor.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewProgress:
		return "progress"
	case ViewHistory:
		return "history"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// GroupsLoaded carries the configured groups and their input status.
type GroupsLoaded struct {
	Groups []domain.GroupStatus
	Err    error
}

// RunRequested asks for a check of one group.
// An empty Group checks every configured group.
type RunRequested struct {
	Group domain.ResourceGroup
}

// GroupStarted signals a group's identities were read and probing begins.
type GroupStarted struct {
	Group    domain.ResourceGroup
	Location string
	Entries  int
}

// RecordProduced carries one probed identity, in input order.
type RecordProduced struct {
	Record domain.OutcomeRecord
}

// EntrySkipped carries an input entry that was not a valid identity.
type EntrySkipped struct {
	Entry domain.SkippedEntry
}

// RetryScheduled signals a probe is waiting before another attempt.
type RetryScheduled struct {
	Identity domain.Identity
	Attempt  domain.RetryAttempt
}

// RunFinished signals the requested check has ended.
type RunFinished struct {
	Reports []*domain.RunReport
	Err     error
}

// HistoryLoaded carries past runs from the store.
type HistoryLoaded struct {
	Runs []domain.RunInfo
	Err  error
}

// RunLoaded carries a single past run with its records.
type RunLoaded struct {
	Report *domain.RunReport
	Err    error
}

// RunDeleted signals a past run was removed.
type RunDeleted struct {
	ID  string
	Err error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingSaved signals a setting was written.
type SettingSaved struct {
	Key string
	Err error
}
