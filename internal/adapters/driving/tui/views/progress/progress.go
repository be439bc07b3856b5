// Package progress provides the live check view for the TUI.
package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
)

// maxRetryLines is how many recent retries are shown.
const maxRetryLines = 3

// eventBuffer is the number of events queued between the run and the view.
const eventBuffer = 64

// groupTally is the final count of a group that has finished.
type groupTally struct {
	group   domain.ResourceGroup
	summary domain.BatchSummary
	skipped int
}

// View runs a check in the background and shows its records as they arrive.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	runService driving.RunService

	records *list.RecordList
	bar     *status.Bar

	all      bool
	group    domain.ResourceGroup
	location string
	entries  int
	done     []groupTally
	retries  []string

	running bool
	reports []*domain.RunReport
	err     error

	cancel context.CancelFunc
	events chan tea.Msg
	stop   chan struct{}

	width  int
	height int
	ready  bool
}

// NewView creates a new progress view.
func NewView(s *styles.Styles, runService driving.RunService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	return &View{
		styles:     s,
		keymap:     km,
		runService: runService,
		records:    list.NewRecordList(s),
		bar:        status.NewBar(s, km),
		width:      80,
		height:     24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Start begins the requested check in the background.
// It returns the command that delivers the first event.
func (v *View) Start(ctx context.Context, req messages.RunRequested) tea.Cmd {
	if v.running {
		return nil
	}
	v.reset()
	v.all = req.Group == ""
	v.group = req.Group

	if v.runService == nil {
		v.err = fmt.Errorf("run service not available")
		v.bar.SetState(status.StateError)
		v.bar.SetMessage(v.err.Error())
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.events = make(chan tea.Msg, eventBuffer)
	v.stop = make(chan struct{})
	v.running = true
	v.bar.SetState(status.StateRunning)

	obs := &observer{events: v.events, stop: v.stop}
	go func(events chan tea.Msg) {
		defer close(events)

		var finished messages.RunFinished
		if req.Group == "" {
			finished.Reports, finished.Err = v.runService.RunAll(runCtx, driving.RunOptions{}, obs)
		} else {
			report, err := v.runService.Run(runCtx, req.Group, driving.RunOptions{}, obs)
			if report != nil {
				finished.Reports = []*domain.RunReport{report}
			}
			finished.Err = err
		}
		obs.send(finished)
	}(v.events)

	return waitForEvent(v.events)
}

// waitForEvent returns a command that blocks until the run emits its next event.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// Cancel asks a running check to stop. Records produced so far are kept.
func (v *View) Cancel() {
	if v.running && v.cancel != nil {
		v.cancel()
		v.bar.SetMessage("Cancelling")
	}
}

// Close cancels any running check and stops event delivery.
func (v *View) Close() {
	if v.cancel != nil {
		v.cancel()
	}
	if v.stop != nil {
		close(v.stop)
		v.stop = nil
	}
}

func (v *View) reset() {
	v.records.Reset()
	v.bar.Clear()
	v.all = false
	v.group = ""
	v.location = ""
	v.entries = 0
	v.done = nil
	v.retries = nil
	v.reports = nil
	v.err = nil
}

// Update handles messages for the progress view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.GroupStarted:
		if v.location != "" {
			v.done = append(v.done, groupTally{group: v.group, summary: v.bar.Summary(), skipped: v.bar.Skipped()})
		}
		v.group = msg.Group
		v.location = msg.Location
		v.entries = msg.Entries
		v.retries = nil
		v.records.Reset()
		v.bar.Clear()
		v.bar.SetState(status.StateRunning)
		v.bar.SetMessage("Checking " + msg.Group.String())
		return v, waitForEvent(v.events)

	case messages.RecordProduced:
		v.records.Append(msg.Record)
		v.bar.Count(msg.Record)
		return v, waitForEvent(v.events)

	case messages.EntrySkipped:
		v.bar.CountSkipped()
		return v, waitForEvent(v.events)

	case messages.RetryScheduled:
		line := fmt.Sprintf("%s: %s, attempt %d/%d, retrying in %s",
			msg.Identity, msg.Attempt.Class, msg.Attempt.Attempt, msg.Attempt.MaxAttempts, msg.Attempt.Delay)
		v.retries = append(v.retries, line)
		if len(v.retries) > maxRetryLines {
			v.retries = v.retries[len(v.retries)-maxRetryLines:]
		}
		return v, waitForEvent(v.events)

	case messages.RunFinished:
		v.finish(msg)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) finish(msg messages.RunFinished) {
	v.running = false
	v.reports = msg.Reports
	v.err = msg.Err
	v.retries = nil
	if v.cancel != nil {
		v.cancel()
	}

	switch {
	case msg.Err != nil && (errors.Is(msg.Err, context.Canceled) || errors.Is(msg.Err, context.DeadlineExceeded)):
		v.bar.SetState(status.StateCancelled)
	case msg.Err != nil && len(msg.Reports) == 0:
		v.bar.SetState(status.StateError)
		v.bar.SetMessage(msg.Err.Error())
	default:
		v.bar.SetState(status.StateDone)
	}
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if v.running {
			v.Cancel()
			return v, nil
		}
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case "enter":
		if !v.running {
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		}
		return v, nil
	}

	v.records, _ = v.records.Update(msg)
	return v, nil
}

// View renders the progress view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	title := "Checking group " + v.group.String()
	if v.all {
		title = "Checking all groups"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	if v.location != "" {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%s: %d entries from %s", v.group, v.entries, v.location)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, t := range v.done {
		b.WriteString(v.renderTally(t))
		b.WriteString("\n")
	}

	for _, line := range v.retries {
		b.WriteString(v.styles.Warning.Render("  ⟳ " + line))
		b.WriteString("\n")
	}

	b.WriteString(v.records.View())
	b.WriteString("\n")

	if !v.running {
		b.WriteString(v.renderFinished())
	}

	b.WriteString("\n")
	b.WriteString(v.bar.View())
	return b.String()
}

func (v *View) renderTally(t groupTally) string {
	line := fmt.Sprintf("%s  Total: %d, Found: %d, Missing: %d",
		t.group, t.summary.Total, t.summary.Found, t.summary.Missing)
	if t.summary.Missing == 0 {
		return v.styles.Success.Render("✓ " + line)
	}
	return v.styles.Error.Render("✗ " + line)
}

func (v *View) renderFinished() string {
	var b strings.Builder
	b.WriteString("\n")

	for _, r := range v.reports {
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%s (%s)", r.Group, r.Status)))
		b.WriteString(v.styles.Normal.Render(fmt.Sprintf("  Total: %d, Found: %d, Missing: %d",
			r.Summary.Total, r.Summary.Found, r.Summary.Missing)))
		b.WriteString("\n")
		for _, path := range r.ReportPaths {
			b.WriteString(v.styles.Muted.Render("  Report: " + path))
			b.WriteString("\n")
		}
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Help.Render("[enter/esc] back to menu"))
	b.WriteString("\n")
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Leave room for the header, retries, the finished summary and the status bar
	rows := height - 14
	if rows < 3 {
		rows = 3
	}
	v.records.SetDimensions(width, rows)
	v.bar.SetWidth(width)
}

// Running reports whether a check is in progress.
func (v *View) Running() bool {
	return v.running
}

// Reports returns the reports of the last finished check.
func (v *View) Reports() []*domain.RunReport {
	return v.reports
}

// Err returns the error of the last finished check.
func (v *View) Err() error {
	return v.err
}

// Records returns the records of the current group.
func (v *View) Records() []domain.OutcomeRecord {
	return v.records.Records()
}

// Summary returns the running totals of the current group.
func (v *View) Summary() domain.BatchSummary {
	return v.bar.Summary()
}

// State returns the status bar state.
func (v *View) State() status.State {
	return v.bar.State()
}
