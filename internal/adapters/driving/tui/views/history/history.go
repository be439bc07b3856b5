// Package history provides the run history view for the TUI.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
)

// Limit is the number of past runs listed.
const Limit = 50

const timeLayout = "2006-01-02 15:04:05"

// View lists past runs and shows the records of a selected run.
type View struct {
	styles     *styles.Styles
	runService driving.RunService

	runs     []domain.RunInfo
	selected int
	loading  bool
	err      error

	// detail is the run being inspected, nil while listing
	detail  *domain.RunReport
	records *list.RecordList

	width  int
	height int
	ready  bool
}

// NewView creates a new history view.
func NewView(s *styles.Styles, runService driving.RunService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:     s,
		runService: runService,
		records:    list.NewRecordList(s),
		width:      80,
		height:     24,
	}
}

// Init loads the run list.
func (v *View) Init() tea.Cmd {
	v.detail = nil
	v.loading = true
	return v.loadRuns()
}

func (v *View) loadRuns() tea.Cmd {
	return func() tea.Msg {
		if v.runService == nil {
			return messages.HistoryLoaded{Err: fmt.Errorf("run service not available")}
		}
		runs, err := v.runService.History(context.Background(), "", Limit)
		return messages.HistoryLoaded{Runs: runs, Err: err}
	}
}

func (v *View) loadRun(id string) tea.Cmd {
	return func() tea.Msg {
		report, err := v.runService.Get(context.Background(), id)
		return messages.RunLoaded{Report: report, Err: err}
	}
}

func (v *View) deleteRun(id string) tea.Cmd {
	return func() tea.Msg {
		return messages.RunDeleted{ID: id, Err: v.runService.Delete(context.Background(), id)}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.HistoryLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.runs = msg.Runs
			if v.selected >= len(v.runs) {
				v.selected = 0
			}
		}
		return v, nil

	case messages.RunLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.detail = msg.Report
		v.records.SetRecords(msg.Report.Records)
		return v, nil

	case messages.RunDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.removeRun(msg.ID)
		return v, nil

	case tea.KeyMsg:
		if v.detail != nil {
			return v.handleDetailKey(msg)
		}
		return v.handleListKey(msg)
	}

	return v, nil
}

func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.runs)-1 {
			v.selected++
		}
	case "enter":
		if len(v.runs) > 0 && v.runService != nil {
			v.loading = true
			return v, v.loadRun(v.runs[v.selected].ID)
		}
	case "d":
		if len(v.runs) > 0 && v.runService != nil {
			return v, v.deleteRun(v.runs[v.selected].ID)
		}
	case "r":
		v.loading = true
		return v, v.loadRuns()
	case "esc":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	}
	return v, nil
}

func (v *View) removeRun(id string) {
	for i, run := range v.runs {
		if run.ID == id {
			v.runs = append(v.runs[:i], v.runs[i+1:]...)
			break
		}
	}
	if v.selected >= len(v.runs) && v.selected > 0 {
		v.selected = len(v.runs) - 1
	}
}

func (v *View) handleDetailKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		v.detail = nil
		return v, nil
	}
	v.records, _ = v.records.Update(msg)
	return v, nil
}

// View renders the history view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}
	if v.detail != nil {
		return v.renderDetail()
	}
	return v.renderList()
}

func (v *View) renderList() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Run history"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n")
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	case len(v.runs) == 0:
		b.WriteString(v.styles.Muted.Render("No runs recorded yet"))
		b.WriteString("\n")
	}

	for i, run := range v.runs {
		line := fmt.Sprintf("%s  %-10s %-9s Total: %d, Found: %d, Missing: %d",
			run.StartedAt.Local().Format(timeLayout), run.Group, run.Status,
			run.Summary.Total, run.Summary.Found, run.Summary.Missing)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Open  [d] Delete  [r] Refresh  [Esc] Back"))
	return b.String()
}

func (v *View) renderDetail() string {
	r := v.detail
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Run %s", r.ID)))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Group %s, %s, started %s, took %s",
		r.Group, r.Status, r.StartedAt.Local().Format(timeLayout), r.Duration().Round(time.Millisecond))))
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render(fmt.Sprintf("Total: %d, Found: %d, Missing: %d, Skipped: %d",
		r.Summary.Total, r.Summary.Found, r.Summary.Missing, len(r.Skipped))))
	b.WriteString("\n\n")

	b.WriteString(v.records.View())
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [f] Failures only  [Esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	rows := height - 8
	if rows < 3 {
		rows = 3
	}
	v.records.SetDimensions(width, rows)
}

// Runs returns the listed runs.
func (v *View) Runs() []domain.RunInfo {
	return v.runs
}

// Detail returns the run being inspected, or nil.
func (v *View) Detail() *domain.RunReport {
	return v.detail
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
