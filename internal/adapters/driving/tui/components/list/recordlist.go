// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/certprobe/internal/core/domain"
)

// Markers shown in front of each record.
const (
	MarkFound   = "✓"
	MarkMissing = "✗"
)

// RecordList displays outcome records in a navigable list.
// Records are appended as they arrive and keep their input order.
type RecordList struct {
	records      []domain.OutcomeRecord
	failuresOnly bool
	follow       bool
	selected     int
	styles       *styles.Styles
	width        int
	height       int
}

// NewRecordList creates a new record list component.
func NewRecordList(s *styles.Styles) *RecordList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecordList{
		styles: s,
		follow: true,
		width:  80,
		height: 10,
	}
}

// Init initialises the record list.
func (r *RecordList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RecordList) Update(msg tea.Msg) (*RecordList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "f":
			r.ToggleFailuresOnly()
		}
	}
	return r, nil
}

// View renders the visible window of records.
func (r *RecordList) View() string {
	visible := r.Visible()
	if len(visible) == 0 {
		if r.failuresOnly && len(r.records) > 0 {
			return r.styles.Success.Render("No failures")
		}
		return r.styles.Muted.Render("No records yet")
	}

	rows := r.height
	if rows < 1 {
		rows = 1
	}

	start := 0
	if r.selected >= rows {
		start = r.selected - rows + 1
	}
	end := start + rows
	if end > len(visible) {
		end = len(visible)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, r.renderRecord(i, &visible[i]))
	}
	return strings.Join(lines, "\n")
}

// renderRecord formats a single record on one line.
func (r *RecordList) renderRecord(index int, rec *domain.OutcomeRecord) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	mark := MarkMissing
	if rec.Outcome.Found() {
		mark = MarkFound
	}

	name := rec.Identity.String()
	maxName := r.width / 2
	if maxName < 10 {
		maxName = 10
	}
	if len(name) > maxName {
		name = name[:maxName-3] + "..."
	}

	detail := rec.Outcome.Diagnostic
	maxDetail := r.width - maxName - 8
	if maxDetail < 10 {
		maxDetail = 10
	}
	if len(detail) > maxDetail {
		detail = detail[:maxDetail-3] + "..."
	}

	if index == r.selected {
		return r.styles.Selected.Render(fmt.Sprintf("%s%s %-*s  %s", indicator, mark, maxName, name, detail))
	}
	return indicator +
		r.styles.Outcome(rec.Outcome.Kind, mark) + " " +
		r.styles.Normal.Render(fmt.Sprintf("%-*s  ", maxName, name)) +
		r.styles.Muted.Render(detail)
}

// Append adds a record to the end of the list.
// While following, the selection tracks the newest visible record.
func (r *RecordList) Append(rec domain.OutcomeRecord) {
	r.records = append(r.records, rec)
	if r.follow {
		r.selectLast()
	}
}

// SetRecords replaces the list contents.
func (r *RecordList) SetRecords(records []domain.OutcomeRecord) {
	r.records = records
	r.selected = 0
	r.follow = false
}

// Reset clears the list and resumes following new records.
func (r *RecordList) Reset() {
	r.records = nil
	r.selected = 0
	r.follow = true
	r.failuresOnly = false
}

// Records returns every record, including filtered ones.
func (r *RecordList) Records() []domain.OutcomeRecord {
	return r.records
}

// Visible returns the records shown under the current filter.
func (r *RecordList) Visible() []domain.OutcomeRecord {
	if !r.failuresOnly {
		return r.records
	}
	out := make([]domain.OutcomeRecord, 0, len(r.records))
	for _, rec := range r.records {
		if !rec.Outcome.Found() {
			out = append(out, rec)
		}
	}
	return out
}

// ToggleFailuresOnly switches between all records and unresolved ones.
func (r *RecordList) ToggleFailuresOnly() {
	r.failuresOnly = !r.failuresOnly
	r.selected = 0
}

// FailuresOnly reports whether only unresolved records are shown.
func (r *RecordList) FailuresOnly() bool {
	return r.failuresOnly
}

// Selected returns the index of the selected record among visible records.
func (r *RecordList) Selected() int {
	return r.selected
}

// SelectedRecord returns the currently selected record, or nil if none.
func (r *RecordList) SelectedRecord() *domain.OutcomeRecord {
	visible := r.Visible()
	if r.selected < 0 || r.selected >= len(visible) {
		return nil
	}
	return &visible[r.selected]
}

// MoveUp moves selection up and stops following new records.
func (r *RecordList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
	r.follow = false
}

// MoveDown moves selection down. Reaching the end resumes following.
func (r *RecordList) MoveDown() {
	last := len(r.Visible()) - 1
	if r.selected < last {
		r.selected++
	}
	r.follow = r.selected >= last
}

func (r *RecordList) selectLast() {
	if n := len(r.Visible()); n > 0 {
		r.selected = n - 1
	}
}

// SetDimensions sets the component dimensions.
// Height is the number of record rows shown.
func (r *RecordList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of records.
func (r *RecordList) Count() int {
	return len(r.records)
}

// IsEmpty returns whether the list is empty.
func (r *RecordList) IsEmpty() bool {
	return len(r.records) == 0
}
