// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
)

// Item represents a single menu option.
type Item struct {
	Label string
	View  messages.ViewType
	Group *domain.GroupStatus // set for items that check a single group
	All   bool                // If true, selecting this item checks every group
	Quit  bool                // If true, selecting this item quits the app
}

// View represents the main menu view.
type View struct {
	styles     *styles.Styles
	runService driving.RunService
	groups     []domain.GroupStatus
	items      []Item
	selected   int
	err        error
	width      int
	height     int
	ready      bool
}

// NewView creates a new menu view.
func NewView(s *styles.Styles, runService driving.RunService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles:     s,
		runService: runService,
		selected:   0,
		width:      80,
		height:     24,
	}
	v.rebuild()
	return v
}

// Init initialises the menu view and loads the configured groups.
func (v *View) Init() tea.Cmd {
	return v.loadGroups()
}

// loadGroups returns a command that lists groups from the run service.
func (v *View) loadGroups() tea.Cmd {
	return func() tea.Msg {
		if v.runService == nil {
			return messages.GroupsLoaded{Err: fmt.Errorf("run service not available")}
		}
		groups, err := v.runService.Groups(context.Background())
		return messages.GroupsLoaded{Groups: groups, Err: err}
	}
}

// rebuild lays out the group items followed by the fixed items.
func (v *View) rebuild() {
	items := make([]Item, 0, len(v.groups)+5)
	for i := range v.groups {
		g := &v.groups[i]
		items = append(items, Item{Label: "Check " + g.Group.String(), Group: g})
	}
	items = append(items,
		Item{Label: "Check all groups", All: true},
		Item{Label: "Run history", View: messages.ViewHistory},
		Item{Label: "Settings", View: messages.ViewSettings},
		Item{Label: "Help", View: messages.ViewHelp},
		Item{Label: "Quit", Quit: true},
	)
	v.items = items
	if v.selected >= len(v.items) {
		v.selected = len(v.items) - 1
	}
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case messages.GroupsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.groups = msg.Groups
		v.rebuild()
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "r":
			return v, v.loadGroups()

		case "enter":
			return v, v.choose(v.items[v.selected])

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// choose returns the command for a selected item.
func (v *View) choose(item Item) tea.Cmd {
	switch {
	case item.Quit:
		return tea.Quit
	case item.All:
		return func() tea.Msg { return messages.RunRequested{} }
	case item.Group != nil:
		group := item.Group.Group
		return func() tea.Msg { return messages.RunRequested{Group: group} }
	default:
		return func() tea.Msg { return messages.ViewChanged{View: item.View} }
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("certprobe"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Certificate existence checks"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error loading groups: %v", v.err)))
		b.WriteString("\n\n")
	}

	for i, item := range v.items {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

		if i == v.selected {
			cursor = "> "
			style = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")).
				Bold(true)
		}

		line := cursor + style.Render(item.Label)
		if item.Group != nil {
			if item.Group.InputAvailable {
				line += "  " + v.styles.Success.Render("(CSV found)")
			} else {
				line += "  " + v.styles.Error.Render("(CSV missing)")
			}
		}
		b.WriteString(line)
		b.WriteString("\n")

		// Separate the groups from the fixed items
		if item.Group != nil && (i+1 < len(v.items) && v.items[i+1].Group == nil) {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [r] Refresh  [q] Quit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the current menu items.
func (v *View) Items() []Item {
	return v.items
}
