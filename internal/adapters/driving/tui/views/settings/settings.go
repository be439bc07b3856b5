// Package settings provides the settings editor view for the TUI.
package settings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
)

// View lists every setting and edits one value at a time.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	keys     []string
	values   map[string]string
	selected int
	editing  bool
	input    *input.ValueInput
	saved    string
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		input:           input.NewValueInput(s),
		width:           80,
		height:          24,
	}
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

func (v *View) saveSetting(key, value string) tea.Cmd {
	return func() tea.Msg {
		return messages.SettingSaved{Key: key, Err: v.settingsService.Set(key, value)}
	}
}

// Reset leaves edit mode and clears transient state.
func (v *View) Reset() {
	v.editing = false
	v.input.Reset()
	v.saved = ""
	v.err = nil
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.keys = v.settingsService.Keys()
		v.values = msg.Settings.Values()
		if v.selected >= len(v.keys) {
			v.selected = 0
		}
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.saved = ""
			return v, nil
		}
		v.err = nil
		v.saved = msg.Key
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
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
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case "enter":
		if len(v.keys) == 0 {
			return v, nil
		}
		key := v.keys[v.selected]
		v.editing = true
		v.saved = ""
		v.err = nil
		return v, v.input.Edit(key, v.values[key])
	case "esc":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.editing = false
		v.input.Reset()
		return v, nil
	case "enter":
		key, value := v.input.Label(), v.input.Value()
		v.editing = false
		v.input.Reset()
		return v, v.saveSetting(key, value)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the settings view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n")
	if v.settingsService != nil {
		b.WriteString(v.styles.Muted.Render(v.settingsService.Path()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	width := 0
	for _, k := range v.keys {
		width = max(width, len(k))
	}
	for i, k := range v.keys {
		line := fmt.Sprintf("%-*s  %s", width, k, v.values[k])
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case v.editing:
		b.WriteString(v.input.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[Enter] Save  [Esc] Cancel"))
		return b.String()
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n")
	case v.saved != "":
		b.WriteString(v.styles.Success.Render("Saved " + v.saved))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Edit  [Esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Values returns the displayed setting values.
func (v *View) Values() map[string]string {
	return v.values
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
