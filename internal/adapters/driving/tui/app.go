package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/views/progress"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/views/settings"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the parent context of every check started from the TUI.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView     *menu.View
	progressView *progress.View
	historyView  *history.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s, ports.Run),
		progressView: progress.NewView(s, ports.Run),
		historyView:  history.NewView(s, ports.Run),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("certprobe"),
		a.menuView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			a.progressView.Close()
			return a, tea.Quit
		}
		return a, a.routeKey(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewMenu:
			return a, a.menuView.Init()
		case messages.ViewHistory:
			return a, a.historyView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewProgress, messages.ViewHelp:
			// No initialisation needed
		}
		return a, nil

	case messages.RunRequested:
		a.currentView = messages.ViewProgress
		return a, a.progressView.Start(a.ctx, msg)

	case messages.GroupsLoaded:
		a.menuView, cmd = a.menuView.Update(msg)
		return a, cmd

	case messages.GroupStarted, messages.RecordProduced, messages.EntrySkipped,
		messages.RetryScheduled, messages.RunFinished:
		a.progressView, cmd = a.progressView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded, messages.RunLoaded, messages.RunDeleted:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		a.progressView.Close()
		return a, tea.Quit
	}

	return a, nil
}

// routeKey forwards a key press to the active view.
func (a *App) routeKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewProgress:
		a.progressView, cmd = a.progressView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewProgress:
		return a.progressView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Check a group or open a view
  r           Reload groups
  q           Quit

Check:
  j/k, ↑/↓    Scroll records
  f           Show only missing documents
  esc         Cancel a running check, or go back once done

History:
  enter       Open a run
  r           Refresh
  esc         Back

Settings:
  enter       Edit the selected value, enter again to save
  esc         Cancel editing, or go back

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.progressView.Close()

	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.progressView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
