package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/certprobe/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/certprobe/internal/core/domain"
)

func found() domain.OutcomeRecord {
	return domain.OutcomeRecord{Outcome: domain.ProbeOutcome{Kind: domain.OutcomeConfirmed}}
}

func missing() domain.OutcomeRecord {
	return domain.OutcomeRecord{Outcome: domain.ProbeOutcome{Kind: domain.OutcomeNotFound}}
}

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, domain.BatchSummary{}, bar.Summary())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_Count(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.Count(found())
	bar.Count(missing())
	bar.Count(found())
	bar.CountSkipped()

	assert.Equal(t, domain.BatchSummary{Total: 3, Found: 2, Missing: 1}, bar.Summary())
	assert.Equal(t, 1, bar.Skipped())
}

func TestStatusBar_Width(t *testing.T) {
	bar := NewBar(nil, nil)
	assert.Equal(t, 80, bar.Width())

	bar.SetWidth(120)
	assert.Equal(t, 120, bar.Width())
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("error message")
	bar.Count(found())
	bar.CountSkipped()

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, domain.BatchSummary{}, bar.Summary())
	assert.Equal(t, 0, bar.Skipped())
}

func TestStatusBar_View_Ready(t *testing.T) {
	bar := NewBar(nil, nil)

	view := bar.View()

	assert.Contains(t, view, "Ready")
	assert.Contains(t, view, "quit")
}

func TestStatusBar_View_Running(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)
	bar.SetState(StateRunning)
	bar.SetMessage("Checking 681ec43c")
	bar.Count(found())
	bar.Count(missing())

	view := bar.View()

	assert.Contains(t, view, "Checking 681ec43c...")
	assert.Contains(t, view, "Total: 2, Found: 1, Missing: 1")
	assert.Contains(t, view, "cancel")
}

func TestStatusBar_View_DoneWithSkipped(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)
	bar.SetState(StateDone)
	bar.Count(found())
	bar.CountSkipped()

	view := bar.View()

	assert.Contains(t, view, "Done")
	assert.Contains(t, view, "Skipped: 1")
	assert.Contains(t, view, "back")
}

func TestStatusBar_View_Cancelled(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(160)
	bar.SetState(StateCancelled)

	assert.Contains(t, bar.View(), "Cancelled")
}

func TestStatusBar_View_ErrorWithMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("input file not found")

	view := bar.View()

	assert.Contains(t, view, "Error")
	assert.Contains(t, view, "input file not found")
}
