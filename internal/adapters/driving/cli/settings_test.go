package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	commandNames := make([]string, 0, len(settingsCmd.Commands()))
	for _, cmd := range settingsCmd.Commands() {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "set")
	assert.Contains(t, commandNames, "wizard")
}

func TestSettingsShow(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, nil, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Probe]")
	assert.Contains(t, out, "Base URL: "+testBase)
	assert.Contains(t, out, "Attempts: 5")
	assert.Contains(t, out, "Retry delay: 5s")
	assert.Contains(t, out, "Timeout: 10s")
	assert.Contains(t, out, "Rate limit: none")
	assert.Contains(t, out, "[Groups]")
	assert.Contains(t, out, "  g1\n  g2\n")
	assert.Contains(t, out, "Configuration is valid.")
	assert.Contains(t, out, "Config file: :memory:")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, nil, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsSet(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, nil, "settings", "set", "probe.max_attempts", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Set probe.max_attempts to: 3")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, 3, settings.Probe.MaxAttempts)
}

func TestSettingsSet_Errors(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	t.Run("unknown key", func(t *testing.T) {
		_, err := executeCommand(t, nil, "settings", "set", "probe.colour", "blue")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown setting")
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := executeCommand(t, nil, "settings", "set", "probe.workers", "0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid settings")
	})

	t.Run("missing value", func(t *testing.T) {
		_, err := executeCommand(t, nil, "settings", "set", "probe.workers")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "accepts 2 arg(s)")
	})
}

func TestSettingsWizard(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	// One answer per key in sorted order; blank keeps the value.
	answers := make([]string, len(settingsService.Keys()))
	for i, key := range settingsService.Keys() {
		switch key {
		case "probe.retry_delay":
			answers[i] = "2s"
		case "probe.workers":
			answers[i] = "zero"
		}
	}

	out, err := executeCommand(t, strings.NewReader(strings.Join(answers, "\n")+"\n"), "settings", "wizard")

	require.NoError(t, err)
	assert.Contains(t, out, "probe.retry_delay [5s]: ")
	assert.Contains(t, out, "Not saved:")
	assert.Contains(t, out, "1 setting changed.")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "2s", settings.Probe.RetryDelay.String())
	assert.Equal(t, 1, settings.Probe.Workers)
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	oldSettings := settingsService
	settingsService = nil
	defer func() {
		settingsService = oldSettings
	}()

	for _, args := range [][]string{
		{"settings", "show"},
		{"settings", "set", "probe.workers", "2"},
		{"settings", "wizard"},
	} {
		_, err := executeCommand(t, nil, args...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "settings service not configured")
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "settings", plural(0, "setting", "settings"))
	assert.Equal(t, "setting", plural(1, "setting", "settings"))
	assert.Equal(t, "settings", plural(2, "setting", "settings"))
}
