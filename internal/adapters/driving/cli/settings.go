package cli

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the probe policy, input and report directories,
and the configured resource groups.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting. Durations accept Go syntax ("5s", "1m30s")
or whole seconds. groups.codes takes a comma-separated list.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Walk through every setting, showing its current value. Press Enter to keep it.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Probe]")
	cmd.Printf("  Base URL: %s\n", settings.Probe.BaseURL)
	cmd.Printf("  Attempts: %d\n", settings.Probe.MaxAttempts)
	cmd.Printf("  Retry delay: %s\n", settings.Probe.RetryDelay)
	cmd.Printf("  Timeout: %s\n", settings.Probe.Timeout)
	cmd.Printf("  Workers: %d\n", settings.Probe.Workers)
	if settings.Probe.RatePerSecond > 0 {
		cmd.Printf("  Rate limit: %g requests/s\n", settings.Probe.RatePerSecond)
	} else {
		cmd.Printf("  Rate limit: none\n")
	}
	cmd.Println()

	cmd.Println("[Input]")
	cmd.Printf("  Directory: %s\n", settings.Input.Dir)
	cmd.Println()

	cmd.Println("[Reports]")
	if settings.Reports.Enabled {
		cmd.Printf("  Enabled: yes\n")
		cmd.Printf("  Directory: %s\n", settings.Reports.Dir)
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	cmd.Println()

	cmd.Println("[Groups]")
	for _, g := range settings.Groups {
		cmd.Printf("  %s\n", g)
	}
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'certprobe settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	cmd.Printf("Config file: %s\n", settingsService.Path())

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s to: %s\n", key, value)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	values := settings.Values()

	cmd.Println("certprobe Settings Wizard")
	cmd.Println("=========================")
	cmd.Println("Press Enter to keep the current value.")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())
	changed := 0
	for _, key := range settingsService.Keys() {
		current := values[key]
		cmd.Printf("%s [%s]: ", key, current)

		input := readLine(reader)
		if input == "" || input == current {
			continue
		}
		if err := settingsService.Set(key, input); err != nil {
			cmd.Printf("  Not saved: %v\n", err)
			continue
		}
		changed++
	}

	cmd.Println()
	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	cmd.Printf("%d %s changed.\n", changed, plural(changed, "setting", "settings"))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
