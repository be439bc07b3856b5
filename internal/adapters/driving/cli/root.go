// Package cli provides the certprobe command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
	"github.com/custodia-labs/certprobe/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// verbose enables debug logging for every command.
var verbose bool

// Services used by the commands. Set by SetServices before Execute.
var (
	runService      driving.RunService
	settingsService driving.SettingsService
	proberService   driving.ExistenceProber
)

var rootCmd = &cobra.Command{
	Use:   "certprobe",
	Short: "Check that certificate PDFs exist for a list of emails",
	Long: `certprobe reads the emails of a resource group from <group>.csv and checks,
for each one, whether a certificate PDF is published at the address derived
from the email:

  <base-url>/<group>/<email with @ replaced by _>.pdf

Results are printed live, summarised, written to report files and kept in a
local run history.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// SetServices sets the services the commands drive.
// A nil service makes the commands that need it fail with an error.
func SetServices(run driving.RunService, settings driving.SettingsService, prober driving.ExistenceProber) {
	runService = run
	settingsService = settings
	proberService = prober
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
