package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

const timeLayout = "2006-01-02 15:04:05"

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect past runs",
	Long:  `List, show, or delete runs kept in the local history.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list [group]",
	Short: "List past runs, most recent first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a past run with its records",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a past run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

// Flags for the runs subcommands.
var (
	runsLimit    int
	runsFailures bool
)

func init() {
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum number of runs to list (0 = all)")
	runsShowCmd.Flags().BoolVarP(&runsFailures, "failures", "f", false, "Only show emails without a PDF")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}

	var group domain.ResourceGroup
	if len(args) > 0 {
		group = domain.ResourceGroup(args[0])
	}

	runs, err := runService.History(cmd.Context(), group, runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs found.")
		return nil
	}

	for i := range runs {
		r := &runs[i]
		cmd.Printf("  %s\n", r.ID)
		cmd.Printf("    Group:   %s (%s)\n", r.Group, r.Status)
		cmd.Printf("    Started: %s\n", r.StartedAt.Local().Format(timeLayout))
		cmd.Printf("    Found:   %d/%d\n", r.Summary.Found, r.Summary.Total)
		cmd.Println()
	}

	cmd.Printf("Total: %d runs\n", len(runs))
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}

	report, err := runService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	cmd.Printf("Run: %s\n\n", report.ID)
	cmd.Printf("  Group:    %s\n", report.Group)
	cmd.Printf("  Status:   %s\n", report.Status)
	cmd.Printf("  Started:  %s\n", report.StartedAt.Local().Format(timeLayout))
	cmd.Printf("  Duration: %s\n", report.Duration().Round(time.Millisecond))
	cmd.Printf("  Total:    %d\n", report.Summary.Total)
	cmd.Printf("  Found:    %d\n", report.Summary.Found)
	cmd.Printf("  Missing:  %d\n", report.Summary.Missing)
	if len(report.Skipped) > 0 {
		cmd.Printf("  Skipped:  %d\n", len(report.Skipped))
	}
	for _, path := range report.ReportPaths {
		cmd.Printf("  Report:   %s\n", path)
	}

	cmd.Println("\n  Records:")
	shown := 0
	for _, rec := range report.Records {
		if runsFailures && rec.Outcome.Found() {
			continue
		}
		cmd.Printf("    %3d. [%s] %s - %s\n",
			rec.Position+1, rec.Outcome.Kind.Status(), rec.Identity, rec.Outcome.Diagnostic)
		shown++
	}
	if shown == 0 {
		cmd.Println("    (none)")
	}

	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}

	if err := runService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	cmd.Printf("Run %s deleted.\n", args[0])
	return nil
}
