package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List configured resource groups",
	Long: `Lists the configured resource groups and whether the <group>.csv file
for each one is present in the input directory.`,
	Args: cobra.NoArgs,
	RunE: runGroups,
}

func init() {
	rootCmd.AddCommand(groupsCmd)
}

func runGroups(cmd *cobra.Command, _ []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}

	groups, err := runService.Groups(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}

	if len(groups) == 0 {
		cmd.Println("No groups configured.")
		cmd.Println("Set them with: certprobe settings set groups.codes <code>,<code>")
		return nil
	}

	cmd.Println("Configured groups:")
	available := 0
	for i, g := range groups {
		status := "CSV missing"
		if g.InputAvailable {
			status = "CSV found"
			available++
		}
		cmd.Printf("  %d. %s - %s\n", i+1, g.Group, status)
	}
	cmd.Printf("\nTotal: %d groups, %d with input\n", len(groups), available)
	return nil
}
