package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

var deriveCmd = &cobra.Command{
	Use:   "derive <email> <group>",
	Short: "Print the certificate address for an email",
	Long: `Prints the file name and address a certificate is expected at,
without making any request. Every '@' in the email is replaced by '_';
nothing else is changed.`,
	Args: cobra.ExactArgs(2),
	RunE: runDerive,
}

func init() {
	rootCmd.AddCommand(deriveCmd)
}

func runDerive(cmd *cobra.Command, args []string) error {
	identity, group, err := parseTarget(args)
	if err != nil {
		return err
	}

	address := domain.DeriveAddress(baseURL(), identity, group)
	cmd.Printf("Email:    %s\n", identity)
	cmd.Printf("Filename: %s\n", identity.Filename())
	cmd.Printf("Address:  %s\n", address)
	return nil
}

// parseTarget validates an <email> <group> argument pair.
func parseTarget(args []string) (domain.Identity, domain.ResourceGroup, error) {
	identity, ok := domain.ParseIdentity(args[0])
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not an email", domain.ErrInvalidInput, args[0])
	}
	group := strings.TrimSpace(args[1])
	if group == "" {
		return "", "", fmt.Errorf("%w: empty group", domain.ErrInvalidInput)
	}
	return identity, domain.ResourceGroup(group), nil
}

// baseURL returns the configured base URL, or the default one.
func baseURL() string {
	if settingsService == nil {
		return domain.DefaultBaseURL
	}
	settings, err := settingsService.Get()
	if err != nil {
		return domain.DefaultBaseURL
	}
	return settings.Probe.BaseURL
}
