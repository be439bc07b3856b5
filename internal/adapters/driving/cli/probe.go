package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
)

var probeCmd = &cobra.Command{
	Use:   "probe <email> <group>",
	Short: "Check a single email",
	Long: `Checks whether a certificate PDF exists for one email, using the same
address, retry policy and classification as the check command. Nothing is
stored and no report is written.`,
	Args: cobra.ExactArgs(2),
	RunE: runProbe,
}

// probeFlags holds the flags of the probe command.
var probeFlags struct {
	attempts int
	delay    time.Duration
	timeout  time.Duration
}

func init() {
	f := probeCmd.Flags()
	f.IntVar(&probeFlags.attempts, "attempts", 0, "Attempts on network failure (0 = configured)")
	f.DurationVar(&probeFlags.delay, "delay", 0, "Delay between attempts (default: configured)")
	f.DurationVar(&probeFlags.timeout, "timeout", 0, "Timeout per attempt (0 = configured)")
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	if proberService == nil {
		return errors.New("prober service not configured")
	}

	identity, group, err := parseTarget(args)
	if err != nil {
		return err
	}

	opts := driving.RunOptions{
		MaxAttempts: probeFlags.attempts,
		Timeout:     probeFlags.timeout,
	}
	if cmd.Flags().Changed("delay") {
		delay := probeFlags.delay
		opts.RetryDelay = &delay
	}

	policy := effectivePolicy(opts)
	p := newPrinter(cmd.OutOrStdout(), policy)
	policy.OnRetry = func(attempt domain.RetryAttempt) {
		p.OnRetry(identity, attempt)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := domain.DeriveAddress(baseURL(), identity, group)
	outcome := proberService.Probe(ctx, address, policy)
	p.Outcome(identity, outcome)
	return nil
}
