package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
)

var checkCmd = &cobra.Command{
	Use:   "check [group...]",
	Short: "Check certificate PDFs for resource groups",
	Long: `Reads <group>.csv for each group and checks whether a certificate PDF
exists for every email in it. Each email is printed as soon as it is
checked, followed by a summary of the group.

Without group arguments or --all an interactive menu is shown.
Press Ctrl+C to stop; emails already checked are kept and reported.`,
	RunE: runCheck,
}

// checkFlags holds the flags of the check command.
var checkFlags struct {
	all      bool
	attempts int
	delay    time.Duration
	timeout  time.Duration
	workers  int
	noReport bool
}

func init() {
	f := checkCmd.Flags()
	f.BoolVarP(&checkFlags.all, "all", "a", false, "Check every configured group")
	f.IntVar(&checkFlags.attempts, "attempts", 0, "Attempts per email on network failure (0 = configured)")
	f.DurationVar(&checkFlags.delay, "delay", 0, "Delay between attempts (default: configured)")
	f.DurationVar(&checkFlags.timeout, "timeout", 0, "Timeout per attempt (0 = configured)")
	f.IntVarP(&checkFlags.workers, "workers", "w", 0, "Emails checked at once (0 = configured)")
	f.BoolVar(&checkFlags.noReport, "no-report", false, "Do not write report files")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	groups, err := selectGroups(ctx, cmd, args)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		cmd.Println("Goodbye!")
		return nil
	}

	opts := checkOptions(cmd)
	p := newPrinter(cmd.OutOrStdout(), effectivePolicy(opts))
	return checkGroups(ctx, p, groups, opts)
}

// checkGroups runs each group in turn, printing a summary after each one.
// Groups that fail are reported and the loop moves on; cancellation stops it.
func checkGroups(ctx context.Context, p *printer, groups []domain.ResourceGroup, opts driving.RunOptions) error {
	var errs []error
	for _, group := range groups {
		report, err := runService.Run(ctx, group, opts, p)
		if report != nil {
			p.Summary(report)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("check cancelled: %w", err)
		}
		if report == nil {
			p.Failed(group, err)
		}
		errs = append(errs, fmt.Errorf("check %s: %w", group, err))
	}
	return errors.Join(errs...)
}

// selectGroups resolves which groups to check from the arguments, --all,
// or the interactive menu.
func selectGroups(ctx context.Context, cmd *cobra.Command, args []string) ([]domain.ResourceGroup, error) {
	if checkFlags.all && len(args) > 0 {
		return nil, errors.New("use either group arguments or --all, not both")
	}

	if len(args) > 0 {
		groups := make([]domain.ResourceGroup, 0, len(args))
		for _, arg := range args {
			arg = strings.TrimSpace(arg)
			if arg == "" {
				return nil, fmt.Errorf("%w: empty group", domain.ErrInvalidInput)
			}
			groups = append(groups, domain.ResourceGroup(arg))
		}
		return groups, nil
	}

	statuses, err := runService.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	if len(statuses) == 0 {
		return nil, errors.New("no groups configured")
	}

	if checkFlags.all {
		groups := make([]domain.ResourceGroup, len(statuses))
		for i, s := range statuses {
			groups[i] = s.Group
		}
		return groups, nil
	}

	if !interactiveInput(cmd) {
		return nil, errors.New("no group given: pass group codes or --all")
	}
	return groupMenu(cmd.InOrStdin(), cmd.OutOrStdout(), statuses), nil
}

// checkOptions builds run overrides from the check flags.
func checkOptions(cmd *cobra.Command) driving.RunOptions {
	opts := driving.RunOptions{
		MaxAttempts: checkFlags.attempts,
		Timeout:     checkFlags.timeout,
		Workers:     checkFlags.workers,
		NoReports:   checkFlags.noReport,
	}
	if cmd.Flags().Changed("delay") {
		delay := checkFlags.delay
		opts.RetryDelay = &delay
	}
	return opts
}

// effectivePolicy returns the configured probe policy with opts applied.
func effectivePolicy(opts driving.RunOptions) domain.ProbePolicy {
	policy := domain.DefaultProbePolicy()
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			policy = settings.Probe.Policy()
		}
	}

	if opts.MaxAttempts > 0 {
		policy.MaxAttempts = opts.MaxAttempts
	}
	if opts.RetryDelay != nil {
		policy.RetryDelay = *opts.RetryDelay
	}
	if opts.Timeout > 0 {
		policy.Timeout = opts.Timeout
	}
	return policy
}

// interactiveInput reports whether the command can prompt for input.
// Readers other than a file, as set by tests, count as interactive.
func interactiveInput(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return true
	}
	return term.IsTerminal(int(f.Fd()))
}
