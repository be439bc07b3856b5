package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
	"github.com/custodia-labs/certprobe/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch <group>",
	Short: "Re-check a group whenever its CSV file changes",
	Long: `Checks a group, then watches <input.dir>/<group>.csv and checks the
group again each time the file is written. Rapid saves are coalesced.
Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

// watchFlags holds the flags of the watch command.
var watchFlags struct {
	debounce    time.Duration
	skipInitial bool
	noReport    bool
}

func init() {
	f := watchCmd.Flags()
	f.DurationVar(&watchFlags.debounce, "debounce", 500*time.Millisecond, "Quiet period after a change before checking")
	f.BoolVar(&watchFlags.skipInitial, "skip-initial", false, "Wait for the first change instead of checking at start")
	f.BoolVar(&watchFlags.noReport, "no-report", false, "Do not write report files")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if runService == nil {
		return errors.New("run service not configured")
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("%w: empty group", domain.ErrInvalidInput)
	}
	group := domain.ResourceGroup(name)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	target := filepath.Join(settings.Input.Dir, group.String()+".csv")
	w, err := newCSVWatcher(target, watchFlags.debounce)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}
	defer w.Close()

	logger.SetTimestamps(true)
	defer logger.SetTimestamps(false)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := driving.RunOptions{NoReports: watchFlags.noReport}
	p := newPrinter(cmd.OutOrStdout(), effectivePolicy(opts))

	check := func(ctx context.Context) {
		report, err := runService.Run(ctx, group, opts, p)
		if report != nil {
			p.Summary(report)
		}
		switch {
		case err == nil, errors.Is(err, context.Canceled):
		case report == nil:
			p.Failed(group, err)
		default:
			logger.Warn("Check of %s finished with errors: %v", group, err)
		}
		if ctx.Err() == nil {
			cmd.Printf("\nWatching %s for changes (Ctrl+C to stop)...\n", w.target)
		}
	}

	if watchFlags.skipInitial {
		cmd.Printf("Watching %s for changes (Ctrl+C to stop)...\n", w.target)
	} else {
		check(ctx)
	}

	return w.Run(ctx, check)
}

// csvWatcher reports writes to a single file.
// The parent directory is watched so files replaced by editors are still seen.
type csvWatcher struct {
	watcher  *fsnotify.Watcher
	target   string
	debounce time.Duration
}

func newCSVWatcher(target string, debounce time.Duration) (*csvWatcher, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(abs)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info("Watching directory %s for %s", dir, filepath.Base(abs))

	return &csvWatcher{
		watcher:  watcher,
		target:   abs,
		debounce: debounce,
	}, nil
}

// matches reports whether ev is a write to the watched file.
func (w *csvWatcher) matches(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return filepath.Clean(ev.Name) == w.target
}

// Run calls onChange once the watched file has been quiet for the debounce
// period after a write. It returns when ctx is done or the watcher closes.
func (w *csvWatcher) Run(ctx context.Context, onChange func(context.Context)) error {
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.matches(ev) {
				continue
			}
			logger.Debug("Change detected: %s %s", ev.Op, ev.Name)
			fire = time.After(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case <-fire:
			fire = nil
			onChange(ctx)
		}
	}
}

// Close stops watching.
func (w *csvWatcher) Close() error {
	return w.watcher.Close()
}
