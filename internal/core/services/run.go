package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driven"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
	"github.com/custodia-labs/certprobe/internal/logger"
)

// Ensure RunService implements the interface.
var _ driving.RunService = (*RunService)(nil)

// RunService runs resource groups end to end: it reads identities,
// verifies them, stores the run and writes report files.
type RunService struct {
	settings driving.SettingsService
	source   driven.IdentitySource
	verifier driving.BatchVerifier
	store    driven.RunStore
	sinks    []driven.ReportSink
	now      func() time.Time
}

// NewRunService creates a new run service.
// The store and sinks are optional - without them runs are not persisted.
func NewRunService(
	settings driving.SettingsService,
	source driven.IdentitySource,
	verifier driving.BatchVerifier,
	store driven.RunStore,
	sinks ...driven.ReportSink,
) *RunService {
	return &RunService{
		settings: settings,
		source:   source,
		verifier: verifier,
		store:    store,
		sinks:    sinks,
		now:      time.Now,
	}
}

// Groups lists the configured groups and whether their input exists.
func (s *RunService) Groups(_ context.Context) ([]domain.GroupStatus, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	statuses := make([]domain.GroupStatus, 0, len(settings.Groups))
	for _, g := range settings.Groups {
		statuses = append(statuses, domain.GroupStatus{
			Group:          g,
			InputAvailable: s.source.Has(g),
		})
	}
	return statuses, nil
}

// Run verifies every identity of group and records the run.
//
// If the identities cannot be read no records are produced and the error is
// returned. A cancelled run is still stored and reported with the records
// produced before cancellation, and the context error is returned with it.
func (s *RunService) Run(
	ctx context.Context,
	group domain.ResourceGroup,
	opts driving.RunOptions,
	observer driving.BatchObserver,
) (*domain.RunReport, error) {
	if group == "" {
		return nil, fmt.Errorf("%w: empty resource group", domain.ErrInvalidInput)
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	applyRunOptions(settings, opts)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	identities, err := s.source.Identities(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("read identities for %s: %w", group, err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("read identities for %s: %w", group, domain.ErrNoIdentities)
	}

	location := s.source.Location(group)
	logger.Info("Read %d entries for group %s from %s", len(identities), group, location)
	if ro, ok := observer.(driving.RunObserver); ok {
		ro.OnRunStart(group, location, len(identities), identities[0])
	}

	report := &domain.RunReport{
		ID:        uuid.NewString(),
		Group:     group,
		Status:    domain.RunCompleted,
		StartedAt: s.now(),
	}

	result, verr := s.verifier.Verify(ctx, driving.VerifyRequest{
		Identities: identities,
		Group:      group,
		BaseURL:    settings.Probe.BaseURL,
		Policy:     settings.Probe.Policy(),
		Workers:    settings.Probe.Workers,
	}, observer)
	if verr != nil && !isContextErr(verr) {
		return nil, fmt.Errorf("verify %s: %w", group, verr)
	}
	if verr != nil {
		report.Status = domain.RunCancelled
	}

	report.FinishedAt = s.now()
	if result != nil {
		report.Records = result.Records
		report.Skipped = result.Skipped
		report.Summary = result.Summary
	}

	// Persist even when cancelled; partial records are still valid.
	persistCtx := context.WithoutCancel(ctx)
	var errs []error

	if s.store != nil {
		if err := s.store.Save(persistCtx, report); err != nil {
			errs = append(errs, fmt.Errorf("save run: %w", err))
		} else {
			logger.Debug("Stored run %s", report.ID)
		}
	}

	if !opts.NoReports && settings.Reports.Enabled {
		for _, sink := range s.sinks {
			path, err := sink.Write(persistCtx, report)
			if err != nil {
				errs = append(errs, fmt.Errorf("write %s report: %w", sink.Name(), err))
				continue
			}
			logger.Debug("Wrote %s report to %s", sink.Name(), path)
			report.ReportPaths = append(report.ReportPaths, path)
		}
	}

	if verr != nil {
		errs = append([]error{verr}, errs...)
	}
	return report, errors.Join(errs...)
}

// RunAll runs every configured group in order.
// A group whose input cannot be read is reported in the returned error
// and the loop moves on. Cancellation stops the loop.
func (s *RunService) RunAll(
	ctx context.Context,
	opts driving.RunOptions,
	observer driving.BatchObserver,
) ([]*domain.RunReport, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	var (
		reports []*domain.RunReport
		errs    []error
	)
	for _, group := range settings.Groups {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		report, err := s.Run(ctx, group, opts, observer)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("run %s: %w", group, err))
			if isContextErr(err) {
				break
			}
		}
	}

	return reports, errors.Join(errs...)
}

// History lists past runs, most recent first.
func (s *RunService) History(ctx context.Context, group domain.ResourceGroup, limit int) ([]domain.RunInfo, error) {
	if s.store == nil {
		return nil, nil
	}
	runs, err := s.store.List(ctx, group, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get retrieves a past run with its records.
func (s *RunService) Get(ctx context.Context, id string) (*domain.RunReport, error) {
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	report, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return report, nil
}

// Delete removes a past run.
func (s *RunService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrNotFound
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	logger.Debug("Deleted run %s", id)
	return nil
}

// applyRunOptions overlays per-run overrides onto settings.
func applyRunOptions(settings *domain.AppSettings, opts driving.RunOptions) {
	if opts.MaxAttempts != 0 {
		settings.Probe.MaxAttempts = opts.MaxAttempts
	}
	if opts.RetryDelay != nil {
		settings.Probe.RetryDelay = *opts.RetryDelay
	}
	if opts.Timeout != 0 {
		settings.Probe.Timeout = opts.Timeout
	}
	if opts.Workers != 0 {
		settings.Probe.Workers = opts.Workers
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
