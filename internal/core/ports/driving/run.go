package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

// RunService runs batches for resource groups and manages run history.
type RunService interface {
	// Groups lists the configured groups and whether their input exists.
	Groups(ctx context.Context) ([]domain.GroupStatus, error)

	// Run verifies every identity of group, persists the run and writes reports.
	// If the identity sequence cannot be obtained, no records are produced
	// and the error is returned.
	Run(ctx context.Context, group domain.ResourceGroup, opts RunOptions, observer BatchObserver) (*domain.RunReport, error)

	// RunAll runs every configured group in order.
	RunAll(ctx context.Context, opts RunOptions, observer BatchObserver) ([]*domain.RunReport, error)

	// History lists past runs, most recent first.
	History(ctx context.Context, group domain.ResourceGroup, limit int) ([]domain.RunInfo, error)

	// Get retrieves a past run with its records.
	Get(ctx context.Context, id string) (*domain.RunReport, error)

	// Delete removes a past run and its records.
	Delete(ctx context.Context, id string) error
}

// RunOptions overrides settings for a single run.
// Zero values keep the configured settings.
type RunOptions struct {
	MaxAttempts int
	RetryDelay  *time.Duration // nil keeps the configured delay, zero is allowed
	Timeout     time.Duration
	Workers     int
	NoReports   bool
}
