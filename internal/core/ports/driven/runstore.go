package driven

import (
	"context"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

// RunStore persists run history.
type RunStore interface {
	// Save stores a run with all of its records.
	Save(ctx context.Context, report *domain.RunReport) error

	// Get retrieves a run with its records.
	// Returns domain.ErrNotFound if the run does not exist.
	Get(ctx context.Context, id string) (*domain.RunReport, error)

	// List returns the most recent runs first.
	// An empty group lists runs of every group. A limit of 0 or less means no limit.
	List(ctx context.Context, group domain.ResourceGroup, limit int) ([]domain.RunInfo, error)

	// Delete removes a run and its records.
	Delete(ctx context.Context, id string) error
}
