package driven

import (
	"context"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

// ReportSink persists a finished run in a human-readable form.
type ReportSink interface {
	// Name identifies the sink in logs.
	Name() string

	// Write persists report and returns the location it was written to.
	Write(ctx context.Context, report *domain.RunReport) (string, error)
}
