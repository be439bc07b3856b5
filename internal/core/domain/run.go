package domain

import "time"

// RunStatus describes how a run ended.
type RunStatus string

// Run statuses.
const (
	// RunCompleted means every valid identity was probed.
	RunCompleted RunStatus = "completed"

	// RunCancelled means the run was stopped between identities.
	// Its records are a valid prefix of the full batch.
	RunCancelled RunStatus = "cancelled"
)

// String returns the string representation.
func (s RunStatus) String() string {
	return string(s)
}

// RunReport is the durable record of one batch run.
type RunReport struct {
	// ID is the unique identifier for the run.
	ID string

	// Group is the resource group the run checked.
	Group ResourceGroup

	// Status describes how the run ended.
	Status RunStatus

	// StartedAt is when the run started.
	StartedAt time.Time

	// FinishedAt is when the run finished.
	FinishedAt time.Time

	// Records holds the outcome of every probed identity, in input order.
	Records []OutcomeRecord

	// Skipped holds the invalid input entries.
	Skipped []SkippedEntry

	// Summary aggregates Records.
	Summary BatchSummary

	// ReportPaths lists the report files written for the run.
	ReportPaths []string
}

// Duration returns how long the run took.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunInfo is the summary-level view of a stored run, used for listings.
type RunInfo struct {
	ID         string
	Group      ResourceGroup
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Summary    BatchSummary
	Skipped    int
}

// Info returns the summary-level view of the report.
func (r *RunReport) Info() RunInfo {
	return RunInfo{
		ID:         r.ID,
		Group:      r.Group,
		Status:     r.Status,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Summary:    r.Summary,
		Skipped:    len(r.Skipped),
	}
}

// GroupStatus describes a configured group and whether its input exists.
type GroupStatus struct {
	Group          ResourceGroup
	InputAvailable bool
}
