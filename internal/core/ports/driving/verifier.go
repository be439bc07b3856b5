package driving

import (
	"context"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

// BatchVerifier feeds a sequence of identities through derivation and probing.
type BatchVerifier interface {
	// Verify probes every valid identity in input order.
	// Invalid entries are skipped and reported in the result.
	// On cancellation the partial result is returned together with the context error.
	Verify(ctx context.Context, req VerifyRequest, observer BatchObserver) (*domain.BatchResult, error)
}

// VerifyRequest describes one batch.
type VerifyRequest struct {
	// Identities are the raw entries, in input order.
	Identities []string

	// Group is the resource group to query.
	Group domain.ResourceGroup

	// BaseURL is the address prefix. Empty selects domain.DefaultBaseURL.
	BaseURL string

	// Policy bounds each probe.
	Policy domain.ProbePolicy

	// Workers is the number of identities probed at once. Values below 2 are sequential.
	Workers int
}

// BatchObserver receives live progress from a batch.
// Calls are serialised. OnSkipped and OnRecord arrive in input order
// even when identities are probed in parallel.
type BatchObserver interface {
	// OnSkipped is called for each invalid entry.
	OnSkipped(entry domain.SkippedEntry)

	// OnRetry is called when a probe is about to retry.
	OnRetry(identity domain.Identity, attempt domain.RetryAttempt)

	// OnRecord is called for each outcome record as it is produced.
	OnRecord(record domain.OutcomeRecord)
}

// RunObserver is an optional extension of BatchObserver.
// Run calls OnRunStart once the group's identities have been read.
type RunObserver interface {
	BatchObserver

	// OnRunStart is called before the first identity is probed.
	// first is the group's first entry as read, before validation.
	OnRunStart(group domain.ResourceGroup, location string, entries int, first string)
}

// NopObserver ignores all progress.
type NopObserver struct{}

// OnSkipped implements BatchObserver.
func (NopObserver) OnSkipped(domain.SkippedEntry) {}

// OnRetry implements BatchObserver.
func (NopObserver) OnRetry(domain.Identity, domain.RetryAttempt) {}

// OnRecord implements BatchObserver.
func (NopObserver) OnRecord(domain.OutcomeRecord) {}
