package driving

import (
	"context"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

// ExistenceProber checks whether a document exists at a resource address.
type ExistenceProber interface {
	// Probe checks address under policy and always returns exactly one outcome.
	// Transport failures are folded into domain.OutcomeTransportFailure.
	Probe(ctx context.Context, address domain.ResourceAddress, policy domain.ProbePolicy) domain.ProbeOutcome
}
