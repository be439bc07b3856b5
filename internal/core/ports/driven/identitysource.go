package driven

import (
	"context"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

// IdentitySource supplies the ordered raw identity strings of a resource group.
type IdentitySource interface {
	// Identities returns the raw entries for group, in input order.
	// Entries are not validated; the verifier decides which are usable.
	// Returns domain.ErrInputUnavailable if the input cannot be read at all.
	Identities(ctx context.Context, group domain.ResourceGroup) ([]string, error)

	// Has reports whether input exists for group.
	Has(group domain.ResourceGroup) bool

	// Location returns where input for group is read from.
	Location(group domain.ResourceGroup) string
}
