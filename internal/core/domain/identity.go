package domain

import (
	"strings"
)

// Identity is an email-like token naming the holder of a certificate.
// It is expected to contain an `@` separating local part and domain.
type Identity string

// ParseIdentity trims raw input and reports whether it is a valid identity.
// An identity is valid iff it is non-empty after trimming and contains `@`.
func ParseIdentity(raw string) (Identity, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !strings.Contains(trimmed, "@") {
		return Identity(trimmed), false
	}
	return Identity(trimmed), true
}

// String returns the identity text.
func (i Identity) String() string {
	return string(i)
}

// Stem returns the identity with every `@` replaced by `_`.
// No other character is touched; case and dots are preserved.
//
// Identities holding several `@` characters can collide with ones that
// hold `_` in the same place. That ambiguity is kept as observed.
func (i Identity) Stem() string {
	return strings.ReplaceAll(string(i), "@", "_")
}

// Filename returns the document file name expected for the identity.
func (i Identity) Filename() string {
	return i.Stem() + ".pdf"
}
