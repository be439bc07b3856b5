package domain

import "strings"

// DefaultBaseURL is the host and fixed path prefix certificates are published under.
const DefaultBaseURL = "https://bbpvpbekasi.kemnaker.go.id/bulanvokasi/sertifikatbv"

// ResourceGroup selects which remote namespace of documents is queried.
// It is immutable for the duration of a batch.
type ResourceGroup string

// String returns the group identifier.
func (g ResourceGroup) String() string {
	return string(g)
}

// ResourceAddress is the fully-qualified location of an expected document.
type ResourceAddress string

// String returns the address text.
func (a ResourceAddress) String() string {
	return string(a)
}

// Filename returns the last path segment of the address.
func (a ResourceAddress) Filename() string {
	s := string(a)
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// DeriveAddress maps an identity within a group to its resource address:
//
//	<base>/<group>/<identity with @ replaced by _>.pdf
//
// It is pure: the same inputs always yield the same address.
// An empty base selects DefaultBaseURL. A trailing slash on base is ignored.
func DeriveAddress(base string, identity Identity, group ResourceGroup) ResourceAddress {
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimRight(base, "/")
	return ResourceAddress(base + "/" + string(group) + "/" + identity.Filename())
}
