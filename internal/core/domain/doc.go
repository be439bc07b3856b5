// Package domain defines the core business entities for certprobe.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Identity: An email-like token read from a group's input file
//   - ResourceAddress: The derived location of the expected certificate
//   - ProbeOutcome: The classified result of one existence check
//   - OutcomeRecord: An identity paired with its outcome
//   - RunReport: A completed (or cancelled) batch with its summary
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
