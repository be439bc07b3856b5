// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The existence-verification engine lives here:
//
//   - Prober: bounded-retry existence check of one resource address
//   - BatchVerifier: derives and probes a sequence of identities in order
//   - RunService: reads a group's identities, verifies them and records the run
package services
