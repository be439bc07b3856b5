package domain

import (
	"errors"
	"fmt"
)

// OutcomeKind classifies the result of one existence check.
type OutcomeKind string

// Outcome kinds.
const (
	// OutcomeConfirmed means the resource exists and is a PDF.
	OutcomeConfirmed OutcomeKind = "confirmed"

	// OutcomeWrongType means the resource exists but is not a PDF.
	OutcomeWrongType OutcomeKind = "wrong_type"

	// OutcomeNotFound means the remote answered with a non-success status.
	OutcomeNotFound OutcomeKind = "not_found"

	// OutcomeTransportFailure means every attempt failed at the network level.
	OutcomeTransportFailure OutcomeKind = "transport_failure"
)

// IsValid returns true if the kind is recognised.
func (k OutcomeKind) IsValid() bool {
	switch k {
	case OutcomeConfirmed, OutcomeWrongType, OutcomeNotFound, OutcomeTransportFailure:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k OutcomeKind) String() string {
	return string(k)
}

// Status returns the report status for the kind: FOUND for confirmed
// documents and MISSING for everything else.
func (k OutcomeKind) Status() string {
	if k == OutcomeConfirmed {
		return StatusFound
	}
	return StatusMissing
}

// Report status values.
const (
	StatusFound   = "FOUND"
	StatusMissing = "MISSING"
)

// FailureClass names the kind of network-level failure.
type FailureClass string

// Failure classes.
const (
	// FailureTimeout is a request that did not complete in time.
	FailureTimeout FailureClass = "timeout"

	// FailureConnection is a dial, DNS or connection reset failure.
	FailureConnection FailureClass = "connection"

	// FailureRequest is any other request error.
	FailureRequest FailureClass = "request"
)

// String returns the string representation.
func (c FailureClass) String() string {
	return string(c)
}

// TransportError is a network-level failure reported by a transport.
type TransportError struct {
	Class FailureClass
	Err   error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("transport %s", e.Class)
	}
	return fmt.Sprintf("transport %s: %v", e.Class, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ClassifyTransportError returns the failure class of err.
// Errors that are not a *TransportError are treated as request errors.
func ClassifyTransportError(err error) FailureClass {
	var te *TransportError
	if errors.As(err, &te) && te.Class != "" {
		return te.Class
	}
	return FailureRequest
}

// ProbeOutcome is the classified result of probing one resource address.
type ProbeOutcome struct {
	// Kind is the outcome classification.
	Kind OutcomeKind

	// Address is the resource address that was probed.
	Address ResourceAddress

	// Diagnostic is a human-readable explanation of the outcome.
	Diagnostic string

	// StatusCode is the HTTP status of the final response, 0 if none was received.
	StatusCode int

	// ContentType is the media type reported by the remote, if any.
	ContentType string

	// Attempts is the number of requests issued.
	Attempts int

	// Failure is the class of the last transport failure.
	// Only set for OutcomeTransportFailure.
	Failure FailureClass
}

// Found reports whether the identity counts as found.
// Only confirmed outcomes are found.
func (o ProbeOutcome) Found() bool {
	return o.Kind == OutcomeConfirmed
}
