package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeKind_IsValid(t *testing.T) {
	tests := []struct {
		kind     OutcomeKind
		expected bool
	}{
		{OutcomeConfirmed, true},
		{OutcomeWrongType, true},
		{OutcomeNotFound, true},
		{OutcomeTransportFailure, true},
		{OutcomeKind(""), false},
		{OutcomeKind("maybe"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.IsValid())
		})
	}
}

func TestOutcomeKind_Status(t *testing.T) {
	assert.Equal(t, "FOUND", OutcomeConfirmed.Status())
	assert.Equal(t, "MISSING", OutcomeWrongType.Status())
	assert.Equal(t, "MISSING", OutcomeNotFound.Status())
	assert.Equal(t, "MISSING", OutcomeTransportFailure.Status())
}

func TestProbeOutcome_Found(t *testing.T) {
	assert.True(t, ProbeOutcome{Kind: OutcomeConfirmed}.Found())
	assert.False(t, ProbeOutcome{Kind: OutcomeWrongType}.Found())
	assert.False(t, ProbeOutcome{Kind: OutcomeNotFound}.Found())
	assert.False(t, ProbeOutcome{Kind: OutcomeTransportFailure}.Found())
}

func TestTransportError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &TransportError{Class: FailureConnection, Err: cause}

	assert.Equal(t, "transport connection: dial tcp: refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "transport timeout", (&TransportError{Class: FailureTimeout}).Error())
}

func TestClassifyTransportError(t *testing.T) {
	wrapped := fmt.Errorf("head: %w", &TransportError{Class: FailureTimeout})

	assert.Equal(t, FailureTimeout, ClassifyTransportError(wrapped))
	assert.Equal(t, FailureRequest, ClassifyTransportError(errors.New("other")))
	assert.Equal(t, FailureRequest, ClassifyTransportError(&TransportError{}))
}
