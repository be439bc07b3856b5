package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errors := []error{
		ErrMissingRunService,
		ErrMissingSettingsService,
		ErrInvalidPorts,
	}

	// Ensure all errors are unique
	seen := make(map[string]bool)
	for _, err := range errors {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrMissingRunService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingRunService.Error(), "run service")
}

func TestErrMissingSettingsService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingSettingsService.Error(), "settings service")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
