// Package tui provides an interactive terminal user interface for certprobe.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Run checks groups and lists past runs.
	Run driving.RunService

	// Settings manages application settings.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(run driving.RunService, settings driving.SettingsService) *Ports {
	return &Ports{
		Run:      run,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Run == nil {
		return ErrMissingRunService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
