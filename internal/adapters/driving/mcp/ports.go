package mcp

import (
	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Run checks groups and serves run history.
	Run driving.RunService

	// Prober checks single addresses.
	Prober driving.ExistenceProber

	// Settings provides the base URL and probe policy.
	// Defaults are used when nil.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Run == nil {
		return ErrMissingRunService
	}
	// Prober and Settings are optional
	return nil
}

// probeSettings returns the configured probe settings, or the defaults.
func (p *Ports) probeSettings() domain.ProbeSettings {
	if p.Settings != nil {
		if s, err := p.Settings.Get(); err == nil {
			return s.Probe
		}
	}
	return domain.DefaultAppSettings().Probe
}
