package tui

import "errors"

// ErrMissingRunService is returned when the run service is not provided.
var ErrMissingRunService = errors.New("tui: run service is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("tui: settings service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
