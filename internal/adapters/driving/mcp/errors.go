// Package mcp provides an MCP (Model Context Protocol) server adapter for certprobe.
// It lets AI assistants derive certificate addresses, check single emails
// and run group checks.
package mcp

import "errors"

// ErrMissingRunService is returned when the run service is not provided.
var ErrMissingRunService = errors.New("mcp: run service is required")

// ErrMissingProber is returned by probe_identity when no prober is configured.
var ErrMissingProber = errors.New("mcp: prober is not configured")
