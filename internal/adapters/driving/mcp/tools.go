package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
)

// TargetInput is the input schema for the derive_address and probe_identity tools.
type TargetInput struct {
	Email string `json:"email" jsonschema:"the email the certificate was issued to"`
	Group string `json:"group" jsonschema:"the resource group (event code) the certificate belongs to"`
}

// DeriveOutput is the output schema for the derive_address tool.
type DeriveOutput struct {
	Email    string `json:"email"`
	Group    string `json:"group"`
	Filename string `json:"filename"`
	Address  string `json:"address"`
}

// ProbeOutput is the output schema for the probe_identity tool.
type ProbeOutput struct {
	Email       string `json:"email"`
	Address     string `json:"address"`
	Found       bool   `json:"found"`
	Kind        string `json:"kind"`
	Diagnostic  string `json:"diagnostic"`
	StatusCode  int    `json:"status_code,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Attempts    int    `json:"attempts"`
}

// VerifyInput is the input schema for the verify_group tool.
type VerifyInput struct {
	Group   string `json:"group" jsonschema:"the resource group whose CSV file is checked"`
	Workers int    `json:"workers,omitempty" jsonschema:"emails checked at once (default: configured)"`
}

// VerifyOutput is the output schema for the verify_group tool.
type VerifyOutput struct {
	RunID       string          `json:"run_id"`
	Group       string          `json:"group"`
	Status      string          `json:"status"`
	Total       int             `json:"total"`
	Found       int             `json:"found"`
	Missing     int             `json:"missing"`
	Skipped     int             `json:"skipped"`
	Failures    []FailureOutput `json:"failures,omitempty"`
	ReportPaths []string        `json:"report_paths,omitempty"`
}

// FailureOutput is an email without a confirmed PDF.
type FailureOutput struct {
	Email      string `json:"email"`
	Address    string `json:"address"`
	Diagnostic string `json:"diagnostic"`
}

// GroupsOutput is the output schema for the list_groups tool.
type GroupsOutput struct {
	Groups []GroupOutput `json:"groups"`
}

// GroupOutput is one configured group.
type GroupOutput struct {
	Group          string `json:"group"`
	InputAvailable bool   `json:"input_available"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "derive_address",
		Description: "Derive the certificate PDF address for an email without making a request",
	}, s.handleDerive)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "probe_identity",
		Description: "Check whether a certificate PDF exists for a single email",
	}, s.handleProbe)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "verify_group",
		Description: "Check every email in a group's CSV file and store the run",
	}, s.handleVerify)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_groups",
		Description: "List configured groups and whether their CSV file is present",
	}, s.handleListGroups)
}

// handleDerive handles the derive_address tool invocation.
func (s *Server) handleDerive(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input TargetInput,
) (*mcp.CallToolResult, DeriveOutput, error) {
	identity, group, err := parseTarget(input)
	if err != nil {
		return nil, DeriveOutput{}, err
	}

	address := domain.DeriveAddress(s.ports.probeSettings().BaseURL, identity, group)
	return nil, DeriveOutput{
		Email:    identity.String(),
		Group:    group.String(),
		Filename: identity.Filename(),
		Address:  address.String(),
	}, nil
}

// handleProbe handles the probe_identity tool invocation.
func (s *Server) handleProbe(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TargetInput,
) (*mcp.CallToolResult, ProbeOutput, error) {
	if s.ports.Prober == nil {
		return nil, ProbeOutput{}, ErrMissingProber
	}

	identity, group, err := parseTarget(input)
	if err != nil {
		return nil, ProbeOutput{}, err
	}

	settings := s.ports.probeSettings()
	address := domain.DeriveAddress(settings.BaseURL, identity, group)
	outcome := s.ports.Prober.Probe(ctx, address, settings.Policy())

	return nil, ProbeOutput{
		Email:       identity.String(),
		Address:     outcome.Address.String(),
		Found:       outcome.Found(),
		Kind:        outcome.Kind.String(),
		Diagnostic:  outcome.Diagnostic,
		StatusCode:  outcome.StatusCode,
		ContentType: outcome.ContentType,
		Attempts:    outcome.Attempts,
	}, nil
}

// handleVerify handles the verify_group tool invocation.
func (s *Server) handleVerify(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input VerifyInput,
) (*mcp.CallToolResult, VerifyOutput, error) {
	group := strings.TrimSpace(input.Group)
	if group == "" {
		return nil, VerifyOutput{}, fmt.Errorf("%w: empty group", domain.ErrInvalidInput)
	}

	opts := driving.RunOptions{Workers: input.Workers}
	report, err := s.ports.Run.Run(ctx, domain.ResourceGroup(group), opts, driving.NopObserver{})
	if report == nil {
		if err == nil {
			err = fmt.Errorf("verify %s: no report", group)
		}
		return nil, VerifyOutput{}, err
	}

	// Report-writing errors still leave a usable run.
	return nil, verifyOutput(report), nil
}

// handleListGroups handles the list_groups tool invocation.
func (s *Server) handleListGroups(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, GroupsOutput, error) {
	groups, err := s.ports.Run.Groups(ctx)
	if err != nil {
		return nil, GroupsOutput{}, err
	}

	output := GroupsOutput{Groups: make([]GroupOutput, len(groups))}
	for i, g := range groups {
		output.Groups[i] = GroupOutput{
			Group:          g.Group.String(),
			InputAvailable: g.InputAvailable,
		}
	}
	return nil, output, nil
}

func verifyOutput(report *domain.RunReport) VerifyOutput {
	out := VerifyOutput{
		RunID:       report.ID,
		Group:       report.Group.String(),
		Status:      report.Status.String(),
		Total:       report.Summary.Total,
		Found:       report.Summary.Found,
		Missing:     report.Summary.Missing,
		Skipped:     len(report.Skipped),
		ReportPaths: report.ReportPaths,
	}
	for _, rec := range report.Records {
		if rec.Outcome.Found() {
			continue
		}
		out.Failures = append(out.Failures, FailureOutput{
			Email:      rec.Identity.String(),
			Address:    rec.Outcome.Address.String(),
			Diagnostic: rec.Outcome.Diagnostic,
		})
	}
	return out
}

func parseTarget(input TargetInput) (domain.Identity, domain.ResourceGroup, error) {
	identity, ok := domain.ParseIdentity(input.Email)
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not an email", domain.ErrInvalidInput, input.Email)
	}
	group := strings.TrimSpace(input.Group)
	if group == "" {
		return "", "", fmt.Errorf("%w: empty group", domain.ErrInvalidInput)
	}
	return identity, domain.ResourceGroup(group), nil
}
