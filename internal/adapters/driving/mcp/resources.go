package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for certprobe resources.
	uriScheme = "certprobe://"

	// historyLimit caps the runs listed by the runs resource.
	historyLimit = 50
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for recent runs.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Most recent check runs, newest first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	// Template for a single run.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "run",
		Description: "A stored run with the outcome of every email",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

type runInfo struct {
	ID         string    `json:"id"`
	Group      string    `json:"group"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Found      int       `json:"found"`
	Missing    int       `json:"missing"`
	Skipped    int       `json:"skipped"`
}

type recordInfo struct {
	Position   int    `json:"position"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Status     string `json:"status"`
	Kind       string `json:"kind"`
	Diagnostic string `json:"diagnostic"`
}

// handleRunsResource returns the most recent runs.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	runs, err := s.ports.Run.History(ctx, "", historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	infos := make([]runInfo, len(runs))
	for i := range runs {
		infos[i] = toRunInfo(runs[i])
	}

	return jsonResult(req.Params.URI, infos)
}

// handleRunResource returns a single run with its records.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract runId from URI: certprobe://runs/{runId}
	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	report, err := s.ports.Run.Get(ctx, runID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	out := struct {
		runInfo
		ReportPaths []string     `json:"report_paths,omitempty"`
		Records     []recordInfo `json:"records"`
	}{
		runInfo:     toRunInfo(report.Info()),
		ReportPaths: report.ReportPaths,
		Records:     make([]recordInfo, len(report.Records)),
	}
	for i, rec := range report.Records {
		out.Records[i] = recordInfo{
			Position:   rec.Position,
			Email:      rec.Identity.String(),
			Address:    rec.Outcome.Address.String(),
			Status:     rec.Outcome.Kind.Status(),
			Kind:       rec.Outcome.Kind.String(),
			Diagnostic: rec.Outcome.Diagnostic,
		}
	}

	return jsonResult(req.Params.URI, out)
}

func toRunInfo(r domain.RunInfo) runInfo {
	return runInfo{
		ID:         r.ID,
		Group:      r.Group.String(),
		Status:     r.Status.String(),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Total:      r.Summary.Total,
		Found:      r.Summary.Found,
		Missing:    r.Summary.Missing,
		Skipped:    r.Skipped,
	}
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRunID extracts the run ID from a URI like certprobe://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
