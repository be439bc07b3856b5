package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
)

// mockRunService is a mock implementation of driving.RunService.
type mockRunService struct {
	groups  []domain.GroupStatus
	report  *domain.RunReport
	runs    []domain.RunInfo
	err     error
	lastRun driving.RunOptions
}

func (m *mockRunService) Groups(_ context.Context) ([]domain.GroupStatus, error) {
	return m.groups, m.err
}

func (m *mockRunService) Run(
	_ context.Context,
	_ domain.ResourceGroup,
	opts driving.RunOptions,
	_ driving.BatchObserver,
) (*domain.RunReport, error) {
	m.lastRun = opts
	return m.report, m.err
}

func (m *mockRunService) RunAll(
	_ context.Context,
	_ driving.RunOptions,
	_ driving.BatchObserver,
) ([]*domain.RunReport, error) {
	if m.report == nil {
		return nil, m.err
	}
	return []*domain.RunReport{m.report}, m.err
}

func (m *mockRunService) History(_ context.Context, _ domain.ResourceGroup, _ int) ([]domain.RunInfo, error) {
	return m.runs, m.err
}

func (m *mockRunService) Get(_ context.Context, id string) (*domain.RunReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.report == nil || m.report.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.report, nil
}

func (m *mockRunService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockProber is a mock implementation of driving.ExistenceProber.
type mockProber struct {
	outcome domain.ProbeOutcome
	policy  domain.ProbePolicy
}

func (m *mockProber) Probe(
	_ context.Context,
	address domain.ResourceAddress,
	policy domain.ProbePolicy,
) domain.ProbeOutcome {
	m.policy = policy
	out := m.outcome
	out.Address = address
	return out
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(_, _ string) error { return nil }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) Path() string { return "" }

func testReport() *domain.RunReport {
	base := "https://certs.example.com"
	rec := func(pos int, id string, kind domain.OutcomeKind, diag string) domain.OutcomeRecord {
		identity := domain.Identity(id)
		return domain.OutcomeRecord{
			Position: pos,
			Identity: identity,
			Outcome: domain.ProbeOutcome{
				Kind:       kind,
				Address:    domain.DeriveAddress(base, identity, "g1"),
				Diagnostic: diag,
			},
		}
	}

	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.RunReport{
		ID:         "run-1",
		Group:      "g1",
		Status:     domain.RunCompleted,
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Records: []domain.OutcomeRecord{
			rec(0, "a@x.com", domain.OutcomeConfirmed, "PDF exists"),
			rec(2, "b@x.com", domain.OutcomeNotFound, "HTTP Status: 404"),
		},
		Skipped:     []domain.SkippedEntry{{Position: 1, Raw: "bad"}},
		Summary:     domain.BatchSummary{Total: 2, Found: 1, Missing: 1},
		ReportPaths: []string{"/reports/g1_results.log"},
	}
}
