package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/certprobe/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driving"
	"github.com/custodia-labs/certprobe/internal/core/services"
)

const testBase = "https://certs.example.com/sertifikat"

// mockRunService implements driving.RunService for testing.
// Run replays the stored report for a group through the observer.
type mockRunService struct {
	groups   []domain.GroupStatus
	reports  map[domain.ResourceGroup]*domain.RunReport
	errs     map[domain.ResourceGroup]error
	history  []domain.RunInfo
	err      error
	ran      []domain.ResourceGroup
	lastOpts driving.RunOptions
	deleted  []string
}

func (m *mockRunService) Groups(_ context.Context) ([]domain.GroupStatus, error) {
	return m.groups, m.err
}

func (m *mockRunService) Run(
	_ context.Context,
	group domain.ResourceGroup,
	opts driving.RunOptions,
	observer driving.BatchObserver,
) (*domain.RunReport, error) {
	m.ran = append(m.ran, group)
	m.lastOpts = opts

	report := m.reports[group]
	if report != nil && observer != nil {
		if ro, ok := observer.(driving.RunObserver); ok {
			first := ""
			if len(report.Records) > 0 {
				first = report.Records[0].Identity.String()
			}
			ro.OnRunStart(group, "mem://"+group.String()+".csv", len(report.Records)+len(report.Skipped), first)
		}
		for _, s := range report.Skipped {
			observer.OnSkipped(s)
		}
		for _, rec := range report.Records {
			observer.OnRecord(rec)
		}
	}
	return report, m.errs[group]
}

func (m *mockRunService) RunAll(
	ctx context.Context,
	opts driving.RunOptions,
	observer driving.BatchObserver,
) ([]*domain.RunReport, error) {
	var reports []*domain.RunReport
	for _, g := range m.groups {
		if r, _ := m.Run(ctx, g.Group, opts, observer); r != nil {
			reports = append(reports, r)
		}
	}
	return reports, m.err
}

func (m *mockRunService) History(_ context.Context, group domain.ResourceGroup, _ int) ([]domain.RunInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.RunInfo
	for _, r := range m.history {
		if group == "" || r.Group == group {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRunService) Get(_ context.Context, id string) (*domain.RunReport, error) {
	for _, r := range m.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRunService) Delete(_ context.Context, id string) error {
	if _, err := m.Get(context.Background(), id); err != nil {
		return err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockProber implements driving.ExistenceProber for testing.
// It reports one retry before returning its outcome when retry is set.
type mockProber struct {
	outcome domain.ProbeOutcome
	retry   bool
	address domain.ResourceAddress
	policy  domain.ProbePolicy
}

func (m *mockProber) Probe(
	_ context.Context,
	address domain.ResourceAddress,
	policy domain.ProbePolicy,
) domain.ProbeOutcome {
	m.address = address
	m.policy = policy
	if m.retry && policy.OnRetry != nil {
		policy.OnRetry(domain.RetryAttempt{
			Address:     address,
			Attempt:     1,
			MaxAttempts: policy.MaxAttempts,
			Class:       domain.FailureTimeout,
			Delay:       policy.RetryDelay,
		})
	}
	out := m.outcome
	out.Address = address
	return out
}

// record builds an outcome record under testBase.
func record(pos int, email string, group domain.ResourceGroup, kind domain.OutcomeKind) domain.OutcomeRecord {
	identity := domain.Identity(email)
	diag := "PDF exists"
	if kind != domain.OutcomeConfirmed {
		diag = "HTTP Status: 404"
	}
	return domain.OutcomeRecord{
		Position: pos,
		Identity: identity,
		Outcome: domain.ProbeOutcome{
			Kind:       kind,
			Address:    domain.DeriveAddress(testBase, identity, group),
			Diagnostic: diag,
			Attempts:   1,
		},
	}
}

// testReport returns a completed run for group with one found email
// followed by missing ones.
func testReport(group domain.ResourceGroup, missing int) *domain.RunReport {
	records := []domain.OutcomeRecord{record(0, "found@x.com", group, domain.OutcomeConfirmed)}
	for i := 1; i <= missing; i++ {
		records = append(records, record(i, fmt.Sprintf("miss%d@x.com", i), group, domain.OutcomeNotFound))
	}
	return &domain.RunReport{
		ID:          "run-" + group.String(),
		Group:       group,
		Status:      domain.RunCompleted,
		Records:     records,
		Summary:     domain.Summarise(records),
		ReportPaths: []string{"/reports/" + group.String() + "_results.log"},
	}
}

// setupTestServices installs mock services and returns them with a cleanup func.
func setupTestServices() (*mockRunService, *mockProber, func()) {
	oldRun, oldSettings, oldProber := runService, settingsService, proberService

	run := &mockRunService{
		groups: []domain.GroupStatus{
			{Group: "g1", InputAvailable: true},
			{Group: "g2", InputAvailable: false},
		},
		reports: map[domain.ResourceGroup]*domain.RunReport{
			"g1": testReport("g1", 6),
			"g2": testReport("g2", 0),
		},
		errs: map[domain.ResourceGroup]error{},
	}
	prober := &mockProber{}
	settings := services.NewSettingsService(memory.NewConfigStore(map[string]any{
		domain.SettingBaseURL: testBase,
		domain.SettingGroups:  []string{"g1", "g2"},
	}))

	SetServices(run, settings, prober)
	return run, prober, func() {
		runService, settingsService, proberService = oldRun, oldSettings, oldProber
	}
}

// executeCommand runs the root command with args and returns its output.
// Flags are reset first since cobra keeps their values between executions.
func executeCommand(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
