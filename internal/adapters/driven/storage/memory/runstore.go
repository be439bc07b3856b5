package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.RunReport
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.RunReport),
	}
}

// Save stores a run with all of its records.
func (s *RunStore) Save(_ context.Context, report *domain.RunReport) error {
	if report == nil || report.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[report.ID] = copyReport(report)
	return nil
}

// Get retrieves a run with its records.
func (s *RunStore) Get(_ context.Context, id string) (*domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyReport(&report)
	return &out, nil
}

// List returns the most recent runs first.
func (s *RunStore) List(_ context.Context, group domain.ResourceGroup, limit int) ([]domain.RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]domain.RunInfo, 0, len(s.runs))
	for i := range s.runs {
		r := s.runs[i]
		if group != "" && r.Group != group {
			continue
		}
		infos = append(infos, r.Info())
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].StartedAt.After(infos[j].StartedAt)
	})

	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}

// Delete removes a run and its records.
func (s *RunStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.runs, id)
	return nil
}

// copyReport detaches the slices of report from the caller.
func copyReport(report *domain.RunReport) domain.RunReport {
	out := *report
	out.Records = append([]domain.OutcomeRecord(nil), report.Records...)
	out.Skipped = append([]domain.SkippedEntry(nil), report.Skipped...)
	out.ReportPaths = append([]string(nil), report.ReportPaths...)
	return out
}
