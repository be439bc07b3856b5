package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/certprobe/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func testRun(id string, group domain.ResourceGroup, started time.Time) *domain.RunReport {
	address := domain.DeriveAddress("https://example.test/certs", "a@x.com", group)
	return &domain.RunReport{
		ID:         id,
		Group:      group,
		Status:     domain.RunCompleted,
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Records: []domain.OutcomeRecord{
			{Position: 0, Identity: "a@x.com", Outcome: domain.ProbeOutcome{
				Kind:        domain.OutcomeConfirmed,
				Address:     address,
				Diagnostic:  "PDF exists",
				StatusCode:  200,
				ContentType: "application/pdf",
				Attempts:    1,
			}},
			{Position: 2, Identity: "b@x.com", Outcome: domain.ProbeOutcome{
				Kind:       domain.OutcomeTransportFailure,
				Address:    domain.DeriveAddress("https://example.test/certs", "b@x.com", group),
				Diagnostic: "Connection timeout (failed after 5 attempts)",
				Attempts:   5,
				Failure:    domain.FailureTimeout,
			}},
		},
		Skipped:     []domain.SkippedEntry{{Position: 1, Raw: "bad"}},
		Summary:     domain.BatchSummary{Total: 2, Found: 1, Missing: 1},
		ReportPaths: []string{"/tmp/g1_results.log"},
	}
}

// ==================== Store Creation Tests ====================

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save(context.Background(), testRun("run-1", "g1", time.Now())))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var version int
	require.NoError(t, second.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	_, err = second.Get(context.Background(), "run-1")
	assert.NoError(t, err, "data survives reopening")
}

// ==================== Run Store Tests ====================

func TestStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	started := time.Date(2025, 5, 1, 8, 0, 0, 123, time.UTC)
	run := testRun("run-1", "g1", started)

	require.NoError(t, store.Save(ctx, run))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, domain.ResourceGroup("g1"), got.Group)
	assert.Equal(t, domain.RunCompleted, got.Status)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, 3*time.Second, got.Duration())
	assert.Equal(t, run.Summary, got.Summary)
	assert.Equal(t, run.Records, got.Records)
	assert.Equal(t, run.Skipped, got.Skipped)
	assert.Equal(t, run.ReportPaths, got.ReportPaths)
}

func TestStore_Save_Replaces(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	run := testRun("run-1", "g1", time.Now())
	require.NoError(t, store.Save(ctx, run))

	run.Status = domain.RunCancelled
	run.Records = run.Records[:1]
	run.Skipped = nil
	require.NoError(t, store.Save(ctx, run))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RunCancelled, got.Status)
	assert.Len(t, got.Records, 1)
	assert.Empty(t, got.Skipped)
}

func TestStore_Save_Invalid(t *testing.T) {
	store := setupTestStore(t)

	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(context.Background(), &domain.RunReport{}), domain.ErrInvalidInput)
}

func TestStore_Save_EmptyRun(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.RunReport{ID: "empty", Group: "g1", Status: domain.RunCancelled}))

	got, err := store.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, got.Records)
	assert.Empty(t, got.ReportPaths)
	assert.True(t, got.StartedAt.IsZero())
}

func TestStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, testRun("old", "g1", base)))
	require.NoError(t, store.Save(ctx, testRun("new", "g1", base.Add(2*time.Hour))))
	require.NoError(t, store.Save(ctx, testRun("other", "g2", base.Add(time.Hour))))

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"new", "other", "old"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, 1, all[0].Skipped)
	assert.Equal(t, domain.BatchSummary{Total: 2, Found: 1, Missing: 1}, all[0].Summary)

	g1, err := store.List(ctx, "g1", 0)
	require.NoError(t, err)
	require.Len(t, g1, 2)
	assert.Equal(t, "new", g1[0].ID)

	limited, err := store.List(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "new", limited[0].ID)
}

func TestStore_List_Empty(t *testing.T) {
	store := setupTestStore(t)

	runs, err := store.List(context.Background(), "g1", 10)

	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testRun("run-1", "g1", time.Now())))

	require.NoError(t, store.Delete(ctx, "run-1"))

	_, err := store.Get(ctx, "run-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var orphans int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM run_records").Scan(&orphans))
	assert.Zero(t, orphans, "records are removed with their run")

	assert.ErrorIs(t, store.Delete(ctx, "run-1"), domain.ErrNotFound)
}
