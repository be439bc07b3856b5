package file

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "certprobe")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("probe.base_url", "https://mirror.test"))
	require.NoError(t, store.Set("probe.workers", 4))
	require.NoError(t, store.Set("reports.enabled", true))
	require.NoError(t, store.Set("groups.codes", []string{"aa", "bb"}))

	assert.Equal(t, "https://mirror.test", store.GetString("probe.base_url"))
	assert.Equal(t, 4, store.GetInt("probe.workers"))
	assert.True(t, store.GetBool("reports.enabled"))
	assert.Equal(t, []string{"aa", "bb"}, store.GetStringSlice("groups.codes"))

	// Wrong types read as zero values
	assert.Equal(t, "", store.GetString("probe.workers"))
	assert.Equal(t, 0, store.GetInt("probe.base_url"))
	assert.False(t, store.GetBool("probe.base_url"))
	assert.Nil(t, store.GetStringSlice("probe.workers"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	val, ok := store.Get("nonexistent")

	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("probe.max_attempts", 3))
	require.NoError(t, store1.Set("probe.retry_delay", "2s"))
	require.NoError(t, store1.Set("probe.rate_per_second", 1.5))
	require.NoError(t, store1.Set("groups.codes", []string{"aa", "bb"}))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 3, store2.GetInt("probe.max_attempts"))
	assert.Equal(t, "2s", store2.GetString("probe.retry_delay"))
	val, ok := store2.Get("probe.rate_per_second")
	require.True(t, ok)
	assert.InDelta(t, 1.5, val, 0.0001)
	assert.Equal(t, []string{"aa", "bb"}, store2.GetStringSlice("groups.codes"))
}

func TestConfigStore_WritesTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("probe.workers", 2))
	require.NoError(t, store.Set("input.dir", "/data"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "[probe]")
	assert.Contains(t, content, "workers = 2")
	assert.Contains(t, content, "[input]")
	assert.NotContains(t, content, `"probe.workers"`)
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[probe]
base_url = "https://mirror.test/certs"
max_attempts = 2

[groups]
codes = ["aa", "bb"]
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "https://mirror.test/certs", store.GetString("probe.base_url"))
	assert.Equal(t, 2, store.GetInt("probe.max_attempts"))
	assert.Equal(t, []string{"aa", "bb"}, store.GetStringSlice("groups.codes"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[[[invalid"), 0600))

	_, err := NewConfigStore(tmpDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on windows")
	}
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Set_ConflictRollsBack(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("probe.workers", 2))

	err = store.Set("probe", "flat")

	require.Error(t, err)
	_, ok := store.Get("probe")
	assert.False(t, ok, "failed writes are not kept in memory")
	assert.Equal(t, 2, store.GetInt("probe.workers"))
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("a.b", "c"))

	require.NoError(t, store.Save())

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "c", reloaded.GetString("a.b"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("probe.workers", n)
			_ = store.GetInt("probe.workers")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("probe.workers")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested, err := nestMap(map[string]any{"a.b": 1, "a.c": "x", "d": true})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": 1, "c": "x"},
		"d": true,
	}, nested)
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"a": map[string]any{"b": map[string]any{"c": 1}},
		"d": "x",
	}, "")

	assert.Equal(t, map[string]any{"a.b.c": 1, "d": "x"}, flat)
}
