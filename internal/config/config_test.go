package config

import (
	"os"
	"path/filepath"
	"testing"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/task"
	"taskflow/internal/view"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	t.Setenv(EnvDB, "")
	path := filepath.Join(t.TempDir(), "sub", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(filepath.Dir(path), DefaultDBName), cfg.DBPath)
	assert.Equal(t, "tasks", cfg.Slot)
	assert.Equal(t, view.AllCategories, cfg.DefaultCategory)
	assert.Equal(t, view.DefaultTrendWeeks, cfg.TrendWeeks)
	assert.Equal(t, "q", cfg.Keys.Quit)

	var onDisk Config
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, toml.Unmarshal(data, &onDisk))
	assert.Equal(t, DefaultDBName, onDisk.DBPath, "the file keeps the relative path")
}

func TestLoadOrCreateReadsExistingFile(t *testing.T) {
	t.Setenv(EnvDB, "")
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	content := `
db_path = "/var/lib/taskflow/data.db"
slot = "habits"
default_category = "work"
default_priority = "bogus"
default_sort = "due"
trend_weeks = 6

[keys]
quit = "x"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/taskflow/data.db", cfg.DBPath)
	assert.Equal(t, "habits", cfg.Slot)
	assert.Equal(t, task.CategoryWork, cfg.DefaultCategory)
	assert.Equal(t, view.AllPriorities, cfg.DefaultPriority, "unknown values fall back")
	assert.Equal(t, view.SortDue, cfg.DefaultSort)
	assert.Equal(t, 6, cfg.TrendWeeks)
	assert.Equal(t, "x", cfg.Keys.Quit)
	assert.Equal(t, "a", cfg.Keys.Add, "missing keys are filled in")
}

func TestTrendWeeksOutOfRangeFallsBack(t *testing.T) {
	t.Setenv(EnvDB, "")
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("trend_weeks = 100000\n"), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, view.DefaultTrendWeeks, cfg.TrendWeeks)
}

func TestLoadOrCreateRejectsInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("db_path = ["), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestDBEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	t.Setenv(EnvDB, "/tmp/override.db")

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.DBPath)
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/taskflow.toml")
	assert.Equal(t, "/etc/taskflow.toml", ResolveConfigPath())

	t.Setenv(EnvConfig, "")
	assert.Equal(t, DefaultConfigFileName, filepath.Base(ResolveConfigPath()))
}

func TestLoadEnvReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	os.Unsetenv("TASKFLOW_TEST_VALUE")
	t.Cleanup(func() { os.Unsetenv("TASKFLOW_TEST_VALUE") })

	require.NoError(t, LoadEnv(), "missing .env is fine")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TASKFLOW_TEST_VALUE=from-dotenv\n"), 0o644))
	require.NoError(t, LoadEnv())
	assert.Equal(t, "from-dotenv", os.Getenv("TASKFLOW_TEST_VALUE"))
}
