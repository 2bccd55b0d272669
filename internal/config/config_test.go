package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
storage:
  driver: "sqlite"
  path: "storage/srms.db"
form:
  university: "Test University"
  programs: ["B.Com", "MBA"]
window:
  title: "Records"
  width: 800
  height: 500
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, "storage/srms.db", cfg.Path)
	assert.Equal(t, "Test University", cfg.University)
	assert.Equal(t, []string{"B.Com", "MBA"}, cfg.Programs)
	assert.Equal(t, "Records", cfg.Title)
	assert.Equal(t, float32(800), cfg.Width)
	assert.Equal(t, float32(500), cfg.Height)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "env: dev\n"))
	require.NoError(t, err)
	assert.Equal(t, DriverJSON, cfg.Driver)
	assert.Equal(t, "srms_records.json", cfg.Path)
	assert.Equal(t, "SRM University AP", cfg.University)
	assert.Equal(t, DefaultPrograms, cfg.Programs)
	assert.Equal(t, float32(600), cfg.Width)
	assert.Equal(t, float32(450), cfg.Height)
}

func TestLoad_DefaultPathFollowsDriver(t *testing.T) {
	cfg, err := Load(writeConfig(t, "storage:\n  driver: sqlite\n"))
	require.NoError(t, err)
	assert.Equal(t, "srms_records.db", cfg.Path)

	t.Setenv("STORAGE_DRIVER", "sqlite")
	cfg, err = Load(writeConfig(t, "env: dev\n"))
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, "srms_records.db", cfg.Path)
}

func TestLoad_EmptyProgramsMeansFreeText(t *testing.T) {
	cfg, err := Load(writeConfig(t, "form:\n  programs: []\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Programs)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_PATH", "/tmp/other.json")
	t.Setenv("UNIVERSITY", "Env University")

	cfg, err := Load(writeConfig(t, `
storage:
  path: "srms_records.json"
`))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.json", cfg.Path)
	assert.Equal(t, "Env University", cfg.University)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	_, err = Load(writeConfig(t, "storage:\n  driver: postgres\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}
