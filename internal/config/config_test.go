package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kadirpekel/hector-driverloop/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadTaskValid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "task.yaml")
	require.NoError(t, os.WriteFile(path, []byte("task: say hi\n"), 0o644))

	task, err := config.LoadTask(path)
	require.NoError(t, err)
	require.Equal(t, "task: say hi\n", task.Raw)
}

func TestLoadTaskInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "task.yaml")
	require.NoError(t, os.WriteFile(path, []byte("task: [unterminated\n"), 0o644))

	_, err := config.LoadTask(path)
	require.Error(t, err)
}

func TestLoadTaskMissing(t *testing.T) {
	_, err := config.LoadTask(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadEnvMissingIsNotError(t *testing.T) {
	err := config.LoadEnv(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
}

func TestLoadEnvPresent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SLACK_WEBHOOK_URL=https://example.test/hook\n"), 0o644))

	require.NoError(t, config.LoadEnv(path))
	require.Equal(t, "https://example.test/hook", os.Getenv("SLACK_WEBHOOK_URL"))
}
