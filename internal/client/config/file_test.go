package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestParseFile_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"api_base_url":    "https://json.example",
		"request_timeout": "15s",
		"edit_budget":     int64(2 * time.Minute),
		"log_level":       "debug",
	})
	require.NoError(t, err)
	path := writeTempFile(t, "cfg.json", b)

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseFile(cfg, path))

	assert.Equal(t, "https://json.example", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2*time.Minute, cfg.EditBudget)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "wikied.db", cfg.StoragePath, "unset fields keep their value")
}

func TestParseFile_YAML(t *testing.T) {
	path := writeTempFile(t, "cfg.yaml", []byte(`
api_base_url: https://yaml.example
storage_path: /var/lib/wikied/state.db
lock_window: 3m
`))

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseFile(cfg, path))

	assert.Equal(t, "https://yaml.example", cfg.APIBaseURL)
	assert.Equal(t, "/var/lib/wikied/state.db", cfg.StoragePath)
	assert.Equal(t, 3*time.Minute, cfg.LockWindow)
}

func TestParseFile_EmptyPathIsNoop(t *testing.T) {
	cfg := &Config{APIBaseURL: "keep"}
	require.NoError(t, parseFile(cfg, ""))
	assert.Equal(t, "keep", cfg.APIBaseURL)
}

func TestParseFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		require.Error(t, parseFile(&Config{}, filepath.Join(t.TempDir(), "nope.json")))
	})
	t.Run("invalid json", func(t *testing.T) {
		path := writeTempFile(t, "bad.json", []byte(`{ this is not valid json`))
		require.Error(t, parseFile(&Config{}, path))
	})
	t.Run("invalid duration", func(t *testing.T) {
		path := writeTempFile(t, "bad.json", []byte(`{"request_timeout": "soon"}`))
		require.Error(t, parseFile(&Config{}, path))
	})
}

func TestLoad_FilePrecedence(t *testing.T) {
	path := writeTempFile(t, "cfg.json", []byte(`{"api_base_url": "https://file.example", "log_level": "warn"}`))

	env := map[string]string{"WIKIED_LOG_LEVEL": "error"}
	cfg, err := Load([]string{"-c", path}, func(k string) string { return env[k] })
	require.NoError(t, err)

	assert.Equal(t, "https://file.example", cfg.APIBaseURL)
	assert.Equal(t, "error", cfg.LogLevel, "environment overrides file")
}
