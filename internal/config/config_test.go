package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mentorhub/go-mentorhub/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/api", cfg.BackendURL)
	require.Equal(t, "http://localhost:8080/api/auth", cfg.AuthURL)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mentorhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"backend_url: https://yaml.example.com/api\nlog_level: debug\n"), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("BACKEND_URL", "https://env.example.com/api")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com/api", cfg.BackendURL)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_InvalidBackendURL(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("BACKEND_URL", "not-a-url")
	t.Chdir(t.TempDir())

	_, err := config.Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "not an http(s) URL")
}
