package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "feedback.db", cfg.DB.Path)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "https://api.cobbl.ai", cfg.Client.BaseURL)
	require.Equal(t, 15*time.Second, cfg.Client.Timeout)
	require.False(t, cfg.Client.Demo)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
db:
  path: /tmp/from-file.db
transport:
  mode: stdio
client:
  base_url: http://localhost:3000
  timeout: 5s
`), 0o600))

	t.Setenv("FEEDBACK_CONFIG_PATH", path)
	t.Setenv("FEEDBACK_DB_PATH", "/tmp/from-env.db")
	t.Setenv("FEEDBACK_DEMO", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/tmp/from-env.db", cfg.DB.Path)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "http://localhost:3000", cfg.Client.BaseURL)
	require.Equal(t, 5*time.Second, cfg.Client.Timeout)
	require.True(t, cfg.Client.Demo)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port not a number", "FEEDBACK_SERVER_PORT", "eighty"},
		{"port out of range", "FEEDBACK_SERVER_PORT", "70000"},
		{"unknown mode", "FEEDBACK_TRANSPORT_MODE", "grpc"},
		{"unknown level", "FEEDBACK_LOG_LEVEL", "trace"},
		{"bad base url", "FEEDBACK_BASE_URL", "not a url"},
		{"bad demo flag", "FEEDBACK_DEMO", "maybe"},
		{"bad timeout", "FEEDBACK_CLIENT_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("FEEDBACK_CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}
